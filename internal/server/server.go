package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/bmw-wellness/apiserver/config"
	"github.com/bmw-wellness/apiserver/internal/db"
	"github.com/bmw-wellness/apiserver/internal/handlers"
	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/metrics"
	"github.com/bmw-wellness/apiserver/internal/mq"
	"github.com/bmw-wellness/apiserver/internal/services"
	"github.com/bmw-wellness/apiserver/internal/storage"
	"github.com/bmw-wellness/apiserver/internal/store"
	"github.com/bmw-wellness/apiserver/internal/store/gormstore"
)

const (
	defaultPort     = 3000
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 10 * time.Second
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	conn       *db.Conn
	broker     *mq.MQ
	plans      *services.PlanService
	cfg        config.Config
	logger     logrus.FieldLogger
	ready      atomic.Bool
}

// New constructs a Server with basic middleware and defaults. It opens the
// store pool but does not touch the database; Start runs the bootstrap.
func New(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Server, error) {
	conn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	broker, err := mq.Open(ctx, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	var events *mq.Events
	if broker != nil {
		events = mq.NewEvents(broker, logger)
	}

	assets, err := storage.Open(ctx, cfg)
	if err != nil {
		_ = conn.Close()
		if broker != nil {
			_ = broker.Close()
		}
		return nil, err
	}

	userRepo, activityRepo := repositories(conn)
	userService := services.NewUserService(userRepo, events, cfg.BcryptCost)
	planService := services.NewPlanService(activityRepo)

	s := &Server{
		conn:   conn,
		broker: broker,
		plans:  planService,
		cfg:    cfg,
		logger: logger,
	}

	m := metrics.New()
	health := handlers.NewHealthHandler(conn.Driver, s.Ready)
	client := handlers.NewClientHandler(assets, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.RequestLogger(logger),
		m.Middleware,
		middleware.Timeout(60*time.Second),
		middleware.Compress(5),
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}),
		middleware.SetHeader("X-Content-Type-Options", "nosniff"),
		middleware.SetHeader("X-Frame-Options", "DENY"),
		middleware.SetHeader("Referrer-Policy", "no-referrer"),
		middleware.RequestSize(maxBodyBytes),
	)
	router.Handle("/metrics", m.Handler())
	router.Route("/api", func(r chi.Router) {
		r.NotFound(handlers.NotFound)
		r.Get("/health", health.Health)
		r.Group(func(r chi.Router) {
			r.Use(s.requireReady)
			handlers.AuthRouter(r, userService, m, logger)
			handlers.ProfileRouter(r, userService, m, logger)
			handlers.PlanRouter(r, planService, m, logger)
		})
	})
	router.Get("/*", client.Serve)

	port := cfg.ServerPort
	if port == 0 {
		port = defaultPort
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func repositories(conn *db.Conn) (services.UserRepository, services.ActivityRepository) {
	if conn.Driver == config.DriverPostgresJSONB {
		return gormstore.NewUserRepository(conn.Gorm), gormstore.NewActivityRepository(conn.Gorm)
	}
	return store.NewUserRepository(conn.X), store.NewActivityRepository(conn.X)
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Ready reports whether the bootstrap has completed.
func (s *Server) Ready() bool {
	return s.ready.Load()
}

func (s *Server) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"database not ready"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Bootstrap checks connectivity, applies the schema and seeds the activity
// catalog. API routes answer 503 until it succeeds.
func (s *Server) Bootstrap(ctx context.Context) error {
	log := s.logger.WithField("driver", s.conn.Driver)

	if err := s.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := db.Migrate(s.cfg.Database); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	seeded, err := s.plans.SeedCatalog(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	s.ready.Store(true)
	log.WithField("seeded", seeded).Info("database ready")
	return nil
}

// Start serves HTTP and bootstraps the store concurrently. It returns after
// ctx is cancelled and the server has drained, or when either fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()
	go func() {
		if err := s.Bootstrap(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		if ctx.Err() != nil {
			return s.Shutdown(context.Background())
		}
		_ = s.Shutdown(context.Background())
		return err
	}
}

// Shutdown drains in-flight requests, then closes the store and the broker.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	return err
}
