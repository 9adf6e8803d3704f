package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/bmw-wellness/apiserver/config"
)

const (
	sqliteDriverName    = "sqlite"
	postgresDriverName  = "postgres"
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
	slowQueryThreshold  = 300 * time.Millisecond
)

func init() {
	sqlx.BindDriver(sqliteDriverName, sqlx.QUESTION)
}

// Conn is the process-wide database handle. Exactly one of X or Gorm is set,
// depending on the configured driver; SQL is always the underlying pool.
type Conn struct {
	Driver string
	SQL    *sql.DB
	X      *sqlx.DB
	Gorm   *gorm.DB
}

// Open creates the connection pool for the configured driver. It does not
// contact the database; call Ping before serving traffic.
func Open(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Conn, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return openSQLite(cfg.Database)
	case config.DriverPostgres:
		return openPostgres(cfg.Database)
	case config.DriverPostgresJSONB:
		return openGorm(cfg.Database, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openSQLite(cfg config.DatabaseConfig) (*Conn, error) {
	if strings.TrimSpace(cfg.SQLitePath) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(cfg.SQLitePath) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// One writer per file; a single connection serializes every statement.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return &Conn{
		Driver: config.DriverSQLite,
		SQL:    sqlDB,
		X:      sqlx.NewDb(sqlDB, sqliteDriverName),
	}, nil
}

func openPostgres(cfg config.DatabaseConfig) (*Conn, error) {
	sqlDB, err := sql.Open(postgresDriverName, PostgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	configurePool(sqlDB, cfg)

	return &Conn{
		Driver: config.DriverPostgres,
		SQL:    sqlDB,
		X:      sqlx.NewDb(sqlDB, postgresDriverName),
	}, nil
}

func openGorm(cfg config.DatabaseConfig, logger logrus.FieldLogger) (*Conn, error) {
	gormLog := gormlogger.Discard
	if logger != nil {
		gormLog = gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	gormDB, err := gorm.Open(postgres.Open(PostgresURL(cfg)), &gorm.Config{
		Logger:                 gormLog,
		TranslateError:         true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, cfg)

	return &Conn{
		Driver: config.DriverPostgresJSONB,
		SQL:    sqlDB,
		Gorm:   gormDB,
	}, nil
}

func configurePool(sqlDB *sql.DB, cfg config.DatabaseConfig) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	sqlDB.SetConnMaxIdleTime(defaultConnMaxIdle)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLife)
	sqlDB.SetMaxIdleConns(min(defaultMaxIdleConns, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
}

// Ping verifies the database is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	return c.SQL.PingContext(ctx)
}

// Close releases the pool.
func (c *Conn) Close() error {
	if c == nil || c.SQL == nil {
		return nil
	}
	return c.SQL.Close()
}

// Describe returns a human readable name of the backing store.
func Describe(driver string) string {
	switch driver {
	case config.DriverSQLite:
		return "SQLite (embedded file)"
	case config.DriverPostgres:
		return "PostgreSQL (text columns)"
	case config.DriverPostgresJSONB:
		return "PostgreSQL (jsonb columns)"
	default:
		return driver
	}
}

// PostgresURL builds the connection URL shared by the postgres drivers and
// the migrator.
func PostgresURL(cfg config.DatabaseConfig) string {
	sslmode := "disable"
	if cfg.UseSSL {
		sslmode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		User:   url.UserPassword(cfg.User, cfg.Password),
		Path:   cfg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}
