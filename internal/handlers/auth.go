package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/metrics"
	"github.com/bmw-wellness/apiserver/internal/services"
	"github.com/bmw-wellness/apiserver/internal/store"
	"github.com/bmw-wellness/apiserver/types"
)

// Returned for every duplicate so the response does not reveal which emails
// are registered.
const registerConflictMessage = "unable to register with these details"

// AuthHandler provides registration and login endpoints.
type AuthHandler struct {
	userService *services.UserService
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, m *metrics.Metrics, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		metrics:     m,
		logger:      logger,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, m *metrics.Metrics, logger logrus.FieldLogger) {
	handler := NewAuthHandler(userService, m, logger)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveRegistration("invalid")
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.Password == "" {
		h.metrics.ObserveRegistration("invalid")
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			h.metrics.ObserveRegistration("conflict")
			writeError(w, http.StatusConflict, registerConflictMessage)
		case errors.Is(err, bcrypt.ErrPasswordTooLong):
			h.metrics.ObserveRegistration("invalid")
			writeError(w, http.StatusBadRequest, "password is too long")
		default:
			h.metrics.ObserveRegistration("error")
			logging.FromRequest(h.logger, r).WithError(err).Error("register user")
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	h.metrics.ObserveRegistration("created")
	writeJSON(w, http.StatusOK, RegisterResponse{
		Success: true,
		User:    UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Login verifies credentials and returns the user's profile.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveLogin("invalid")
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		h.metrics.ObserveLogin("invalid")
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.metrics.ObserveLogin("rejected")
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.metrics.ObserveLogin("error")
		logging.FromRequest(h.logger, r).WithError(err).Error("authenticate user")
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	h.metrics.ObserveLogin("success")
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, User: newUserProfile(user)})
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the public part of a user without the score ledger.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserProfile is the public view of a user. It never carries the hash.
type UserProfile struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Scores types.Scores `json:"scores"`
}

type RegisterResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	User    UserProfile `json:"user"`
}

func newUserProfile(user types.User) UserProfile {
	return UserProfile{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Scores: user.Scores,
	}
}
