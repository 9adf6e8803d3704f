package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/metrics"
	"github.com/bmw-wellness/apiserver/internal/services"
	"github.com/bmw-wellness/apiserver/internal/store"
)

// ProfileHandler serves profile reads and score submissions.
type ProfileHandler struct {
	userService *services.UserService
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger
}

func NewProfileHandler(userService *services.UserService, m *metrics.Metrics, logger logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		metrics:     m,
		logger:      logger,
	}
}

// ProfileRouter registers profile and score routes on the given router.
func ProfileRouter(r chi.Router, userService *services.UserService, m *metrics.Metrics, logger logrus.FieldLogger) {
	handler := NewProfileHandler(userService, m, logger)

	r.Get("/profile/{id}", handler.GetProfile)
	r.Post("/score/{id}", handler.RecordScore)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		logging.FromRequest(h.logger, r).WithError(err).WithField("user_id", id).Error("load user")
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, newUserProfile(user))
}

// RecordScore appends the submitted score to the user's ledger.
func (h *ProfileHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Score == nil {
		writeError(w, http.StatusBadRequest, "score is required")
		return
	}

	if _, err := h.userService.RecordScore(r.Context(), id, *req.Score); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		logging.FromRequest(h.logger, r).WithError(err).WithField("user_id", id).Error("record score")
		writeError(w, http.StatusInternalServerError, "failed to save score")
		return
	}

	h.metrics.ObserveScore()
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// ScoreRequest carries one assessment result. A nil Score means the field was
// absent or null.
type ScoreRequest struct {
	Score *float64 `json:"score"`
}
