package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/metrics"
	"github.com/bmw-wellness/apiserver/internal/plan"
	"github.com/bmw-wellness/apiserver/internal/services"
)

// PlanHandler serves recommendation plans.
type PlanHandler struct {
	planService *services.PlanService
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger
}

func NewPlanHandler(planService *services.PlanService, m *metrics.Metrics, logger logrus.FieldLogger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		metrics:     m,
		logger:      logger,
	}
}

func PlanRouter(r chi.Router, planService *services.PlanService, m *metrics.Metrics, logger logrus.FieldLogger) {
	handler := NewPlanHandler(planService, m, logger)

	r.Get("/plan/{score}", handler.GetPlan)
}

// GetPlan classifies the score path segment and returns the matching plan.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	score, err := plan.ParseScore(chi.URLParam(r, "score"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid score")
		return
	}

	result, err := h.planService.Plan(r.Context(), score)
	if err != nil {
		logging.FromRequest(h.logger, r).WithError(err).Error("build plan")
		writeError(w, http.StatusInternalServerError, "failed to get plan")
		return
	}

	h.metrics.ObservePlan(string(result.Level))
	writeJSON(w, http.StatusOK, result)
}
