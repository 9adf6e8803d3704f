package handlers

import (
	"net/http"
	"runtime"

	"github.com/bmw-wellness/apiserver/internal/db"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Platform string `json:"platform"`
	DBReady  bool   `json:"dbReady"`
}

// HealthHandler reports liveness. It answers before the store is ready.
type HealthHandler struct {
	driver string
	ready  func() bool
}

func NewHealthHandler(driver string, ready func() bool) *HealthHandler {
	return &HealthHandler{driver: driver, ready: ready}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Message:  "wellness API is running",
		Database: db.Describe(h.driver),
		Platform: runtime.GOOS,
		DBReady:  h.ready != nil && h.ready(),
	})
}
