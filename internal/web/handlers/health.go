package handlers

import (
	"net/http"

	"github.com/jusunglee/g2pk/internal/db"
)

type HealthHandler struct {
	repo db.Repository
}

func NewHealthHandler(repo db.Repository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Get reports ok, and the number of stored transcriptions when a store is
// configured. A store that cannot be queried makes the check fail.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if h.repo != nil {
		count, err := h.repo.CountTranscriptions(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		resp["stored"] = count
	}
	writeJSON(w, http.StatusOK, resp)
}
