package routes

import (
	"net/http"

	"github.com/avlukashin/pikgrab/internal/config"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "unconfigured"
	if a.DB != nil {
		dbStatus = "ok"
		if err := a.DB.HealthCheck(r.Context()); err != nil {
			dbStatus = "down"
		}
	}

	respondJSON(w, 200, map[string]interface{}{
		"status":   "ok",
		"version":  config.Version,
		"database": dbStatus,
	})
}
