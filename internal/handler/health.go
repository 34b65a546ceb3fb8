package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dipansrimany2006/mlink-client/internal/store"
)

type HealthHandler struct {
	store       store.MLinkStore
	environment string
	startTime   time.Time
}

func NewHealthHandler(s store.MLinkStore, environment string) *HealthHandler {
	return &HealthHandler{
		store:       s,
		environment: environment,
		startTime:   time.Now(),
	}
}

type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	TotalMLinks   int    `json:"total_mlinks"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.CountMLinks(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to count mlinks")
		total = 0
	}

	RespondJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       "1.0.0",
		Environment:   h.environment,
		TotalMLinks:   total,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}
