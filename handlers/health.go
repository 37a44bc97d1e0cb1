package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/pkg"
)

// readyTimeout, /readyz DB ping'inin üst süresi.
const readyTimeout = 2 * time.Second

// Pinger, hazır olma kontrolünde yoklanan bağımlılık (database.DB).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler, liveness ve readiness kontrolleri.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live godoc
// GET /healthz
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready godoc
// GET /readyz
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("readiness check failed")
		pkg.ErrorWithMessage(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
