package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/campusboard/campusboard/shared/logger"
	"github.com/campusboard/campusboard/shared/utils"
)

const readyTimeout = 2 * time.Second

// A role cache that missed this many refresh intervals makes the instance unready.
const staleRefreshes = 3

// Health is a liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready reports whether this instance can serve traffic: storage answers a
// ping and the role cache is loaded and fresh.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	backend := h.cfg.Public.Storage
	if err := h.probes.Storage.Ping(ctx); err != nil {
		logger.Log.Warn("readiness check failed", "storage", backend, "error", err)
		utils.WriteJSON(w, http.StatusServiceUnavailable, "storage unavailable", nil)
		return
	}

	if h.probes.Roles != nil {
		last := h.probes.Roles.LastRefresh()
		if last.IsZero() {
			utils.WriteJSON(w, http.StatusServiceUnavailable, "role cache not loaded", nil)
			return
		}
		interval := h.cfg.Public.RoleCacheRefreshInterval
		if interval > 0 && time.Since(last) > staleRefreshes*interval {
			logger.Log.Warn("role cache is stale", "last_refresh", last)
			utils.WriteJSON(w, http.StatusServiceUnavailable, "role cache stale", nil)
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, "ok: "+backend+" storage", nil)
}
