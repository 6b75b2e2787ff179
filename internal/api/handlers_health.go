// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelnotes/internal/models"
)

// Health reports store connectivity and uptime. It answers 503 when the
// store is unreachable so that orchestrators can act on it.
//
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Failure 503 {object} models.HealthStatus
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbOK := h.db != nil && h.db.Ping(r.Context()) == nil

	status := models.HealthStatus{
		Status:   "healthy",
		Database: dbOK,
		Uptime:   time.Since(h.startTime).Seconds(),
		Version:  h.version,
	}

	code := http.StatusOK
	if !dbOK {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, status)
}
