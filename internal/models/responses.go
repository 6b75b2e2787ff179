// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package models

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error response.
//
//	{"message": "Movie not found", "code": "NOT_FOUND", "requestId": "..."}
type ErrorResponse struct {
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	RequestID string            `json:"requestId,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status   string  `json:"status"`
	Database bool    `json:"database"`
	Uptime   float64 `json:"uptime"`
	Version  string  `json:"version"`
}
