// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package models

import "time"

// ContactMessage is a visitor submission from the contact form. It is never mutated.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"notblank"`
	Email     string    `json:"email" validate:"notblank"`
	Message   string    `json:"message" validate:"notblank"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactRequest is the body of a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank"`
	Message string `json:"message" validate:"notblank"`
}
