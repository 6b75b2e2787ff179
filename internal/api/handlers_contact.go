// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"

	"github.com/tomtom215/reelnotes/internal/logging"
	"github.com/tomtom215/reelnotes/internal/models"
	"github.com/tomtom215/reelnotes/internal/validation"
)

// contactThanks acknowledges a contact submission.
const contactThanks = "Thank you for your message! We will get back to you soon."

// SubmitContact stores a contact form message.
//
// @Summary Submit contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param body body models.ContactRequest true "Message"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /contact [post]
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	msg, err := h.db.CreateContactMessage(r.Context(), &req)
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}

	logging.Ctx(r.Context()).Info().Str("contact_id", msg.ID).Msg("Contact message received")
	respondMessage(w, http.StatusCreated, contactThanks)
}

// ListContactMessages returns every message, newest first.
//
// @Summary List contact messages
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ContactMessage
// @Failure 401 {object} models.ErrorResponse
// @Router /contact [get]
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.db.ListContactMessages(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}
