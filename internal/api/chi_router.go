// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/reelnotes/internal/auth"
	"github.com/tomtom215/reelnotes/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	authGate      *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, authGate *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		authGate:      authGate,
		chiMiddleware: chiMW,
	}
}

// Setup builds the HTTP handler for every route.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	gate := router.authGate.Authenticate
	write := router.chiMiddleware.RateLimitWrite()

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAPI())
		r.Use(middleware.SecurityHeaders)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/health", router.handler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
			r.With(gate).Get("/verify", router.handler.VerifyToken)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", router.handler.ListMovies)
			r.Get("/facets", router.handler.MovieFacets)
			r.Get("/{id}", router.handler.GetMovie)
			r.With(write).Post("/{id}/rate", router.handler.RateMovie)

			r.Group(func(r chi.Router) {
				r.Use(gate, write)
				r.Post("/", router.handler.CreateMovie)
				r.Put("/{id}", router.handler.UpdateMovie)
				r.Delete("/{id}", router.handler.DeleteMovie)
			})
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", router.handler.ListBlogPosts)
			r.Get("/{id}", router.handler.GetBlogPost)

			r.Group(func(r chi.Router) {
				r.Use(gate, write)
				r.Post("/", router.handler.CreateBlogPost)
				r.Put("/{id}", router.handler.UpdateBlogPost)
				r.Delete("/{id}", router.handler.DeleteBlogPost)
			})
		})

		r.Route("/contact", func(r chi.Router) {
			r.With(write).Post("/", router.handler.SubmitContact)
			r.With(gate, middleware.NoStore).Get("/", router.handler.ListContactMessages)
		})
	})

	r.Handle(PublicUploadsPath+"/*", router.handler.serveUploads())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
