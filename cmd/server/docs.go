// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package main

// @title Reelnotes API
// @version 1.0
// @description Movie reviews, ratings, blog posts and a contact inbox with a single admin account.
// @description
// @description ## Authentication
// @description
// @description Admin endpoints require a JWT. Obtain one from `/api/auth/login` and send it as
// @description `Authorization: Bearer <token>`. The HttpOnly `token` cookie set at login is also accepted.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {"message": "Movie not found", "code": "NOT_FOUND", "requestId": "..."}
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/reelnotes/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT from /api/auth/login sent as "Bearer <token>".
//
// @tag.name Movies
// @tag.description Catalog, filter facets and anonymous ratings
//
// @tag.name Blog
// @tag.description Blog posts
//
// @tag.name Contact
// @tag.description Contact form and admin inbox
//
// @tag.name Auth
// @tag.description Admin login and token verification
//
// @tag.name Core
// @tag.description Health check
