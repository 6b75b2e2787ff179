// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

/*
Package api serves the Reelnotes REST API with a chi router.

Routes under /api:

	GET    /movies               list with search, genre, year and sort
	GET    /movies/facets        distinct genres and years
	GET    /movies/{id}          single movie
	POST   /movies               create (admin, multipart or JSON)
	PUT    /movies/{id}          partial update (admin)
	DELETE /movies/{id}          delete (admin)
	POST   /movies/{id}/rate     fold a 1..10 rating into the running mean
	GET    /blog, /blog/{id}     public blog reads
	POST   /blog                 create (admin)
	PUT    /blog/{id}            partial update (admin)
	DELETE /blog/{id}            delete (admin)
	POST   /contact              submit a contact message
	GET    /contact              list messages (admin)
	POST   /auth/login           issue a bearer token
	GET    /auth/verify          describe the presented token (admin)
	GET    /health               store connectivity and uptime

Outside /api the router serves uploaded images at /uploads/*, Prometheus
metrics at /metrics and the OpenAPI UI at /swagger/*.

Every error response is JSON of the form

	{"message": "Movie not found", "code": "NOT_FOUND", "requestId": "..."}

with an optional "fields" object for validation failures.

Image uploads are written before the document that references them. When
the document write fails the new file is removed again, and a replaced or
deleted document's old local file is removed only after the document write
succeeded.
*/
package api
