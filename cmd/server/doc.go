// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

/*
Package main is the entry point for the Reelnotes server.

Reelnotes serves movie reviews with reader ratings, blog posts and a contact
inbox. One administrator, seeded from the environment, manages the content.

# Process Supervision

Long running work runs under a Suture v4 tree:

	RootSupervisor ("reelnotes")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── badger-gc            value log garbage collection
	│   ├── login-lockout-sweep  expired lockout records
	│   ├── login-limiter-sweep  idle login token buckets
	│   ├── facets-cache-sweep   expired facet entries
	│   └── store-backup         snapshots with retention (BACKUP_ENABLED)
	└── APISupervisor ("api-layer")
	    └── http-server

A failing maintenance job is restarted with backoff without touching the
HTTP server.

# Configuration

Settings are layered with Koanf v2: built-in defaults, then an optional
config.yaml (or CONFIG_PATH), then environment variables. A .env file in the
working directory is loaded into the environment first.

	PORT                   listen port (default 5000)
	ENVIRONMENT            development or production
	DATA_DIR               Badger data directory
	UPLOADS_DIR            uploaded images
	MAX_UPLOAD_MB          image size limit (default 5)
	JWT_SECRET             token signing key, required in production
	ADMIN_EMAIL            seeded administrator
	ADMIN_PASSWORD         seeded administrator password
	CORS_ORIGINS           comma separated origins
	LOG_LEVEL, LOG_FORMAT  zerolog level and json or console output
	LOG_FILE               optional rotated log file

# Shutdown

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_TIMEOUT, the supervisor stops the maintenance jobs, and the store is
closed last.
*/
package main
