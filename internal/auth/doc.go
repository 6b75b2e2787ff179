// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

/*
Package auth implements the Reelnotes admin authentication gate.

Admins log in with email and password. Passwords are stored as bcrypt hashes
and a successful login returns an HS256-signed JWT that is valid for the
configured token TTL (24h by default). Mutating endpoints are wrapped with
Middleware.Authenticate, which accepts the token from an
"Authorization: Bearer <token>" header or, failing that, a "token" cookie.

Repeated failed logins lock the email and the client IP out for a period
that doubles with every lockout:

	svc := auth.NewService(store, jwtManager, auth.NewLockout(auth.DefaultLockoutConfig()))
	resp, err := svc.Login(ctx, req.Email, req.Password, clientIP)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		// 401
	case errors.Is(err, auth.ErrAccountLocked):
		// 429 with Retry-After from auth.RetryAfter(err)
	}

Tokens are stateless; there is no revocation list.
*/
package auth
