// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package config

import (
	"fmt"

	"github.com/sethvargo/go-password/password"
)

const generatedSecretLength = 48

// ensureJWTSecret fills an empty JWT secret with a random one in development.
// Tokens signed with a generated secret do not survive a restart.
func (c *Config) ensureJWTSecret() error {
	if c.Security.JWTSecret != "" || !c.IsDevelopment() {
		return nil
	}
	secret, err := GenerateSecret(generatedSecretLength)
	if err != nil {
		return fmt.Errorf("failed to generate development JWT secret: %w", err)
	}
	c.Security.JWTSecret = secret
	c.Security.JWTSecretGenerated = true
	return nil
}

// GenerateSecret returns a random alphanumeric secret of the given length.
func GenerateSecret(length int) (string, error) {
	return password.Generate(length, length/4, 0, false, true)
}
