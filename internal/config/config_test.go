// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/Bean-Machinie/beanmachine/internal/config"
)

// parse runs the flag set with the given arguments and captures the
// resulting configuration.
func parse(t *testing.T, args ...string) *config.Config {
	t.Helper()

	var cfg *config.Config
	cmd := &cli.Command{
		Name:  "beanmachine",
		Flags: config.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg = config.NewFromCLI(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"beanmachine"}, args...)))
	require.NotNil(t, cfg)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "./data/beanmachine.db", cfg.Database.DSN)
	assert.Equal(t, "_session", cfg.Session.CookieName)
	assert.Equal(t, 604800, cfg.Session.MaxAge)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.TLS)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestBaseURLDerivedFromHostAndPort(t *testing.T) {
	cfg := parse(t, "--host", "example.com", "--port", "80")
	assert.Equal(t, "http://example.com", cfg.Server.BaseURL)

	cfg = parse(t, "--host", "example.com", "--port", "9000")
	assert.Equal(t, "http://example.com:9000", cfg.Server.BaseURL)

	// An explicit base URL wins.
	cfg = parse(t, "--base-url", "https://beans.example.com")
	assert.Equal(t, "https://beans.example.com", cfg.Server.BaseURL)
}

func TestSecureCookies(t *testing.T) {
	cfg := parse(t, "--base-url", "https://beans.example.com")
	assert.True(t, cfg.SecureCookies())

	cfg = parse(t)
	assert.False(t, cfg.SecureCookies())
}

func TestIsLocalhost(t *testing.T) {
	assert.True(t, config.IsLocalhost("localhost"))
	assert.True(t, config.IsLocalhost("127.0.0.1"))
	assert.True(t, config.IsLocalhost("app.localhost"))
	assert.False(t, config.IsLocalhost("example.com"))
}
