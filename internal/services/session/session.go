// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package session issues and validates signed session cookies.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/Bean-Machinie/beanmachine/internal/config"
)

// Claims is the payload carried by a session cookie.
type Claims struct {
	UserID string
	Email  string
}

// Manager encodes and decodes session cookies using HMAC-signed (and
// optionally AES-encrypted) values.
type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager from the session config. An empty
// hash key generates an ephemeral one, which invalidates sessions on
// restart and is only acceptable for development.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := keyFromHex(cfg.HashKey, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey, err = hex.DecodeString(cfg.BlockKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)

	return &Manager{
		codec:      codec,
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}, nil
}

// keyFromHex decodes a hex key or generates a random one when empty.
func keyFromHex(s string, size int) ([]byte, error) {
	if s == "" {
		key := make([]byte, size)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return key, nil
	}
	return hex.DecodeString(s)
}

// CookieName returns the configured cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Create issues a session cookie for the given user.
func (m *Manager) Create(userID, email string) (*http.Cookie, error) {
	encoded, err := m.codec.Encode(m.cookieName, Claims{UserID: userID, Email: email})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Parse validates a session cookie's signature and age and returns its
// claims.
func (m *Manager) Parse(cookie *http.Cookie) (*Claims, error) {
	var claims Claims
	if err := m.codec.Decode(m.cookieName, cookie.Value, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// Clear returns a cookie that removes the session. Always succeeds, so
// logout is idempotent.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
