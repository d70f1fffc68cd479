// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"github.com/Bean-Machinie/beanmachine/internal/ctxkeys"
	"github.com/Bean-Machinie/beanmachine/internal/models"
)

// Identity is the resolved request identity attached by the session
// middleware.
type Identity struct {
	ID      string          `json:"id"`
	Email   string          `json:"email"`
	Profile *models.Profile `json:"profile,omitempty"`
}

// SetIdentity attaches the identity to the context.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ctxkeys.User{}, identity)
}

// GetIdentity returns the identity from the context, or nil when the
// request is unauthenticated.
func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(ctxkeys.User{}).(*Identity); ok {
		return identity
	}
	return nil
}

// IsAuthenticated reports whether the context has an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	return GetIdentity(ctx) != nil
}
