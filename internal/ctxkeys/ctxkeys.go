// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package ctxkeys defines typed context keys used across packages.
package ctxkeys

// User is the context key for the authenticated user identity.
type User struct{}
