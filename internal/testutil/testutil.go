// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bean-Machinie/beanmachine/internal/config"
	"github.com/Bean-Machinie/beanmachine/internal/database"
	"github.com/Bean-Machinie/beanmachine/internal/models"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
	"github.com/Bean-Machinie/beanmachine/internal/services/session"
)

// TestHashKey is a deterministic session hash key for tests.
const TestHashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// NewTestDB creates a throwaway SQLite database for tests.
// A file in t.TempDir is used instead of :memory: because the connection
// pool would otherwise hand out fresh empty in-memory databases.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a verified user with an empty profile.
func NewTestUser(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &models.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    string(hash),
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NoError(t, repo.CreateProfile(ctx, user.ID, now))
	return user
}

// NewTestProject creates a project owned by the given user.
func NewTestProject(t *testing.T, repo *repository.Repository, userID, name string) *models.Project {
	t.Helper()
	now := time.Now().UTC()
	proj := &models.Project{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateProject(context.Background(), proj))
	return proj
}

// NewSessionManager creates a session manager with the test hash key.
func NewSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	mgr, err := session.NewManager(&config.SessionConfig{
		CookieName: "_test_session",
		MaxAge:     3600,
		HashKey:    TestHashKey,
	}, false)
	require.NoError(t, err)
	return mgr
}

// SentMail records one dispatched verification mail.
type SentMail struct {
	To    string
	Token string
}

// MailRecorder is an email.Sender that records instead of sending.
type MailRecorder struct {
	mu   sync.Mutex
	Fail error // when set, SendVerification returns this error
	Sent []SentMail
}

// SendVerification records the mail, or fails when Fail is set.
func (r *MailRecorder) SendVerification(_ context.Context, toEmail, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	r.Sent = append(r.Sent, SentMail{To: toEmail, Token: token})
	return nil
}

// LastToken returns the token of the most recently recorded mail.
func (r *MailRecorder) LastToken(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.Sent)
	return r.Sent[len(r.Sent)-1].Token
}
