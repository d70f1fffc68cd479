// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

// Package auth implements the credential lifecycle: registration with
// email verification, and password login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bean-Machinie/beanmachine/internal/models"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
	"github.com/Bean-Machinie/beanmachine/internal/services/email"
)

// BcryptCost is the work factor for password hashes.
const BcryptCost = 10

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var (
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("password must be between 8 and 72 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address is not verified")
	ErrInvalidToken       = errors.New("invalid or already used verification token")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), BcryptCost)

// Service implements registration, verification and login.
type Service struct {
	repo   *repository.Repository
	mailer email.Sender
}

// NewService creates a new auth service.
func NewService(repo *repository.Repository, mailer email.Sender) *Service {
	return &Service{repo: repo, mailer: mailer}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Register creates a new unverified user account with an empty profile
// and sends the verification mail.
//
// The user row and profile row form one logical unit: if the profile
// insert fails after the user row committed, the user row is deleted
// again. A failed mail send does NOT roll anything back; the account
// stays persisted and unverified and the failure is only logged.
func (s *Service) Register(ctx context.Context, emailAddr, password string) (*models.User, error) {
	emailAddr = NormalizeEmail(emailAddr)

	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, ErrInvalidPassword
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, tokenHash, err := email.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	user := &models.User{
		ID:                uuid.NewString(),
		Email:             emailAddr,
		PasswordHash:      string(passwordHash),
		VerificationToken: &tokenHash,
		CreatedAt:         time.Now().UTC(),
	}

	// The unique email constraint is the single authority on duplicates;
	// a prior existence check would just race concurrent registrations.
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.repo.CreateProfile(ctx, user.ID, user.CreatedAt); err != nil {
		// Compensate the committed user row so no account exists
		// without its profile.
		if delErr := s.repo.DeleteUser(ctx, user.ID); delErr != nil {
			slog.Error("failed to compensate user row", "user_id", user.ID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, token); err != nil {
		slog.Warn("verification_mail_failed", "user_id", user.ID, "email", user.Email, "error", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Verify confirms an email address using a single-use token. A second
// attempt with the same token fails because the stored hash is cleared.
func (s *Service) Verify(ctx context.Context, token string) (*models.User, error) {
	user, err := s.repo.GetUserByVerificationToken(ctx, email.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	verifiedAt := time.Now().UTC()
	if err := s.repo.MarkUserVerified(ctx, user.ID, verifiedAt); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}

	user.EmailVerifiedAt = &verifiedAt
	user.VerificationToken = nil

	slog.Info("email_verified", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates a user. Only verified accounts may log in.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*models.User, error) {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison to
			// prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", emailAddr, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", emailAddr, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if !user.Verified() {
		slog.Warn("login_failed", "email", emailAddr, "reason", "email_not_verified")
		return nil, ErrEmailNotVerified
	}

	slog.Info("login_success", "user_id", user.ID, "email", emailAddr)
	return user, nil
}
