package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-crm/meridian/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Login validates email/password credentials and issues a bearer token. The
// failure distinguishes unknown email from wrong password, matching the API
// contract.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", ErrWrongEmail
		}
		return "", fmt.Errorf("auth: find user: %w", err)
	}
	if !user.IsActive {
		return "", ErrWrongEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrWrongPassword
	}

	token := NewToken()
	expiresAt := time.Now().Add(s.tokens.TTL())
	if err := s.repo.CreateToken(ctx, token, user.ID, expiresAt); err != nil {
		return "", fmt.Errorf("auth: record token: %w", err)
	}
	if err := s.tokens.Put(ctx, token, user.ID); err != nil {
		// Redis is the fast path only; the durable record still resolves.
		if s.logger != nil {
			s.logger.Warn("token cache put failed", slog.Any("error", err))
		}
	}
	return token, nil
}

// Authenticate resolves a bearer token to a user id. Redis answers the
// common case; on a miss the durable record decides between expired and
// invalid, and re-primes the cache.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, shared.ErrTokenInvalid
	}
	userID, ok, err := s.tokens.Get(ctx, token)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("token cache get failed", slog.Any("error", err))
		}
	} else if ok {
		return userID, nil
	}

	record, err := s.repo.FindToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, shared.ErrTokenInvalid
		}
		return 0, fmt.Errorf("auth: find token: %w", err)
	}
	if record.IsExpired() {
		return 0, shared.ErrTokenExpired
	}
	if err := s.tokens.PutUntil(ctx, token, record.UserID, record.ExpiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("token cache reprime failed", slog.Any("error", err))
		}
	}
	return record.UserID, nil
}
