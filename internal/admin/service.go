package admin

import (
	"context"

	"github.com/tuneuplab/tuneup-booking-backend/internal/auth"
)

type Service interface {
	// Login verifies the credentials and returns the admin and a signed
	// access token.
	Login(ctx context.Context, email, password string) (*Admin, string, error)
}

type service struct {
	repo       Repository
	hasher     auth.PasswordHasher
	jwtManager *auth.JWTManager
}

func NewService(repo Repository, hasher auth.PasswordHasher, jwtManager *auth.JWTManager) Service {
	return &service{
		repo:       repo,
		hasher:     hasher,
		jwtManager: jwtManager,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*Admin, string, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.hasher.Compare(a.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(a.ID, a.Email)
	if err != nil {
		return nil, "", err
	}

	// Best effort; a failed timestamp update must not fail the login.
	_ = s.repo.TouchLastLogin(ctx, a.ID)

	return a, token, nil
}
