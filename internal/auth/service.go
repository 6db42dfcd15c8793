package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service registers users, issues tokens and resolves tokens back to users.
type Service struct {
	users  UserRepository
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates an auth service. A non-positive ttl uses DefaultTokenTTL.
func NewService(users UserRepository, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{users: users, secret: secret, ttl: ttl, now: time.Now}
}

// Register creates an account. The role defaults to viewer.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	// The unique index also catches a racing registration.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     username,
		Email:        in.Email,
		Role:         ParseRole(in.Role),
		CreatedAt:    s.now().UTC(),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed token with the user.
// An unknown username and a wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateAccessToken(user, s.secret, s.now(), s.ttl)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to its stored user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := ParseToken(token, s.secret, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetProfile(ctx, claims.Subject)
	if errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%w: subject no longer exists", ErrTokenInvalid)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
