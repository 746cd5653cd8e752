package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mymat/internal/auth"
	"mymat/internal/domain"
	"mymat/internal/repos"
	"mymat/internal/validate"
)

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.Tokens
}

// authenticate checks credentials without touching any session.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}

// Signup creates a USER account and signs the session in.
func (s *AuthService) Signup(ctx context.Context, sid, name, email, password string) (*domain.User, error) {
	u, err := s.CreateUser(ctx, email, name, password, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser validates and stores a new account with a bcrypt-hashed password.
func (s *AuthService) CreateUser(ctx context.Context, email, name, password, role string) (*domain.User, error) {
	name, ok := validate.Name(name)
	if !ok {
		return nil, invalid("name", "Name is required")
	}
	email, ok = validate.Email(email)
	if !ok {
		return nil, invalid("email", "Enter a valid email address")
	}
	if !validate.Password(password) {
		return nil, invalid("password", "Use 8-64 characters with upper and lower case letters, a digit and a symbol")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Create(ctx, email, name, string(hash), role)
	if errors.Is(err, repos.ErrConflict) {
		return nil, ErrEmailTaken
	}
	return u, err
}

// IssueAdminToken exchanges admin credentials for a bearer token.
func (s *AuthService) IssueAdminToken(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", time.Time{}, err
	}
	if !u.IsAdmin() {
		return "", time.Time{}, ErrNotAdmin
	}
	return s.Tokens.Issue(u)
}

// AdminFromToken verifies a bearer token and loads the admin it was issued to.
func (s *AuthService) AdminFromToken(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.Tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(ctx, claims.Subject)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if !u.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return u, nil
}
