package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

// AuthService registers and authenticates users. A password reset moves the
// user's watermark forward, which invalidates every token issued before it.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger, Now: time.Now}
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Email     string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	tok, exp, err := s.JWT.Issue(u.ID, u.Email, u.PasswordLastChanged)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return nil, err
	}
	return &AuthResult{Token: tok, ExpiresAt: exp, UserID: u.ID, Email: u.Email}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrValidation
	}
	exists, err := s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, PasswordLastChanged: helpers.Watermark(s.Now())}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	incr(metricRegistrations)
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if u == nil {
		helpers.CompareDummy(password)
	}
	if u == nil || !helpers.CompareHashAndPassword(u.Password, password) {
		incr(metricLoginFailures)
		return nil, ErrInvalidCredentials
	}
	incr(metricLogins)
	return s.issue(u)
}

// ResetPassword stores the new password and returns a token issued against
// the new watermark.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) (*AuthResult, error) {
	if newPassword == "" {
		return nil, ErrValidation
	}
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	prev := helpers.Watermark(u.PasswordLastChanged)
	changed := helpers.Watermark(s.Now())
	if !changed.After(prev) {
		changed = prev.Add(time.Microsecond)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash, changed); err != nil {
		return nil, err
	}
	u.Password, u.PasswordLastChanged = hash, changed
	incr(metricPasswordResets)
	s.Logger.WithField("user_id", u.ID).Info("password reset")
	return s.issue(u)
}

// Identify resolves a bearer token into the caller's identity. Any failure,
// including a stale watermark, yields ErrInvalidToken.
func (s *AuthService) Identify(ctx context.Context, token string) (*entity.Identity, error) {
	email, err := s.JWT.ExtractIdentity(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !s.JWT.Validate(token, u.Email, u.PasswordLastChanged) {
		return nil, ErrInvalidToken
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &entity.Identity{UserID: u.ID, Email: u.Email, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}
