package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type UserService struct {
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewUserService(users repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Logger: logger}
}

func (s *UserService) Me(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateDeviceToken stores the push token; an empty token disables push.
func (s *UserService) UpdateDeviceToken(ctx context.Context, userID, token string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	err := s.Users.UpdateDeviceToken(ctx, userID, strings.TrimSpace(token))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	s.Logger.WithField("user_id", userID).Info("device token updated")
	return nil
}
