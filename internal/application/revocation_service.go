package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

// RevocationService tracks explicitly invalidated tokens. Only the SHA-256
// fingerprint of a token is stored.
type RevocationService struct {
	Repo   repo.RevokedTokenRepository
	Logger *logrus.Logger
}

func NewRevocationService(r repo.RevokedTokenRepository, logger *logrus.Logger) *RevocationService {
	return &RevocationService{Repo: r, Logger: logger}
}

// Revoke is idempotent.
func (s *RevocationService) Revoke(ctx context.Context, token, userID string, expiresAt time.Time) error {
	err := s.Repo.Insert(ctx, &entity.RevokedToken{
		TokenHash: helpers.TokenFingerprint(token),
		UserID:    userID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}
	incr(metricTokensRevoked)
	return nil
}

func (s *RevocationService) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.Repo.Exists(ctx, helpers.TokenFingerprint(token))
}

// PurgeExpired drops entries whose token has expired by now.
func (s *RevocationService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.Repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Logger.WithField("purged", n).Info("expired revocations purged")
	}
	return n, nil
}

// RevokeAllForUser does nothing. Bulk invalidation happens through the
// password watermark: ResetPassword makes every older token fail validation.
func (s *RevocationService) RevokeAllForUser(_ context.Context, userID string) error {
	s.Logger.WithField("user_id", userID).Debug("bulk revocation delegated to password watermark")
	return nil
}
