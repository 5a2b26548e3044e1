package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type ProfileService struct {
	Profiles  repo.ProfileRepository
	Medicines repo.MedicineRepository
	Schedules repo.ScheduleRepository
	Tx        repo.Transactor
	Logger    *logrus.Logger
}

func NewProfileService(p repo.ProfileRepository, m repo.MedicineRepository, s repo.ScheduleRepository, tx repo.Transactor, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Profiles: p, Medicines: m, Schedules: s, Tx: tx, Logger: logger}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrValidation
	}
	return name, nil
}

func (s *ProfileService) Create(ctx context.Context, userID, name string) (*entity.Profile, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	taken, err := s.Profiles.ExistsByUserAndName(ctx, userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateProfileName
	}
	p := &entity.Profile{UserID: userID, Name: name}
	if err := s.Profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrDuplicateProfileName
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "profile_id": p.ID}).Info("profile created")
	return p, nil
}

// Get returns ErrNotFound both for missing profiles and profiles of other users.
func (s *ProfileService) Get(ctx context.Context, userID, id string) (*entity.Profile, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	p, err := s.Profiles.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		incr(metricOwnershipDeny)
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "profile_id": id}).Warn("profile ownership check failed")
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *ProfileService) List(ctx context.Context, userID string) ([]entity.Profile, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	return s.Profiles.ListByUser(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID, id, name string) (*entity.Profile, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	name, err = cleanName(name)
	if err != nil {
		return nil, err
	}
	taken, err := s.Profiles.ExistsByUserAndName(ctx, userID, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateProfileName
	}
	if err := s.Profiles.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrDuplicateProfileName
		}
		return nil, err
	}
	p.Name = name
	return p, nil
}

// Delete removes the profile row, deactivates its medicines and removes
// their schedules in one transaction.
func (s *ProfileService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	// The profile row goes first: its lock makes concurrent medicine
	// creates on this profile wait, and the later steps then see them.
	var schedules, medicines int64
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Profiles.Delete(ctx, id); err != nil {
			return err
		}
		var err error
		if medicines, err = s.Medicines.SetStatusByProfile(ctx, id, entity.MedicineInactive); err != nil {
			return err
		}
		schedules, err = s.Schedules.DeleteByProfile(ctx, id)
		return err
	})
	if err != nil {
		s.Logger.WithError(err).WithField("profile_id", id).Error("profile delete failed")
		return err
	}
	s.Logger.WithFields(logrus.Fields{
		"user_id":               userID,
		"profile_id":            id,
		"schedules_deleted":     schedules,
		"medicines_deactivated": medicines,
	}).Info("profile deleted")
	return nil
}
