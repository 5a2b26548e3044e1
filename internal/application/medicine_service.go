package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type MedicineService struct {
	Medicines repo.MedicineRepository
	Profiles  repo.ProfileRepository
	Schedules repo.ScheduleRepository
	Tx        repo.Transactor
	Images    ImageStore
	Logger    *logrus.Logger
}

func NewMedicineService(m repo.MedicineRepository, p repo.ProfileRepository, s repo.ScheduleRepository, tx repo.Transactor, images ImageStore, logger *logrus.Logger) *MedicineService {
	return &MedicineService{Medicines: m, Profiles: p, Schedules: s, Tx: tx, Images: images, Logger: logger}
}

// MedicineInput carries the writable fields of a medicine.
type MedicineInput struct {
	Name        string
	ImageURL    string
	Dosage      string
	Quantity    int
	ExpiryDate  time.Time
	Category    string
	Notes       string
	Composition []entity.Composition
	Form        string
}

func (in *MedicineInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Quantity <= 0 || in.ExpiryDate.IsZero() {
		return ErrValidation
	}
	return nil
}

func (in MedicineInput) applyTo(m *entity.Medicine) {
	m.Name = in.Name
	m.ImageURL = in.ImageURL
	m.Dosage = in.Dosage
	m.Quantity = in.Quantity
	m.ExpiryDate = in.ExpiryDate
	m.Category = in.Category
	m.Notes = in.Notes
	m.Composition = in.Composition
	m.Form = in.Form
}

// MedicineQuery narrows List. ProfileID is optional.
type MedicineQuery struct {
	ProfileID       string
	IncludeInactive bool
}

// MedicineWithProfile pairs a medicine with its profile's display name.
type MedicineWithProfile struct {
	Medicine    entity.Medicine
	ProfileName string
}

func (s *MedicineService) denied(userID, medicineID string) {
	incr(metricOwnershipDeny)
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "medicine_id": medicineID}).Warn("medicine ownership check failed")
}

// Create requires the profile to belong to userID.
func (s *MedicineService) Create(ctx context.Context, userID, profileID string, in MedicineInput) (*entity.Medicine, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	owned, err := s.Profiles.ExistsByUserAndID(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, s.foreignProfile(userID, profileID)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &entity.Medicine{UserID: userID, ProfileID: profileID, Status: entity.MedicineActive}
	in.applyTo(m)
	// the insert re-checks ownership, so a profile deleted since the
	// check above still rejects the create
	if err := s.Medicines.Create(ctx, m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, s.foreignProfile(userID, profileID)
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "medicine_id": m.ID}).Info("medicine created")
	return m, nil
}

func (s *MedicineService) foreignProfile(userID, profileID string) error {
	incr(metricOwnershipDeny)
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "profile_id": profileID}).Warn("medicine create on foreign profile")
	return ErrOwnership
}

// Get returns ErrNotFound for missing, foreign and, unless includeInactive,
// deactivated medicines.
func (s *MedicineService) Get(ctx context.Context, userID, id string, includeInactive bool) (*entity.Medicine, error) {
	return s.gate(ctx, userID, "", id, includeInactive)
}

// gate loads the medicine and checks the ownership chain. profileID is
// checked only when non-empty.
func (s *MedicineService) gate(ctx context.Context, userID, profileID, id string, includeInactive bool) (*entity.Medicine, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	m, err := s.Medicines.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !m.OwnedBy(userID, profileID) {
		s.denied(userID, id)
		return nil, ErrNotFound
	}
	if !includeInactive && !m.IsActive() {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *MedicineService) List(ctx context.Context, userID string, q MedicineQuery) ([]entity.Medicine, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	f := repo.MedicineFilter{UserID: userID, ProfileID: q.ProfileID}
	if !q.IncludeInactive {
		f.Status = entity.MedicineActive
	}
	return s.Medicines.List(ctx, f)
}

// ListWithProfile returns the active medicines of userID with profile names.
func (s *MedicineService) ListWithProfile(ctx context.Context, userID string) ([]MedicineWithProfile, error) {
	meds, err := s.List(ctx, userID, MedicineQuery{})
	if err != nil {
		return nil, err
	}
	profiles, err := s.Profiles.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}
	out := make([]MedicineWithProfile, 0, len(meds))
	for _, m := range meds {
		out = append(out, MedicineWithProfile{Medicine: m, ProfileName: names[m.ProfileID]})
	}
	return out, nil
}

// Update replaces the writable fields. A replaced image is removed from the
// image store on a best-effort basis.
func (s *MedicineService) Update(ctx context.Context, userID, profileID, id string, in MedicineInput) (*entity.Medicine, error) {
	m, err := s.gate(ctx, userID, profileID, id, false)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	oldImage := m.ImageURL
	in.applyTo(m)
	if err := s.Medicines.Update(ctx, m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if oldImage != "" && oldImage != m.ImageURL {
		s.dropImage(ctx, oldImage)
	}
	return m, nil
}

func (s *MedicineService) dropImage(ctx context.Context, url string) {
	if s.Images == nil {
		return
	}
	if _, err := s.Images.Delete(ctx, url); err != nil {
		s.Logger.WithError(err).WithField("url", url).Warn("old medicine image not deleted")
	}
}

// Delete deactivates the medicine and removes its schedules.
func (s *MedicineService) Delete(ctx context.Context, userID, profileID, id string) error {
	if _, err := s.gate(ctx, userID, profileID, id, false); err != nil {
		return err
	}
	// Deactivating first locks the medicine row, so no schedule can be
	// added to it between the two steps.
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Medicines.SetStatus(ctx, id, entity.MedicineInactive); err != nil {
			return err
		}
		_, err := s.Schedules.DeleteByMedicine(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "medicine_id": id}).Info("medicine deactivated")
	return nil
}

// TakeDose decrements the quantity by one. The decrement is a conditional
// update, so concurrent doses never drive the quantity below zero.
func (s *MedicineService) TakeDose(ctx context.Context, userID, profileID, id string) (*entity.Medicine, error) {
	m, err := s.gate(ctx, userID, profileID, id, false)
	if err != nil {
		return nil, err
	}
	if m.Quantity <= 0 {
		return nil, ErrInvalidOperation
	}
	qty, err := s.Medicines.DecrementQuantity(ctx, id)
	if errors.Is(err, repo.ErrConflict) {
		return nil, ErrInvalidOperation
	}
	if err != nil {
		return nil, err
	}
	m.Quantity = qty
	incr(metricDosesTaken)
	return m, nil
}

// MaxImageSize bounds uploads accepted by UploadImage.
const MaxImageSize = 5 << 20

func (s *MedicineService) UploadImage(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if userID == "" {
		return "", ErrAuthRequired
	}
	if len(data) == 0 || len(data) > MaxImageSize || !strings.HasPrefix(contentType, "image/") {
		return "", ErrValidation
	}
	if s.Images == nil {
		return "", ErrUnavailable
	}
	url, err := s.Images.Upload(ctx, data, contentType)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("image upload failed")
		return "", err
	}
	return url, nil
}
