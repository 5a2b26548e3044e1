package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

// CatalogService manages the shared medicine catalog. Reads are public;
// writes need an authenticated caller. Search prefers the full-text index
// and falls back to the repository when the index is absent or failing.
type CatalogService struct {
	Repo   repo.GlobalMedicineRepository
	Index  CatalogIndex
	Logger *logrus.Logger
}

func NewCatalogService(r repo.GlobalMedicineRepository, index CatalogIndex, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Repo: r, Index: index, Logger: logger}
}

const (
	defaultCatalogLimit = 20
	maxCatalogLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultCatalogLimit
	}
	if limit > maxCatalogLimit {
		return maxCatalogLimit
	}
	return limit
}

func (s *CatalogService) List(ctx context.Context, limit, offset int) ([]entity.GlobalMedicine, error) {
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, clampLimit(limit), offset)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*entity.GlobalMedicine, error) {
	g, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return g, err
}

func (s *CatalogService) Search(ctx context.Context, q string, limit int) ([]entity.GlobalMedicine, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrValidation
	}
	limit = clampLimit(limit)
	if s.Index != nil {
		res, err := s.Index.Search(ctx, q, limit)
		if err == nil {
			return res, nil
		}
		s.Logger.WithError(err).WithField("q", q).Warn("catalog index search failed, using database")
	}
	return s.Repo.SearchByName(ctx, q, limit)
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]entity.GlobalMedicine, error) {
	return s.Repo.ListByCategory(ctx, strings.TrimSpace(category))
}

func (s *CatalogService) Create(ctx context.Context, userID string, g *entity.GlobalMedicine) (*entity.GlobalMedicine, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return nil, ErrValidation
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.reindex(ctx, g)
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "global_medicine_id": g.ID}).Info("catalog entry created")
	return g, nil
}

func (s *CatalogService) Update(ctx context.Context, userID, id string, g *entity.GlobalMedicine) (*entity.GlobalMedicine, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	g.ID = id
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return nil, ErrValidation
	}
	if err := s.Repo.Update(ctx, g); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.reindex(ctx, g)
	return g, nil
}

func (s *CatalogService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("global_medicine_id", id).Warn("catalog index remove failed")
		}
	}
	return nil
}

func (s *CatalogService) reindex(ctx context.Context, g *entity.GlobalMedicine) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, g); err != nil {
		s.Logger.WithError(err).WithField("global_medicine_id", g.ID).Warn("catalog index failed")
	}
}
