package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type cycleRepository interface {
	List(ctx context.Context) ([]models.Cycle, error)
	ListActive(ctx context.Context) ([]models.Cycle, error)
	FindByID(ctx context.Context, id int64) (*models.Cycle, error)
	Create(ctx context.Context, cycle *models.Cycle) error
	Update(ctx context.Context, cycle *models.Cycle) error
	Delete(ctx context.Context, id int64) error
}

// CycleService handles academic cycles.
type CycleService struct {
	repo      cycleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCycleService constructs the service.
func NewCycleService(repo cycleRepository, validate *validator.Validate, logger *zap.Logger) *CycleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CycleService{repo: repo, validator: validate, logger: logger}
}

// List returns all cycles, or only open and in-progress ones when
// activeOnly is set.
func (s *CycleService) List(ctx context.Context, activeOnly bool) ([]models.Cycle, error) {
	var (
		cycles []models.Cycle
		err    error
	)
	if activeOnly {
		cycles, err = s.repo.ListActive(ctx)
	} else {
		cycles, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cycles")
	}
	return cycles, nil
}

// Get returns one cycle by id.
func (s *CycleService) Get(ctx context.Context, id int64) (*models.Cycle, error) {
	cycle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cycle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle")
	}
	return cycle, nil
}

// Create opens a new academic cycle.
func (s *CycleService) Create(ctx context.Context, req dto.CreateCycleRequest) (*models.Cycle, error) {
	cycle, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cycle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create cycle")
	}
	s.logger.Info("cycle created", zap.Int64("cycle_id", cycle.ID), zap.String("name", cycle.Name))
	return cycle, nil
}

// Update replaces a cycle's data.
func (s *CycleService) Update(ctx context.Context, id int64, req dto.CreateCycleRequest) (*models.Cycle, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	cycle, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	cycle.ID = id
	if err := s.repo.Update(ctx, cycle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cycle")
	}
	return cycle, nil
}

// Delete removes a cycle.
func (s *CycleService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete cycle")
	}
	return nil
}

func (s *CycleService) fromRequest(req dto.CreateCycleRequest) (*models.Cycle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	cycle := &models.Cycle{
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Status:         models.CycleStatusOpen,
	}
	if req.Status != nil {
		cycle.Status = models.CycleStatus(*req.Status)
	}
	if req.StartDate != nil {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start_date")
		}
		cycle.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end_date")
		}
		cycle.EndDate = &end
	}
	if cycle.StartDate != nil && cycle.EndDate != nil && cycle.EndDate.Before(*cycle.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}
	return cycle, nil
}
