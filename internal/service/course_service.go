package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	ListOfferings(ctx context.Context) ([]models.CourseOfferingDetail, error)
	ListOfferingsByCourse(ctx context.Context, courseID int64) ([]models.CourseOfferingDetail, error)
	FindOffering(ctx context.Context, id int64) (*models.CourseOffering, error)
	CreateOffering(ctx context.Context, offering *models.CourseOffering) error
	UpdateOffering(ctx context.Context, offering *models.CourseOffering) error
	DeleteOffering(ctx context.Context, id int64) error
}

// CourseService handles the course catalog and per-cycle offerings.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns the course catalog.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns one course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	course := &models.Course{Name: req.Name, Description: req.Description, BasePrice: req.BasePrice}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update replaces a course's catalog entry.
func (s *CourseService) Update(ctx context.Context, id int64, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Name = req.Name
	course.Description = req.Description
	course.BasePrice = req.BasePrice
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course from the catalog.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// ListOfferings returns offerings, optionally scoped to a course.
func (s *CourseService) ListOfferings(ctx context.Context, courseID *int64) ([]models.CourseOfferingDetail, error) {
	var (
		offerings []models.CourseOfferingDetail
		err       error
	)
	if courseID != nil {
		offerings, err = s.repo.ListOfferingsByCourse(ctx, *courseID)
	} else {
		offerings, err = s.repo.ListOfferings(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course offerings")
	}
	return offerings, nil
}

// CreateOffering schedules a course in a cycle.
func (s *CourseService) CreateOffering(ctx context.Context, req dto.CreateCourseOfferingRequest) (*models.CourseOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := s.Get(ctx, req.CourseID); err != nil {
		return nil, err
	}
	offering := &models.CourseOffering{
		CourseID:      req.CourseID,
		CycleID:       req.CycleID,
		TeacherID:     req.TeacherID,
		GroupLabel:    req.GroupLabel,
		PriceOverride: req.PriceOverride,
		Capacity:      req.Capacity,
	}
	if err := s.repo.CreateOffering(ctx, offering); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course offering")
	}
	return offering, nil
}

// UpdateOffering replaces an offering's schedule data.
func (s *CourseService) UpdateOffering(ctx context.Context, id int64, req dto.CreateCourseOfferingRequest) (*models.CourseOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	offering, err := s.repo.FindOffering(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	offering.CourseID = req.CourseID
	offering.CycleID = req.CycleID
	offering.TeacherID = req.TeacherID
	offering.GroupLabel = req.GroupLabel
	offering.PriceOverride = req.PriceOverride
	offering.Capacity = req.Capacity
	if err := s.repo.UpdateOffering(ctx, offering); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course offering")
	}
	return offering, nil
}

// DeleteOffering removes an offering.
func (s *CourseService) DeleteOffering(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOffering(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course offering")
	}
	return nil
}
