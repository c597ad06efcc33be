package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	"github.com/academia-sys/academia-api/internal/repository"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type packageRepository interface {
	List(ctx context.Context) ([]models.PackageDetail, error)
	FindByID(ctx context.Context, id int64) (*models.PackageDetail, error)
	Create(ctx context.Context, pkg *models.Package) error
	Update(ctx context.Context, pkg *models.Package) error
	Delete(ctx context.Context, id int64) error
	AddCourse(ctx context.Context, packageID, courseID int64) error
	RemoveCourse(ctx context.Context, packageID, courseID int64) error
	ListOfferings(ctx context.Context) ([]models.PackageOfferingDetail, error)
	FindOffering(ctx context.Context, id int64) (*models.PackageOffering, error)
	CreateOffering(ctx context.Context, offering *models.PackageOffering) error
	UpdateOffering(ctx context.Context, offering *models.PackageOffering) error
	DeleteOffering(ctx context.Context, id int64) error
	LinkOfferingCourse(ctx context.Context, packageOfferingID, courseOfferingID int64) error
	UnlinkOfferingCourse(ctx context.Context, packageOfferingID, courseOfferingID int64) error
}

// PackageService handles course bundles, their per-cycle offerings and the
// explicit offering-to-offering expansion mapping.
type PackageService struct {
	repo      packageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPackageService constructs the service.
func NewPackageService(repo packageRepository, validate *validator.Validate, logger *zap.Logger) *PackageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageService{repo: repo, validator: validate, logger: logger}
}

// List returns all packages with their course rollup.
func (s *PackageService) List(ctx context.Context) ([]models.PackageDetail, error) {
	packages, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	return packages, nil
}

// Get returns one package by id.
func (s *PackageService) Get(ctx context.Context, id int64) (*models.PackageDetail, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}
	return pkg, nil
}

// Create adds a package.
func (s *PackageService) Create(ctx context.Context, req dto.CreatePackageRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	pkg := &models.Package{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create package")
	}
	return pkg, nil
}

// Update replaces a package's data.
func (s *PackageService) Update(ctx context.Context, id int64, req dto.CreatePackageRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	pkg := &models.Package{ID: id, Name: req.Name, Description: req.Description}
	if err := s.repo.Update(ctx, pkg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update package")
	}
	return pkg, nil
}

// Delete removes a package.
func (s *PackageService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete package")
	}
	return nil
}

// AddCourse attaches a course to the package's catalog definition.
func (s *PackageService) AddCourse(ctx context.Context, packageID, courseID int64) error {
	if _, err := s.Get(ctx, packageID); err != nil {
		return err
	}
	if err := s.repo.AddCourse(ctx, packageID, courseID); err != nil {
		if errors.Is(err, repository.ErrDuplicateLink) {
			return appErrors.Clone(appErrors.ErrConflict, "course already belongs to this package")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add course to package")
	}
	return nil
}

// RemoveCourse detaches a course from the package.
func (s *PackageService) RemoveCourse(ctx context.Context, packageID, courseID int64) error {
	if err := s.repo.RemoveCourse(ctx, packageID, courseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove course from package")
	}
	return nil
}

// ListOfferings returns all package offerings with catalog context.
func (s *PackageService) ListOfferings(ctx context.Context) ([]models.PackageOfferingDetail, error) {
	offerings, err := s.repo.ListOfferings(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list package offerings")
	}
	return offerings, nil
}

// CreateOffering prices a package for a cycle.
func (s *PackageService) CreateOffering(ctx context.Context, req dto.CreatePackageOfferingRequest) (*models.PackageOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := s.Get(ctx, req.PackageID); err != nil {
		return nil, err
	}
	offering := &models.PackageOffering{
		PackageID: req.PackageID,
		CycleID:   req.CycleID,
		BasePrice: req.BasePrice,
	}
	if err := s.repo.CreateOffering(ctx, offering); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create package offering")
	}
	return offering, nil
}

// UpdateOffering replaces a package offering.
func (s *PackageService) UpdateOffering(ctx context.Context, id int64, req dto.CreatePackageOfferingRequest) (*models.PackageOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	offering, err := s.repo.FindOffering(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package offering")
	}
	offering.PackageID = req.PackageID
	offering.CycleID = req.CycleID
	offering.BasePrice = req.BasePrice
	if err := s.repo.UpdateOffering(ctx, offering); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update package offering")
	}
	return offering, nil
}

// DeleteOffering removes a package offering.
func (s *PackageService) DeleteOffering(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOffering(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete package offering")
	}
	return nil
}

// LinkOfferingCourse pins a concrete course offering into the package
// offering's expansion set.
func (s *PackageService) LinkOfferingCourse(ctx context.Context, packageOfferingID, courseOfferingID int64) error {
	if err := s.repo.LinkOfferingCourse(ctx, packageOfferingID, courseOfferingID); err != nil {
		if errors.Is(err, repository.ErrDuplicateLink) {
			return appErrors.Clone(appErrors.ErrConflict, "course offering already linked to this package offering")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link course offering")
	}
	return nil
}

// UnlinkOfferingCourse removes a pinned course offering.
func (s *PackageService) UnlinkOfferingCourse(ctx context.Context, packageOfferingID, courseOfferingID int64) error {
	if err := s.repo.UnlinkOfferingCourse(ctx, packageOfferingID, courseOfferingID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlink course offering")
	}
	return nil
}
