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

type transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

type enrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindForStudent(ctx context.Context, enrollmentID, studentID int64) (*models.Enrollment, error)
	PendingChildIDs(ctx context.Context, studentID, packageOfferingID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error)
}

type courseOfferingReader interface {
	FindOffering(ctx context.Context, id int64) (*models.CourseOffering, error)
	OfferingPrice(ctx context.Context, id int64) (float64, error)
}

type packageOfferingReader interface {
	FindOffering(ctx context.Context, id int64) (*models.PackageOffering, error)
	OfferingPrice(ctx context.Context, id int64) (float64, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type eligibility interface {
	CheckCourse(ctx context.Context, studentID int64, offering *models.CourseOffering) error
	CheckPackage(ctx context.Context, studentID int64, offering *models.PackageOffering) error
}

type expander interface {
	Expand(ctx context.Context, studentID int64, offering *models.PackageOffering) ([]models.CreatedEntry, []models.PackageCourseSummary, error)
}

type billingGenerator interface {
	Generate(ctx context.Context, enrollmentID int64, amount float64) (*models.PaymentPlan, *models.Installment, error)
}

type billingStore interface {
	PlanByEnrollment(ctx context.Context, enrollmentID int64) (*models.PaymentPlan, error)
	InstallmentsByPlan(ctx context.Context, planID int64) ([]models.Installment, error)
	CountBlocking(ctx context.Context, planID int64) (int, error)
	DeleteInstallmentsByPlan(ctx context.Context, planID int64) error
	DeletePlan(ctx context.Context, planID int64) error
}

// EnrollmentService coordinates batch enrollment and cancellation. Every
// batch runs inside a single database transaction: either all requested
// items enroll, with their plans and installments, or nothing is written.
type EnrollmentService struct {
	tx          transactor
	enrollments enrollmentStore
	courses     courseOfferingReader
	packages    packageOfferingReader
	students    studentReader
	checker     eligibility
	expander    expander
	billingGen  billingGenerator
	billing     billingStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(
	tx transactor,
	enrollments enrollmentStore,
	courses courseOfferingReader,
	packages packageOfferingReader,
	students studentReader,
	checker eligibility,
	exp expander,
	billingGen billingGenerator,
	billing billingStore,
	validate *validator.Validate,
	logger *zap.Logger,
) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		tx:          tx,
		enrollments: enrollments,
		courses:     courses,
		packages:    packages,
		students:    students,
		checker:     checker,
		expander:    exp,
		billingGen:  billingGen,
		billing:     billing,
		validator:   validate,
		logger:      logger,
	}
}

// Enroll processes a batch of enrollment requests for one student
// atomically. Each item is eligibility checked, enrolled, and billed;
// package items additionally expand into per-course child enrollments that
// share the package's payment plan.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID int64, req dto.EnrollRequest) (*dto.EnrollResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	created := make([]models.CreatedEntry, 0, len(req.Items))
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		for _, item := range req.Items {
			entry, err := s.enrollItem(ctx, studentID, item)
			if err != nil {
				return err
			}
			created = append(created, entry...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("enrollment batch committed",
		zap.Int64("student_id", studentID),
		zap.Int("requested", len(req.Items)),
		zap.Int("created", len(created)),
	)
	return &dto.EnrollResponse{StudentID: studentID, Created: created}, nil
}

func (s *EnrollmentService) enrollItem(ctx context.Context, studentID int64, item dto.EnrollItem) ([]models.CreatedEntry, error) {
	switch item.Type {
	case models.EnrollmentTypeCourse:
		return s.enrollCourse(ctx, studentID, item.ID)
	case models.EnrollmentTypePackage:
		return s.enrollPackage(ctx, studentID, item.ID)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollment type")
	}
}

func (s *EnrollmentService) enrollCourse(ctx context.Context, studentID, offeringID int64) ([]models.CreatedEntry, error) {
	offering, err := s.courses.FindOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	if err := s.checker.CheckCourse(ctx, studentID, offering); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:        studentID,
		CourseOfferingID: &offering.ID,
		Type:             models.EnrollmentTypeCourse,
		Status:           models.EnrollmentStatusPending,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	amount, err := s.courses.OfferingPrice(ctx, offering.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course price")
	}
	plan, first, err := s.billingGen.Generate(ctx, enrollment.ID, amount)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate payment plan")
	}

	entry := models.CreatedEntry{
		EnrollmentID:  enrollment.ID,
		Type:          models.EnrollmentTypeCourse,
		OfferingID:    offering.ID,
		Amount:        amount,
		PaymentPlanID: plan.ID,
	}
	if first != nil {
		entry.InstallmentID = first.ID
	}
	return []models.CreatedEntry{entry}, nil
}

func (s *EnrollmentService) enrollPackage(ctx context.Context, studentID, offeringID int64) ([]models.CreatedEntry, error) {
	offering, err := s.packages.FindOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package offering")
	}
	if err := s.checker.CheckPackage(ctx, studentID, offering); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:         studentID,
		PackageOfferingID: &offering.ID,
		Type:              models.EnrollmentTypePackage,
		Status:            models.EnrollmentStatusPending,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	amount, err := s.packages.OfferingPrice(ctx, offering.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve package price")
	}
	plan, first, err := s.billingGen.Generate(ctx, enrollment.ID, amount)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate payment plan")
	}

	children, courses, err := s.expander.Expand(ctx, studentID, offering)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expand package courses")
	}

	entry := models.CreatedEntry{
		EnrollmentID:  enrollment.ID,
		Type:          models.EnrollmentTypePackage,
		OfferingID:    offering.ID,
		Amount:        amount,
		PaymentPlanID: plan.ID,
		Courses:       courses,
	}
	if first != nil {
		entry.InstallmentID = first.ID
	}
	return append([]models.CreatedEntry{entry}, children...), nil
}

// Cancel removes a pending enrollment along with its payment plan. Paid or
// voucher-backed installments block the cancellation; package enrollments
// drag their pending child enrollments along.
func (s *EnrollmentService) Cancel(ctx context.Context, studentID, enrollmentID int64) error {
	return s.tx.Transact(ctx, func(ctx context.Context) error {
		enrollment, err := s.enrollments.FindForStudent(ctx, enrollmentID, studentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found for this student")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
		}
		if enrollment.Status != models.EnrollmentStatusPending {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "only pending enrollments can be cancelled")
		}

		ids := []int64{enrollment.ID}
		if enrollment.Type == models.EnrollmentTypePackage && enrollment.PackageOfferingID != nil {
			childIDs, err := s.enrollments.PendingChildIDs(ctx, studentID, *enrollment.PackageOfferingID)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package children")
			}
			ids = append(ids, childIDs...)
		}

		for _, id := range ids {
			if err := s.removeBilling(ctx, id); err != nil {
				return err
			}
		}
		if err := s.enrollments.DeleteByIDs(ctx, ids); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollments")
		}

		s.logger.Info("enrollment cancelled",
			zap.Int64("student_id", studentID),
			zap.Int64("enrollment_id", enrollmentID),
			zap.Int("removed", len(ids)),
		)
		return nil
	})
}

// removeBilling deletes the enrollment's plan and installments, refusing
// when any installment shows payment activity.
func (s *EnrollmentService) removeBilling(ctx context.Context, enrollmentID int64) error {
	plan, err := s.billing.PlanByEnrollment(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment plan")
	}
	blocking, err := s.billing.CountBlocking(ctx, plan.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect installments")
	}
	if blocking > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment has paid installments and cannot be cancelled")
	}
	if err := s.billing.DeleteInstallmentsByPlan(ctx, plan.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete installments")
	}
	if err := s.billing.DeletePlan(ctx, plan.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payment plan")
	}
	return nil
}

// ListByStudent returns the student's enrollments with billing context and
// the full installment schedule per plan.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	details, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	for i := range details {
		details[i].Installments = []models.Installment{}
		if details[i].PaymentPlanID == nil {
			continue
		}
		installments, err := s.billing.InstallmentsByPlan(ctx, *details[i].PaymentPlanID)
		if err != nil {
			s.logger.Warn("failed to load installment schedule",
				zap.Int64("payment_plan_id", *details[i].PaymentPlanID),
				zap.Error(err),
			)
			continue
		}
		details[i].Installments = installments
	}
	return details, nil
}
