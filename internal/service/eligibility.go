package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/models"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type coverageQueries interface {
	HasAccepted(ctx context.Context, studentID int64, itemType models.EnrollmentType, offeringID int64) (bool, error)
	AcceptedPackageCovers(ctx context.Context, studentID, courseOfferingID int64) (bool, error)
	AcceptedPackageCoversByCatalog(ctx context.Context, studentID, courseOfferingID int64) (bool, error)
	AcceptedCourseInPackage(ctx context.Context, studentID, packageOfferingID int64) (bool, error)
	AcceptedCourseInPackageByCatalog(ctx context.Context, studentID, cycleID, packageID int64) (bool, error)
}

// EligibilityChecker decides whether a student may enroll in an offering
// before any row is written. Duplicate and explicit-mapping conflicts are
// hard rejections; the catalog heuristics are best-effort and a failing
// heuristic query never blocks the enrollment.
type EligibilityChecker struct {
	enrollments coverageQueries
	logger      *zap.Logger
}

// NewEligibilityChecker constructs an EligibilityChecker.
func NewEligibilityChecker(enrollments coverageQueries, logger *zap.Logger) *EligibilityChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityChecker{enrollments: enrollments, logger: logger}
}

// CheckCourse validates a course enrollment request against the student's
// accepted enrollments.
func (c *EligibilityChecker) CheckCourse(ctx context.Context, studentID int64, offering *models.CourseOffering) error {
	duplicate, err := c.enrollments.HasAccepted(ctx, studentID, models.EnrollmentTypeCourse, offering.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
	}
	if duplicate {
		return appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this course")
	}

	covered, err := c.enrollments.AcceptedPackageCovers(ctx, studentID, offering.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check package coverage")
	}
	if !covered {
		covered = c.coveredByCatalog(ctx, studentID, offering.ID)
	}
	if covered {
		return appErrors.Clone(appErrors.ErrConflict, "an accepted package enrollment already covers this course")
	}
	return nil
}

// CheckPackage validates a package enrollment request against the student's
// accepted enrollments.
func (c *EligibilityChecker) CheckPackage(ctx context.Context, studentID int64, offering *models.PackageOffering) error {
	duplicate, err := c.enrollments.HasAccepted(ctx, studentID, models.EnrollmentTypePackage, offering.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
	}
	if duplicate {
		return appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this package")
	}

	conflict, err := c.enrollments.AcceptedCourseInPackage(ctx, studentID, offering.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course conflicts")
	}
	if !conflict {
		conflict = c.conflictsByCatalog(ctx, studentID, offering.CycleID, offering.PackageID)
	}
	if conflict {
		return appErrors.Clone(appErrors.ErrConflict, "student already enrolled in courses that belong to this package")
	}
	return nil
}

// coveredByCatalog runs the coarse coverage heuristic. Bundle-mapping data
// can be incomplete, so an error here downgrades to "no signal".
func (c *EligibilityChecker) coveredByCatalog(ctx context.Context, studentID, courseOfferingID int64) bool {
	covered, err := c.enrollments.AcceptedPackageCoversByCatalog(ctx, studentID, courseOfferingID)
	if err != nil {
		c.logger.Warn("package coverage heuristic failed",
			zap.Int64("student_id", studentID),
			zap.Int64("course_offering_id", courseOfferingID),
			zap.Error(err),
		)
		return false
	}
	return covered
}

func (c *EligibilityChecker) conflictsByCatalog(ctx context.Context, studentID, cycleID, packageID int64) bool {
	conflict, err := c.enrollments.AcceptedCourseInPackageByCatalog(ctx, studentID, cycleID, packageID)
	if err != nil {
		c.logger.Warn("course conflict heuristic failed",
			zap.Int64("student_id", studentID),
			zap.Int64("package_id", packageID),
			zap.Error(err),
		)
		return false
	}
	return conflict
}
