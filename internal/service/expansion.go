package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/models"
)

type expansionCatalog interface {
	OfferingCourseIDs(ctx context.Context, packageOfferingID int64) ([]int64, error)
	CourseIDs(ctx context.Context, packageID int64) ([]int64, error)
}

type expansionOfferings interface {
	FindEarliestOffering(ctx context.Context, courseID, cycleID int64) (*models.CourseOffering, error)
	OfferingSummary(ctx context.Context, offeringID int64) (*models.PackageCourseSummary, error)
}

type expansionEnrollments interface {
	HasNonCancelledCourse(ctx context.Context, studentID, courseOfferingID int64) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

// PackageExpander materializes the per-course enrollments implied by a
// package enrollment. The explicit package_offering_courses mapping is
// authoritative; when a package offering carries no mapping the expander
// falls back to the package's course list and picks the earliest offering
// of each course in the package's cycle.
//
// Course resolution is best effort. A course with no offering in the cycle,
// or one the student already holds a live enrollment for, is skipped with a
// log line rather than failing the package enrollment.
type PackageExpander struct {
	catalog     expansionCatalog
	offerings   expansionOfferings
	enrollments expansionEnrollments
	logger      *zap.Logger
}

// NewPackageExpander constructs a PackageExpander.
func NewPackageExpander(catalog expansionCatalog, offerings expansionOfferings, enrollments expansionEnrollments, logger *zap.Logger) *PackageExpander {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageExpander{catalog: catalog, offerings: offerings, enrollments: enrollments, logger: logger}
}

// Expand creates child course enrollments for a freshly created package
// enrollment. It returns the entries that were created plus a summary of
// every course the package resolves to, including the skipped ones. Only a
// failed enrollment insert is returned as an error; resolution problems for
// individual courses degrade to skips.
func (e *PackageExpander) Expand(ctx context.Context, studentID int64, offering *models.PackageOffering) ([]models.CreatedEntry, []models.PackageCourseSummary, error) {
	offeringIDs, err := e.resolveOfferings(ctx, offering)
	if err != nil {
		e.logger.Warn("package expansion aborted, could not resolve course offerings",
			zap.Int64("package_offering_id", offering.ID),
			zap.Error(err),
		)
		return nil, nil, nil
	}

	entries := make([]models.CreatedEntry, 0, len(offeringIDs))
	summaries := make([]models.PackageCourseSummary, 0, len(offeringIDs))
	for _, courseOfferingID := range offeringIDs {
		summary, err := e.offerings.OfferingSummary(ctx, courseOfferingID)
		if err != nil {
			e.logger.Warn("skipping package course, offering lookup failed",
				zap.Int64("course_offering_id", courseOfferingID),
				zap.Error(err),
			)
			continue
		}
		summaries = append(summaries, *summary)

		enrolled, err := e.enrollments.HasNonCancelledCourse(ctx, studentID, courseOfferingID)
		if err != nil {
			e.logger.Warn("skipping package course, enrollment lookup failed",
				zap.Int64("course_offering_id", courseOfferingID),
				zap.Error(err),
			)
			continue
		}
		if enrolled {
			continue
		}

		courseOfferingID := courseOfferingID
		child := &models.Enrollment{
			StudentID:         studentID,
			CourseOfferingID:  &courseOfferingID,
			PackageOfferingID: &offering.ID,
			Type:              models.EnrollmentTypeCourse,
			Status:            models.EnrollmentStatusPending,
		}
		if err := e.enrollments.Create(ctx, child); err != nil {
			return entries, summaries, err
		}
		// Children inherit the package's payment plan; no per-child billing.
		entries = append(entries, models.CreatedEntry{
			EnrollmentID: child.ID,
			Type:         models.EnrollmentTypeCourse,
			OfferingID:   courseOfferingID,
		})
	}
	return entries, summaries, nil
}

// resolveOfferings returns the concrete course offerings the package
// offering expands to, preferring the explicit mapping.
func (e *PackageExpander) resolveOfferings(ctx context.Context, offering *models.PackageOffering) ([]int64, error) {
	mapped, err := e.catalog.OfferingCourseIDs(ctx, offering.ID)
	if err != nil {
		return nil, err
	}
	if len(mapped) > 0 {
		return mapped, nil
	}

	courseIDs, err := e.catalog.CourseIDs(ctx, offering.PackageID)
	if err != nil {
		return nil, err
	}
	resolved := make([]int64, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		co, err := e.offerings.FindEarliestOffering(ctx, courseID, offering.CycleID)
		if err != nil {
			e.logger.Warn("skipping package course, no offering in cycle",
				zap.Int64("course_id", courseID),
				zap.Int64("cycle_id", offering.CycleID),
				zap.Error(err),
			)
			continue
		}
		resolved = append(resolved, co.ID)
	}
	return resolved, nil
}
