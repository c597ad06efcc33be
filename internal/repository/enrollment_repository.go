package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/academia-sys/academia-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments, including the
// coverage queries behind the eligibility rules.
type EnrollmentRepository struct {
	store *Store
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(store *Store) *EnrollmentRepository {
	return &EnrollmentRepository{store: store}
}

// Create persists a new enrollment and assigns its ID.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusPending
	}
	const query = `INSERT INTO enrollments (student_id, course_offering_id, package_offering_id, enrollment_type, status)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, registered_at`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, enrollment.StudentID, enrollment.CourseOfferingID, enrollment.PackageOfferingID, enrollment.Type, enrollment.Status)
	if err := row.Scan(&enrollment.ID, &enrollment.RegisteredAt); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindForStudent returns the enrollment only when it belongs to the student.
func (r *EnrollmentRepository) FindForStudent(ctx context.Context, enrollmentID, studentID int64) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_offering_id, package_offering_id, enrollment_type, status, registered_at
        FROM enrollments WHERE id = $1 AND student_id = $2`
	var enrollment models.Enrollment
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &enrollment, query, enrollmentID, studentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// HasAccepted reports whether the student already holds an accepted
// enrollment of the given type on the given offering.
func (r *EnrollmentRepository) HasAccepted(ctx context.Context, studentID int64, itemType models.EnrollmentType, offeringID int64) (bool, error) {
	column := "course_offering_id"
	if itemType == models.EnrollmentTypePackage {
		column = "package_offering_id"
	}
	query := fmt.Sprintf(`SELECT 1 FROM enrollments WHERE student_id = $1 AND %s = $2 AND enrollment_type = $3 AND status = $4 LIMIT 1`, column)
	return r.exists(ctx, query, studentID, offeringID, itemType, models.EnrollmentStatusAccepted)
}

// AcceptedPackageCovers reports whether an accepted package enrollment of the
// student is explicitly mapped to the course offering.
func (r *EnrollmentRepository) AcceptedPackageCovers(ctx context.Context, studentID, courseOfferingID int64) (bool, error) {
	const query = `SELECT 1
        FROM enrollments e
        JOIN package_offering_courses poc ON poc.package_offering_id = e.package_offering_id
        WHERE e.student_id = $1
          AND e.enrollment_type = $2
          AND e.status = $3
          AND poc.course_offering_id = $4
        LIMIT 1`
	return r.exists(ctx, query, studentID, models.EnrollmentTypePackage, models.EnrollmentStatusAccepted, courseOfferingID)
}

// AcceptedPackageCoversByCatalog applies the coarser coverage heuristic: an
// accepted package enrollment whose offering shares the course offering's
// cycle and whose package declares the offering's course.
func (r *EnrollmentRepository) AcceptedPackageCoversByCatalog(ctx context.Context, studentID, courseOfferingID int64) (bool, error) {
	const query = `SELECT 1
        FROM enrollments e
        JOIN package_offerings po ON e.package_offering_id = po.id
        JOIN packages pk ON po.package_id = pk.id
        JOIN package_courses pc ON pc.package_id = pk.id
        JOIN course_offerings co ON co.id = $2
        WHERE e.student_id = $1
          AND e.enrollment_type = $3
          AND e.status = $4
          AND po.cycle_id = co.cycle_id
          AND pc.course_id = co.course_id
        LIMIT 1`
	return r.exists(ctx, query, studentID, courseOfferingID, models.EnrollmentTypePackage, models.EnrollmentStatusAccepted)
}

// AcceptedCourseInPackage reports whether an accepted course enrollment of
// the student sits on a course offering explicitly mapped into the package
// offering.
func (r *EnrollmentRepository) AcceptedCourseInPackage(ctx context.Context, studentID, packageOfferingID int64) (bool, error) {
	const query = `SELECT 1
        FROM enrollments e
        JOIN package_offering_courses poc ON poc.course_offering_id = e.course_offering_id
        WHERE e.student_id = $1
          AND e.enrollment_type = $2
          AND e.status = $3
          AND poc.package_offering_id = $4
        LIMIT 1`
	return r.exists(ctx, query, studentID, models.EnrollmentTypeCourse, models.EnrollmentStatusAccepted, packageOfferingID)
}

// AcceptedCourseInPackageByCatalog applies the coarser heuristic for package
// requests: an accepted course enrollment in the package offering's cycle on
// a course the package declares.
func (r *EnrollmentRepository) AcceptedCourseInPackageByCatalog(ctx context.Context, studentID, cycleID, packageID int64) (bool, error) {
	const query = `SELECT 1
        FROM enrollments e
        JOIN course_offerings co ON e.course_offering_id = co.id
        JOIN package_courses pc ON pc.course_id = co.course_id
        WHERE e.student_id = $1
          AND e.enrollment_type = $2
          AND e.status = $3
          AND co.cycle_id = $4
          AND pc.package_id = $5
        LIMIT 1`
	return r.exists(ctx, query, studentID, models.EnrollmentTypeCourse, models.EnrollmentStatusAccepted, cycleID, packageID)
}

// HasNonCancelledCourse reports whether the student holds any non-cancelled
// course enrollment on the course offering, regardless of how it was created.
func (r *EnrollmentRepository) HasNonCancelledCourse(ctx context.Context, studentID, courseOfferingID int64) (bool, error) {
	const query = `SELECT 1 FROM enrollments
        WHERE student_id = $1 AND course_offering_id = $2 AND enrollment_type = $3 AND status != $4 LIMIT 1`
	return r.exists(ctx, query, studentID, courseOfferingID, models.EnrollmentTypeCourse, models.EnrollmentStatusCancelled)
}

// PendingChildIDs returns the student's pending course enrollments spawned
// from the given package offering.
func (r *EnrollmentRepository) PendingChildIDs(ctx context.Context, studentID, packageOfferingID int64) ([]int64, error) {
	const query = `SELECT id FROM enrollments
        WHERE student_id = $1 AND enrollment_type = $2 AND package_offering_id = $3 AND status = $4`
	var ids []int64
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &ids, query, studentID, models.EnrollmentTypeCourse, packageOfferingID, models.EnrollmentStatusPending); err != nil {
		return nil, fmt.Errorf("list pending package children: %w", err)
	}
	return ids, nil
}

// DeleteByIDs removes the given enrollment rows in one statement.
func (r *EnrollmentRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `DELETE FROM enrollments WHERE id = ANY($1)`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("delete enrollments: %w", err)
	}
	return nil
}

// ListByStudent returns the student's enrollments with item, cycle, billing
// and package summary context, newest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.course_offering_id, e.package_offering_id, e.enrollment_type, e.status, e.registered_at,
        COALESCE(c.name, p.name) AS item_name,
        COALESCE(COALESCE(co.price_override, c.base_price), COALESCE(po.price_override, p.base_price)) AS item_price,
        pp.id AS payment_plan_id, pp.total_amount, pp.installments AS total_installments,
        COALESCE(cyc.name, cyc2.name) AS cycle_name,
        COALESCE(cyc.start_date, cyc2.start_date) AS cycle_start_date,
        COALESCE(cyc.end_date, cyc2.end_date) AS cycle_end_date,
        (
          SELECT STRING_AGG(
                   CONCAT(
                     c2.name,
                     CASE
                       WHEN co2.group_label IS NOT NULL AND co2.group_label <> ''
                         THEN CONCAT(' (Grupo ', co2.group_label, ')')
                       ELSE ''
                     END
                   ),
                   ', '
                 )
          FROM enrollments e2
          JOIN course_offerings co2 ON e2.course_offering_id = co2.id
          JOIN courses c2 ON co2.course_id = c2.id
          WHERE e2.student_id = e.student_id
            AND e2.enrollment_type = 'course'
            AND e2.status != 'cancelado'
            AND e2.package_offering_id = e.package_offering_id
        ) AS package_courses_summary
        FROM enrollments e
        LEFT JOIN course_offerings co ON e.course_offering_id = co.id
        LEFT JOIN courses c ON co.course_id = c.id
        LEFT JOIN cycles cyc ON co.cycle_id = cyc.id
        LEFT JOIN package_offerings po ON e.package_offering_id = po.id
        LEFT JOIN packages p ON po.package_id = p.id
        LEFT JOIN cycles cyc2 ON po.cycle_id = cyc2.id
        LEFT JOIN payment_plans pp ON pp.enrollment_id = e.id
        WHERE e.student_id = $1
        ORDER BY e.registered_at DESC`
	var details []models.EnrollmentDetail
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &details, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return details, nil
}

func (r *EnrollmentRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var one int
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &one, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment existence: %w", err)
	}
	return true, nil
}
