package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/academia-sys/academia-api/internal/models"
)

// CourseRepository handles persistence of courses and their offerings.
type CourseRepository struct {
	store *Store
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(store *Store) *CourseRepository {
	return &CourseRepository{store: store}
}

// List returns all courses.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, name, description, base_price FROM courses ORDER BY name`
	var courses []models.Course
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, name, description, base_price FROM courses WHERE id = $1`
	var course models.Course
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create persists a new course and assigns its ID.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (name, description, base_price) VALUES ($1, $2, $3) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, course.Name, course.Description, course.BasePrice)
	if err := row.Scan(&course.ID); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET name = $2, description = $3, base_price = $4 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, course.ID, course.Name, course.Description, course.BasePrice); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course row.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// ListOfferings returns all course offerings with catalog context.
func (r *CourseRepository) ListOfferings(ctx context.Context) ([]models.CourseOfferingDetail, error) {
	const query = `SELECT co.id, co.course_id, co.cycle_id, co.teacher_id, co.group_label, co.price_override, co.capacity,
        c.name AS course_name, cyc.name AS cycle_name, t.first_name || ' ' || t.last_name AS teacher_name
        FROM course_offerings co
        JOIN courses c ON co.course_id = c.id
        LEFT JOIN cycles cyc ON co.cycle_id = cyc.id
        LEFT JOIN teachers t ON co.teacher_id = t.id
        ORDER BY co.id DESC`
	var offerings []models.CourseOfferingDetail
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &offerings, query); err != nil {
		return nil, fmt.Errorf("list course offerings: %w", err)
	}
	return offerings, nil
}

// ListOfferingsByCourse returns the offerings of one course.
func (r *CourseRepository) ListOfferingsByCourse(ctx context.Context, courseID int64) ([]models.CourseOfferingDetail, error) {
	const query = `SELECT co.id, co.course_id, co.cycle_id, co.teacher_id, co.group_label, co.price_override, co.capacity,
        c.name AS course_name, cyc.name AS cycle_name, t.first_name || ' ' || t.last_name AS teacher_name
        FROM course_offerings co
        JOIN courses c ON co.course_id = c.id
        LEFT JOIN cycles cyc ON co.cycle_id = cyc.id
        LEFT JOIN teachers t ON co.teacher_id = t.id
        WHERE co.course_id = $1
        ORDER BY co.id DESC`
	var offerings []models.CourseOfferingDetail
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &offerings, query, courseID); err != nil {
		return nil, fmt.Errorf("list offerings by course: %w", err)
	}
	return offerings, nil
}

// FindOffering returns a course offering by its ID.
func (r *CourseRepository) FindOffering(ctx context.Context, id int64) (*models.CourseOffering, error) {
	const query = `SELECT id, course_id, cycle_id, teacher_id, group_label, price_override, capacity FROM course_offerings WHERE id = $1`
	var offering models.CourseOffering
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &offering, query, id); err != nil {
		return nil, err
	}
	return &offering, nil
}

// OfferingPrice resolves the effective price of an offering: the override
// when set, the course base price otherwise. A missing offering prices at 0.
func (r *CourseRepository) OfferingPrice(ctx context.Context, id int64) (float64, error) {
	const query = `SELECT COALESCE(co.price_override, c.base_price, 0)
        FROM course_offerings co
        JOIN courses c ON co.course_id = c.id
        WHERE co.id = $1`
	var price float64
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &price, query, id); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("resolve course offering price: %w", err)
	}
	return price, nil
}

// FindEarliestOffering returns the lowest-id offering of a course within a
// cycle; sql.ErrNoRows when the course is not offered in that cycle.
func (r *CourseRepository) FindEarliestOffering(ctx context.Context, courseID, cycleID int64) (*models.CourseOffering, error) {
	const query = `SELECT id, course_id, cycle_id, teacher_id, group_label, price_override, capacity
        FROM course_offerings WHERE course_id = $1 AND cycle_id = $2 ORDER BY id ASC LIMIT 1`
	var offering models.CourseOffering
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &offering, query, courseID, cycleID); err != nil {
		return nil, err
	}
	return &offering, nil
}

// OfferingSummary fetches course name and group label for receipts.
func (r *CourseRepository) OfferingSummary(ctx context.Context, id int64) (*models.PackageCourseSummary, error) {
	const query = `SELECT c.name, co.group_label
        FROM course_offerings co
        JOIN courses c ON co.course_id = c.id
        WHERE co.id = $1`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, id)
	var summary models.PackageCourseSummary
	if err := row.Scan(&summary.Name, &summary.Group); err != nil {
		return nil, fmt.Errorf("course offering summary: %w", err)
	}
	return &summary, nil
}

// CreateOffering persists a new course offering and assigns its ID.
func (r *CourseRepository) CreateOffering(ctx context.Context, offering *models.CourseOffering) error {
	const query = `INSERT INTO course_offerings (course_id, cycle_id, group_label, teacher_id, price_override, capacity)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, offering.CourseID, offering.CycleID, offering.GroupLabel, offering.TeacherID, offering.PriceOverride, offering.Capacity)
	if err := row.Scan(&offering.ID); err != nil {
		return fmt.Errorf("create course offering: %w", err)
	}
	return nil
}

// UpdateOffering rewrites the mutable fields of a course offering.
func (r *CourseRepository) UpdateOffering(ctx context.Context, offering *models.CourseOffering) error {
	const query = `UPDATE course_offerings SET group_label = $2, teacher_id = $3, price_override = $4, capacity = $5, cycle_id = $6 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, offering.ID, offering.GroupLabel, offering.TeacherID, offering.PriceOverride, offering.Capacity, offering.CycleID); err != nil {
		return fmt.Errorf("update course offering: %w", err)
	}
	return nil
}

// DeleteOffering removes a course offering row.
func (r *CourseRepository) DeleteOffering(ctx context.Context, id int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM course_offerings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course offering: %w", err)
	}
	return nil
}
