package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/academia-sys/academia-api/internal/models"
)

// PackageRepository handles persistence of packages, their declared course
// sets and their offerings.
type PackageRepository struct {
	store *Store
}

// NewPackageRepository constructs the repository.
func NewPackageRepository(store *Store) *PackageRepository {
	return &PackageRepository{store: store}
}

// List returns all packages with an aggregated list of course names.
func (r *PackageRepository) List(ctx context.Context) ([]models.PackageDetail, error) {
	const query = `SELECT p.id, p.name, p.description, p.base_price, STRING_AGG(c.name, ',') AS courses
        FROM packages p
        LEFT JOIN package_courses pc ON p.id = pc.package_id
        LEFT JOIN courses c ON pc.course_id = c.id
        GROUP BY p.id
        ORDER BY p.id DESC`
	var packages []models.PackageDetail
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &packages, query); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return packages, nil
}

// FindByID returns a package with its aggregated course names.
func (r *PackageRepository) FindByID(ctx context.Context, id int64) (*models.PackageDetail, error) {
	const query = `SELECT p.id, p.name, p.description, p.base_price, STRING_AGG(c.name, ',') AS courses
        FROM packages p
        LEFT JOIN package_courses pc ON p.id = pc.package_id
        LEFT JOIN courses c ON pc.course_id = c.id
        WHERE p.id = $1
        GROUP BY p.id`
	var detail models.PackageDetail
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new package and assigns its ID.
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	const query = `INSERT INTO packages (name, description, base_price) VALUES ($1, $2, $3) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, pkg.Name, pkg.Description, pkg.BasePrice)
	if err := row.Scan(&pkg.ID); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a package.
func (r *PackageRepository) Update(ctx context.Context, pkg *models.Package) error {
	const query = `UPDATE packages SET name = $2, description = $3, base_price = $4 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, pkg.ID, pkg.Name, pkg.Description, pkg.BasePrice); err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	return nil
}

// Delete removes a package row.
func (r *PackageRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	return nil
}

// AddCourse declares a course as part of a package.
func (r *PackageRepository) AddCourse(ctx context.Context, packageID, courseID int64) error {
	const query = `INSERT INTO package_courses (package_id, course_id) VALUES ($1, $2)`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, packageID, courseID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLink
		}
		return fmt.Errorf("add course to package: %w", err)
	}
	return nil
}

// RemoveCourse removes a course from a package's declared set.
func (r *PackageRepository) RemoveCourse(ctx context.Context, packageID, courseID int64) error {
	const query = `DELETE FROM package_courses WHERE package_id = $1 AND course_id = $2`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, packageID, courseID); err != nil {
		return fmt.Errorf("remove course from package: %w", err)
	}
	return nil
}

// CourseIDs returns the declared course set of a package.
func (r *PackageRepository) CourseIDs(ctx context.Context, packageID int64) ([]int64, error) {
	const query = `SELECT course_id FROM package_courses WHERE package_id = $1 ORDER BY course_id`
	var ids []int64
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &ids, query, packageID); err != nil {
		return nil, fmt.Errorf("list package courses: %w", err)
	}
	return ids, nil
}

// ListOfferings returns all package offerings with catalog context.
func (r *PackageRepository) ListOfferings(ctx context.Context) ([]models.PackageOfferingDetail, error) {
	const query = `SELECT po.id, po.package_id, po.cycle_id, po.group_label, po.price_override, po.capacity,
        pkg.name AS package_name, pkg.base_price AS base_price, cyc.name AS cycle_name
        FROM package_offerings po
        JOIN packages pkg ON po.package_id = pkg.id
        LEFT JOIN cycles cyc ON po.cycle_id = cyc.id
        ORDER BY po.id DESC`
	var offerings []models.PackageOfferingDetail
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &offerings, query); err != nil {
		return nil, fmt.Errorf("list package offerings: %w", err)
	}
	return offerings, nil
}

// FindOffering returns a package offering by its ID.
func (r *PackageRepository) FindOffering(ctx context.Context, id int64) (*models.PackageOffering, error) {
	const query = `SELECT id, package_id, cycle_id, group_label, price_override, capacity FROM package_offerings WHERE id = $1`
	var offering models.PackageOffering
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &offering, query, id); err != nil {
		return nil, err
	}
	return &offering, nil
}

// OfferingPrice resolves the effective price of a package offering: the
// override when set, the package base price otherwise. A missing offering
// prices at 0.
func (r *PackageRepository) OfferingPrice(ctx context.Context, id int64) (float64, error) {
	const query = `SELECT COALESCE(po.price_override, p.base_price, 0)
        FROM package_offerings po
        JOIN packages p ON po.package_id = p.id
        WHERE po.id = $1`
	var price float64
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &price, query, id); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("resolve package offering price: %w", err)
	}
	return price, nil
}

// CreateOffering persists a new package offering and assigns its ID.
func (r *PackageRepository) CreateOffering(ctx context.Context, offering *models.PackageOffering) error {
	const query = `INSERT INTO package_offerings (package_id, cycle_id, group_label, price_override, capacity)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, offering.PackageID, offering.CycleID, offering.GroupLabel, offering.PriceOverride, offering.Capacity)
	if err := row.Scan(&offering.ID); err != nil {
		return fmt.Errorf("create package offering: %w", err)
	}
	return nil
}

// UpdateOffering rewrites the mutable fields of a package offering.
func (r *PackageRepository) UpdateOffering(ctx context.Context, offering *models.PackageOffering) error {
	const query = `UPDATE package_offerings SET group_label = $2, price_override = $3, capacity = $4, cycle_id = $5 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, offering.ID, offering.GroupLabel, offering.PriceOverride, offering.Capacity, offering.CycleID); err != nil {
		return fmt.Errorf("update package offering: %w", err)
	}
	return nil
}

// DeleteOffering removes a package offering row.
func (r *PackageRepository) DeleteOffering(ctx context.Context, id int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM package_offerings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete package offering: %w", err)
	}
	return nil
}

// OfferingCourseIDs returns the course offerings explicitly mapped to a
// package offering. An empty result means no explicit mapping exists and the
// caller should fall back to the declared course set.
func (r *PackageRepository) OfferingCourseIDs(ctx context.Context, packageOfferingID int64) ([]int64, error) {
	const query = `SELECT course_offering_id FROM package_offering_courses WHERE package_offering_id = $1 ORDER BY course_offering_id`
	var ids []int64
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &ids, query, packageOfferingID); err != nil {
		return nil, fmt.Errorf("list package offering courses: %w", err)
	}
	return ids, nil
}

// LinkOfferingCourse maps a course offering into a package offering.
func (r *PackageRepository) LinkOfferingCourse(ctx context.Context, packageOfferingID, courseOfferingID int64) error {
	const query = `INSERT INTO package_offering_courses (package_offering_id, course_offering_id) VALUES ($1, $2)`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, packageOfferingID, courseOfferingID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLink
		}
		return fmt.Errorf("link course offering to package offering: %w", err)
	}
	return nil
}

// UnlinkOfferingCourse removes a mapping row.
func (r *PackageRepository) UnlinkOfferingCourse(ctx context.Context, packageOfferingID, courseOfferingID int64) error {
	const query = `DELETE FROM package_offering_courses WHERE package_offering_id = $1 AND course_offering_id = $2`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, packageOfferingID, courseOfferingID); err != nil {
		return fmt.Errorf("unlink course offering from package offering: %w", err)
	}
	return nil
}

// ErrDuplicateLink marks a unique constraint hit on a mapping insert.
var ErrDuplicateLink = errors.New("mapping already exists")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
