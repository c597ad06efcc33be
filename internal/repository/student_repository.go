package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/academia-sys/academia-api/internal/models"
)

// StudentRepository handles persistence of students.
type StudentRepository struct {
	store *Store
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(store *Store) *StudentRepository {
	return &StudentRepository{store: store}
}

// List returns students filtered by the provided criteria.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	var conditions []string
	var args []interface{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf("(s.first_name ILIKE $%d OR s.last_name ILIKE $%d OR s.dni ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.dni, s.first_name, s.last_name, s.phone, s.email, s.parent_name, s.parent_phone, s.registered_at
        %s ORDER BY s.registered_at DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var students []models.Student
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID returns a student by its ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT id, dni, first_name, last_name, phone, email, parent_name, parent_phone, registered_at FROM students WHERE id = $1`
	var student models.Student
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create persists a new student and assigns its ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (dni, first_name, last_name, phone, email, parent_name, parent_phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, registered_at`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, student.DNI, student.FirstName, student.LastName, student.Phone, student.Email, student.ParentName, student.ParentPhone)
	if err := row.Scan(&student.ID, &student.RegisteredAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET dni = $2, first_name = $3, last_name = $4, phone = $5, email = $6, parent_name = $7, parent_phone = $8 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, student.ID, student.DNI, student.FirstName, student.LastName, student.Phone, student.Email, student.ParentName, student.ParentPhone); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student row.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
