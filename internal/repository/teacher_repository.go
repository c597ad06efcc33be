package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/academia-sys/academia-api/internal/models"
)

// TeacherRepository handles persistence of teaching staff.
type TeacherRepository struct {
	store *Store
}

// NewTeacherRepository constructs the repository.
func NewTeacherRepository(store *Store) *TeacherRepository {
	return &TeacherRepository{store: store}
}

// List returns all teachers.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, first_name, last_name, dni, phone, email, specialization FROM teachers ORDER BY last_name, first_name`
	var teachers []models.Teacher
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID returns a teacher by its ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	const query = `SELECT id, first_name, last_name, dni, phone, email, specialization FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create persists a new teacher and assigns its ID.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	const query = `INSERT INTO teachers (first_name, last_name, dni, phone, email, specialization)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, teacher.FirstName, teacher.LastName, teacher.DNI, teacher.Phone, teacher.Email, teacher.Specialization)
	if err := row.Scan(&teacher.ID); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	const query = `UPDATE teachers SET first_name = $2, last_name = $3, dni = $4, phone = $5, email = $6, specialization = $7 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, teacher.ID, teacher.FirstName, teacher.LastName, teacher.DNI, teacher.Phone, teacher.Email, teacher.Specialization); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// Delete removes a teacher row.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}
