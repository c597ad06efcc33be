package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia-sys/academia-api/internal/models"
)

func TestEnrollmentRepositoryCreate(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	offeringID := int64(10)
	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(int64(1), &offeringID, nil, models.EnrollmentTypeCourse, models.EnrollmentStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "registered_at"}).AddRow(int64(5), time.Now()))

	enrollment := &models.Enrollment{StudentID: 1, CourseOfferingID: &offeringID, Type: models.EnrollmentTypeCourse}
	err := repo.Create(context.Background(), enrollment)
	require.NoError(t, err)
	assert.Equal(t, int64(5), enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusPending, enrollment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryHasAccepted(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	mock.ExpectQuery("SELECT 1 FROM enrollments WHERE student_id").
		WithArgs(int64(1), int64(10), models.EnrollmentTypeCourse, models.EnrollmentStatusAccepted).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	found, err := repo.HasAccepted(context.Background(), 1, models.EnrollmentTypeCourse, 10)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryHasAcceptedNoRows(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	mock.ExpectQuery("SELECT 1 FROM enrollments WHERE student_id").
		WithArgs(int64(1), int64(20), models.EnrollmentTypePackage, models.EnrollmentStatusAccepted).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	found, err := repo.HasAccepted(context.Background(), 1, models.EnrollmentTypePackage, 20)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryPendingChildIDs(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	mock.ExpectQuery("SELECT id FROM enrollments").
		WithArgs(int64(1), models.EnrollmentTypeCourse, int64(20), models.EnrollmentStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)).AddRow(int64(7)))

	ids, err := repo.PendingChildIDs(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteByIDs(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	mock.ExpectExec("DELETE FROM enrollments WHERE id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteByIDs(context.Background(), []int64{5, 6, 7})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteByIDsEmpty(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	err := repo.DeleteByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindForStudent(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	mock.ExpectQuery("SELECT id, student_id, course_offering_id, package_offering_id, enrollment_type, status, registered_at").
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_offering_id", "package_offering_id", "enrollment_type", "status", "registered_at"}).
			AddRow(int64(5), int64(1), int64(10), nil, "course", "pendiente", time.Now()))

	enrollment, err := repo.FindForStudent(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusPending, enrollment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryAcceptedPackageCovers(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewEnrollmentRepository(store)

	mock.ExpectQuery("SELECT 1 FROM enrollments e").
		WithArgs(int64(1), models.EnrollmentTypePackage, models.EnrollmentStatusAccepted, int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	covered, err := repo.AcceptedPackageCovers(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, covered)
	assert.NoError(t, mock.ExpectationsWereMet())
}
