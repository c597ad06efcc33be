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

func TestBillingRepositoryCreatePlan(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewBillingRepository(store)

	mock.ExpectQuery("INSERT INTO payment_plans").
		WithArgs(int64(5), 150.0, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	plan := &models.PaymentPlan{EnrollmentID: 5, TotalAmount: 150, Installments: 1}
	err := repo.CreatePlan(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, int64(3), plan.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingRepositoryCreateInstallmentDefaultsStatus(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewBillingRepository(store)

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO installments").
		WithArgs(int64(3), 1, 150.0, due, models.InstallmentStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	installment := &models.Installment{PaymentPlanID: 3, Number: 1, Amount: 150, DueDate: due}
	err := repo.CreateInstallment(context.Background(), installment)
	require.NoError(t, err)
	assert.Equal(t, int64(9), installment.ID)
	assert.Equal(t, models.InstallmentStatusPending, installment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingRepositoryCountBlocking(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewBillingRepository(store)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(3), models.InstallmentStatusPaid).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountBlocking(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingRepositoryMarkPaid(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewBillingRepository(store)

	paidAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	voucher := "https://files.example.com/voucher.png"
	mock.ExpectExec("UPDATE installments SET status").
		WithArgs(int64(9), models.InstallmentStatusPaid, &voucher, paidAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkPaid(context.Background(), 9, &voucher, paidAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingRepositoryOverdue(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewBillingRepository(store)

	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "payment_plan_id", "installment_number", "amount", "due_date", "status", "voucher_url", "paid_at",
		"enrollment_id", "student_id", "first_name", "last_name", "parent_phone",
	}).AddRow(int64(9), int64(3), 1, 150.0, due, "pending", nil, nil, int64(5), int64(1), "Ana", "Lopez", "555-0101")

	mock.ExpectQuery("FROM installments i").
		WithArgs(models.InstallmentStatusPending).
		WillReturnRows(rows)

	overdue, err := repo.Overdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, int64(1), overdue[0].StudentID)
	assert.Equal(t, "Ana", overdue[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingRepositoryTotalPaidByEnrollment(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()
	repo := NewBillingRepository(store)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(5), models.InstallmentStatusPaid).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(300.0))

	total, err := repo.TotalPaidByEnrollment(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 300.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
