package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type mockPaymentRepo struct {
	plans        map[int64]models.PaymentPlan
	installments map[int64]models.Installment
	schedule     []models.Installment
	paidTotal    float64
	marked       []int64
	overdue      []models.OverdueInstallment
}

func (m *mockPaymentRepo) PlanByEnrollment(ctx context.Context, enrollmentID int64) (*models.PaymentPlan, error) {
	if p, ok := m.plans[enrollmentID]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPaymentRepo) InstallmentsByPlan(ctx context.Context, planID int64) ([]models.Installment, error) {
	return m.schedule, nil
}

func (m *mockPaymentRepo) FindInstallment(ctx context.Context, id int64) (*models.Installment, error) {
	if i, ok := m.installments[id]; ok {
		return &i, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPaymentRepo) MarkPaid(ctx context.Context, id int64, voucherURL *string, paidAt time.Time) error {
	m.marked = append(m.marked, id)
	return nil
}

func (m *mockPaymentRepo) Overdue(ctx context.Context) ([]models.OverdueInstallment, error) {
	return m.overdue, nil
}

func (m *mockPaymentRepo) TotalPaidByEnrollment(ctx context.Context, enrollmentID int64) (float64, error) {
	return m.paidTotal, nil
}

func TestPlanForEnrollment(t *testing.T) {
	repo := &mockPaymentRepo{
		plans:     map[int64]models.PaymentPlan{5: {ID: 50, EnrollmentID: 5, TotalAmount: 300, Installments: 3}},
		schedule:  []models.Installment{{ID: 500, Amount: 100}, {ID: 501, Amount: 100}, {ID: 502, Amount: 100}},
		paidTotal: 100,
	}
	svc := NewPaymentService(repo, zap.NewNop())

	plan, err := svc.PlanForEnrollment(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 300.0, plan.TotalAmount)
	assert.Len(t, plan.Schedule, 3)
	assert.Equal(t, 100.0, plan.Paid)
	assert.Equal(t, 200.0, plan.Balance)
}

func TestPlanForEnrollmentNotFound(t *testing.T) {
	svc := NewPaymentService(&mockPaymentRepo{}, zap.NewNop())

	_, err := svc.PlanForEnrollment(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestPayInstallment(t *testing.T) {
	repo := &mockPaymentRepo{
		installments: map[int64]models.Installment{500: {ID: 500, Amount: 100, Status: models.InstallmentStatusPending}},
	}
	svc := NewPaymentService(repo, zap.NewNop())
	paidAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return paidAt }
	voucher := "https://files.example.com/voucher.pdf"

	installment, err := svc.PayInstallment(context.Background(), 500, dto.PayInstallmentRequest{VoucherURL: &voucher})
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentStatusPaid, installment.Status)
	require.NotNil(t, installment.PaidAt)
	assert.Equal(t, paidAt, *installment.PaidAt)
	require.NotNil(t, installment.VoucherURL)
	assert.Equal(t, voucher, *installment.VoucherURL)
	assert.Equal(t, []int64{500}, repo.marked)
}

func TestPayInstallmentAlreadyPaid(t *testing.T) {
	repo := &mockPaymentRepo{
		installments: map[int64]models.Installment{500: {ID: 500, Status: models.InstallmentStatusPaid}},
	}
	svc := NewPaymentService(repo, zap.NewNop())

	_, err := svc.PayInstallment(context.Background(), 500, dto.PayInstallmentRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPreconditionFailed))
	assert.Empty(t, repo.marked)
}

func TestPayInstallmentNotFound(t *testing.T) {
	svc := NewPaymentService(&mockPaymentRepo{}, zap.NewNop())

	_, err := svc.PayInstallment(context.Background(), 99, dto.PayInstallmentRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestOverdueList(t *testing.T) {
	phone := "555-0101"
	repo := &mockPaymentRepo{overdue: []models.OverdueInstallment{
		{Installment: models.Installment{ID: 500, Amount: 100}, StudentID: 1, FirstName: "Ana", LastName: "Rojas", ParentPhone: &phone},
	}}
	svc := NewPaymentService(repo, zap.NewNop())

	overdue, err := svc.Overdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Ana", overdue[0].FirstName)
}
