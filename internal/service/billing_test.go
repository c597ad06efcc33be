package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia-sys/academia-api/internal/models"
	"github.com/academia-sys/academia-api/pkg/config"
)

type recordingBilling struct {
	nextPlanID        int64
	nextInstallmentID int64
	plans             []*models.PaymentPlan
	installments      []*models.Installment
}

func (r *recordingBilling) CreatePlan(ctx context.Context, plan *models.PaymentPlan) error {
	r.nextPlanID++
	plan.ID = r.nextPlanID
	r.plans = append(r.plans, plan)
	return nil
}

func (r *recordingBilling) CreateInstallment(ctx context.Context, installment *models.Installment) error {
	r.nextInstallmentID++
	installment.ID = r.nextInstallmentID
	r.installments = append(r.installments, installment)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateSingleInstallment(t *testing.T) {
	repo := &recordingBilling{}
	gen := NewBillingGenerator(repo, config.BillingConfig{Installments: 1, FirstDueIn: 7 * 24 * time.Hour})
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	gen.now = fixedClock(now)

	plan, first, err := gen.Generate(context.Background(), 5, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(5), plan.EnrollmentID)
	assert.Equal(t, 150.0, plan.TotalAmount)
	assert.Equal(t, 1, plan.Installments)

	require.NotNil(t, first)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 150.0, first.Amount)
	assert.Equal(t, now.AddDate(0, 0, 7), first.DueDate)
	assert.Equal(t, models.InstallmentStatusPending, first.Status)
	assert.Len(t, repo.installments, 1)
}

func TestGenerateZeroAmountStillCreatesPlan(t *testing.T) {
	repo := &recordingBilling{}
	gen := NewBillingGenerator(repo, config.BillingConfig{Installments: 1, FirstDueIn: 7 * 24 * time.Hour})

	plan, first, err := gen.Generate(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, plan.TotalAmount)
	require.NotNil(t, first)
	assert.Equal(t, 0.0, first.Amount)
}

func TestGenerateSplitsAcrossInstallments(t *testing.T) {
	repo := &recordingBilling{}
	gen := NewBillingGenerator(repo, config.BillingConfig{Installments: 3, FirstDueIn: 7 * 24 * time.Hour})
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	gen.now = fixedClock(now)

	plan, first, err := gen.Generate(context.Background(), 5, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Installments)
	require.Len(t, repo.installments, 3)

	var total float64
	for _, installment := range repo.installments {
		total += installment.Amount
	}
	assert.InDelta(t, 100.0, total, 0.001)
	// The last installment absorbs the cent remainder.
	assert.InDelta(t, 33.33, repo.installments[0].Amount, 0.001)
	assert.InDelta(t, 33.34, repo.installments[2].Amount, 0.001)

	assert.Equal(t, now.AddDate(0, 0, 7), first.DueDate)
	assert.Equal(t, now.AddDate(0, 0, 37), repo.installments[1].DueDate)
	assert.Equal(t, now.AddDate(0, 0, 67), repo.installments[2].DueDate)
}

func TestSplitAmountExactDivision(t *testing.T) {
	parts := splitAmount(300, 3)
	assert.Equal(t, []float64{100, 100, 100}, parts)
}

func TestSplitAmountSumsToTotal(t *testing.T) {
	parts := splitAmount(99.99, 4)
	var total float64
	for _, p := range parts {
		total += p
	}
	assert.InDelta(t, 99.99, total, 0.001)
}
