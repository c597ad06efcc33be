package service

import (
	"context"
	"math"
	"time"

	"github.com/academia-sys/academia-api/internal/models"
	"github.com/academia-sys/academia-api/pkg/config"
)

type billingWriter interface {
	CreatePlan(ctx context.Context, plan *models.PaymentPlan) error
	CreateInstallment(ctx context.Context, installment *models.Installment) error
}

// BillingGenerator creates the payment plan and installment schedule for a
// new enrollment. The installment count and first due date offset come from
// configuration; later installments fall due on 30 day intervals.
type BillingGenerator struct {
	billing billingWriter
	cfg     config.BillingConfig
	now     func() time.Time
}

// NewBillingGenerator constructs a BillingGenerator.
func NewBillingGenerator(billing billingWriter, cfg config.BillingConfig) *BillingGenerator {
	if cfg.Installments < 1 {
		cfg.Installments = 1
	}
	return &BillingGenerator{billing: billing, cfg: cfg, now: time.Now}
}

// Generate creates a payment plan for the enrollment plus its installments.
// A zero amount still produces a plan so acceptance and cancellation flow the
// same way for free enrollments. It returns the plan and the first
// installment.
func (g *BillingGenerator) Generate(ctx context.Context, enrollmentID int64, amount float64) (*models.PaymentPlan, *models.Installment, error) {
	plan := &models.PaymentPlan{
		EnrollmentID: enrollmentID,
		TotalAmount:  amount,
		Installments: g.cfg.Installments,
	}
	if err := g.billing.CreatePlan(ctx, plan); err != nil {
		return nil, nil, err
	}

	amounts := splitAmount(amount, g.cfg.Installments)
	due := g.now().Add(g.cfg.FirstDueIn)
	var first *models.Installment
	for i, a := range amounts {
		installment := &models.Installment{
			PaymentPlanID: plan.ID,
			Number:        i + 1,
			Amount:        a,
			DueDate:       due,
			Status:        models.InstallmentStatusPending,
		}
		if err := g.billing.CreateInstallment(ctx, installment); err != nil {
			return nil, nil, err
		}
		if first == nil {
			first = installment
		}
		due = due.AddDate(0, 0, 30)
	}
	return plan, first, nil
}

// splitAmount divides amount into n cent-exact parts, pushing the rounding
// remainder onto the last part so the schedule sums back to the total.
func splitAmount(amount float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	totalCents := int64(math.Round(amount * 100))
	base := totalCents / int64(n)
	parts := make([]float64, n)
	allocated := int64(0)
	for i := 0; i < n-1; i++ {
		parts[i] = float64(base) / 100
		allocated += base
	}
	parts[n-1] = float64(totalCents-allocated) / 100
	return parts
}
