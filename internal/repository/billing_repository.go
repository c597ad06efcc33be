package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/academia-sys/academia-api/internal/models"
)

// BillingRepository handles persistence of payment plans and installments.
type BillingRepository struct {
	store *Store
}

// NewBillingRepository constructs the repository.
func NewBillingRepository(store *Store) *BillingRepository {
	return &BillingRepository{store: store}
}

// CreatePlan persists a payment plan and assigns its ID.
func (r *BillingRepository) CreatePlan(ctx context.Context, plan *models.PaymentPlan) error {
	const query = `INSERT INTO payment_plans (enrollment_id, total_amount, installments) VALUES ($1, $2, $3) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, plan.EnrollmentID, plan.TotalAmount, plan.Installments)
	if err := row.Scan(&plan.ID); err != nil {
		return fmt.Errorf("create payment plan: %w", err)
	}
	return nil
}

// CreateInstallment persists an installment and assigns its ID.
func (r *BillingRepository) CreateInstallment(ctx context.Context, installment *models.Installment) error {
	if installment.Status == "" {
		installment.Status = models.InstallmentStatusPending
	}
	const query = `INSERT INTO installments (payment_plan_id, installment_number, amount, due_date, status)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	row := r.store.ext(ctx).QueryRowxContext(ctx, query, installment.PaymentPlanID, installment.Number, installment.Amount, installment.DueDate, installment.Status)
	if err := row.Scan(&installment.ID); err != nil {
		return fmt.Errorf("create installment: %w", err)
	}
	return nil
}

// PlanByEnrollment returns the payment plan attached to an enrollment;
// sql.ErrNoRows when the enrollment carries none.
func (r *BillingRepository) PlanByEnrollment(ctx context.Context, enrollmentID int64) (*models.PaymentPlan, error) {
	const query = `SELECT id, enrollment_id, total_amount, installments FROM payment_plans WHERE enrollment_id = $1`
	var plan models.PaymentPlan
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &plan, query, enrollmentID); err != nil {
		return nil, err
	}
	return &plan, nil
}

// InstallmentsByPlan returns a plan's installments in schedule order.
func (r *BillingRepository) InstallmentsByPlan(ctx context.Context, planID int64) ([]models.Installment, error) {
	const query = `SELECT id, payment_plan_id, installment_number, amount, due_date, status, voucher_url, paid_at
        FROM installments WHERE payment_plan_id = $1 ORDER BY installment_number`
	var installments []models.Installment
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &installments, query, planID); err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	return installments, nil
}

// CountBlocking returns how many installments of the plan are paid or carry
// a voucher, i.e. block cancellation of the enrollment.
func (r *BillingRepository) CountBlocking(ctx context.Context, planID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM installments WHERE payment_plan_id = $1 AND (status = $2 OR voucher_url IS NOT NULL)`
	var count int
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &count, query, planID, models.InstallmentStatusPaid); err != nil {
		return 0, fmt.Errorf("count blocking installments: %w", err)
	}
	return count, nil
}

// DeleteInstallmentsByPlan removes every installment of a plan.
func (r *BillingRepository) DeleteInstallmentsByPlan(ctx context.Context, planID int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM installments WHERE payment_plan_id = $1`, planID); err != nil {
		return fmt.Errorf("delete installments: %w", err)
	}
	return nil
}

// DeletePlan removes a payment plan row.
func (r *BillingRepository) DeletePlan(ctx context.Context, planID int64) error {
	if _, err := r.store.ext(ctx).ExecContext(ctx, `DELETE FROM payment_plans WHERE id = $1`, planID); err != nil {
		return fmt.Errorf("delete payment plan: %w", err)
	}
	return nil
}

// FindInstallment returns an installment by its ID.
func (r *BillingRepository) FindInstallment(ctx context.Context, id int64) (*models.Installment, error) {
	const query = `SELECT id, payment_plan_id, installment_number, amount, due_date, status, voucher_url, paid_at
        FROM installments WHERE id = $1`
	var installment models.Installment
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &installment, query, id); err != nil {
		return nil, err
	}
	return &installment, nil
}

// MarkPaid settles an installment, recording the optional voucher reference
// and the payment timestamp.
func (r *BillingRepository) MarkPaid(ctx context.Context, id int64, voucherURL *string, paidAt time.Time) error {
	const query = `UPDATE installments SET status = $2, voucher_url = COALESCE($3, voucher_url), paid_at = $4 WHERE id = $1`
	if _, err := r.store.ext(ctx).ExecContext(ctx, query, id, models.InstallmentStatusPaid, voucherURL, paidAt); err != nil {
		return fmt.Errorf("mark installment paid: %w", err)
	}
	return nil
}

// Overdue returns pending, past-due installments joined with guardian
// contact details, oldest due date first.
func (r *BillingRepository) Overdue(ctx context.Context) ([]models.OverdueInstallment, error) {
	const query = `SELECT i.id, i.payment_plan_id, i.installment_number, i.amount, i.due_date, i.status, i.voucher_url, i.paid_at,
        pp.enrollment_id, e.student_id, s.first_name, s.last_name, s.parent_phone
        FROM installments i
        JOIN payment_plans pp ON i.payment_plan_id = pp.id
        JOIN enrollments e ON pp.enrollment_id = e.id
        JOIN students s ON e.student_id = s.id
        WHERE i.status = $1 AND i.due_date < CURRENT_DATE
        ORDER BY i.due_date ASC`
	var overdue []models.OverdueInstallment
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &overdue, query, models.InstallmentStatusPending); err != nil {
		return nil, fmt.Errorf("list overdue installments: %w", err)
	}
	return overdue, nil
}

// TotalPaidByEnrollment sums the settled installments of an enrollment.
func (r *BillingRepository) TotalPaidByEnrollment(ctx context.Context, enrollmentID int64) (float64, error) {
	const query = `SELECT COALESCE(SUM(i.amount), 0)
        FROM installments i
        JOIN payment_plans pp ON i.payment_plan_id = pp.id
        WHERE pp.enrollment_id = $1 AND i.status = $2`
	var total float64
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &total, query, enrollmentID, models.InstallmentStatusPaid); err != nil {
		return 0, fmt.Errorf("total paid by enrollment: %w", err)
	}
	return total, nil
}
