package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type paymentRepository interface {
	PlanByEnrollment(ctx context.Context, enrollmentID int64) (*models.PaymentPlan, error)
	InstallmentsByPlan(ctx context.Context, planID int64) ([]models.Installment, error)
	FindInstallment(ctx context.Context, id int64) (*models.Installment, error)
	MarkPaid(ctx context.Context, id int64, voucherURL *string, paidAt time.Time) error
	Overdue(ctx context.Context) ([]models.OverdueInstallment, error)
	TotalPaidByEnrollment(ctx context.Context, enrollmentID int64) (float64, error)
}

// PaymentService exposes payment plans and installment payment recording.
type PaymentService struct {
	repo   paymentRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewPaymentService constructs the service.
func NewPaymentService(repo paymentRepository, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, logger: logger, now: time.Now}
}

// PlanForEnrollment returns the enrollment's payment plan together with its
// schedule and running balance.
func (s *PaymentService) PlanForEnrollment(ctx context.Context, enrollmentID int64) (*dto.PaymentPlanResponse, error) {
	plan, err := s.repo.PlanByEnrollment(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no payment plan for this enrollment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment plan")
	}
	schedule, err := s.repo.InstallmentsByPlan(ctx, plan.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load installments")
	}
	paid, err := s.repo.TotalPaidByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total payments")
	}
	return &dto.PaymentPlanResponse{
		PaymentPlan: *plan,
		Schedule:    schedule,
		Paid:        paid,
		Balance:     plan.TotalAmount - paid,
	}, nil
}

// PayInstallment marks an installment paid, optionally attaching a voucher
// reference. Paying an already paid installment is rejected.
func (s *PaymentService) PayInstallment(ctx context.Context, installmentID int64, req dto.PayInstallmentRequest) (*models.Installment, error) {
	installment, err := s.repo.FindInstallment(ctx, installmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "installment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load installment")
	}
	if installment.Status == models.InstallmentStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "installment is already paid")
	}

	paidAt := s.now()
	if err := s.repo.MarkPaid(ctx, installmentID, req.VoucherURL, paidAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	installment.Status = models.InstallmentStatusPaid
	installment.PaidAt = &paidAt
	if req.VoucherURL != nil {
		installment.VoucherURL = req.VoucherURL
	}
	s.logger.Info("installment paid",
		zap.Int64("installment_id", installmentID),
		zap.Float64("amount", installment.Amount),
	)
	return installment, nil
}

// Overdue lists pending installments past their due date with student
// contact details for follow up.
func (s *PaymentService) Overdue(ctx context.Context) ([]models.OverdueInstallment, error) {
	overdue, err := s.repo.Overdue(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue installments")
	}
	return overdue, nil
}
