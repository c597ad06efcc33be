package dto

import "github.com/academia-sys/academia-api/internal/models"

// PayInstallmentRequest records a payment against an installment.
type PayInstallmentRequest struct {
	VoucherURL *string `json:"voucher_url" validate:"omitempty,url"`
}

// PaymentPlanResponse is a plan with its full installment schedule.
type PaymentPlanResponse struct {
	models.PaymentPlan
	Schedule []models.Installment `json:"schedule"`
	Paid     float64              `json:"paid"`
	Balance  float64              `json:"balance"`
}
