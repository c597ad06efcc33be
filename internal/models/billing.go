package models

import "time"

// InstallmentStatus tracks whether an installment has been settled.
type InstallmentStatus string

// Possible installment statuses.
const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

// PaymentPlan is the billing schedule attached 1:1 to an enrollment.
type PaymentPlan struct {
	ID           int64   `db:"id" json:"id"`
	EnrollmentID int64   `db:"enrollment_id" json:"enrollment_id"`
	TotalAmount  float64 `db:"total_amount" json:"total_amount"`
	Installments int     `db:"installments" json:"installments"`
}

// Installment is one due amount within a payment plan. A paid installment or
// one carrying a voucher blocks cancellation of its enrollment.
type Installment struct {
	ID            int64             `db:"id" json:"id"`
	PaymentPlanID int64             `db:"payment_plan_id" json:"payment_plan_id"`
	Number        int               `db:"installment_number" json:"installment_number"`
	Amount        float64           `db:"amount" json:"amount"`
	DueDate       time.Time         `db:"due_date" json:"due_date"`
	Status        InstallmentStatus `db:"status" json:"status"`
	VoucherURL    *string           `db:"voucher_url" json:"voucher_url,omitempty"`
	PaidAt        *time.Time        `db:"paid_at" json:"paid_at,omitempty"`
}

// Blocking reports whether the installment pins its enrollment, preventing
// cancellation.
func (i Installment) Blocking() bool {
	return i.Status == InstallmentStatusPaid || i.VoucherURL != nil
}

// OverdueInstallment joins a pending, past-due installment with the contact
// details needed to notify the student's guardian.
type OverdueInstallment struct {
	Installment
	EnrollmentID int64  `db:"enrollment_id" json:"enrollment_id"`
	StudentID    int64  `db:"student_id" json:"student_id"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	ParentPhone  string `db:"parent_phone" json:"parent_phone"`
}
