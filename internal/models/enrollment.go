package models

import "time"

// EnrollmentType distinguishes what an enrollment points at.
type EnrollmentType string

// Enrollment item types.
const (
	EnrollmentTypeCourse  EnrollmentType = "course"
	EnrollmentTypePackage EnrollmentType = "package"
)

// EnrollmentStatus represents the approval lifecycle of an enrollment. The
// values mirror the legacy data and are written verbatim to the store.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusPending   EnrollmentStatus = "pendiente"
	EnrollmentStatusAccepted  EnrollmentStatus = "aceptado"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelado"
	EnrollmentStatusRejected  EnrollmentStatus = "rechazado"
)

// Enrollment links a student to exactly one course offering or package
// offering. Course enrollments spawned by package expansion keep the
// PackageOfferingID tag so they can be traced back to their parent.
type Enrollment struct {
	ID                int64            `db:"id" json:"id"`
	StudentID         int64            `db:"student_id" json:"student_id"`
	CourseOfferingID  *int64           `db:"course_offering_id" json:"course_offering_id,omitempty"`
	PackageOfferingID *int64           `db:"package_offering_id" json:"package_offering_id,omitempty"`
	Type              EnrollmentType   `db:"enrollment_type" json:"enrollment_type"`
	Status            EnrollmentStatus `db:"status" json:"status"`
	RegisteredAt      time.Time        `db:"registered_at" json:"registered_at"`
}

// PackageCourseSummary names one course covered by a package enrollment, for
// receipts and the student-facing package breakdown.
type PackageCourseSummary struct {
	Name  string  `json:"name"`
	Group *string `json:"group,omitempty"`
}

// CreatedEntry is the per-item result of a batch enrollment.
type CreatedEntry struct {
	EnrollmentID  int64                  `json:"enrollment_id"`
	Type          EnrollmentType         `json:"type"`
	OfferingID    int64                  `json:"offering_id"`
	Amount        float64                `json:"amount,omitempty"`
	PaymentPlanID int64                  `json:"payment_plan_id,omitempty"`
	InstallmentID int64                  `json:"installment_id,omitempty"`
	Courses       []PackageCourseSummary `json:"courses,omitempty"`
}

// EnrollmentDetail is a student-facing view of an enrollment with resolved
// item, cycle and billing context.
type EnrollmentDetail struct {
	Enrollment
	ItemName              string        `db:"item_name" json:"item_name"`
	ItemPrice             *float64      `db:"item_price" json:"item_price,omitempty"`
	CycleName             *string       `db:"cycle_name" json:"cycle_name,omitempty"`
	CycleStartDate        *time.Time    `db:"cycle_start_date" json:"cycle_start_date,omitempty"`
	CycleEndDate          *time.Time    `db:"cycle_end_date" json:"cycle_end_date,omitempty"`
	PaymentPlanID         *int64        `db:"payment_plan_id" json:"payment_plan_id,omitempty"`
	TotalAmount           *float64      `db:"total_amount" json:"total_amount,omitempty"`
	TotalInstallments     *int          `db:"total_installments" json:"total_installments,omitempty"`
	PackageCoursesSummary *string       `db:"package_courses_summary" json:"package_courses_summary,omitempty"`
	Installments          []Installment `json:"installments"`
}
