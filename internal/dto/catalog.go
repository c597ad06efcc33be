package dto

// CreateStudentRequest is the admission payload.
type CreateStudentRequest struct {
	DNI         string  `json:"dni" validate:"required"`
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" validate:"omitempty,email"`
	ParentName  *string `json:"parent_name"`
	ParentPhone *string `json:"parent_phone"`
}

// UpdateStudentRequest mirrors the create payload for full updates.
type UpdateStudentRequest = CreateStudentRequest

// CreateTeacherRequest is the teacher registration payload.
type CreateTeacherRequest struct {
	DNI            string  `json:"dni" validate:"required"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Specialization *string `json:"specialization"`
}

// CreateCycleRequest creates or updates an academic cycle.
type CreateCycleRequest struct {
	Name           string  `json:"name" validate:"required"`
	StartDate      *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DurationMonths *int    `json:"duration_months" validate:"omitempty,min=1"`
	Status         *string `json:"status" validate:"omitempty,oneof=open in_progress closed"`
}

// CreateCourseRequest creates or updates a catalog course.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	BasePrice   float64 `json:"base_price" validate:"min=0"`
}

// CreateCourseOfferingRequest schedules a course in a cycle.
type CreateCourseOfferingRequest struct {
	CourseID      int64    `json:"course_id" validate:"required,min=1"`
	CycleID       int64    `json:"cycle_id" validate:"required,min=1"`
	TeacherID     *int64   `json:"teacher_id" validate:"omitempty,min=1"`
	GroupLabel    *string  `json:"group_label"`
	PriceOverride *float64 `json:"price_override" validate:"omitempty,min=0"`
	Capacity      *int     `json:"capacity" validate:"omitempty,min=1"`
}

// CreatePackageRequest creates or updates a course bundle.
type CreatePackageRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// CreatePackageOfferingRequest prices a package for a cycle.
type CreatePackageOfferingRequest struct {
	PackageID int64   `json:"package_id" validate:"required,min=1"`
	CycleID   int64   `json:"cycle_id" validate:"required,min=1"`
	BasePrice float64 `json:"base_price" validate:"min=0"`
}

// LinkPackageCourseRequest attaches a course to a package.
type LinkPackageCourseRequest struct {
	CourseID int64 `json:"course_id" validate:"required,min=1"`
}

// LinkOfferingCourseRequest pins a concrete course offering to a package
// offering, overriding the earliest-offering fallback during expansion.
type LinkOfferingCourseRequest struct {
	CourseOfferingID int64 `json:"course_offering_id" validate:"required,min=1"`
}
