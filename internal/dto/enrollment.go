package dto

import "github.com/academia-sys/academia-api/internal/models"

// EnrollItem names one offering a student wants to enroll in.
type EnrollItem struct {
	Type models.EnrollmentType `json:"type" validate:"required,oneof=course package"`
	ID   int64                 `json:"id" validate:"required,min=1"`
}

// EnrollRequest is the batch enrollment payload.
type EnrollRequest struct {
	Items []EnrollItem `json:"items" validate:"required,min=1,dive"`
}

// EnrollResponse reports every entry the batch created.
type EnrollResponse struct {
	StudentID int64                 `json:"student_id"`
	Created   []models.CreatedEntry `json:"created"`
}
