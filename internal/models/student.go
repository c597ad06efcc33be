package models

import "time"

// Student is a person enrolled (or enrollable) at the academy. Guardian
// contact data is used for payment and attendance notifications.
type Student struct {
	ID           int64     `db:"id" json:"id"`
	DNI          string    `db:"dni" json:"dni"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	ParentName   string    `db:"parent_name" json:"parent_name"`
	ParentPhone  string    `db:"parent_phone" json:"parent_phone"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// FullName joins first and last name for display.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentFilter provides filters for listing students.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}
