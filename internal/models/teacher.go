package models

// Teacher is a member of the teaching staff assignable to course offerings.
type Teacher struct {
	ID             int64  `db:"id" json:"id"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	DNI            string `db:"dni" json:"dni"`
	Phone          string `db:"phone" json:"phone"`
	Email          string `db:"email" json:"email"`
	Specialization string `db:"specialization" json:"specialization"`
}

// FullName joins first and last name for display.
func (t Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
