package models

// Course is a catalog definition independent of any cycle.
type Course struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	BasePrice   float64 `db:"base_price" json:"base_price"`
}

// CourseOffering is a course instantiated in a cycle, optionally with a
// teacher, group label, capacity and price override. Capacity is stored but
// not enforced at enrollment time.
type CourseOffering struct {
	ID            int64    `db:"id" json:"id"`
	CourseID      int64    `db:"course_id" json:"course_id"`
	CycleID       int64    `db:"cycle_id" json:"cycle_id"`
	TeacherID     *int64   `db:"teacher_id" json:"teacher_id,omitempty"`
	GroupLabel    *string  `db:"group_label" json:"group_label,omitempty"`
	PriceOverride *float64 `db:"price_override" json:"price_override,omitempty"`
	Capacity      *int     `db:"capacity" json:"capacity,omitempty"`
}

// CourseOfferingDetail enriches a CourseOffering with catalog names.
type CourseOfferingDetail struct {
	CourseOffering
	CourseName  string  `db:"course_name" json:"course_name"`
	CycleName   *string `db:"cycle_name" json:"cycle_name,omitempty"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}
