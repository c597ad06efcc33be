package models

// Package bundles a set of courses sold together at a single price.
type Package struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	BasePrice   float64 `db:"base_price" json:"base_price"`
}

// PackageDetail enriches a Package with the names of its declared courses.
type PackageDetail struct {
	Package
	Courses *string `db:"courses" json:"courses,omitempty"`
}

// PackageOffering is a package instantiated in a cycle. The link to concrete
// course offerings lives in package_offering_courses; when that mapping is
// absent the declared package_courses set plus the cycle act as a fallback.
type PackageOffering struct {
	ID            int64    `db:"id" json:"id"`
	PackageID     int64    `db:"package_id" json:"package_id"`
	CycleID       int64    `db:"cycle_id" json:"cycle_id"`
	GroupLabel    *string  `db:"group_label" json:"group_label,omitempty"`
	PriceOverride *float64 `db:"price_override" json:"price_override,omitempty"`
	Capacity      *int     `db:"capacity" json:"capacity,omitempty"`
}

// PackageOfferingDetail enriches a PackageOffering with catalog names.
type PackageOfferingDetail struct {
	PackageOffering
	PackageName string  `db:"package_name" json:"package_name"`
	BasePrice   float64 `db:"base_price" json:"base_price"`
	CycleName   *string `db:"cycle_name" json:"cycle_name,omitempty"`
}
