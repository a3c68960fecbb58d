package domain

import "time"

// Category is the product category shown in the storefront navigation.
type Category string

const (
	CategoryCurtains Category = "Curtains"
	CategoryBeddings Category = "Beddings"
)

// Valid reports whether the category is one of the supported values.
func (c Category) Valid() bool {
	switch c {
	case CategoryCurtains, CategoryBeddings:
		return true
	default:
		return false
	}
}

// Product is a catalog record. The ID is assigned by the persistent store;
// a product is immutable once displayed and changes only through the admin
// mutations on the catalog.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor is the price in minor currency units (whole Ksh in the
	// storefront; there is no sub-unit pricing).
	PriceMinor int64
	ImageURL   string
	Category   Category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the product invariants and returns every violation found.
func (p *Product) Validate() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceNegative)
	}
	if !p.Category.Valid() {
		errs = append(errs, ErrProductCategoryInvalid)
	}

	return errs
}
