package domain

import "time"

// ============================================================
// Rentals
// ============================================================

// RentalStatus is the state of a rental application. Any status may follow
// any other.
type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusApproved  RentalStatus = "approved"
	RentalStatusRejected  RentalStatus = "rejected"
	RentalStatusCompleted RentalStatus = "completed"
)

// Valid reports whether s is a known rental status.
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusPending, RentalStatusApproved, RentalStatusRejected, RentalStatusCompleted:
		return true
	}
	return false
}

// DateLayout is the calendar date format used for lease boundaries.
const DateLayout = "2006-01-02"

// LeaseMonths is the multiplier applied to a monthly price when the total
// lease amount is derived.
const LeaseMonths = 12

// Rental is an application by a user for one property.
type Rental struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	PropertyID  string       `json:"property_id"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Status      RentalStatus `json:"status"`
	TotalAmount *float64     `json:"total_amount"`
	Notes       *string      `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RentalProperty is the slice of a property shown next to a rental.
type RentalProperty struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Address string     `json:"address"`
	City    string     `json:"city"`
	State   *string    `json:"state"`
	Images  StringList `json:"images"`
	Price   float64    `json:"price"`
}

// RentalWithProperty is a rental joined with its property projection.
type RentalWithProperty struct {
	Rental
	Property RentalProperty `json:"property"`
}

// CreateRentalRequest is the body for POST /api/rentals.
type CreateRentalRequest struct {
	PropertyID  ID       `json:"property_id"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	TotalAmount *float64 `json:"total_amount"`
	Notes       *string  `json:"notes"`
}

// UpdateRentalRequest is the body for PATCH /api/rentals/{id}.
type UpdateRentalRequest struct {
	Status RentalStatus `json:"status"`
}

// DeriveTotalAmount returns the lease total for a monthly price.
func DeriveTotalAmount(monthlyPrice float64) float64 {
	return monthlyPrice * LeaseMonths
}
