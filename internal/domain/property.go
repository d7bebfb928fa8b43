// Package domain defines the core marketplace entities: properties, rental
// applications, saved properties, contact messages and users. These types are
// shared by every store backend and by the HTTP layer.
package domain

import "time"

// ============================================================
// Property
// ============================================================

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeOffice     PropertyType = "office"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypePenthouse  PropertyType = "penthouse"
	PropertyTypeCommercial PropertyType = "commercial"
)

// Valid reports whether t is one of the known property types.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeOffice, PropertyTypeStudio,
		PropertyTypePenthouse, PropertyTypeCommercial:
		return true
	}
	return false
}

// PropertyStatus gates listing visibility.
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusRented      PropertyStatus = "rented"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

// FeaturedLimit caps the featured listing.
const FeaturedLimit = 6

// Property is a rentable listing. Only available properties appear in
// general listings; only featured and available ones in the featured set.
type Property struct {
	ID           string         `json:"id" db:"id"`
	Title        string         `json:"title" db:"title"`
	Description  *string        `json:"description" db:"description"`
	Address      string         `json:"address" db:"address"`
	City         string         `json:"city" db:"city"`
	State        *string        `json:"state" db:"state"`
	ZipCode      *string        `json:"zip_code" db:"zip_code"`
	Country      *string        `json:"country" db:"country"`
	Latitude     *float64       `json:"latitude" db:"latitude"`
	Longitude    *float64       `json:"longitude" db:"longitude"`
	Price        float64        `json:"price" db:"price"`
	Bedrooms     *int           `json:"bedrooms" db:"bedrooms"`
	Bathrooms    *int           `json:"bathrooms" db:"bathrooms"`
	AreaSqft     *float64       `json:"area_sqft" db:"area_sqft"`
	PropertyType PropertyType   `json:"property_type" db:"property_type"`
	Status       PropertyStatus `json:"status" db:"status"`
	Amenities    StringList     `json:"amenities" db:"amenities"`
	Images       StringList     `json:"images" db:"images"`
	Featured     bool           `json:"featured" db:"featured"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Normalize replaces nil lists with empty ones.
func (p *Property) Normalize() {
	p.Amenities = p.Amenities.OrEmpty()
	p.Images = p.Images.OrEmpty()
}

// CreatePropertyRequest is the body for POST /api/properties.
type CreatePropertyRequest struct {
	Title        string       `json:"title"`
	Description  *string      `json:"description"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	State        *string      `json:"state"`
	ZipCode      *string      `json:"zip_code"`
	Country      string       `json:"country"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	Price        float64      `json:"price"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    int          `json:"bathrooms"`
	AreaSqft     *float64     `json:"area_sqft"`
	PropertyType PropertyType `json:"property_type"`
	Amenities    StringList   `json:"amenities"`
	Images       StringList   `json:"images"`
	Featured     bool         `json:"featured"`
}

// ApplyDefaults fills the persistence defaults: country USA, one bedroom,
// one bathroom, apartment type and empty lists.
func (r *CreatePropertyRequest) ApplyDefaults() {
	if r.Country == "" {
		r.Country = "USA"
	}
	if r.Bedrooms == 0 {
		r.Bedrooms = 1
	}
	if r.Bathrooms == 0 {
		r.Bathrooms = 1
	}
	if r.PropertyType == "" {
		r.PropertyType = PropertyTypeApartment
	}
	r.Amenities = r.Amenities.OrEmpty()
	r.Images = r.Images.OrEmpty()
}

// CreatedResponse is returned by every create endpoint.
type CreatedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// MessageResponse is returned by update and delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
