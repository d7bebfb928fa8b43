package domain

import "time"

// SavedProperty is a user's bookmark of a property. At most one exists per
// (user, property) pair.
type SavedProperty struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PropertyID string    `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
	Property   Property  `json:"property"`
}

// SaveRequest is the body for POST /api/saved.
type SaveRequest struct {
	PropertyID ID `json:"property_id"`
}

// SavedCheckResponse is the body for GET /api/saved/check/{propertyId}.
type SavedCheckResponse struct {
	Saved bool `json:"saved"`
}
