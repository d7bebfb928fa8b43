package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

type RentalsAPI struct{ c *Client }

// List returns the session user's rentals.
func (r *RentalsAPI) List(ctx context.Context) ([]domain.RentalWithProperty, error) {
	var rentals []domain.RentalWithProperty
	if err := r.c.do(ctx, http.MethodGet, "/rentals", nil, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *RentalsAPI) Create(ctx context.Context, req *domain.CreateRentalRequest) (string, error) {
	var resp domain.CreatedResponse
	if err := r.c.do(ctx, http.MethodPost, "/rentals", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Apply submits an application for prop with the total set to a year of rent.
func (r *RentalsAPI) Apply(ctx context.Context, prop *domain.Property, startDate, endDate string, notes *string) (string, error) {
	total := domain.DeriveTotalAmount(prop.Price)
	return r.Create(ctx, &domain.CreateRentalRequest{
		PropertyID:  domain.ID(prop.ID),
		StartDate:   startDate,
		EndDate:     endDate,
		TotalAmount: &total,
		Notes:       notes,
	})
}

func (r *RentalsAPI) UpdateStatus(ctx context.Context, id string, status domain.RentalStatus) error {
	return r.c.do(ctx, http.MethodPatch, "/rentals/"+url.PathEscape(id), domain.UpdateRentalRequest{Status: status}, nil)
}
