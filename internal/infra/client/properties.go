package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

type PropertiesAPI struct{ c *Client }

// List returns available properties, newest first.
func (p *PropertiesAPI) List(ctx context.Context) ([]domain.Property, error) {
	var props []domain.Property
	if err := p.c.do(ctx, http.MethodGet, "/properties", nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (p *PropertiesAPI) Featured(ctx context.Context) ([]domain.Property, error) {
	var props []domain.Property
	if err := p.c.do(ctx, http.MethodGet, "/properties/featured", nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (p *PropertiesAPI) Get(ctx context.Context, id string) (*domain.Property, error) {
	var prop domain.Property
	if err := p.c.do(ctx, http.MethodGet, "/properties/"+url.PathEscape(id), nil, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// Create lists a new property and returns its id. Requires a session.
func (p *PropertiesAPI) Create(ctx context.Context, req *domain.CreatePropertyRequest) (string, error) {
	var resp domain.CreatedResponse
	if err := p.c.do(ctx, http.MethodPost, "/properties", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Search fetches the listing once and refines it locally.
func (p *PropertiesAPI) Search(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, error) {
	props, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterProperties(props, f), nil
}
