package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

type SavedAPI struct{ c *Client }

func (s *SavedAPI) List(ctx context.Context) ([]domain.SavedProperty, error) {
	var saved []domain.SavedProperty
	if err := s.c.do(ctx, http.MethodGet, "/saved", nil, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SavedAPI) Check(ctx context.Context, propertyID string) (bool, error) {
	var resp domain.SavedCheckResponse
	if err := s.c.do(ctx, http.MethodGet, "/saved/check/"+url.PathEscape(propertyID), nil, &resp); err != nil {
		return false, err
	}
	return resp.Saved, nil
}

func (s *SavedAPI) Save(ctx context.Context, propertyID string) (string, error) {
	var resp domain.CreatedResponse
	if err := s.c.do(ctx, http.MethodPost, "/saved", domain.SaveRequest{PropertyID: domain.ID(propertyID)}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (s *SavedAPI) Unsave(ctx context.Context, propertyID string) error {
	return s.c.do(ctx, http.MethodDelete, "/saved/"+url.PathEscape(propertyID), nil, nil)
}
