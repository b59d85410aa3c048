package remote

import (
	"context"
	"fmt"
	"net/http"

	"vehicleregistry/internal/domain"
)

type loginResponse struct {
	Token string `json:"token"`
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var out loginResponse
	if err := c.request(ctx, http.MethodPost, "/api/auth/", creds, &out, false); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Register(ctx context.Context, creds domain.Credentials) (domain.Profile, error) {
	var out domain.Profile
	if err := c.request(ctx, http.MethodPost, "/api/create/", creds, &out, false); err != nil {
		return domain.Profile{}, err
	}
	return out, nil
}

func (c *Client) FetchProfile(ctx context.Context) (domain.Profile, error) {
	var out domain.Profile
	if err := c.request(ctx, http.MethodGet, "/api/profile/", nil, &out, true); err != nil {
		return domain.Profile{}, err
	}
	return out, nil
}

func (c *Client) ListSegments(ctx context.Context) ([]domain.Segment, error) {
	var out []domain.Segment
	if err := c.request(ctx, http.MethodGet, "/api/segments/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSegment(ctx context.Context, candidate domain.Segment) (domain.Segment, error) {
	in := map[string]any{"segment_name": candidate.SegmentName}
	var out domain.Segment
	if err := c.request(ctx, http.MethodPost, "/api/segments/", in, &out, true); err != nil {
		return domain.Segment{}, err
	}
	return out, nil
}

func (c *Client) UpdateSegment(ctx context.Context, record domain.Segment) (domain.Segment, error) {
	var out domain.Segment
	path := fmt.Sprintf("/api/segments/%d/", record.ID)
	if err := c.request(ctx, http.MethodPut, path, record, &out, true); err != nil {
		return domain.Segment{}, err
	}
	return out, nil
}

func (c *Client) DeleteSegment(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/segments/%d/", id), nil, nil, true)
}

func (c *Client) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var out []domain.Brand
	if err := c.request(ctx, http.MethodGet, "/api/brands/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBrand(ctx context.Context, candidate domain.Brand) (domain.Brand, error) {
	in := map[string]any{"brand_name": candidate.BrandName}
	var out domain.Brand
	if err := c.request(ctx, http.MethodPost, "/api/brands/", in, &out, true); err != nil {
		return domain.Brand{}, err
	}
	return out, nil
}

func (c *Client) UpdateBrand(ctx context.Context, record domain.Brand) (domain.Brand, error) {
	var out domain.Brand
	path := fmt.Sprintf("/api/brands/%d/", record.ID)
	if err := c.request(ctx, http.MethodPut, path, record, &out, true); err != nil {
		return domain.Brand{}, err
	}
	return out, nil
}

func (c *Client) DeleteBrand(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/brands/%d/", id), nil, nil, true)
}

func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	if err := c.request(ctx, http.MethodGet, "/api/vehicles/", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateVehicle(ctx context.Context, candidate domain.Vehicle) (domain.Vehicle, error) {
	in := map[string]any{
		"vehicle_name": candidate.VehicleName,
		"release_year": candidate.ReleaseYear,
		"price":        candidate.Price,
		"segment":      candidate.Segment,
		"brand":        candidate.Brand,
	}
	var out domain.Vehicle
	if err := c.request(ctx, http.MethodPost, "/api/vehicles/", in, &out, true); err != nil {
		return domain.Vehicle{}, err
	}
	return out, nil
}

func (c *Client) UpdateVehicle(ctx context.Context, record domain.Vehicle) (domain.Vehicle, error) {
	var out domain.Vehicle
	path := fmt.Sprintf("/api/vehicles/%d/", record.ID)
	if err := c.request(ctx, http.MethodPut, path, record, &out, true); err != nil {
		return domain.Vehicle{}, err
	}
	return out, nil
}

func (c *Client) DeleteVehicle(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/vehicles/%d/", id), nil, nil, true)
}
