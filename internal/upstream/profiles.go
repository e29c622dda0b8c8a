package upstream

import (
	"context"
	"net/http"
	"net/url"

	"campus-auth/internal/model"
)

const profileColumns = "id,username,email,avatar_url,bio,department,year"

// ProfileByEmail looks up a profile row by email. A miss is (nil, nil):
// this call backs the advisory duplicate pre-check, where absence is the
// expected answer.
func (c *Client) ProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	query := url.Values{}
	query.Set("select", "id,email")
	query.Set("email", "eq."+email)
	query.Set("limit", "1")

	var rows []model.Profile
	if err := c.do(ctx, http.MethodGet, "/rest/v1/profiles", query, nil, &rows); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

// Profile fetches the restricted projection served by /me.
func (c *Client) Profile(ctx context.Context, id string) (model.Profile, error) {
	query := url.Values{}
	query.Set("select", profileColumns)
	query.Set("id", "eq."+id)
	query.Set("limit", "1")

	var rows []model.Profile
	if err := c.do(ctx, http.MethodGet, "/rest/v1/profiles", query, nil, &rows); err != nil {
		return model.Profile{}, err
	}

	if len(rows) == 0 {
		return model.Profile{}, model.ErrUserNotFound
	}

	return rows[0], nil
}

// UpdateProfile patches profile columns for one user.
func (c *Client) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	return c.do(ctx, http.MethodPatch, "/rest/v1/profiles", query, fields, nil)
}
