package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nfrund/propertyhub/internal/domain"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: creds, out: &out}); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{Status: http.StatusOK, Method: http.MethodPost, Path: "/auth/login",
			Message: "empty token", Err: domain.ErrUnauthorized}
	}
	return out.Token, nil
}

// CreateInquiry submits a contact request.
func (c *Client) CreateInquiry(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error) {
	var out domain.Inquiry
	err := c.do(ctx, call{method: http.MethodPost, path: "/inquiries", body: in, out: &out})
	return out, err
}

// ListInquiries returns the inquiries received so far.
func (c *Client) ListInquiries(ctx context.Context, token string) ([]domain.Inquiry, error) {
	var out []domain.Inquiry
	if err := c.do(ctx, call{method: http.MethodGet, path: "/inquiries", token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// ListNotifications returns admin notifications.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := c.do(ctx, call{method: http.MethodGet, path: "/notifications", token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFavorites returns the favorites of a visitor.
func (c *Client) ListFavorites(ctx context.Context, visitor string) ([]domain.Favorite, error) {
	var out []domain.Favorite
	q := url.Values{"visitor": {visitor}}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/favorites", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFavorite saves an entity for a visitor.
func (c *Client) AddFavorite(ctx context.Context, visitor string, fav domain.Favorite) error {
	q := url.Values{"visitor": {visitor}}
	return c.do(ctx, call{method: http.MethodPost, path: "/favorites", query: q, body: fav})
}

// RemoveFavorite drops a saved entity for a visitor.
func (c *Client) RemoveFavorite(ctx context.Context, visitor string, fav domain.Favorite) error {
	q := url.Values{"visitor": {visitor}}
	path := "/favorites/" + url.PathEscape(fav.EntityType) + "/" + url.PathEscape(fav.EntityID)
	return c.do(ctx, call{method: http.MethodDelete, path: path, query: q})
}

// ListHomeContent returns every home page section.
func (c *Client) ListHomeContent(ctx context.Context) ([]domain.HomeSection, error) {
	var out []domain.HomeSection
	if err := c.do(ctx, call{method: http.MethodGet, path: "/home-content", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateHomeContent replaces the content of one section.
func (c *Client) UpdateHomeContent(ctx context.Context, token string, section domain.HomeSection) (domain.HomeSection, error) {
	var out domain.HomeSection
	path := "/home-content/" + url.PathEscape(section.Section)
	err := c.do(ctx, call{method: http.MethodPut, path: path, token: token, body: section, out: &out})
	return out, err
}
