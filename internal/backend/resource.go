package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Resource is a CRUD collection of the backend API. Reads are public;
// writes need the admin bearer token.
type Resource[T any] struct {
	client *Client
	path   string
}

func newResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path}
}

// Path returns the collection path, such as "/properties".
func (r *Resource[T]) Path() string {
	return r.path
}

// List returns every record of the collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.client.do(ctx, call{method: http.MethodGet, path: r.path, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.client.do(ctx, call{method: http.MethodGet, path: r.item(id), out: &out})
	return out, err
}

// Create stores a new record and returns it as saved by the backend.
func (r *Resource[T]) Create(ctx context.Context, token string, in *T) (T, error) {
	var out T
	err := r.client.do(ctx, call{method: http.MethodPost, path: r.path, token: token, body: in, out: &out})
	return out, err
}

// Update replaces a record.
func (r *Resource[T]) Update(ctx context.Context, token, id string, in *T) (T, error) {
	var out T
	err := r.client.do(ctx, call{method: http.MethodPut, path: r.item(id), token: token, body: in, out: &out})
	return out, err
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, token, id string) error {
	return r.client.do(ctx, call{method: http.MethodDelete, path: r.item(id), token: token})
}

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
