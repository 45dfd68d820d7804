package handlers

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nfrund/propertyhub/internal/domain"
)

// memStore is an in-memory catalog collection, usable both as the view's
// Fetcher and as the admin EntityStore.
type memStore[T domain.Entity] struct {
	mu    sync.Mutex
	items []T
	fail  error
}

func (m *memStore[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	return slices.Clone(m.items), nil
}

func (m *memStore[T]) Get(_ context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.fail != nil {
		return zero, m.fail
	}
	for _, it := range m.items {
		if it.EntityID() == id {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
}

func (m *memStore[T]) Create(_ context.Context, _ string, in *T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return *in, m.fail
	}
	m.items = append(m.items, *in)
	return *in, nil
}

func (m *memStore[T]) Update(_ context.Context, _ string, id string, in *T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.EntityID() == id {
			m.items[i] = *in
			return *in, nil
		}
	}
	return *in, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
}

func (m *memStore[T]) Delete(_ context.Context, _ string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.EntityID() == id {
			m.items = slices.Delete(m.items, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", id, domain.ErrNotFound)
}

// fakeSite stands in for the rest of the backend API.
type fakeSite struct {
	mu            sync.Mutex
	favorites     map[string][]domain.Favorite
	inquiries     []domain.Inquiry
	home          []domain.HomeSection
	notifications []domain.Notification
	loginErr      error
}

func newFakeSite() *fakeSite {
	return &fakeSite{favorites: make(map[string][]domain.Favorite)}
}

func (f *fakeSite) Login(_ context.Context, creds domain.Credentials) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "token-for-" + creds.Email, nil
}

func (f *fakeSite) CreateInquiry(_ context.Context, in domain.Inquiry) (domain.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = fmt.Sprintf("inq-%d", len(f.inquiries)+1)
	f.inquiries = append(f.inquiries, in)
	return in, nil
}

func (f *fakeSite) ListInquiries(_ context.Context, token string) ([]domain.Inquiry, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.inquiries), nil
}

func (f *fakeSite) ListNotifications(_ context.Context, token string) ([]domain.Notification, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.notifications), nil
}

func (f *fakeSite) ListFavorites(_ context.Context, visitor string) ([]domain.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.favorites[visitor]), nil
}

func (f *fakeSite) AddFavorite(_ context.Context, visitor string, fav domain.Favorite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites[visitor] = append(f.favorites[visitor], fav)
	return nil
}

func (f *fakeSite) RemoveFavorite(_ context.Context, visitor string, fav domain.Favorite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites[visitor] = slices.DeleteFunc(f.favorites[visitor], func(x domain.Favorite) bool { return x == fav })
	return nil
}

func (f *fakeSite) ListHomeContent(context.Context) ([]domain.HomeSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.home), nil
}

func (f *fakeSite) UpdateHomeContent(_ context.Context, token string, s domain.HomeSection) (domain.HomeSection, error) {
	if token == "" {
		return s, domain.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.home {
		if f.home[i].Section == s.Section {
			f.home[i] = s
			return s, nil
		}
	}
	f.home = append(f.home, s)
	return s, nil
}
