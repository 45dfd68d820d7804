package views

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/propertyhub/internal/domain"
)

type fakeNotifications struct {
	mu     sync.Mutex
	items  []domain.Notification
	err    error
	tokens []string
}

func (f *fakeNotifications) ListNotifications(_ context.Context, token string) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	return f.items, f.err
}

func (f *fakeNotifications) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

func TestPollerSkipsWithoutToken(t *testing.T) {
	src := &fakeNotifications{}
	p := NewNotificationPoller(src, time.Minute, discardLogger())

	p.Poll(context.Background())
	assert.Equal(t, 0, src.count())
	assert.True(t, p.LastPoll().IsZero())
}

func TestPollerFetchesWithToken(t *testing.T) {
	src := &fakeNotifications{items: []domain.Notification{
		{ID: "n1", Message: "New inquiry"},
		{ID: "n2", Message: "Listing expired", Read: true},
	}}
	p := NewNotificationPoller(src, time.Minute, discardLogger())
	p.SetToken("tok")

	p.Poll(context.Background())
	assert.Len(t, p.Notifications(), 2)
	assert.Equal(t, 1, p.Unread())
	assert.Equal(t, []string{"tok"}, src.tokens)

	src.err = errors.New("timeout")
	p.Poll(context.Background())
	assert.Len(t, p.Notifications(), 2, "failure keeps previous notifications")
	assert.Error(t, p.Err())

	p.SetToken("")
	assert.Empty(t, p.Notifications())
	assert.NoError(t, p.Err())
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	src := &fakeNotifications{}
	p := NewNotificationPoller(src, 5*time.Millisecond, discardLogger())
	p.SetToken("tok")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.count() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
