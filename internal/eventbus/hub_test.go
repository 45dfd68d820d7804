package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/propertyhub/internal/topicmgr"
)

func newTestHub(opts ...Option) *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

// recorder collects invocations in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
	seen  []any
}

func (r *recorder) callback(name string) *Callback {
	return Func(name, func(_ context.Context, payload any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)
		r.seen = append(r.seen, payload)
	})
}

func TestEmitInvokesSubscribersInOrder(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}

	hub.Subscribe("properties_changed", rec.callback("first"))
	hub.Subscribe("properties_changed", rec.callback("second"))
	hub.Subscribe("properties_changed", rec.callback("third"))

	payload := &struct{ ID string }{ID: "p1"}
	require.NoError(t, hub.Emit(context.Background(), "properties_changed", payload))

	assert.Equal(t, []string{"first", "second", "third"}, rec.calls)
	for _, seen := range rec.seen {
		assert.Same(t, payload, seen)
	}
}

func TestEmitWithoutSubscribers(t *testing.T) {
	hub := newTestHub()
	assert.NoError(t, hub.Emit(context.Background(), "agents_changed", nil))
	assert.NoError(t, hub.Emit(context.Background(), "never_used", "x"))
	assert.Empty(t, hub.Topics())
}

func TestEmitOnlyReachesTopicSubscribers(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}

	hub.Subscribe("properties_changed", rec.callback("props"))
	hub.Subscribe("agents_changed", rec.callback("agents"))

	require.NoError(t, hub.Emit(context.Background(), "agents_changed", nil))
	assert.Equal(t, []string{"agents"}, rec.calls)
}

func TestSubscribeNilCallbackIgnored(t *testing.T) {
	hub := newTestHub()
	hub.Subscribe("favorites_changed", nil)
	assert.Equal(t, 0, hub.SubscriberCount("favorites_changed"))
}

func TestDuplicateSubscriptionDeliversTwice(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	cb := rec.callback("dup")

	hub.Subscribe("builders_changed", cb)
	hub.Subscribe("builders_changed", cb)
	assert.Equal(t, 2, hub.SubscriberCount("builders_changed"))

	require.NoError(t, hub.Emit(context.Background(), "builders_changed", nil))
	assert.Equal(t, []string{"dup", "dup"}, rec.calls)
}

func TestUnsubscribeRemovesAllOccurrences(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	cb := rec.callback("dup")
	other := rec.callback("other")

	hub.Subscribe("builders_changed", cb)
	hub.Subscribe("builders_changed", other)
	hub.Subscribe("builders_changed", cb)

	hub.Unsubscribe("builders_changed", cb)
	assert.Equal(t, 1, hub.SubscriberCount("builders_changed"))

	require.NoError(t, hub.Emit(context.Background(), "builders_changed", nil))
	assert.Equal(t, []string{"other"}, rec.calls)
}

func TestUnsubscribeIsScopedToTopic(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	cb := rec.callback("shared")

	hub.Subscribe("properties_changed", cb)
	hub.Subscribe("projects_changed", cb)
	hub.Unsubscribe("properties_changed", cb)

	require.NoError(t, hub.Emit(context.Background(), "properties_changed", nil))
	require.NoError(t, hub.Emit(context.Background(), "projects_changed", nil))
	assert.Equal(t, []string{"shared"}, rec.calls)
	assert.Equal(t, []string{"projects_changed"}, hub.Topics())
}

func TestUnsubscribeUnknownIsNoop(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	cb := rec.callback("a")

	hub.Unsubscribe("nothing_here", cb)
	hub.Subscribe("agents_changed", cb)
	hub.Unsubscribe("agents_changed", rec.callback("a"))
	hub.Unsubscribe("agents_changed", nil)

	assert.Equal(t, 1, hub.SubscriberCount("agents_changed"))
}

// Both subscribers see the same payload once.
func TestEmitSamePayloadToEverySubscriber(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}

	hub.Subscribe("agents_changed", rec.callback("cbA"))
	hub.Subscribe("agents_changed", rec.callback("cbB"))

	payload := map[string]any{"entityId": 7}
	require.NoError(t, hub.Emit(context.Background(), "agents_changed", payload))

	assert.Equal(t, []string{"cbA", "cbB"}, rec.calls)
	require.Len(t, rec.seen, 2)
	assert.Equal(t, payload, rec.seen[0])
	assert.Equal(t, payload, rec.seen[1])
}

// An unsubscribed callback is not notified.
func TestUnsubscribedCallbackNotCalled(t *testing.T) {
	hub := newTestHub()
	called := 0
	cbA := Func("cbA", func(context.Context, any) { called++ })

	hub.Subscribe("favorites_changed", cbA)
	hub.Unsubscribe("favorites_changed", cbA)
	require.NoError(t, hub.Emit(context.Background(), "favorites_changed", "anything"))
	assert.Equal(t, 0, called)
}

// Emitting with nobody listening has no effect.
func TestEmitUnsubscribedTopicLeavesHubEmpty(t *testing.T) {
	hub := newTestHub()
	assert.NotPanics(t, func() {
		assert.NoError(t, hub.Emit(context.Background(), "projects_changed", nil))
	})
	assert.Equal(t, 0, hub.SubscriberCount("projects_changed"))
	assert.Empty(t, hub.Counts())
}

// A callback removing a later one prevents its pending delivery.
func TestUnsubscribeLaterDuringEmit(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	cbB := rec.callback("cbB")

	cbA := Func("cbA", func(context.Context, any) {
		hub.Unsubscribe("home_content_changed", cbB)
	})
	hub.Subscribe("home_content_changed", cbA)
	hub.Subscribe("home_content_changed", cbB)

	for i := 0; i < 3; i++ {
		require.NoError(t, hub.Emit(context.Background(), "home_content_changed", nil))
	}
	assert.Empty(t, rec.calls)
	assert.Equal(t, 1, hub.SubscriberCount("home_content_changed"))
}

// Removing an earlier subscriber during emission does not affect the current
// delivery of later ones.
func TestUnsubscribeEarlierDuringEmit(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	cbA := rec.callback("cbA")

	cbB := Func("cbB", func(context.Context, any) {
		hub.Unsubscribe("home_content_changed", cbA)
	})
	cbC := rec.callback("cbC")
	hub.Subscribe("home_content_changed", cbA)
	hub.Subscribe("home_content_changed", cbB)
	hub.Subscribe("home_content_changed", cbC)

	require.NoError(t, hub.Emit(context.Background(), "home_content_changed", nil))
	require.NoError(t, hub.Emit(context.Background(), "home_content_changed", nil))
	assert.Equal(t, []string{"cbA", "cbC", "cbC"}, rec.calls)
}

func TestSubscribeDuringEmitWaitsForNextEmission(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	late := rec.callback("late")

	adder := Func("adder", func(context.Context, any) {
		hub.Subscribe("home_content_changed", late)
	})
	hub.Subscribe("home_content_changed", adder)

	require.NoError(t, hub.Emit(context.Background(), "home_content_changed", nil))
	assert.Empty(t, rec.calls)

	hub.Unsubscribe("home_content_changed", adder)
	require.NoError(t, hub.Emit(context.Background(), "home_content_changed", nil))
	assert.Equal(t, []string{"late"}, rec.calls)
}

func TestSelfUnsubscribeDuringEmit(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	calls := 0

	var once *Callback
	once = Func("once", func(context.Context, any) {
		calls++
		hub.Unsubscribe("favorites_changed", once)
	})
	hub.Subscribe("favorites_changed", once)
	hub.Subscribe("favorites_changed", rec.callback("after"))

	require.NoError(t, hub.Emit(context.Background(), "favorites_changed", nil))
	require.NoError(t, hub.Emit(context.Background(), "favorites_changed", nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"after", "after"}, rec.calls)
}

func TestFailingSubscriberDoesNotStopDelivery(t *testing.T) {
	hub := newTestHub()
	rec := &recorder{}
	boom := errors.New("refetch failed")

	hub.Subscribe("properties_changed", rec.callback("before"))
	hub.Subscribe("properties_changed", NewCallback("broken", func(context.Context, any) error {
		return boom
	}))
	hub.Subscribe("properties_changed", NewCallback("panicky", func(context.Context, any) error {
		panic("nil map")
	}))
	hub.Subscribe("properties_changed", rec.callback("after"))

	err := hub.Emit(context.Background(), "properties_changed", nil)
	require.Error(t, err)
	assert.Equal(t, []string{"before", "after"}, rec.calls)

	var emitErr *EmitError
	require.ErrorAs(t, err, &emitErr)
	assert.Equal(t, "properties_changed", emitErr.Topic)
	assert.Equal(t, 4, emitErr.Delivered)
	require.Len(t, emitErr.Failures, 2)
	assert.Equal(t, "broken", emitErr.Failures[0].Subscriber)
	assert.Equal(t, "panicky", emitErr.Failures[1].Subscriber)

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrSubscriberPanic)

	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "nil map", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
}

func TestConcurrentSubscribeAndEmit(t *testing.T) {
	hub := newTestHub()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cb := Func("worker", func(context.Context, any) {})
			hub.Subscribe("projects_changed", cb)
			hub.Unsubscribe("projects_changed", cb)
		}()
		go func() {
			defer wg.Done()
			_ = hub.Emit(context.Background(), "projects_changed", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.SubscriberCount("projects_changed"))
}

func TestCounts(t *testing.T) {
	hub := newTestHub()
	hub.Subscribe("a_changed", Func("x", func(context.Context, any) {}))
	hub.Subscribe("a_changed", Func("y", func(context.Context, any) {}))
	hub.Subscribe("b_changed", Func("z", func(context.Context, any) {}))

	assert.Equal(t, map[string]int{"a_changed": 2, "b_changed": 1}, hub.Counts())
	assert.Equal(t, []string{"a_changed", "b_changed"}, hub.Topics())
}

func TestUnregisteredTopicStillDelivers(t *testing.T) {
	hub := newTestHub(WithTopics(topicmgr.NewManager()))
	rec := &recorder{}

	hub.Subscribe("adhoc_topic", rec.callback("adhoc"))
	require.NoError(t, hub.Emit(context.Background(), "adhoc_topic", nil))
	assert.Equal(t, []string{"adhoc"}, rec.calls)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	hub := newTestHub(WithMetrics(metrics))

	ok := Func("ok", func(context.Context, any) {})
	hub.Subscribe("agents_changed", ok)
	hub.Subscribe("agents_changed", NewCallback("bad", func(context.Context, any) error {
		return errors.New("bad")
	}))

	_ = hub.Emit(context.Background(), "agents_changed", nil)
	_ = hub.Emit(context.Background(), "agents_changed", nil)
	_ = hub.Emit(context.Background(), "empty_topic", nil)

	// The emission without subscribers leaves no series behind.
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.emissions))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.emissions.WithLabelValues("agents_changed")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.deliveries.WithLabelValues("agents_changed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.failures.WithLabelValues("agents_changed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.subscribers.WithLabelValues("agents_changed")))

	hub.Unsubscribe("agents_changed", ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.subscribers.WithLabelValues("agents_changed")))
}

func TestNewCallbackNilHandlerPanics(t *testing.T) {
	assert.Panics(t, func() { NewCallback("nil", nil) })
	assert.Equal(t, "anonymous", Func("", func(context.Context, any) {}).Name())
}
