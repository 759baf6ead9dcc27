package via

import (
	"errors"
	"sync"
	"testing"

	"github.com/ryanhamamura/viatour/via/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visitBus is an in-memory PubSub delivering synchronously on Publish.
type visitBus struct {
	mu       sync.Mutex
	handlers map[string]map[int]func([]byte)
	seq      int
	// keepOnUnsubscribe simulates a backend still delivering messages that
	// were in flight when the subscription ended.
	keepOnUnsubscribe bool
	subscribeErr      error
}

func newVisitBus() *visitBus {
	return &visitBus{handlers: map[string]map[int]func([]byte){}}
}

func (b *visitBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	var hs []func([]byte)
	for _, fn := range b.handlers[subject] {
		hs = append(hs, fn)
	}
	b.mu.Unlock()
	for _, fn := range hs {
		fn(data)
	}
	return nil
}

func (b *visitBus) Subscribe(subject string, handler func([]byte)) (Subscription, error) {
	if b.subscribeErr != nil {
		return nil, b.subscribeErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[subject] == nil {
		b.handlers[subject] = map[int]func([]byte){}
	}
	b.seq++
	b.handlers[subject][b.seq] = handler
	return visitSub{b, subject, b.seq}, nil
}

func (b *visitBus) Close() error { return nil }

func (b *visitBus) count(subject string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[subject])
}

type visitSub struct {
	b       *visitBus
	subject string
	id      int
}

func (s visitSub) Unsubscribe() error {
	if s.b.keepOnUnsubscribe {
		return nil
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	delete(s.b.handlers[s.subject], s.id)
	return nil
}

func busApp(bus PubSub) *V {
	v := New()
	v.Config(Options{PubSub: bus})
	return v
}

func pageCtx(id string, v *V) *Context {
	c := newContext(id, "/", v)
	c.View(func() h.H { return h.Div() })
	return c
}

func TestContextPubSub_VisitReachesEveryHomePage(t *testing.T) {
	bus := newVisitBus()
	v := busApp(bus)

	var got []string
	for _, id := range []string{"home-1", "home-2"} {
		home := pageCtx(id, v)
		_, err := home.Subscribe("demos.visited", func(data []byte) {
			got = append(got, home.ID()+":"+string(data))
		})
		require.NoError(t, err)
	}

	demosPage := pageCtx("demos-1", v)
	require.NoError(t, demosPage.Publish("demos.visited", []byte("control_flow")))
	require.NoError(t, demosPage.Publish("demos.other", []byte("ignored")))

	assert.ElementsMatch(t, []string{"home-1:control_flow", "home-2:control_flow"}, got)
}

func TestContextPubSub_DisposeDropsPageAndComponentSubscriptions(t *testing.T) {
	bus := newVisitBus()
	v := busApp(bus)

	home := pageCtx("home", v)
	var pageHits, feedHits int
	_, err := home.Subscribe("demos.visited", func([]byte) { pageHits++ })
	require.NoError(t, err)
	home.Component(func(feed *Context) {
		_, err := feed.Subscribe("demos.visited", func([]byte) { feedHits++ })
		require.NoError(t, err)
		feed.View(func() h.H { return h.Ul() })
	})
	assert.Equal(t, 2, bus.count("demos.visited"))

	require.NoError(t, home.Publish("demos.visited", []byte("demo_async")))
	home.dispose()
	require.NoError(t, bus.Publish("demos.visited", []byte("demo_async")))

	assert.Equal(t, 1, pageHits)
	assert.Equal(t, 1, feedHits)
	assert.Zero(t, bus.count("demos.visited"))
	assert.Empty(t, home.subscriptions)
}

func TestContextPubSub_NoDeliveryAfterDispose(t *testing.T) {
	bus := newVisitBus()
	bus.keepOnUnsubscribe = true
	v := busApp(bus)

	home := pageCtx("home", v)
	hits := 0
	_, err := home.Subscribe("demos.visited", func([]byte) { hits++ })
	require.NoError(t, err)

	home.dispose()
	require.NoError(t, bus.Publish("demos.visited", []byte("late")))
	assert.Zero(t, hits)
}

func TestContextPubSub_ManualUnsubscribe(t *testing.T) {
	bus := newVisitBus()
	v := busApp(bus)
	home := pageCtx("home", v)

	hits := 0
	sub, err := home.Subscribe("demos.visited", func([]byte) { hits++ })
	require.NoError(t, err)
	require.NoError(t, sub.Unsubscribe())

	require.NoError(t, home.Publish("demos.visited", []byte("basic_component")))
	assert.Zero(t, hits)
}

func TestContextPubSub_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		home := pageCtx("home", New())
		assert.ErrorContains(t, home.Publish("demos.visited", []byte("x")), `"demos.visited"`)
		sub, err := home.Subscribe("demos.visited", func([]byte) {})
		assert.ErrorContains(t, err, "pubsub not configured")
		assert.Nil(t, sub)
	})

	t.Run("backend refuses", func(t *testing.T) {
		bus := newVisitBus()
		bus.subscribeErr = errors.New("nats: connection closed")
		home := pageCtx("home", busApp(bus))
		_, err := home.Subscribe("demos.visited", func([]byte) {})
		assert.ErrorIs(t, err, bus.subscribeErr)
		assert.Empty(t, home.subscriptions)
	})
}

func TestContextPubSub_SkippedDuringPageRegistration(t *testing.T) {
	bus := newVisitBus()
	v := busApp(bus)

	registered := false
	v.Page("/", func(c *Context) {
		registered = true
		assert.NoError(t, c.Publish("demos.visited", []byte("x")))
		sub, err := c.Subscribe("demos.visited", func([]byte) {})
		assert.NoError(t, err)
		assert.Nil(t, sub)
		c.Component(func(feed *Context) {
			sub, err := feed.Subscribe("demos.visited", func([]byte) {})
			assert.NoError(t, err)
			assert.Nil(t, sub)
			feed.View(func() h.H { return h.Ul() })
		})
		c.View(func() h.H { return h.Div() })
	})

	assert.True(t, registered)
	assert.Zero(t, bus.count("demos.visited"))
}
