package app

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ryanhamamura/viatour/internal/demos"
	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/viatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakePubSub struct {
	mu        sync.Mutex
	handlers  map[string]map[int]func([]byte)
	nextID    int
	published []published
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{handlers: map[string]map[int]func([]byte){}}
}

func (f *fakePubSub) Publish(subject string, data []byte) error {
	f.mu.Lock()
	f.published = append(f.published, published{subject, data})
	var hs []func([]byte)
	for _, h := range f.handlers[subject] {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(data)
	}
	return nil
}

func (f *fakePubSub) Subscribe(subject string, handler func([]byte)) (via.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers[subject] == nil {
		f.handlers[subject] = map[int]func([]byte){}
	}
	id := f.nextID
	f.nextID++
	f.handlers[subject][id] = handler
	return &fakeSub{f, subject, id}, nil
}

func (f *fakePubSub) Close() error { return nil }

func (f *fakePubSub) visits(t *testing.T) []Visit {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var visits []Visit
	for _, p := range f.published {
		require.Equal(t, VisitSubject, p.subject)
		var v Visit
		require.NoError(t, json.Unmarshal(p.data, &v))
		visits = append(visits, v)
	}
	return visits
}

type fakeSub struct {
	f       *fakePubSub
	subject string
	id      int
}

func (s *fakeSub) Unsubscribe() error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	delete(s.f.handlers[s.subject], s.id)
	return nil
}

func newTestApp(t *testing.T, opts Options, cfg via.Options) *viatest.Browser {
	t.Helper()
	opts.Demos = demos.Options{Latency: 5 * time.Millisecond}
	v := via.New()
	cfg.Plugins = []via.Plugin{Bulma}
	v.Config(cfg)
	_, err := New(v, opts)
	require.NoError(t, err)
	return viatest.New(t, v.Handler())
}

func TestDemosIndex(t *testing.T) {
	b := newTestApp(t, Options{}, via.Options{})
	for _, path := range []string{"/demos", "/demos/"} {
		p := b.Get(path)
		require.Equal(t, 200, p.Status, path)
		assert.Contains(t, p.Body, "Select a demo to see the details.")
		assert.Contains(t, p.Body, "current menu: </p>")
		assert.Len(t, p.FindAll(`<a href="/demos/\w+" data-on:click=`), 10)
		assert.NotContains(t, p.Body, "is-active")
		assert.NotContains(t, p.Body, "continue with")
	}
}

func TestDemoRoutes(t *testing.T) {
	b := newTestApp(t, Options{}, via.Options{})

	p := b.Get("/demos/control_flow")
	assert.Contains(t, p.Body, "current menu: control_flow")
	assert.Contains(t, p.Body, "<h1 class=\"title\">Demo control flow</h1>")
	active := p.FindAll(`<a href="(/demos/\w+)" class="is-active"`)
	require.Len(t, active, 1)
	assert.Equal(t, "/demos/control_flow", active[0][1])

	p = b.Get("/demos/zzz")
	assert.Equal(t, 200, p.Status)
	assert.Contains(t, p.Body, "<p>ComponentNotFound</p>")
	assert.Contains(t, p.Body, "current menu: zzz")
	assert.NotContains(t, p.Body, "is-active")

	p = b.Get("/demos/demo_nested_route/contacts/bob/conversations")
	assert.Contains(t, p.Body, "<h4>Bob</h4>")
	assert.Contains(t, p.Body, "(Conversations)")
}

func TestDemoTailsOnlyForNestedRoute(t *testing.T) {
	b := newTestApp(t, Options{}, via.Options{})

	for _, path := range []string{"/demos/basic_component/extra", "/demos/zzz/more", "/demos/control_flow/a/b"} {
		p := b.Get(path)
		assert.Equal(t, 404, p.Status, path)
		assert.Contains(t, p.Body, "Route Not Found", path)
		assert.NotContains(t, p.Body, "menu-list", path)
	}

	p := b.Get("/demos/" + demos.NestedRouteSegment + "/contacts/alice")
	assert.Equal(t, 200, p.Status)
	assert.Contains(t, p.Body, "<h4>Alice</h4>")
}

func TestHomeNotFoundAndAssets(t *testing.T) {
	b := newTestApp(t, Options{}, via.Options{})

	p := b.Get("/")
	assert.Equal(t, 200, p.Status)
	assert.Contains(t, p.Body, "Home Page")
	assert.Contains(t, p.Body, `<div class="column">3</div>`)
	assert.Contains(t, p.Body, `href="/assets/app.css"`)
	assert.Contains(t, p.Body, "bulma.min.css")
	assert.NotContains(t, p.Body, "Recent visits")

	p = b.Get("/nope/deeper")
	assert.Equal(t, 404, p.Status)
	assert.Contains(t, p.Body, "Route Not Found")

	css := b.Get("/assets/app.css")
	assert.Equal(t, 200, css.Status)
	assert.Contains(t, css.Body, ".button-20")
}

func TestNavigateWritesSelection(t *testing.T) {
	b := newTestApp(t, Options{}, via.Options{})
	p := b.Get("/demos/")

	link := p.Find(`<a href="/demos/basic_component" data-on:click="evt.preventDefault\(\);\$(s\w+)='basic_component';@get\('/_action/(\w+)'\)">basic components</a>`)
	sig, navigate := link[1], link[2]
	s := p.Connect()

	require.Equal(t, 200, p.Action(navigate, map[string]any{sig: "basic_component"}))
	s.WaitFor("replaceState", "/demos/basic_component")
	ev := s.WaitFor("current menu: basic_component", "Click me: 0")
	assert.Contains(t, ev, `<a href="/demos/basic_component" class="is-active"`)
	assert.NotContains(t, ev, "Select a demo to see the details.")

	click := viatest.Match(t, ev, `data-on:click="@get\('/_action/(\w+)'\)">Click me: 0`)
	require.Equal(t, 200, p.Action(click[1], nil))
	s.WaitFor("Click me: 1")

	// demos stay mounted while another one is shown
	require.Equal(t, 200, p.Action(navigate, map[string]any{sig: "control_flow"}))
	s.WaitFor("current menu: control_flow", "Demo control flow")
	require.Equal(t, 200, p.Action(navigate, map[string]any{sig: "basic_component"}))
	s.WaitFor("current menu: basic_component", "Click me: 1")

	require.Equal(t, 200, p.Action(navigate, map[string]any{sig: "bogus"}))
	ev = s.WaitFor("current menu: bogus")
	assert.Contains(t, ev, "<p>ComponentNotFound</p>")
	assert.NotContains(t, ev, "is-active")
}

func TestMenuClicksThrottled(t *testing.T) {
	b := newTestApp(t, Options{NavigateLimit: via.RateLimitConfig{Rate: 0.001, Burst: 2}}, via.Options{SessionManager: scs.New()})
	p := b.Get("/demos/")
	link := p.Find(`\$(s\w+)='basic_component';@get\('/_action/(\w+)'\)`)
	sig, navigate := link[1], link[2]
	s := p.Connect()

	require.Equal(t, 200, p.Action(navigate, map[string]any{sig: "basic_component"}))
	require.Equal(t, 200, p.Action(navigate, map[string]any{sig: "control_flow"}))
	assert.Equal(t, 429, p.Action(navigate, map[string]any{sig: "demo_async"}))
	s.WaitFor("current menu: control_flow", "Demo control flow")

	// the rejected click never reached the holder or its observers
	assert.Contains(t, b.Get("/demos/").Body, `continue with <a href="/demos/control_flow"`)
}

func TestSessionRemembersLastDemo(t *testing.T) {
	b := newTestApp(t, Options{}, via.Options{SessionManager: scs.New()})

	b.Get("/demos/demo_async")
	p := b.Get("/demos/")
	assert.Contains(t, p.Body, `continue with <a href="/demos/demo_async"`)
	assert.Contains(t, p.Body, ">demo async</a>")

	// unknown segments are not remembered
	b.Get("/demos/zzz")
	p = b.Get("/demos/")
	assert.Contains(t, p.Body, `continue with <a href="/demos/demo_async"`)

	// the link is hidden once a demo is selected
	p = b.Get("/demos/control_flow")
	assert.NotContains(t, p.Body, "continue with")

	// navigating through the menu updates the session too
	p = b.Get("/demos/")
	link := p.Find(`\$(s\w+)='demo_reactivity';@get\('/_action/(\w+)'\)`)
	require.Equal(t, 200, p.Action(link[2], map[string]any{link[1]: "demo_reactivity"}))
	assert.Contains(t, b.Get("/demos/").Body, `continue with <a href="/demos/demo_reactivity"`)
}

func TestVisitFeed(t *testing.T) {
	ps := newFakePubSub()
	history := []Visit{{Demo: "basic_component", Label: "basic components", At: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}}
	b := newTestApp(t, Options{Feed: true, History: history}, via.Options{PubSub: ps})

	home := b.Get("/")
	assert.Contains(t, home.Body, "Recent visits")
	assert.Contains(t, home.Body, `<li>15:04:05 <a href="/demos/basic_component">basic components</a></li>`)
	s := home.Connect()

	b.Get("/demos/control_flow")
	b.Get("/demos/zzz")
	b.Get("/demos/")

	ev := s.WaitFor(`<a href="/demos/control_flow">demo control flow</a>`)
	assert.Regexp(t, `control_flow">demo control flow</a></li><li>15:04:05 <a href="/demos/basic_component"`, ev)

	visits := ps.visits(t)
	require.Len(t, visits, 1)
	assert.Equal(t, "control_flow", visits[0].Demo)
	assert.Equal(t, "demo control flow", visits[0].Label)
	assert.False(t, visits[0].At.IsZero())

	// later page loads start from the visits seen so far
	assert.Contains(t, b.Get("/").Body, `<a href="/demos/control_flow">demo control flow</a>`)
}

func TestVisitFeedDisabled(t *testing.T) {
	ps := newFakePubSub()
	b := newTestApp(t, Options{}, via.Options{PubSub: ps})
	b.Get("/demos/control_flow")
	assert.Empty(t, ps.visits(t))
}

func TestDecodeVisits(t *testing.T) {
	raw := [][]byte{
		[]byte(`{"demo":"control_flow","label":"demo control flow","at":"2026-01-02T15:04:05Z"}`),
		[]byte(`not json`),
		[]byte(`{"label":"no demo"}`),
		[]byte(`{"demo":"demo_async","label":"demo async"}`),
	}
	visits := DecodeVisits(raw)
	require.Len(t, visits, 2)
	assert.Equal(t, "control_flow", visits[0].Demo)
	assert.Equal(t, 2026, visits[0].At.Year())
	assert.Equal(t, "demo_async", visits[1].Demo)
}

func TestVisitLogKeepsLatest(t *testing.T) {
	var seed []Visit
	for i := range maxVisits + 3 {
		seed = append(seed, Visit{Demo: "d", Label: string(rune('a' + i))})
	}
	l := newVisitLog(seed)
	got := l.snapshot()
	require.Len(t, got, maxVisits)
	assert.Equal(t, string(rune('a'+3)), got[0].Label)
	assert.Equal(t, string(rune('a'+maxVisits+2)), got[maxVisits-1].Label)
}
