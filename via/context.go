package via

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"net/url"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/ryanhamamura/viatour/via/h"
	"golang.org/x/time/rate"
)

// Context is the living bridge between Go and the browser.
//
// It holds runtime state, defines actions, manages reactive signals, and defines UI through View.
type Context struct {
	id                string
	route             string
	app               *V
	view              func() h.H
	routeParams       map[string]string
	queryParams       url.Values
	componentRegistry map[string]*Context
	parentPageCtx     *Context
	patchChan         chan patch
	actionRegistry    map[string]actionEntry
	signals           *sync.Map
	mu                sync.RWMutex
	ctxDisposedChan   chan struct{}
	disposeOnce       sync.Once
	reqCtx            atomic.Pointer[context.Context]
	csrfToken         string
	actionLimiter     *rate.Limiter
	createdAt         time.Time
	sseConnected      atomic.Bool
	subscriptions     []Subscription
	subsMu            sync.Mutex
	status            int
}

// ID returns the unique id of this context. It is also the DOM id of the
// element wrapping the context view.
func (c *Context) ID() string {
	return c.id
}

// View defines the UI rendered by this context.
// The function should return an h.H element (from via/h).
//
// Changes to signals or state can be pushed live with Sync().
func (c *Context) View(f func() h.H) {
	if f == nil {
		panic("nil viewfn")
	}
	c.view = func() h.H { return h.Div(h.ID(c.id), f()) }
}

// Component registers a subcontext that has self contained data, actions and signals.
// It returns the component's view as a DOM node fn that can be placed in the view
// of the parent. Components can be added to components, also from inside actions.
//
// Example:
//
//	counterCompFn := func(c *via.Context) {
//		(...)
//	}
//
//	v.Page("/", func(c *via.Context) {
//		counterComp := c.Component(counterCompFn)
//
//		c.View(func() h.H {
//			return h.Div(
//				h.H1(h.Text("Counter")),
//				counterComp(),
//			)
//		})
//	})
func (c *Context) Component(initCtx func(c *Context)) func() h.H {
	id := c.id + "/_component/" + genRandID()
	compCtx := newContext(id, c.route, c.app)
	page := c.page()
	compCtx.parentPageCtx = page
	compCtx.routeParams = page.routeParams
	compCtx.queryParams = page.queryParams
	initCtx(compCtx)
	if compCtx.view == nil {
		panic(fmt.Sprintf("component '%s' has no view", id))
	}
	page.mu.Lock()
	page.componentRegistry[id] = compCtx
	page.mu.Unlock()
	return func() h.H { return compCtx.view() }
}

func (c *Context) isComponent() bool {
	return c.parentPageCtx != nil
}

// page returns the page context owning c: itself for pages, the parent for components.
func (c *Context) page() *Context {
	if c.isComponent() {
		return c.parentPageCtx
	}
	return c
}

// Action registers an event handler and returns a trigger to that event that
// that can be added to the view fn as any other via.h element.
//
// Example:
//
//	n := 0
//	increment := c.Action(func(){
//		 n++
//		 c.Sync()
//	})
//
//	c.View(func() h.H {
//		 return h.Div(
//		 	 	h.P(h.Textf("Value of n: %d", n)),
//		 	 	h.Button(h.Text("Increment n"), increment.OnClick()),
//		 )
//	})
func (c *Context) Action(f func(), options ...ActionOption) *ActionTrigger {
	id := genRandID()
	if f == nil {
		c.app.logErr(c, "failed to bind action '%s' to context: nil func", id)
		return nil
	}
	entry := actionEntry{fn: f}
	for _, opt := range options {
		opt(&entry)
	}

	page := c.page()
	page.mu.Lock()
	page.actionRegistry[id] = entry
	page.mu.Unlock()
	return &ActionTrigger{id}
}

func (c *Context) getAction(id string) (actionEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.actionRegistry[id]; ok {
		return e, nil
	}
	return actionEntry{}, fmt.Errorf("action '%s' not found", id)
}

// Signal creates a reactive signal and initializes it with the given value.
// Use Bind() to link the value of input elements to the signal and Text() to
// display the signal value and watch the UI update live as the input changes.
//
// Example:
//
//	mysignal := c.Signal("world")
//
//	c.View(func() h.H {
//		return h.Div(
//			h.P(h.Span(h.Text("Hello, ")), h.Span(mysignal.Text())),
//			h.Input(mysignal.Bind()),
//		)
//	})
//
// Signals are 'alive' only in the browser, but Via always injects their values into
// the Context before each action call.
// If any signal value is updated by the server, the update is automatically sent to the
// browser when using Sync() or SyncSignals().
func (c *Context) Signal(v any) *Signal {
	sigID := "s" + genRandID()
	if v == nil {
		c.app.logErr(c, "failed to bind signal: nil signal value")
		return &Signal{
			id:  sigID,
			val: "error",
			err: fmt.Errorf("context '%s' failed to bind signal '%s': nil signal value", c.id, sigID),
		}
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Struct, reflect.Map:
		if j, err := json.Marshal(v); err == nil {
			v = string(j)
		}
	}
	sig := &Signal{
		id:      sigID,
		val:     v,
		changed: true,
	}

	// components register signals on parent page
	page := c.page()
	page.mu.Lock()
	defer page.mu.Unlock()
	page.signals.Store(sigID, sig)
	return sig
}

func (c *Context) injectSignals(sigs map[string]any) {
	if sigs == nil {
		c.app.logErr(c, "signal injection failed: nil signals")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for sigID, val := range sigs {
		item, ok := c.signals.Load(sigID)
		if !ok {
			c.signals.Store(sigID, &Signal{
				id:  sigID,
				val: val,
			})
			continue
		}
		if sig, ok := item.(*Signal); ok {
			sig.mu.Lock()
			sig.val = val
			sig.changed = false
			sig.mu.Unlock()
		}
	}
}

// initialSignals renders the data-signals payload of the page document: every
// signal value plus the context id and CSRF token.
func (c *Context) initialSignals() string {
	sigs := map[string]any{
		"via-ctx":  c.id,
		"via-csrf": c.csrfToken,
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.signals.Range(func(key, value any) bool {
		if sig, ok := value.(*Signal); ok && sig.Err() == nil {
			sigs[key.(string)] = sig.value()
		}
		return true
	})
	return marshalSignals(sigs)
}

func (c *Context) prepareSignalsForPatch() map[string]any {
	page := c.page()
	page.mu.RLock()
	defer page.mu.RUnlock()
	updatedSigs := make(map[string]any)
	page.signals.Range(func(sigID, value any) bool {
		sig, ok := value.(*Signal)
		if !ok {
			return true
		}
		sig.mu.Lock()
		defer sig.mu.Unlock()
		if sig.err != nil {
			c.app.logWarn(c, "signal '%s' is out of sync: %v", sig.id, sig.err)
			return true
		}
		if sig.changed {
			updatedSigs[sigID.(string)] = sig.val
			sig.changed = false
		}
		return true
	})
	return updatedSigs
}

// sendPatch queues a patch on this *Context sse stream. If the sse is closed or queue is full, the patch
// is dropped to prevent runtime blocks.
func (c *Context) sendPatch(p patch) {
	select {
	case c.page().patchChan <- p:
	default: // closed or buffer full - drop patch without blocking
	}
}

// Sync pushes the current view state and signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) Sync() {
	if c.view == nil {
		c.app.logWarn(c, "sync view failed: context has no view")
		return
	}
	elemsPatch := bytes.NewBuffer(make([]byte, 0))
	if err := c.view().Render(elemsPatch); err != nil {
		c.app.logErr(c, "sync view failed: %v", err)
		return
	}
	c.sendPatch(patch{patchTypeElements, elemsPatch.String()})
	c.SyncSignals()
}

// SyncSignals pushes the current signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) SyncSignals() {
	updatedSigs := c.prepareSignalsForPatch()
	if len(updatedSigs) != 0 {
		c.sendPatch(patch{patchTypeSignals, marshalSignals(updatedSigs)})
	}
}

// ReplaceURL swaps the browser location for url without a page reload.
func (c *Context) ReplaceURL(url string) {
	if url == "" {
		c.app.logWarn(c, "replace url failed: empty url")
		return
	}
	c.sendPatch(patch{patchTypeReplaceURL, url})
}

// Status sets the HTTP status code of the initial page response. Call it from
// the page init func; it has no effect afterwards.
func (c *Context) Status(code int) {
	c.page().status = code
}

// Done returns a channel that is closed when the context is disposed, either
// because the browser left the page or the server is shutting down.
// Goroutines started by a page should stop when it is closed.
func (c *Context) Done() <-chan struct{} {
	return c.page().ctxDisposedChan
}

// Logger returns the application logger tagged with this context's id.
func (c *Context) Logger() zerolog.Logger {
	return c.app.logger.With().Str("via-ctx", c.page().id).Logger()
}

// dispose stops everything tied to this Context: goroutines waiting on Done()
// and pub/sub subscriptions. Safe to call more than once.
func (c *Context) dispose() {
	c.disposeOnce.Do(func() {
		close(c.ctxDisposedChan)
		c.unsubscribeAll()
		c.mu.RLock()
		comps := make([]*Context, 0, len(c.componentRegistry))
		for _, comp := range c.componentRegistry {
			comps = append(comps, comp)
		}
		c.mu.RUnlock()
		for _, comp := range comps {
			comp.unsubscribeAll()
		}
	})
}

func (c *Context) injectRouteParams(params map[string]string) {
	if params == nil {
		return
	}
	m := make(map[string]string)
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(m, params)
	c.routeParams = m
}

func (c *Context) injectQueryParams(q url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryParams = q
}

// GetPathParam retrieves the value from the page request URL for the given parameter name
// or an empty string if not found.
//
// Example:
//
//	v.Page("/users/{user_id}", func(c *via.Context) {
//
//			userID := c.GetPathParam("user_id")
//
//			c.View(func() h.H {
//					return h.Div(
//							h.H1(h.Textf("User ID: %s", userID)),
//					)
//			})
//	})
func (c *Context) GetPathParam(param string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.routeParams[param]; ok {
		return p
	}
	return ""
}

// GetQueryParam returns the first value of the query string parameter of the
// page request URL, or an empty string.
func (c *Context) GetQueryParam(param string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queryParams.Get(param)
}

// setRequest records the request currently served for c. Page loads, the SSE
// stream and actions of one page run on different goroutines.
func (c *Context) setRequest(ctx context.Context) {
	c.reqCtx.Store(&ctx)
}

func (c *Context) request() context.Context {
	if p := c.reqCtx.Load(); p != nil {
		return *p
	}
	return nil
}

// Session returns the session for this context.
// Session data persists across page views for the same browser.
// Returns a no-op session if no SessionManager is configured.
func (c *Context) Session() *Session {
	return &Session{
		ctx:     c.page().request(),
		manager: c.app.sessionManager,
	}
}

func newContext(id string, route string, v *V) *Context {
	if v == nil {
		log.Fatal("create context failed: app pointer is nil")
	}

	return &Context{
		id:                id,
		route:             route,
		routeParams:       make(map[string]string),
		queryParams:       url.Values{},
		app:               v,
		componentRegistry: make(map[string]*Context),
		actionRegistry:    make(map[string]actionEntry),
		signals:           new(sync.Map),
		patchChan:         make(chan patch, 64),
		ctxDisposedChan:   make(chan struct{}),
		csrfToken:         genCSRFToken(),
		actionLimiter:     v.actionRateLimit.bucket(pageActionLimit),
		createdAt:         time.Now(),
	}
}
