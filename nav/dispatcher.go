package nav

// Route binds a registry entry to its renderer.
type Route[R any] struct {
	Entry
	Renderer R
}

// Dispatcher maps a path segment to a renderer. Lookups are exact and case
// sensitive; anything unknown resolves to the not-found renderer.
type Dispatcher[R any] struct {
	registry  *Registry
	renderers map[string]R
	notFound  R
	index     R
	hasIndex  bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption[R any] func(*Dispatcher[R])

// WithIndex sets the renderer used when no segment is selected.
func WithIndex[R any](r R) DispatcherOption[R] {
	return func(d *Dispatcher[R]) {
		d.index = r
		d.hasIndex = true
	}
}

// NewDispatcher builds the registry from routes, in order, and fails on an
// empty or duplicate segment.
func NewDispatcher[R any](notFound R, routes []Route[R], opts ...DispatcherOption[R]) (*Dispatcher[R], error) {
	entries := make([]Entry, 0, len(routes))
	for _, rt := range routes {
		entries = append(entries, rt.Entry)
	}
	reg, err := NewRegistry(entries...)
	if err != nil {
		return nil, err
	}
	d := &Dispatcher[R]{
		registry:  reg,
		renderers: make(map[string]R, len(routes)),
		notFound:  notFound,
	}
	for _, rt := range routes {
		d.renderers[rt.Segment] = rt.Renderer
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// MustDispatcher is NewDispatcher that panics on a configuration defect.
func MustDispatcher[R any](notFound R, routes []Route[R], opts ...DispatcherOption[R]) *Dispatcher[R] {
	d, err := NewDispatcher(notFound, routes, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Resolve returns the renderer registered for segment. The empty segment
// resolves to the index renderer when one is set. Everything else that is
// not registered resolves to the not-found renderer.
func (d *Dispatcher[R]) Resolve(segment string) R {
	if r, ok := d.renderers[segment]; ok {
		return r
	}
	if segment == "" && d.hasIndex {
		return d.index
	}
	return d.notFound
}

// Lookup reports whether segment is registered.
func (d *Dispatcher[R]) Lookup(segment string) (R, bool) {
	r, ok := d.renderers[segment]
	return r, ok
}

// NotFound returns the fallback renderer.
func (d *Dispatcher[R]) NotFound() R {
	return d.notFound
}

// Registry returns the registry the dispatcher was built from.
func (d *Dispatcher[R]) Registry() *Registry {
	return d.registry
}
