package nav

import "sync"

// Selection is the currently selected demo. The zero value means nothing
// is selected.
type Selection struct {
	DemoName string
}

// Holder stores a Selection and notifies observers of every write.
type Holder struct {
	writeMu   sync.Mutex
	mu        sync.RWMutex
	sel       Selection
	observers []*observer
}

type observer struct {
	fn func(Selection)
}

// NewHolder returns a Holder with the empty selection.
func NewHolder() *Holder {
	return &Holder{}
}

// Read returns the last written selection.
func (h *Holder) Read() Selection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sel
}

// Write replaces the selection and then calls every observer with it, in
// registration order. Writes are serialized; writing the same value twice
// notifies twice. Observers must not call Write.
func (h *Holder) Write(next string) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.mu.Lock()
	h.sel = Selection{DemoName: next}
	sel := h.sel
	observers := make([]*observer, len(h.observers))
	copy(observers, h.observers)
	h.mu.Unlock()

	for _, o := range observers {
		o.fn(sel)
	}
}

// Subscribe registers fn to be called after every Write. The returned func
// removes the observer; calling it more than once is harmless.
func (h *Holder) Subscribe(fn func(Selection)) (unsubscribe func()) {
	o := &observer{fn: fn}
	h.mu.Lock()
	h.observers = append(h.observers, o)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, it := range h.observers {
				if it == o {
					h.observers = append(h.observers[:i:i], h.observers[i+1:]...)
					return
				}
			}
		})
	}
}
