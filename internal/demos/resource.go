package demos

import (
	"sync"
	"time"

	"github.com/ryanhamamura/viatour/via"
)

// resource is a value loaded in the background. Reloading discards the
// result of any load still in flight.
type resource[T any] struct {
	mu      sync.Mutex
	val     T
	ready   bool
	loading bool
	gen     int
}

// load runs fn after delay in a goroutine and syncs c with the result. The
// goroutine stops early when c is disposed.
func (r *resource[T]) load(c *via.Context, delay time.Duration, fn func() T) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.loading = true
	r.mu.Unlock()

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Done():
			return
		}
		v := fn()

		r.mu.Lock()
		if gen != r.gen {
			r.mu.Unlock()
			return
		}
		r.val, r.ready, r.loading = v, true, false
		r.mu.Unlock()
		c.Sync()
	}()
}

// get returns the latest loaded value and whether one exists.
func (r *resource[T]) get() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.val, r.ready
}

func (r *resource[T]) isLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}
