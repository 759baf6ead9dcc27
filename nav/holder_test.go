package nav

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_EmptyBeforeFirstWrite(t *testing.T) {
	h := NewHolder()
	assert.Equal(t, Selection{}, h.Read())
	assert.Empty(t, h.Read().DemoName)
}

func TestHolder_ReadReturnsLastWrite(t *testing.T) {
	h := NewHolder()
	h.Write("a")
	assert.Equal(t, "a", h.Read().DemoName)
	h.Write("b")
	assert.Equal(t, "b", h.Read().DemoName)
}

func TestHolder_ObserversInRegistrationOrder(t *testing.T) {
	h := NewHolder()
	var calls []string
	h.Subscribe(func(s Selection) { calls = append(calls, "first:"+s.DemoName) })
	h.Subscribe(func(s Selection) { calls = append(calls, "second:"+s.DemoName) })

	h.Write("x")

	// notified synchronously: visible right after Write returns
	assert.Equal(t, []string{"first:x", "second:x"}, calls)
}

func TestHolder_ObserverSeesStoredValue(t *testing.T) {
	h := NewHolder()
	var seen string
	h.Subscribe(func(Selection) { seen = h.Read().DemoName })
	h.Write("stored")
	assert.Equal(t, "stored", seen)
}

func TestHolder_RepeatedWriteNotifiesEveryTime(t *testing.T) {
	h := NewHolder()
	n := 0
	h.Subscribe(func(Selection) { n++ })

	h.Write("a")
	h.Write("a")

	assert.Equal(t, "a", h.Read().DemoName)
	assert.Equal(t, 2, n)
}

func TestHolder_Unsubscribe(t *testing.T) {
	h := NewHolder()
	var a, b int
	unsubA := h.Subscribe(func(Selection) { a++ })
	h.Subscribe(func(Selection) { b++ })

	h.Write("one")
	unsubA()
	unsubA()
	h.Write("two")

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestHolder_ConcurrentWritesAreSerialized(t *testing.T) {
	h := NewHolder()
	var mu sync.Mutex
	inFlight, maxInFlight, total := 0, 0, 0
	h.Subscribe(func(Selection) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		// yield with the write still open so an unserialized writer would overlap
		time.Sleep(time.Millisecond)

		mu.Lock()
		inFlight--
		total++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Write("demo")
			_ = h.Read()
		}()
	}
	wg.Wait()

	require.Equal(t, 50, total)
	assert.Equal(t, 1, maxInFlight)
	assert.Equal(t, "demo", h.Read().DemoName)
}
