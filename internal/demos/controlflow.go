package demos

import (
	"strconv"
	"sync"

	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

// counter is a mutex guarded int shared by an action and a view.
type counter struct {
	mu sync.Mutex
	n  int
}

func (k *counter) inc() {
	k.mu.Lock()
	k.n++
	k.mu.Unlock()
}

func (k *counter) get() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.n
}

func controlFlow(c *via.Context) {
	var optional, sized, matched counter
	incOptional := c.Action(func() { optional.inc(); c.Sync() })
	incSized := c.Action(func() { sized.inc(); c.Sync() })
	incMatched := c.Action(func() { matched.inc(); c.Sync() })

	logger := c.Logger()

	c.View(func() h.H {
		o, s, m := optional.get(), sized.get(), matched.get()

		size := "Small"
		if s > 5 {
			size = "Big"
		}
		logger.Debug().Int("value", s).Msgf("rendering %s", size)

		return h.Div(h.Class("section"),
			h.H1(h.Class("title"), h.Text("Demo control flow")),
			h.P(h.Text("It is used for should I render this part of the view or not")),
			h.Ul(
				h.Li(h.Div(h.Class("container"),
					h.P(h.Class("subtitle"), h.Text("demo 01: optional content")),
					h.Button(incOptional.OnClick(), h.Textf("click me:%d", o)),
					h.P(h.If(o%2 == 1, h.Text("Ding ding ding!"))),
				)),
				h.Li(h.Div(h.Class("container"),
					h.P(h.Class("subtitle"), h.Text("demo 02: conditional render")),
					h.P(h.Text("The branch is picked on every render from the current value")),
					h.Button(incSized.OnClick(), h.Textf("click me:%d", s)),
					h.P(h.Text(size)),
					h.P(h.Text("the same switch rendering whole components")),
					h.IfElse(s > 5, h.P(h.Text("small component")), h.P(h.Text("big component"))),
				)),
				h.Li(h.Div(h.Class("container"),
					h.P(h.Class("subtitle"), h.Text("Demo03: match on the value")),
					h.Button(incMatched.OnClick(), h.Textf("click me:%d", m)),
					h.Div(matchValue(m)),
				)),
			),
		)
	})
}

// matchValue renders a different element type per branch.
func matchValue(v int) h.H {
	odd := v%2 == 1
	switch {
	case odd && v == 1:
		return h.Pre(h.Text("One"))
	case !odd && v == 2:
		return h.P(h.Text("Two"))
	default:
		return h.Textarea(h.Text(strconv.Itoa(v)))
	}
}
