package demos

import (
	"context"
	"sync"

	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

// toggle is a bool owned by a parent component. Children flip it through
// whatever handle the parent gave them.
type toggle struct {
	mu    sync.Mutex
	on    bool
	owner *via.Context
}

func newToggle(owner *via.Context) *toggle {
	return &toggle{owner: owner}
}

// Flip inverts the value and re-renders the owner.
func (t *toggle) Flip() {
	t.mu.Lock()
	t.on = !t.on
	t.mu.Unlock()
	t.owner.Sync()
}

func (t *toggle) view() h.H {
	t.mu.Lock()
	defer t.mu.Unlock()
	return h.P(h.Textf("Toggled? %t", t.on))
}

func parentChildren(c *via.Context) {
	approaches := []func() h.H{
		c.Component(writeHandleParent),
		c.Component(callbackParent),
		c.Component(eventParent),
		c.Component(providedContextParent),
	}

	c.View(func() h.H {
		items := make([]h.H, 0, len(approaches))
		for _, a := range approaches {
			items = append(items, h.Li(a()))
		}
		return h.Div(
			h.H1(h.Text("Demo parent children communication")),
			h.P(h.Text("It is easy for the parent to communicate to the child: pass a value or a func reading the parent state as a prop")),
			h.P(h.Text("How can a child send notifications about events or state changes back up to the parent?")),
			h.Ul(h.Group(items)),
		)
	})
}

// 1. the parent passes the write handle down.
func writeHandleParent(c *via.Context) {
	t := newToggle(c)
	child := c.Component(func(cc *via.Context) {
		flip := cc.Action(t.Flip)
		cc.View(func() h.H { return h.Button(flip.OnClick(), h.Text("Toggle")) })
	})
	c.View(func() h.H {
		return h.Div(h.P(h.Text("Pass the write handle from parent down to the child")), t.view(), child())
	})
}

// 2. the parent passes a callback.
func callbackParent(c *via.Context) {
	t := newToggle(c)
	onClick := func() { t.Flip() }
	child := c.Component(callbackButton(onClick))
	childV2 := c.Component(callbackButton(onClick))
	c.View(func() h.H {
		return h.Div(h.P(h.Text("Use a callback or closure")), t.view(), child(), childV2())
	})
}

func callbackButton(onClick func()) func(c *via.Context) {
	return func(c *via.Context) {
		click := c.Action(onClick)
		c.View(func() h.H { return h.Button(click.OnClick(), h.Text("Toggle")) })
	}
}

// 3. the parent listens to an event on the child element.
func eventParent(c *via.Context) {
	t := newToggle(c)
	flip := c.Action(t.Flip)
	child := c.Component(plainButton(flip.OnClick()))
	c.View(func() h.H {
		return h.Div(h.P(h.Text("Use an event listener")), t.view(), child())
	})
}

// plainButton knows nothing about the toggle; attrs come from the parent.
func plainButton(attrs ...h.H) func(c *via.Context) {
	return func(c *via.Context) {
		c.View(func() h.H { return h.Button(h.Group(attrs), h.Text("Toggle")) })
	}
}

type toggleKey struct{}

// 4. an ancestor provides the handle through a context.Context and a deep
// descendant looks it up.
func providedContextParent(c *via.Context) {
	t := newToggle(c)
	ctx := context.WithValue(context.Background(), toggleKey{}, t)
	layout := c.Component(toggleLayout(ctx))
	c.View(func() h.H {
		return h.Div(
			h.P(h.Text("Providing a context")),
			h.P(h.Text("Values are looked up by key and flow down the component tree from the ancestor that provided them.")),
			t.view(),
			layout(),
		)
	})
}

func toggleLayout(ctx context.Context) func(c *via.Context) {
	return func(c *via.Context) {
		content := c.Component(toggleContent(ctx))
		c.View(func() h.H {
			return h.Div(h.Div(h.P(h.Text("My layout"))), content())
		})
	}
}

func toggleContent(ctx context.Context) func(c *via.Context) {
	return func(c *via.Context) {
		button := c.Component(toggleButton(ctx))
		c.View(func() h.H { return h.Div(h.Class("content"), button()) })
	}
}

func toggleButton(ctx context.Context) func(c *via.Context) {
	return func(c *via.Context) {
		t, ok := ctx.Value(toggleKey{}).(*toggle)
		if !ok {
			panic("toggle not provided")
		}
		flip := c.Action(t.Flip)
		c.View(func() h.H { return h.Button(flip.OnClick(), h.Text("Toggle")) })
	}
}
