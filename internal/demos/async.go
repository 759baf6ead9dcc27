package demos

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

var users = []string{"Alice", "Bob", "Carol"}

func lookupUser(tab int) string {
	if tab >= 0 && tab < len(users) {
		return users[tab]
	}
	return "User not found"
}

func asyncDemo(latency time.Duration) func(c *via.Context) {
	slow := 5 * latency
	return func(c *via.Context) {
		parts := []func() h.H{
			c.Component(reloadingResource(latency)),
			c.Component(awaitBoth(latency, slow, false)),
			c.Component(awaitBoth(latency, slow, true)),
			c.Component(awaitOnly(slow)),
			c.Component(transitionTabs(latency)),
			c.Component(submitTodo(latency)),
		}
		c.View(func() h.H {
			items := make([]h.H, 0, len(parts))
			for _, p := range parts {
				items = append(items, h.Li(p()))
			}
			return h.Div(h.Class("section"),
				h.H1(h.Class("title"), h.Text("Demo Async")),
				h.Ul(h.Group(items)),
			)
		})
	}
}

// reloadingResource reloads count*10 every time count changes, next to a
// resource loaded once.
func reloadingResource(latency time.Duration) func(c *via.Context) {
	return func(c *via.Context) {
		var k counter
		var data, stable resource[int]
		data.load(c, latency, func() int { return 0 })
		stable.load(c, latency, func() int { return 10 })

		click := c.Action(func() {
			k.inc()
			n := k.get()
			data.load(c, latency, func() int { return n * 10 })
			c.Sync()
		})

		c.View(func() h.H {
			result := "Loading..."
			if v, ok := data.get(); ok {
				result = fmt.Sprintf("Server returned %d", v)
			}
			state := "Idle."
			if data.isLoading() {
				state = "Loading..."
			}
			var stableText string
			if v, ok := stable.get(); ok {
				stableText = fmt.Sprint(v)
			}
			return h.Div(h.Class("container"),
				h.H1(h.Class("subtitle"), h.Text("Load data with resource")),
				h.Button(click.OnClick(), h.Text("Click me")),
				h.P(h.Code(h.Text("stable")), h.Text(": "), h.Text(stableText)),
				h.P(h.Code(h.Text("count")), h.Textf(": %d", k.get())),
				h.P(h.Code(h.Text("async_value")), h.Text(": "), h.Text(result), h.Br(), h.Text(state)),
			)
		})
	}
}

// awaitBoth shows two resources once both loaded. With suspense it keeps the
// layout and only swaps the fallback for the data.
func awaitBoth(fast, slow time.Duration, suspense bool) func(c *via.Context) {
	return func(c *via.Context) {
		var a, b resource[int]
		a.load(c, slow, func() int { return 0 })
		b.load(c, fast, func() int { return 0 })

		title := "Demo: Wait two resources v1"
		if suspense {
			title = "Demo: Wait two resources v2"
		}

		c.View(func() h.H {
			av, aok := a.get()
			bv, bok := b.get()
			var body h.H
			switch {
			case !aok || !bok:
				body = h.P(h.Text("Loading..."))
			case suspense:
				body = h.Div(
					h.H4(h.Text("My Data")),
					h.H5(h.Text("A")), h.P(h.Textf("some A: %d", av)),
					h.H5(h.Text("B")), h.P(h.Textf("some B: %d", bv)),
				)
			default:
				body = h.Div(h.P(h.Textf("some A: %d", av)), h.P(h.Textf("some B: %d", bv)))
			}
			return h.Div(h.Class("container"), h.H1(h.Class("subtitle"), h.Text(title)), body)
		})
	}
}

// awaitOnly renders nothing until the value is there.
func awaitOnly(slow time.Duration) func(c *via.Context) {
	return func(c *via.Context) {
		var monkeys resource[int]
		monkeys.load(c, slow, func() int { return 3 * 2 })
		c.View(func() h.H {
			v, ok := monkeys.get()
			return h.Div(h.Class("container"),
				h.H3(h.Class("subtitle"), h.Text("Demo: await a value before rendering")),
				h.If(ok, h.P(h.Textf("%d little monkeys, jumping on the bed.", v))),
			)
		})
	}
}

// transitionTabs keeps showing the previous user while the next one loads.
func transitionTabs(latency time.Duration) func(c *via.Context) {
	return func(c *via.Context) {
		var mu sync.Mutex
		tab := 0
		var user resource[string]
		user.load(c, latency, func() string { return lookupUser(0) })

		target := c.Signal(0)
		selectTab := c.Action(func() {
			next := target.Int()
			mu.Lock()
			tab = next
			mu.Unlock()
			user.load(c, latency, func() string { return lookupUser(next) })
			c.Sync()
		})

		c.View(func() h.H {
			mu.Lock()
			current := tab
			mu.Unlock()
			buttons := make([]h.H, 0, 3)
			for i, label := range []string{"Tab A", "Tab B", "Tab C"} {
				buttons = append(buttons, h.Button(
					h.Classes(map[string]bool{"selected": current == i}),
					selectTab.OnClick(via.WithSignalInt(target, i)),
					h.Text(label),
				))
			}
			var shown h.H = h.P(h.Text("Loading initial data..."))
			if name, ok := user.get(); ok {
				shown = h.P(h.Text(name))
			}
			return h.Div(h.Class("container"),
				h.H3(h.Class("subtitle"), h.Text("Demo Transition")),
				h.Div(h.Class("buttons"), h.Group(buttons)),
				shown,
				h.If(user.isLoading(), h.Text("Hang on...")),
			)
		})
	}
}

// submitTodo runs a mutation and exposes its submitted input, pending state
// and result.
// todoLimit caps how fast one page can submit todos.
var todoLimit = via.RateLimitConfig{Rate: 1, Burst: 2}

func submitTodo(latency time.Duration) func(c *via.Context) {
	return func(c *via.Context) {
		var mu sync.Mutex
		var submitted *string
		var result resource[string]

		text := c.Signal("")
		add := c.Action(func() {
			input := text.String()
			text.SetValue("")
			mu.Lock()
			submitted = &input
			mu.Unlock()
			result.load(c, latency, func() string { return uuid.NewString() })
			c.Sync()
		}, via.WithRateLimit(todoLimit))

		c.View(func() h.H {
			mu.Lock()
			in := "None"
			if submitted != nil {
				in = fmt.Sprintf("Some(%q)", *submitted)
			}
			mu.Unlock()
			pending := result.isLoading()
			id := "None"
			if v, ok := result.get(); ok {
				id = fmt.Sprintf("Some(%s)", v)
			}
			return h.Div(h.Class("container"),
				h.H3(h.Class("subtitle"), h.Text("Demo Action")),
				h.Form(add.OnSubmit(),
					h.Label(h.Text("What do you need to do?"), h.Input(h.Type("text"), text.Bind())),
					h.Button(h.Type("submit"), h.Text("Add Todo")),
				),
				h.P(h.If(pending, h.Text("Loading..."))),
				h.P(h.Text("Submitted: "), h.Code(h.Text(in))),
				h.P(h.Text("Pending: "), h.Code(h.Textf("%t", pending))),
				h.P(h.Text("Todo ID: "), h.Code(h.Text(id))),
			)
		})
	}
}
