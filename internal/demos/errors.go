package demos

import (
	"strconv"
	"sync"

	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

// parsed holds the last parse result of a numeric input: a value or an error.
type parsed struct {
	mu    sync.Mutex
	value int
	err   error
}

func (p *parsed) set(s string) {
	v, err := strconv.Atoi(s)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value, p.err = v, err
}

func (p *parsed) get() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}

func errorHandling(c *via.Context) {
	var v1, v2 parsed
	in1 := c.Signal("")
	in2 := c.Signal("")
	onInput1 := c.Action(func() {
		v1.set(in1.String())
		c.Sync()
	})
	onInput2 := c.Action(func() {
		v2.set(in2.String())
		c.Sync()
	})

	c.View(func() h.H {
		return h.Div(
			h.H1(h.Text("Demo error handling")),
			h.Ul(
				h.Li(h.Label(
					h.Text("Type a number (or not!)"),
					h.Input(h.Type("number"), in1.Bind(), onInput1.OnInput()),
					h.P(h.Text("You entered "), h.Strong(resultText(&v1))),
				)),
				h.Li(h.Label(
					h.Text("Type a number (or something that's not a number!)"),
					h.Input(h.Type("number"), in2.Bind(), onInput2.OnInput()),
					errorBoundary(&v2),
				)),
			),
		)
	})
}

func resultText(p *parsed) h.H {
	v, err := p.get()
	if err != nil {
		return h.Text(err.Error())
	}
	return h.Textf("%d", v)
}

// errorBoundary renders the value, or the list of errors in place of it.
func errorBoundary(p *parsed) h.H {
	v, err := p.get()
	if err == nil {
		return h.P(h.Text("You entered "), h.Strong(h.Textf("%d", v)))
	}
	return h.Div(h.Class("error"),
		h.P(h.Text("Not a number! Errors: ")),
		h.Ul(h.Li(h.Text(err.Error()))),
	)
}
