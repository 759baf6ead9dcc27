package demos

import (
	"sync"

	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

func formAndInput(c *via.Context) {
	controlled := c.Signal("Controlled")

	var mu sync.Mutex
	submitted := "Uncontrolled"
	draft := c.Signal("Uncontrolled")
	submit := c.Action(func() {
		mu.Lock()
		submitted = draft.String()
		mu.Unlock()
		c.Sync()
	})

	text := c.Signal("text area")
	choice := c.Signal("A")

	c.View(func() h.H {
		mu.Lock()
		name := submitted
		mu.Unlock()
		return h.Div(
			h.H1(h.Text("Demo form and input")),
			h.Ul(
				h.Li(
					h.H2(h.Text("Controlled input")),
					h.Input(h.Type("text"), controlled.Bind()),
					h.P(h.Text("Name is: "), controlled.Text()),
				),
				h.Li(
					h.H2(h.Text("Uncontrolled input")),
					h.Form(submit.OnSubmit(),
						h.Input(h.Type("text"), draft.Bind()),
						h.Input(h.Type("submit"), h.Value("Submit")),
					),
					h.P(h.Text("Name is: "), h.Span(h.Text(name))),
				),
				h.Li(
					h.H2(h.Text("Text area")),
					h.Textarea(text.Bind()),
					h.P(h.Text("text is: "), text.Text()),
				),
				h.Li(
					h.H2(h.Text("Demo select")),
					h.Select(choice.Bind(),
						selectOption("A", choice.String()),
						selectOption("B", choice.String()),
						selectOption("C", choice.String()),
					),
					h.P(h.Text("Your selection is: "), choice.Text()),
				),
			),
		)
	})
}

func selectOption(value, current string) h.H {
	return h.Option(h.Value(value), h.If(value == current, h.Selected()), h.Text(value))
}
