package app

import (
	"github.com/ryanhamamura/viatour/internal/demos"
	"github.com/ryanhamamura/viatour/via/h"
)

// layout wraps a page body with the navbar and the current menu line.
func layout(current string, body ...h.H) h.H {
	return h.Div(
		navbar(),
		h.Section(h.Class("section"),
			h.P(h.Class("is-size-7"), h.Textf("current menu: %s", current)),
			h.Div(h.Class("container"), h.Group(body)),
		),
	)
}

func navbar() h.H {
	return h.Nav(h.Class("navbar"), h.Role("navigation"), h.AriaLabel("main navigation"),
		h.Div(h.Class("navbar-brand"),
			h.A(h.Class("navbar-item"), h.Href("/"), h.Strong(h.Text("Via Tour"))),
		),
		h.Div(h.Class("navbar-menu"),
			h.Div(h.Class("navbar-start"),
				h.A(h.Class("navbar-item"), h.Href("/"), h.Text("Home")),
				h.A(h.Class("navbar-item"), h.Href(demosBase+"/"), h.Text("demos")),
				h.Div(h.Class("navbar-item has-dropdown is-hoverable"),
					h.A(h.Class("navbar-link"), h.Text("More")),
					h.Div(h.Class("navbar-dropdown"),
						h.A(h.Class("navbar-item"), h.Href(demosBase+"/"+demos.NestedRouteSegment), h.Text("Nested routes")),
						h.A(h.Class("navbar-item"), h.Href(demosBase+"/demo_async"), h.Text("Async")),
						h.Hr(h.Class("navbar-divider")),
						h.A(h.Class("navbar-item"), h.Href("https://data-star.dev"), h.Text("Datastar")),
					),
				),
			),
			h.Div(h.Class("navbar-end"),
				h.Div(h.Class("navbar-item"),
					h.Div(h.Class("buttons"),
						h.A(h.Class("button is-primary"), h.Strong(h.Text("Sign up"))),
						h.A(h.Class("button is-light"), h.Text("Log in")),
					),
				),
			),
		),
	)
}
