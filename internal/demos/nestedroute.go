package demos

import (
	"strings"

	"github.com/ryanhamamura/viatour/nav"
	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

// NestedRouteSegment is the segment of the nested routing demo. The rest of
// the URL after it selects the nested view.
const NestedRouteSegment = "demo_nested_route"

const nestedBase = "/demos/" + NestedRouteSegment

// nestedView renders a nested route given the path segments after its own.
type nestedView func(c *via.Context, tail []string) h.H

var nestedRoutes = nav.MustDispatcher[nestedView](
	func(*via.Context, []string) h.H { return nil },
	[]nav.Route[nestedView]{
		{Entry: nav.Entry{Segment: "home", Label: "Demo route home"}, Renderer: nestedHome},
		{Entry: nav.Entry{Segment: "contacts", Label: "Contacts"}, Renderer: contactList},
		{Entry: nav.Entry{Segment: "form_example", Label: "Form Example"}, Renderer: formExample},
	},
	nav.WithIndex[nestedView](func(*via.Context, []string) h.H {
		return h.P(h.Text("Select to see more"))
	}),
)

// splitRest splits the wildcard tail of the page URL, ignoring empty parts.
func splitRest(rest string) []string {
	var parts []string
	for _, p := range strings.Split(rest, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func nestedRoute(c *via.Context) {
	var tail []string
	// the wildcard only belongs to this demo when the page was opened on it
	if c.GetPathParam("demo") == NestedRouteSegment {
		tail = splitRest(c.GetPathParam("rest"))
	}
	head := ""
	if len(tail) > 0 {
		head, tail = tail[0], tail[1:]
	}
	render := nestedRoutes.Resolve(head)
	links := nav.Menu(nestedRoutes.Registry(), nav.Selection{DemoName: head}, nestedBase)

	c.View(func() h.H {
		return h.Div(
			h.H3(h.Text("Demo nested route")),
			h.Ul(h.Group(h.Map(links, func(it nav.MenuItem) h.H {
				return h.Li(h.A(h.Href(it.Href), h.If(it.Active, h.Class("is-active")), h.Text(it.Label)))
			}))),
			render(c, tail),
		)
	})
}

func nestedHome(*via.Context, []string) h.H {
	return h.H3(h.Text("Nested Route Home"))
}

var contacts = nav.MustRegistry(
	nav.Entry{Segment: "alice", Label: "Alice"},
	nav.Entry{Segment: "bob", Label: "Bob"},
	nav.Entry{Segment: "steve", Label: "Steve"},
)

func contactList(c *via.Context, tail []string) h.H {
	var info h.H = h.Div(h.Class("select-user"), h.Text("Select a user to view contact info."))
	if len(tail) > 0 {
		info = contactInfo(tail[0], tail[1:])
	}
	return h.Div(h.Class("contact-list"),
		h.H3(h.Text("Contacts")),
		h.Div(h.Class("contact-list-contacts"),
			h.Ul(h.Group(h.Map(contacts.Entries(), func(e nav.Entry) h.H {
				return h.Li(h.A(h.Href(nestedBase+"/contacts/"+e.Segment), h.Text(e.Label)))
			}))),
		),
		info,
	)
}

func contactInfo(id string, tail []string) h.H {
	name := "User not found."
	if e, ok := contacts.Find(id); ok {
		name = e.Label
	}
	base := nestedBase + "/contacts/" + id
	var tab h.H
	switch {
	case len(tail) == 0:
		tab = h.Div(h.Class("tab"), h.Text("(Contact Info)"))
	case tail[0] == "conversations":
		tab = h.Div(h.Class("tab"), h.Text("(Conversations)"))
	}
	return h.Div(
		h.H4(h.Text(name)),
		h.Div(h.Class("contact-info"),
			h.Div(h.Class("tabs"),
				h.A(h.Href(base), h.Text("Contact Info")),
				h.A(h.Href(base+"/conversations"), h.Text("Conversations")),
			),
			tab,
		),
	)
}

func formExample(c *via.Context, _ []string) h.H {
	name := c.GetQueryParam("name")
	number := c.GetQueryParam("number")
	choice := c.GetQueryParam("select")

	options := func() h.H {
		return h.Group(h.Map([]string{"A", "B", "C"}, func(o string) h.H {
			return h.Option(h.If(choice == o, h.Selected()), h.Text(o))
		}))
	}
	autoSubmit := h.Attr("oninput", "this.form.requestSubmit()")

	return h.Div(
		h.Table(h.Tbody(
			h.Tr(h.Td(h.Code(h.Text("name"))), h.Td(h.Text(name))),
			h.Tr(h.Td(h.Code(h.Text("number"))), h.Td(h.Text(number))),
			h.Tr(h.Td(h.Code(h.Text("select"))), h.Td(h.Text(choice))),
		)),
		h.H2(h.Text("Manual Submission")),
		h.Form(h.Method("GET"), h.Action(""),
			h.Ul(
				h.Li(h.Input(h.Type("text"), h.Name("name"), h.Value(name))),
				h.Li(h.Input(h.Type("number"), h.Name("number"), h.Value(number))),
				h.Li(h.Select(h.Name("select"), options())),
			),
			h.Input(h.Type("submit")),
		),
		h.H2(h.Text("Automatic Submission")),
		h.Form(h.Method("GET"), h.Action(""),
			h.Ul(
				h.Li(h.Input(h.Type("text"), h.Name("name"), h.Value(name), autoSubmit)),
				h.Li(h.Input(h.Type("number"), h.Name("number"), h.Value(number), autoSubmit)),
				h.Li(h.Select(h.Name("select"), h.Attr("onchange", "this.form.requestSubmit()"), options())),
			),
			h.Input(h.Type("submit")),
		),
	)
}
