// Package demos holds the tour pages: one self-contained via component per
// demo, listed in menu order by Catalog.
package demos

import (
	"time"

	"github.com/ryanhamamura/viatour/nav"
	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

// Demo renders one entry of the tour.
type Demo struct {
	Segment string
	Label   string
	Title   string
	// Init builds the demo component on c: its state, actions and view.
	Init func(c *via.Context)
}

// Options tunes the demos.
type Options struct {
	// Latency is the simulated delay of async loads. Slow loads take five
	// times as long. Zero means one second.
	Latency time.Duration
}

func (o Options) latency() time.Duration {
	if o.Latency <= 0 {
		return time.Second
	}
	return o.Latency
}

// NotFound is rendered for segments without a demo.
var NotFound = &Demo{
	Title: "ComponentNotFound",
	Init: func(c *via.Context) {
		c.View(func() h.H { return h.P(h.Text("ComponentNotFound")) })
	},
}

// Index is rendered while no demo is selected.
var Index = &Demo{
	Title: "Demos",
	Init: func(c *via.Context) {
		c.View(func() h.H { return h.Div(h.Text("Select a demo to see the details.")) })
	},
}

// Catalog returns every demo in menu order.
func Catalog(opts Options) []nav.Route[*Demo] {
	demos := []*Demo{
		{Segment: "basic_component", Label: "basic components", Title: "Basic Component", Init: basicComponent},
		{Segment: "components_and_pros", Label: "components and props", Title: "Components And Props", Init: componentsAndProps},
		{Segment: "demo_basic_iteration", Label: "basic iterator", Title: "Demo iteration", Init: basicIteration},
		{Segment: "demo_form_and_input", Label: "form and input", Title: "Demo form and input", Init: formAndInput},
		{Segment: "demo_error_handling", Label: "error handling", Title: "Demo error handling", Init: errorHandling},
		{Segment: "demo_reactivity", Label: "reactivity", Title: "Demo Reactivity", Init: reactivity},
		{Segment: "demo_parent_children_communication", Label: "parent child communication", Title: "Demo parent children communication", Init: parentChildren},
		{Segment: "demo_async", Label: "demo async", Title: "Demo Async", Init: asyncDemo(opts.latency())},
		{Segment: "control_flow", Label: "demo control flow", Title: "Demo control flow", Init: controlFlow},
		{Segment: NestedRouteSegment, Label: "demo nested route", Title: "Demo nested route", Init: nestedRoute},
	}
	routes := make([]nav.Route[*Demo], 0, len(demos))
	for _, d := range demos {
		routes = append(routes, nav.Route[*Demo]{
			Entry:    nav.Entry{Segment: d.Segment, Label: d.Label},
			Renderer: d,
		})
	}
	return routes
}

// NewDispatcher resolves demo segments against Catalog(opts), falling back to
// NotFound and rendering Index for the empty segment.
func NewDispatcher(opts Options) (*nav.Dispatcher[*Demo], error) {
	return nav.NewDispatcher(NotFound, Catalog(opts), nav.WithIndex(Index))
}
