// Package app is the root of the tour: it owns the navigation state of every
// demos page, wires the menu and the demo content to it and registers the
// routes on a via application.
package app

import (
	"embed"
	"io/fs"
	"net/url"
	"sync"
	"time"

	"github.com/ryanhamamura/viatour/internal/demos"
	"github.com/ryanhamamura/viatour/nav"
	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

// lastDemoKey is the session key of the last selected demo.
const lastDemoKey = "last_demo"

const demosBase = "/demos"

// navigateLimit paces the menu clicks of one demos page.
var navigateLimit = via.RateLimitConfig{Rate: 4, Burst: 8}

//go:embed assets
var assets embed.FS

// Options configures the application.
type Options struct {
	Demos demos.Options
	// Feed publishes every demo selection on VisitSubject and shows the
	// visits of every browser on the home page. It needs a via PubSub.
	Feed bool
	// History seeds the recent visits, e.g. with a replay of the stream.
	History []Visit
	// NavigateLimit paces menu clicks per page. The zero value means four
	// clicks per second with bursts of eight.
	NavigateLimit via.RateLimitConfig
}

// App serves the tour pages.
type App struct {
	opts   Options
	demos  *nav.Dispatcher[*demos.Demo]
	visits *visitLog
	now    func() time.Time
}

// New builds the app and registers its pages and assets on v.
func New(v *via.V, opts Options) (*App, error) {
	d, err := demos.NewDispatcher(opts.Demos)
	if err != nil {
		return nil, err
	}
	if opts.NavigateLimit == (via.RateLimitConfig{}) {
		opts.NavigateLimit = navigateLimit
	}
	a := &App{
		opts:   opts,
		demos:  d,
		visits: newVisitLog(opts.History),
		now:    time.Now,
	}

	static, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, err
	}
	v.StaticFS("/assets/", static)

	v.Page("/{$}", a.homePage)
	v.Page(demosBase, a.demosPage)
	v.Page(demosBase+"/{$}", a.demosPage)
	v.Page(demosBase+"/{demo}", a.demosPage)
	v.Page(demosBase+"/{demo}/{rest...}", a.demosPage)
	v.Page("/", a.notFoundPage)
	return a, nil
}

// Bulma adds the Bulma stylesheet and the app stylesheet to every page.
func Bulma(v *via.V) {
	v.AppendToHead(
		h.Meta(h.Name("viewport"), h.Attr("content", "width=device-width, initial-scale=1")),
		h.Link(h.Rel("stylesheet"), h.Href("https://cdn.jsdelivr.net/npm/bulma@1.0.2/css/bulma.min.css")),
		h.Link(h.Rel("stylesheet"), h.Href("/assets/app.css")),
	)
}

func (a *App) homePage(c *via.Context) {
	var mu sync.Mutex
	recent := a.visits.snapshot()
	if a.opts.Feed {
		_, err := via.Subscribe(c, VisitSubject, func(v Visit) {
			mu.Lock()
			recent = append(recent, v)
			if n := len(recent); n > maxVisits {
				recent = recent[n-maxVisits:]
			}
			mu.Unlock()
			c.Sync()
		})
		if err != nil {
			logger := c.Logger()
			logger.Warn().Err(err).Msg("visit feed unavailable")
		}
	}

	c.View(func() h.H {
		mu.Lock()
		defer mu.Unlock()
		return layout("",
			h.H1(h.Class("title"), h.Text("Home Page")),
			demos.Playground(),
			h.If(a.opts.Feed, visitList(recent)),
		)
	})
}

func visitList(visits []Visit) h.H {
	items := make([]h.H, 0, len(visits))
	// newest first
	for i := len(visits) - 1; i >= 0; i-- {
		v := visits[i]
		items = append(items, h.Li(
			h.Textf("%s ", v.At.Format(time.TimeOnly)),
			h.A(h.Href(demosBase+"/"+v.Demo), h.Text(v.Label)),
		))
	}
	return h.Section(h.Class("section"),
		h.H2(h.Class("subtitle"), h.Text("Recent visits")),
		h.IfElse(len(items) == 0,
			h.P(h.Text("No visits yet.")),
			h.Ul(h.Class("visits"), h.Group(items)),
		),
	)
}

func (a *App) notFoundPage(c *via.Context) {
	c.Status(404)
	c.View(func() h.H {
		return layout("", h.H1(h.Class("title"), h.Text("Route Not Found")))
	})
}

// demosPage owns one navigation holder. The content and the observers below
// subscribe to it in this order; navigate and the initial route are its only
// writers. Only the nested route demo takes a path below its segment.
func (a *App) demosPage(c *via.Context) {
	if c.GetPathParam("rest") != "" && c.GetPathParam("demo") != demos.NestedRouteSegment {
		a.notFoundPage(c)
		return
	}
	holder := nav.NewHolder()
	content := c.Component(a.content(holder))

	holder.Subscribe(func(sel nav.Selection) {
		if _, ok := a.demos.Lookup(sel.DemoName); ok {
			c.Session().Set(lastDemoKey, sel.DemoName)
		}
	})
	if a.opts.Feed {
		holder.Subscribe(func(sel nav.Selection) { a.publishVisit(c, sel) })
	}
	holder.Subscribe(func(sel nav.Selection) {
		logger := c.Logger()
		logger.Debug().Str("demo", sel.DemoName).Msg("selection changed")
	})

	target := c.Signal("")
	navigate := c.Action(func() {
		seg := target.String()
		holder.Write(seg)
		c.ReplaceURL(demoHref(seg))
		c.Sync()
	}, via.WithRateLimit(a.opts.NavigateLimit))
	menu := c.Component(a.menu(holder, target, navigate))

	last := c.Session().GetString(lastDemoKey)
	holder.Write(c.GetPathParam("demo"))

	c.View(func() h.H {
		sel := holder.Read()
		var resume h.H
		if e, ok := a.demos.Registry().Find(last); ok && sel.DemoName == "" {
			resume = h.P(h.Class("continue"),
				h.Text("continue with "),
				h.A(h.Href(demoHref(e.Segment)),
					navigate.OnClick(via.WithSignal(target, e.Segment), via.WithPreventDefault()),
					h.Text(e.Label),
				),
			)
		}
		return layout(sel.DemoName,
			h.Div(h.Class("columns"),
				h.Div(h.Class("column is-one-quarter"), menu()),
				h.Div(h.Class("column"), resume, content()),
			),
		)
	})
}

func (a *App) publishVisit(c *via.Context, sel nav.Selection) {
	e, ok := a.demos.Registry().Find(sel.DemoName)
	if !ok || c.ID() == "" {
		return
	}
	v := Visit{Demo: e.Segment, Label: e.Label, At: a.now()}
	a.visits.add(v)
	if err := via.Publish(c, VisitSubject, v); err != nil {
		logger := c.Logger()
		logger.Warn().Err(err).Str("demo", v.Demo).Msg("publish visit failed")
	}
}

// content mounts the demo matching the selection. Demos are built the first
// time they are selected and kept for the life of the page.
func (a *App) content(holder *nav.Holder) func(c *via.Context) {
	return func(c *via.Context) {
		var mu sync.Mutex
		mounted := map[*demos.Demo]func() h.H{}
		var current func() h.H

		holder.Subscribe(func(sel nav.Selection) {
			d := a.demos.Resolve(sel.DemoName)
			mu.Lock()
			view, ok := mounted[d]
			mu.Unlock()
			if !ok {
				view = c.Component(d.Init)
			}
			mu.Lock()
			mounted[d] = view
			current = view
			mu.Unlock()
		})

		c.View(func() h.H {
			mu.Lock()
			view := current
			mu.Unlock()
			if view == nil {
				return h.Div()
			}
			return h.Div(h.Class("demo-content"), view())
		})
	}
}

func (a *App) menu(holder *nav.Holder, target *via.Signal, navigate *via.ActionTrigger) func(c *via.Context) {
	return func(c *via.Context) {
		c.View(func() h.H {
			items := nav.Menu(a.demos.Registry(), holder.Read(), demosBase)
			return h.Aside(h.Class("menu"),
				h.P(h.Class("menu-label"), h.Text("Demos")),
				h.Ul(h.Class("menu-list"), h.Group(h.Map(items, func(it nav.MenuItem) h.H {
					return h.Li(h.A(
						h.Href(it.Href),
						h.If(it.Active, h.Class("is-active")),
						navigate.OnClick(via.WithSignal(target, it.Segment), via.WithPreventDefault()),
						h.Text(it.Label),
					))
				}))),
			)
		})
	}
}

func demoHref(seg string) string {
	if seg == "" {
		return demosBase + "/"
	}
	return demosBase + "/" + url.PathEscape(seg)
}
