package demos

import (
	"strings"
	"sync"

	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

// effectLog is an append-only log shared by the effect demo.
type effectLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *effectLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, s)
}

func (l *effectLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.entries, "\n")
}

func reactivity(c *via.Context) {
	// the second seed is a no-op
	names := seedNames(seedNames(nil, "Alice"), "Bob")

	first, middle, last := "Bob", "J.", "Smith"
	fullName := func() string { return first + " " + middle + " " + last }

	var mu sync.Mutex
	count := 1
	firstName, lastName := "Bridget", "Jones"
	age, favorite := 32, 42
	reset := c.Action(func() {
		mu.Lock()
		age, favorite = 0, 0
		mu.Unlock()
		c.Sync()
	})

	log := &effectLog{}
	effect := c.Component(createAnEffect(log, c.Sync))

	c.View(func() h.H {
		mu.Lock()
		defer mu.Unlock()
		return h.Div(
			h.H1(h.Text("Demo Reactivity")),
			h.Ul(
				h.Li(
					h.P(h.Text("Demo01: usage of with and update")),
					h.P(h.Textf("names: %s", strings.Join(names, ", "))),
				),
				h.Li(
					h.P(h.Text("Demo02: deriving a value from several sources")),
					h.P(h.Textf("name is: %s", fullName())),
				),
				h.Li(
					h.H3(h.Text("Making signals depend on each other")),
					h.P(h.Textf("count: %d, double: %d", count, count*2)),
					h.P(h.Textf("full name: %s %s", firstName, lastName)),
					h.P(h.Textf("age: %d, favorite number: %d", age, favorite)),
					h.Button(h.Class("button"), reset.OnClick(), h.Text("Clear")),
				),
				h.Li(
					effect(),
					h.Pre(h.Text(log.String())),
				),
			),
		)
	})
}

// seedNames appends name only while names is empty.
func seedNames(names []string, name string) []string {
	if len(names) == 0 {
		return append(names, name)
	}
	return names
}

// createAnEffect logs the derived name every time one of its inputs changes,
// and once when it is created. notify re-renders the owner of the log.
func createAnEffect(log *effectLog, notify func()) func(c *via.Context) {
	return func(c *via.Context) {
		first := c.Signal("")
		last := c.Signal("")
		useLast := c.Signal(true)

		derived := func() string {
			if useLast.Bool() {
				return first.String() + " " + last.String()
			}
			return first.String()
		}
		log.add(derived())

		changed := c.Action(func() {
			log.add(derived())
			notify()
		})

		c.View(func() h.H {
			return h.Div(
				h.H1(h.Code(h.Text("create_effect")), h.Text(" Version")),
				h.Form(
					h.Label(h.Text("First Name"),
						h.Input(h.Type("text"), h.Name("first"), first.Bind(), changed.OnChange()),
					),
					h.Label(h.Text("Last Name"),
						h.Input(h.Type("text"), h.Name("last"), last.Bind(), changed.OnChange()),
					),
					h.Label(h.Text("Show Last Name"),
						h.Input(h.Type("checkbox"), h.Name("use_last"), useLast.Bind(), changed.OnChange()),
					),
				),
			)
		})
	}
}
