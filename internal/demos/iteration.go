package demos

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

type counterRow struct {
	id    int
	count int
}

// keyedCounters is a list of counters keyed by id. Ids are never reused.
type keyedCounters struct {
	mu     sync.Mutex
	rows   []counterRow
	nextID int
}

func newKeyedCounters(initial int) *keyedCounters {
	k := &keyedCounters{nextID: initial}
	for id := range initial {
		k.rows = append(k.rows, counterRow{id: id, count: id + 1})
	}
	return k
}

func (k *keyedCounters) add() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.rows = append(k.rows, counterRow{id: k.nextID, count: k.nextID + 1})
	k.nextID++
}

func (k *keyedCounters) increment(id int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.rows {
		if k.rows[i].id == id {
			k.rows[i].count++
		}
	}
}

func (k *keyedCounters) remove(id int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.rows = slices.DeleteFunc(k.rows, func(r counterRow) bool { return r.id == id })
}

// removeLast drops the newest row still in the list.
func (k *keyedCounters) removeLast() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if n := len(k.rows); n > 0 {
		k.rows = k.rows[:n-1]
	}
}

func (k *keyedCounters) snapshot() []counterRow {
	k.mu.Lock()
	defer k.mu.Unlock()
	return slices.Clone(k.rows)
}

type dataRow struct {
	key   string
	value int
}

func basicIteration(c *via.Context) {
	values := []int{0, 1, 2}

	var mu sync.Mutex
	static := []int{1, 2, 3, 4, 5}
	dynamic := newKeyedCounters(5)
	data := []dataRow{{"foo", 10}, {"bar", 20}, {"baz", 15}}

	target := c.Signal(0)
	bumpStatic := c.Action(func() {
		mu.Lock()
		if i := target.Int(); i >= 0 && i < len(static) {
			static[i]++
		}
		mu.Unlock()
		c.Sync()
	})
	add := c.Action(func() {
		dynamic.add()
		c.Sync()
	})
	dropLast := c.Action(func() {
		dynamic.removeLast()
		c.Sync()
	})
	bumpRow := c.Action(func() {
		dynamic.increment(target.Int())
		c.Sync()
	})
	removeRow := c.Action(func() {
		dynamic.remove(target.Int())
		c.Sync()
	})
	double := c.Action(func() {
		mu.Lock()
		for i := range data {
			data[i].value *= 2
		}
		mu.Unlock()
		c.Sync()
	})

	c.View(func() h.H {
		mu.Lock()
		defer mu.Unlock()
		var joined string
		for _, v := range values {
			joined += fmt.Sprint(v)
		}
		staticButtons := make([]h.H, 0, len(static))
		for i, n := range static {
			staticButtons = append(staticButtons, h.Li(
				h.Button(bumpStatic.OnClick(via.WithSignalInt(target, i)), h.Textf("%d", n)),
			))
		}
		return h.Div(h.Class("section"),
			h.H1(h.Class("title"), h.Text("Demo iteration: static views and dynamic views")),
			h.Div(h.Class("container"),
				h.H2(h.Class("subtitle"), h.Text("Static List")),
				h.Div(h.Class("box"), h.P(h.Text(joined))),
				h.Div(h.Class("box"),
					h.P(h.Text("we can wrap them in <li>")),
					h.Ul(h.Group(h.Map(values, func(n int) h.H { return h.Li(h.Textf("%d", n)) }))),
				),
				h.Div(h.Class("box"),
					h.P(h.Text("The fact that the list is static doesn’t mean the interface needs to be static. ")),
					h.Ul(h.Group(staticButtons)),
				),
			),
			h.Div(h.Class("container"),
				h.H2(h.Class("subtitle"), h.Text("Dynamic List")),
				h.P(h.Text("Use this pattern if the rows in your list will change.")),
				h.P(h.Class("is-size-7"), h.Text("Keys: + adds a counter, - removes the last one.")),
				h.Div(h.Class("box"),
					via.OnKeyDownMap(via.KeyBind("+", add), via.KeyBind("-", dropLast)),
					h.Button(h.Class("button"), add.OnClick(), h.Text("Add Counter")),
					h.Ul(h.Group(h.Map(dynamic.snapshot(), func(r counterRow) h.H {
						return h.Li(h.ID(fmt.Sprintf("%s-counter-%d", c.ID(), r.id)),
							h.Button(h.Class("button"), bumpRow.OnClick(via.WithSignalInt(target, r.id)), h.Textf("%d", r.count)),
							h.Button(h.Class("button"), removeRow.OnClick(via.WithSignalInt(target, r.id)), h.Text("Remove")),
						)
					}))),
				),
			),
			h.Div(h.Class("container"),
				h.H2(h.Class("subtitle"), h.Text("Iterating over more complex data")),
				h.Button(h.Class("button"), double.OnClick(), h.Text("Update Values")),
				h.Group(h.Map(data, func(r dataRow) h.H {
					return h.P(h.ID(c.ID()+"-row-"+r.key), h.Textf("%d", r.value))
				})),
			),
		)
	})
}
