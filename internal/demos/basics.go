package demos

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ryanhamamura/viatour/via"
	"github.com/ryanhamamura/viatour/via/h"
)

func basicComponent(c *via.Context) {
	var (
		mu     sync.Mutex
		clicks int
		count  int
		x      int
	)
	update := func(fn func()) func() {
		return func() {
			mu.Lock()
			fn()
			mu.Unlock()
			c.Sync()
		}
	}
	click := c.Action(update(func() { clicks++ }))
	bump := c.Action(update(func() { count++ }))
	move := c.Action(update(func() { x += 50 }))

	c.View(func() h.H {
		mu.Lock()
		defer mu.Unlock()
		odd := count%2 == 1
		double := count * 2
		return h.Div(
			h.Div(h.Class("section")),
			h.H1(h.Class("title"), h.Text("Basic Component (3.1 and 3.2)")),
			h.Div(h.Class("container"),
				h.H1(h.Class("subtitle"), h.Text("Simple click button")),
				h.Button(h.Class("button"), click.OnClick(), h.Textf("Click me: %d", clicks)),
			),

			h.H2(h.Class("subtitle"), h.Text("Dynamic Classes")),
			h.P(h.Text("click the below button to change the progress bar")),
			h.Ul(h.Li(
				h.Button(
					h.Classes(map[string]bool{"button": true, "red": odd, "button-20": odd}),
					bump.OnClick(),
					h.Textf("Click me to change progress bar: %d", count),
				),
			)),

			h.H2(h.Class("subtitle"), h.Text("Dynamic Style")),
			h.Ul(h.Li(
				h.Button(h.Class("button"), move.OnClick(),
					h.Style(fmt.Sprintf("position: relative; left: %dpx; background-color: rgb(%d, 100, 100); max-width: 400px; --columns: %d", x+100, x, x)),
					h.Text("Click to Move"),
				),
			)),

			h.H2(h.Class("subtitle"), h.Text("Dynamic Attributes")),
			h.Ul(h.Li(progress(50, count))),

			h.H3(h.Class("subtitle"), h.Text("Derived Signals")),
			h.P(h.Text("It shows a signal could be derived from another signal ")),
			h.Ul(
				h.Li(progress(50, double)),
				h.Li(h.P(h.Textf("Double Count: %d", double))),
			),
		)
	})
}

func progress(max, value int) h.H {
	return h.Progress(h.Max(strconv.Itoa(max)), h.Value(strconv.Itoa(value)))
}

// ProgressBarProps are the props of the progress bar child component.
type ProgressBarProps struct {
	// Max defaults to 100.
	Max int
	// Progress is read on every render, so the bar follows the parent state.
	Progress func() int
}

// ProgressBar returns a child component init func rendering props.
func ProgressBar(props ProgressBarProps) func(c *via.Context) {
	if props.Max == 0 {
		props.Max = 100
	}
	return func(c *via.Context) {
		c.View(func() h.H { return progress(props.Max, props.Progress()) })
	}
}

func componentsAndProps(c *via.Context) {
	var mu sync.Mutex
	count := 0
	read := func() int {
		mu.Lock()
		defer mu.Unlock()
		return count
	}
	double := func() int { return read() * 2 }

	bars := []func() h.H{
		c.Component(ProgressBar(ProgressBarProps{Progress: read})),
		c.Component(ProgressBar(ProgressBarProps{Progress: double})),
		c.Component(ProgressBar(ProgressBarProps{Max: 200, Progress: read})),
		c.Component(ProgressBar(ProgressBarProps{Max: 200, Progress: double})),
	}

	click := c.Action(func() {
		mu.Lock()
		count++
		mu.Unlock()
		c.Sync()
	})

	c.View(func() h.H {
		return h.Div(h.Class("section"),
			h.H1(h.Class("title"), h.Text("Components And Props")),
			h.Ul(
				h.P(h.Text("The following example shows how we pass the progress prop")),
				h.Button(h.Class("button"), click.OnClick(), h.Text("Click me")),
				h.Li(bars[0]()),
				h.Li(bars[1]()),
				h.P(h.Text("Props with an explicit max")),
				h.Li(bars[2]()),
				h.Li(bars[3]()),
			),
		)
	})
}
