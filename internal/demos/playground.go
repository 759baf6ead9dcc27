package demos

import "github.com/ryanhamamura/viatour/via/h"

// Playground is the styling sandbox shown on the home page: a row of Bulma
// columns.
func Playground() h.H {
	cols := h.Map([]int{1, 2, 3, 4, 5}, func(n int) h.H {
		return h.Div(h.Class("column"), h.Textf("%d", n))
	})
	return h.Div(h.Div(h.Class("container"), h.Div(h.Class("columns"), h.Group(cols))))
}
