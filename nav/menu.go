package nav

import "strings"

// MenuItem is one rendered link of the demo menu.
type MenuItem struct {
	Segment string
	Label   string
	Href    string
	Active  bool
}

// Menu lists every registry entry in order with its link under base and
// marks the entry matching sel as active.
func Menu(reg *Registry, sel Selection, base string) []MenuItem {
	base = strings.TrimSuffix(base, "/")
	items := make([]MenuItem, 0, reg.Len())
	for _, e := range reg.entries {
		items = append(items, MenuItem{
			Segment: e.Segment,
			Label:   e.Label,
			Href:    base + "/" + e.Segment,
			Active:  e.Segment == sel.DemoName,
		})
	}
	return items
}

// ActiveLabel returns the label of the selected entry, or "" when the
// selection matches nothing.
func ActiveLabel(reg *Registry, sel Selection) string {
	if e, ok := reg.Find(sel.DemoName); ok {
		return e.Label
	}
	return ""
}
