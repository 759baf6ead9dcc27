package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countActive(items []MenuItem) int {
	n := 0
	for _, it := range items {
		if it.Active {
			n++
		}
	}
	return n
}

func TestMenu_AlphaBetaScenario(t *testing.T) {
	reg := MustRegistry(Entry{"a", "Alpha"}, Entry{"b", "Beta"})
	h := NewHolder()
	h.Write("b")

	items := Menu(reg, h.Read(), "/demos")

	require.Len(t, items, 2)
	assert.Equal(t, MenuItem{Segment: "a", Label: "Alpha", Href: "/demos/a", Active: false}, items[0])
	assert.Equal(t, MenuItem{Segment: "b", Label: "Beta", Href: "/demos/b", Active: true}, items[1])
}

func TestMenu_ActiveCount(t *testing.T) {
	reg := MustRegistry(Entry{"a", "Alpha"}, Entry{"b", "Beta"}, Entry{"c", "Gamma"})
	testcases := []struct {
		desc     string
		selected string
		expected int
	}{
		{"match first", "a", 1},
		{"match last", "c", 1},
		{"empty selection", "", 0},
		{"unknown", "zzz", 0},
		{"case differs", "A", 0},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			items := Menu(reg, Selection{DemoName: tc.selected}, "/demos/")
			assert.Len(t, items, 3)
			assert.Equal(t, tc.expected, countActive(items))
		})
	}
}

func TestActiveLabel(t *testing.T) {
	reg := MustRegistry(Entry{"a", "Alpha"})
	assert.Equal(t, "Alpha", ActiveLabel(reg, Selection{DemoName: "a"}))
	assert.Equal(t, "", ActiveLabel(reg, Selection{DemoName: "b"}))
}

func TestRegistry_Validation(t *testing.T) {
	_, err := NewRegistry(Entry{"", "nothing"})
	assert.ErrorIs(t, err, ErrEmptySegment)

	_, err = NewRegistry(Entry{"a", "x"}, Entry{"a", "y"})
	assert.Error(t, err)

	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
	assert.Empty(t, Menu(reg, Selection{DemoName: "a"}, "/demos"))
}
