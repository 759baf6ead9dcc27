package h

import g "maragu.dev/gomponents"

// ID sets the id attribute. Via uses element ids to merge patches into the DOM.
func ID(v string) H { return g.Attr("id", v) }

func Class(v string) H { return g.Attr("class", v) }

func Type(v string) H { return g.Attr("type", v) }

func Src(v string) H { return g.Attr("src", v) }

func Href(v string) H { return g.Attr("href", v) }

func Rel(v string) H { return g.Attr("rel", v) }

func Name(v string) H { return g.Attr("name", v) }

func Value(v string) H { return g.Attr("value", v) }

func Placeholder(v string) H { return g.Attr("placeholder", v) }

func Max(v string) H { return g.Attr("max", v) }

func Min(v string) H { return g.Attr("min", v) }

func Role(v string) H { return g.Attr("role", v) }

func For(v string) H { return g.Attr("for", v) }

func Action(v string) H { return g.Attr("action", v) }

func Method(v string) H { return g.Attr("method", v) }

func AriaLabel(v string) H { return g.Attr("aria-label", v) }

// Style sets the inline style attribute.
func Style(v string) H { return g.Attr("style", v) }

func Selected() H { return g.Attr("selected") }

func Checked() H { return g.Attr("checked") }

func Disabled() H { return g.Attr("disabled") }

// Data creates a data-* attribute. Datastar reads its directives from these,
// e.g. Data("on:click", "@get('/x')") renders data-on:click="@get('/x')".
func Data(name string, v string) H {
	return g.Attr("data-"+name, v)
}
