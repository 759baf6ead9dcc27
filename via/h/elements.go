package h

func A(children ...H) H {
	return el("a", children)
}

func Aside(children ...H) H {
	return el("aside", children)
}

func Br(children ...H) H {
	return el("br", children)
}

func Button(children ...H) H {
	return el("button", children)
}

func Code(children ...H) H {
	return el("code", children)
}

func Div(children ...H) H {
	return el("div", children)
}

func Em(children ...H) H {
	return el("em", children)
}

func Footer(children ...H) H {
	return el("footer", children)
}

func Form(children ...H) H {
	return el("form", children)
}

func H1(children ...H) H {
	return el("h1", children)
}

func H2(children ...H) H {
	return el("h2", children)
}

func H3(children ...H) H {
	return el("h3", children)
}

func H4(children ...H) H {
	return el("h4", children)
}

func H5(children ...H) H {
	return el("h5", children)
}

func H6(children ...H) H {
	return el("h6", children)
}

func Header(children ...H) H {
	return el("header", children)
}

func Hr(children ...H) H {
	return el("hr", children)
}

func Input(children ...H) H {
	return el("input", children)
}

func Label(children ...H) H {
	return el("label", children)
}

func Li(children ...H) H {
	return el("li", children)
}

func Link(children ...H) H {
	return el("link", children)
}

func Main(children ...H) H {
	return el("main", children)
}

func Meta(children ...H) H {
	return el("meta", children)
}

func Nav(children ...H) H {
	return el("nav", children)
}

func Ol(children ...H) H {
	return el("ol", children)
}

func Option(children ...H) H {
	return el("option", children)
}

func P(children ...H) H {
	return el("p", children)
}

func Pre(children ...H) H {
	return el("pre", children)
}

func Progress(children ...H) H {
	return el("progress", children)
}

func Script(children ...H) H {
	return el("script", children)
}

func Section(children ...H) H {
	return el("section", children)
}

func Select(children ...H) H {
	return el("select", children)
}

func Small(children ...H) H {
	return el("small", children)
}

func Span(children ...H) H {
	return el("span", children)
}

func Strong(children ...H) H {
	return el("strong", children)
}

func Table(children ...H) H {
	return el("table", children)
}

func Tbody(children ...H) H {
	return el("tbody", children)
}

func Td(children ...H) H {
	return el("td", children)
}

func Textarea(children ...H) H {
	return el("textarea", children)
}

func Th(children ...H) H {
	return el("th", children)
}

func Thead(children ...H) H {
	return el("thead", children)
}

func Tr(children ...H) H {
	return el("tr", children)
}

func Ul(children ...H) H {
	return el("ul", children)
}
