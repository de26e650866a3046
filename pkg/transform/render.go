package transform

import (
	"html"
	"strings"

	"github.com/matzehuels/glitchzine/pkg/effect"
)

// ClassPrefix prefixes the effect name in a word's class attribute.
const ClassPrefix = "effect-"

// Result is the outcome of processing one word.
type Result struct {
	Rendered string // effect output, or the word itself when skipped
	Effect   string // effect name, effect.NoneName when skipped
	Original string
}

// Applied reports whether an effect changed the word.
func (r Result) Applied() bool {
	return r.Effect != effect.NoneName
}

// HTML wraps the result in its span. Skipped words get a bare span with no
// class, `<span>word</span>`; applied effects render as
// `<span class="effect-NAME" title="Original: WORD">RESULT</span>`.
func (r Result) HTML() string {
	var b strings.Builder
	if !r.Applied() {
		b.Grow(len(r.Rendered) + 13)
		b.WriteString("<span>")
		b.WriteString(r.Rendered)
		b.WriteString("</span>")
		return b.String()
	}
	b.WriteString(`<span class="`)
	b.WriteString(ClassPrefix)
	b.WriteString(r.Effect)
	b.WriteString(`" title="Original: `)
	b.WriteString(html.EscapeString(r.Original))
	b.WriteString(`">`)
	b.WriteString(r.Rendered)
	b.WriteString("</span>")
	return b.String()
}

// protectedText renders a word that holds markup delimiters. HTML sources
// keep it as is; plain text is escaped so it reads literally.
func protectedText(word string, isHTML bool) string {
	if isHTML {
		return word
	}
	return html.EscapeString(word)
}
