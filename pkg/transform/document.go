package transform

import (
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/glitchzine/pkg/errors"
)

// Format identifies how a source document is interpreted.
type Format string

const (
	FormatAuto Format = "auto" // pick by file extension
	FormatText Format = "text" // plain prose, the whole text is one region
	FormatHTML Format = "html" // speech divs are regions, everything else is raw
)

// ParseFormat validates a format name. The empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText, FormatHTML:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: auto, text, html)", s)
	}
}

// DetectFormat resolves FormatAuto by file extension (.html, .htm => html).
func DetectFormat(path string, f Format) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatText
	}
}

// Class and tag conventions of zine HTML sources.
const (
	speechClass = "speech"
	speechTag   = "div"
	emphasisTag = "strong"
)

// Segment is a contiguous piece of a document. Raw segments are emitted
// verbatim; regions are tokenized and transformed.
type Segment struct {
	Text     string
	Region   bool
	Emphasis bool // region nested in an emphasis tag
}

// Document is a source split into raw segments and transformable regions,
// in document order.
type Document struct {
	Name     string
	Format   Format
	Segments []Segment
}

// Regions returns the number of transformable regions.
func (d *Document) Regions() int {
	n := 0
	for _, s := range d.Segments {
		if s.Region {
			n++
		}
	}
	return n
}

// Source reassembles the original text from the segments.
func (d *Document) Source() string {
	var b strings.Builder
	for _, s := range d.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func (d *Document) addRaw(text string) {
	if text == "" {
		return
	}
	if n := len(d.Segments); n > 0 && !d.Segments[n-1].Region {
		d.Segments[n-1].Text += text
		return
	}
	d.Segments = append(d.Segments, Segment{Text: text})
}

func (d *Document) addRegion(text string, emphasis bool) {
	if text == "" {
		return
	}
	d.Segments = append(d.Segments, Segment{Text: text, Region: true, Emphasis: emphasis})
}

// NewDocument builds a document from src in the given format.
// FormatAuto is resolved from name's extension.
func NewDocument(name, src string, f Format) (*Document, error) {
	switch DetectFormat(name, f) {
	case FormatHTML:
		return ParseHTML(name, src)
	default:
		return PlainDocument(name, src), nil
	}
}

// PlainDocument treats the whole text as a single region.
func PlainDocument(name, text string) *Document {
	d := &Document{Name: name, Format: FormatText}
	d.addRegion(text, false)
	return d
}

// ParseHTML splits an HTML source into regions. Text inside a
// <div class="speech"> is a region; text inside a <strong> within such a
// div is an emphasis region. Tags and all text outside speech divs are raw.
// A source without speech divs yields no regions.
func ParseHTML(name, src string) (*Document, error) {
	d := &Document{Name: name, Format: FormatHTML}
	z := html.NewTokenizer(strings.NewReader(src))

	// speechDepth counts open divs from the outermost speech div inward.
	speechDepth, strongDepth := 0, 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", name)
			}
			return d, nil
		}

		// Raw must be copied before TagName/TagAttr reuse the buffer.
		raw := string(z.Raw())

		switch tt {
		case html.TextToken:
			if speechDepth > 0 {
				d.addRegion(raw, strongDepth > 0)
			} else {
				d.addRaw(raw)
			}
			continue

		case html.StartTagToken:
			tag, hasAttr := z.TagName()
			switch string(tag) {
			case speechTag:
				if speechDepth > 0 {
					speechDepth++
				} else if hasAttr && hasClass(z, speechClass) {
					speechDepth = 1
				}
			case emphasisTag:
				if speechDepth > 0 {
					strongDepth++
				}
			}

		case html.EndTagToken:
			tag, _ := z.TagName()
			switch string(tag) {
			case speechTag:
				if speechDepth > 0 {
					speechDepth--
					if speechDepth == 0 {
						strongDepth = 0
					}
				}
			case emphasisTag:
				if strongDepth > 0 {
					strongDepth--
				}
			}
		}
		d.addRaw(raw)
	}
}

// hasClass consumes the current tag's attributes looking for class.
func hasClass(z *html.Tokenizer, class string) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, c := range strings.Fields(string(val)) {
				if c == class {
					return true
				}
			}
		}
		if !more {
			return false
		}
	}
}
