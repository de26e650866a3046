package page

import (
	_ "embed"
	"regexp"
	"slices"
	"sort"

	"github.com/matzehuels/glitchzine/pkg/errors"
)

// ContentPlaceholder is the placeholder of the default template.
const ContentPlaceholder = "content"

//go:embed default.html
var defaultTemplate string

// DefaultTemplate returns the built-in page template.
func DefaultTemplate() string {
	return defaultTemplate
}

var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_-]+)\}\}`)

// Placeholders lists the distinct placeholder names of tpl in order of
// first appearance.
func Placeholders(tpl string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(tpl, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Assemble substitutes values into tpl. Every key of values must name a
// placeholder that occurs in tpl. Placeholders without a value are left in
// place; see [Unfilled].
func Assemble(tpl string, values map[string]string) (string, error) {
	present := Placeholders(tpl)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := errors.ValidatePlaceholder(k); err != nil {
			return "", err
		}
		if !slices.Contains(present, k) {
			return "", errors.New(errors.ErrCodeInvalidTemplate,
				"template has no {{%s}} placeholder", k)
		}
	}

	return placeholderPattern.ReplaceAllStringFunc(tpl, func(m string) string {
		if v, ok := values[m[2:len(m)-2]]; ok {
			return v
		}
		return m
	}), nil
}

// Unfilled returns the placeholders of tpl that values does not cover.
func Unfilled(tpl string, values map[string]string) []string {
	var missing []string
	for _, name := range Placeholders(tpl) {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
