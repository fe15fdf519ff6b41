package predicate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
)

// ContentTerm is what a template needs to know about a term to render it:
// a display name and whether the name is grammatically plural.
type ContentTerm interface {
	ShortString() string
	IsPlural() bool
}

var placeholderPattern = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)

// Template is a past-tense clause with $name or ${name} placeholders
// marking where terms get substituted. The text is stored in singular
// form ("$x was"); plural phrasing is restored at render time for terms
// that report themselves plural.
type Template struct {
	text string
}

func NewTemplate(text string) *Template {
	t := &Template{text: text}
	for _, p := range t.Placeholders() {
		t.text = strings.ReplaceAll(t.text, "$"+p+" were", "$"+p+" was")
		t.text = strings.ReplaceAll(t.text, "${"+p+"} were", "${"+p+"} was")
	}
	return t
}

func (t *Template) Text() string { return t.text }

// Placeholders lists the distinct placeholder names in order of first
// appearance. A repeated placeholder refers to the same term each time.
func (t *Template) Placeholders() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.text, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// skeleton replaces every placeholder with an identical marker, so two
// templates that differ only in placeholder names compare equal.
func (t *Template) skeleton() string {
	return placeholderPattern.ReplaceAllString(t.text, "{}")
}

// withPlurals returns the template text with "was" turned back into
// "were" after each placeholder bound to a plural term.
func (t *Template) withPlurals(placeholders []string, terms []ContentTerm) string {
	result := t.text
	for i, p := range placeholders {
		if !terms[i].IsPlural() {
			continue
		}
		result = strings.ReplaceAll(result, "$"+p+" was", "$"+p+" were")
		result = strings.ReplaceAll(result, "${"+p+"} was", "${"+p+"} were")
	}
	return result
}

// Render substitutes term names into the template. The terms must match
// the distinct placeholders in order of first appearance.
func (t *Template) Render(terms []ContentTerm) (string, error) {
	placeholders := t.Placeholders()
	if len(placeholders) != len(terms) {
		return "", fmt.Errorf("%w: template has %d placeholders, got %d terms",
			internalerr.ErrTermCount, len(placeholders), len(terms))
	}
	names := make(map[string]string, len(placeholders))
	for i, p := range placeholders {
		names[p] = terms[i].ShortString()
	}
	text := t.withPlurals(placeholders, terms)
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		return names[name]
	}), nil
}
