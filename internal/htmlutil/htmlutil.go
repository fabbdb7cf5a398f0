// Package htmlutil provides HTML form control and label utilities.
package htmlutil

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/internal/textutil"
)

// LoadHTML parses HTML bytes into a goquery Document.
func LoadHTML(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// LoadHTMLString parses an HTML string into a goquery Document.
func LoadHTMLString(htmlStr string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
}

// Attr returns the named attribute or "" when absent.
func Attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

// InputType returns the lowercased type attribute of an input element,
// defaulting to "text" when missing. Non-input elements return their tag name.
func InputType(s *goquery.Selection) string {
	tag := goquery.NodeName(s)
	if tag != "input" {
		return tag
	}
	tp := Attr(s, "type")
	if tp == "" {
		return "text"
	}
	return strings.ToLower(tp)
}

// FindLabel finds the <label> element associated with a form control:
// label[for=id] anywhere under root, or an ancestor <label>.
func FindLabel(root *goquery.Selection, elem *goquery.Selection) *goquery.Selection {
	if id := Attr(elem, "id"); id != "" {
		label := root.Find(`label[for="` + id + `"]`)
		if label.Length() > 0 {
			return label.First()
		}
	}
	parent := elem.Closest("label")
	if parent.Length() > 0 {
		return parent
	}
	return nil
}

// LabelledByText resolves aria-labelledby to the joined text of the
// referenced elements, in id order as declared in the attribute.
func LabelledByText(root *goquery.Selection, elem *goquery.Selection) string {
	ids := strings.Fields(Attr(elem, "aria-labelledby"))
	if len(ids) == 0 {
		return ""
	}
	var parts []string
	for _, id := range ids {
		if t := strings.TrimSpace(root.Find("#" + id).Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// containerSelector matches ancestors that typically wrap one logical
// form field in application-tracking systems.
const containerSelector = "fieldset, li, tr, " +
	`[class*="field"], [class*="form-group"], [class*="form-row"], ` +
	`[class*="question"], [class*="input-group"]`

// headingSelector matches the element inside a field container that
// carries its visible title.
const headingSelector = "legend, label, h1, h2, h3, h4, h5, h6, " +
	`[class*="label"], [class*="title"]`

// ContainerHeading returns the heading text of the nearest recognizable
// field-container ancestor of elem, or "".
func ContainerHeading(elem *goquery.Selection) string {
	container := elem.Closest(containerSelector)
	if container.Length() == 0 {
		return ""
	}
	heading := container.Find(headingSelector).First()
	if heading.Length() == 0 {
		return ""
	}
	return textutil.NormalizeWhitespaces(strings.TrimSpace(heading.Text()))
}

// ContainerText returns the full text of the nearest field-container
// ancestor, used for "required" detection.
func ContainerText(elem *goquery.Selection) string {
	container := elem.Closest(containerSelector)
	if container.Length() == 0 {
		return ""
	}
	return container.Text()
}

// ResolveLabel gathers every candidate text source for a form control
// and produces one normalized label string. Sources, in order: the
// associated <label>, aria-label, aria-labelledby, placeholder, name,
// id, and the heading of the nearest field container. Each candidate is
// normalized, duplicates dropped preserving first-seen order, and the
// survivors joined with single spaces. An empty result means the
// control has no usable label.
func ResolveLabel(root *goquery.Selection, elem *goquery.Selection) string {
	var candidates []string

	if label := FindLabel(root, elem); label != nil {
		candidates = append(candidates, label.Text())
	}
	candidates = append(candidates,
		Attr(elem, "aria-label"),
		LabelledByText(root, elem),
		Attr(elem, "placeholder"),
		Attr(elem, "name"),
		Attr(elem, "id"),
		ContainerHeading(elem),
	)

	seen := make(map[string]bool)
	var parts []string
	for _, c := range candidates {
		n := textutil.Normalize(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		parts = append(parts, n)
	}
	return strings.Join(parts, " ")
}

// Option is one choice of a select, radio group or checkbox group.
type Option struct {
	Label string
	Value string
}

// SelectOptions returns the ordered options of a <select> element with
// raw label text and value attribute (value falls back to the label).
func SelectOptions(sel *goquery.Selection) []Option {
	var opts []Option
	sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		label := strings.TrimSpace(o.Text())
		value := Attr(o, "value")
		if value == "" {
			value = label
		}
		opts = append(opts, Option{Label: label, Value: value})
	})
	return opts
}

// IsRequired reports whether the control itself declares it is required,
// natively or via aria-required.
func IsRequired(elem *goquery.Selection) bool {
	if _, ok := elem.Attr("required"); ok {
		return true
	}
	return strings.EqualFold(Attr(elem, "aria-required"), "true")
}
