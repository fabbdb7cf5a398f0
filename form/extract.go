package form

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/internal/htmlutil"
	"github.com/jobcopilot/autofill/internal/textutil"
)

// Input types excluded from the text-like extraction pass. Radio and
// checkbox inputs are handled by the grouping pass instead.
var skippedInputTypes = map[string]bool{
	"hidden": true, "submit": true, "button": true, "password": true,
	"file": true, "reset": true, "image": true,
}

// Extract walks the document scope and emits one Candidate per logical
// form field, in document order. Text-like controls map 1:1; radio and
// checkbox controls are grouped by name (falling back to id, resolved
// label, then a positional placeholder).
func Extract(root *goquery.Selection) []*Candidate {
	var candidates []*Candidate
	groups := make(map[string]*Candidate)
	ids := newIDGen()

	root.Find("input, textarea, select").Each(func(pos int, sel *goquery.Selection) {
		switch htmlutil.InputType(sel) {
		case "radio":
			addGroupMember(root, sel, FieldRadio, pos, groups, &candidates)
		case "checkbox":
			addGroupMember(root, sel, FieldCheckbox, pos, groups, &candidates)
		case "textarea":
			candidates = append(candidates, newTextLike(root, sel, FieldTextarea))
		case "select":
			candidates = append(candidates, newSelect(root, sel))
		default:
			if skippedInputTypes[htmlutil.InputType(sel)] {
				return
			}
			candidates = append(candidates, newTextLike(root, sel, FieldText))
		}
	})

	for _, c := range candidates {
		finishCandidate(c, ids)
	}
	return candidates
}

func newTextLike(root, sel *goquery.Selection, ft FieldType) *Candidate {
	return &Candidate{
		Type:     ft,
		Label:    htmlutil.ResolveLabel(root, sel),
		Required: requiredFor(sel),
		Controls: []Control{newHTMLControl(root, sel)},
	}
}

func newSelect(root, sel *goquery.Selection) *Candidate {
	c := newTextLike(root, sel, FieldSelect)
	var opts []string
	seen := make(map[string]bool)
	for _, o := range htmlutil.SelectOptions(sel) {
		n := textutil.Normalize(o.Label)
		if n == "" {
			n = textutil.Normalize(o.Value)
		}
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		opts = append(opts, n)
	}
	c.Options = opts
	return c
}

// addGroupMember folds a radio/checkbox control into its group's
// candidate, creating the candidate at the first member's document
// position.
func addGroupMember(root, sel *goquery.Selection, ft FieldType, pos int, groups map[string]*Candidate, candidates *[]*Candidate) {
	key := htmlutil.Attr(sel, "name")
	if key == "" {
		key = htmlutil.Attr(sel, "id")
	}
	if key == "" {
		key = htmlutil.ResolveLabel(root, sel)
	}
	if key == "" {
		key = fmt.Sprintf("group %d", pos)
	}
	key = string(ft) + ":" + key

	ctrl := newHTMLControl(root, sel)
	c, ok := groups[key]
	if !ok {
		c = &Candidate{
			Type:  ft,
			Label: groupLabel(root, sel, key),
		}
		groups[key] = c
		*candidates = append(*candidates, c)
	}
	c.Controls = append(c.Controls, ctrl)
	if requiredFor(sel) {
		c.Required = true
	}

	opt := textutil.Normalize(ctrl.OptionLabel())
	if opt == "" {
		opt = textutil.Normalize(htmlutil.Attr(sel, "value"))
	}
	if opt != "" && !containsString(c.Options, opt) {
		c.Options = append(c.Options, opt)
	}
}

// groupLabel prefers the group's container heading over the first
// member's own label, which is usually just that member's option text.
func groupLabel(root, sel *goquery.Selection, key string) string {
	if heading := textutil.Normalize(htmlutil.ContainerHeading(sel)); heading != "" {
		return heading
	}
	if _, name, found := strings.Cut(key, ":"); found {
		return textutil.Normalize(name)
	}
	return ""
}

func requiredFor(sel *goquery.Selection) bool {
	if htmlutil.IsRequired(sel) {
		return true
	}
	return strings.Contains(textutil.Normalize(htmlutil.ContainerText(sel)), "required")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// idGen produces run-unique candidate ids: a counter keyed by type:slug
// appends a numeric suffix on repeats.
type idGen struct {
	counters map[string]int
}

func newIDGen() *idGen {
	return &idGen{counters: make(map[string]int)}
}

func (g *idGen) gen(ft FieldType, base string) string {
	slug := textutil.Slug(base, 6)
	if slug == "" {
		slug = "field"
	}
	key := string(ft) + ":" + slug
	n := g.counters[key]
	g.counters[key]++
	id := string(ft) + "-" + slug
	if n > 0 {
		id = fmt.Sprintf("%s-%d", id, n+1)
	}
	return id
}

func finishCandidate(c *Candidate, ids *idGen) {
	base := c.Label
	if base == "" && len(c.Controls) > 0 {
		if hc, ok := c.Controls[0].(*htmlControl); ok {
			base = htmlutil.Attr(hc.sel, "name")
			if base == "" {
				base = htmlutil.Attr(hc.sel, "id")
			}
		}
	}
	c.ID = ids.gen(c.Type, base)
}
