package form

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/internal/htmlutil"
)

// AttrHighlight marks controls skipped for manual review.
const AttrHighlight = "data-autofill-highlight"

// AttrChanged stands in for input/change events on a parsed snapshot:
// the static tree has no event loop, so change notification is recorded
// as an attribute consumers can observe.
const AttrChanged = "data-autofill-changed"

// htmlControl adapts one goquery element to the Control port.
type htmlControl struct {
	root  *goquery.Selection
	sel   *goquery.Selection
	tag   string
	label string
}

func newHTMLControl(root, sel *goquery.Selection) *htmlControl {
	label := ""
	if l := htmlutil.FindLabel(root, sel); l != nil {
		label = strings.TrimSpace(l.Text())
	}
	return &htmlControl{
		root:  root,
		sel:   sel,
		tag:   goquery.NodeName(sel),
		label: label,
	}
}

func (h *htmlControl) Value() string {
	switch h.tag {
	case "textarea":
		return h.sel.Text()
	case "select":
		selected := h.sel.Find("option[selected]")
		if selected.Length() > 0 {
			return optionValue(selected.First())
		}
		return ""
	default:
		return htmlutil.Attr(h.sel, "value")
	}
}

func (h *htmlControl) SetValue(value string) {
	if h.tag == "textarea" {
		h.sel.SetText(value)
		return
	}
	h.sel.SetAttr("value", value)
}

func (h *htmlControl) Disabled() bool {
	_, ok := h.sel.Attr("disabled")
	return ok
}

func (h *htmlControl) ReadOnly() bool {
	_, ok := h.sel.Attr("readonly")
	return ok
}

func (h *htmlControl) Checked() bool {
	_, ok := h.sel.Attr("checked")
	return ok
}

func (h *htmlControl) SetChecked(checked bool) {
	if checked {
		h.sel.SetAttr("checked", "checked")
	} else {
		h.sel.RemoveAttr("checked")
	}
}

func (h *htmlControl) Click() {
	// Radios are exclusive within their name group.
	if htmlutil.InputType(h.sel) == "radio" {
		if name := htmlutil.Attr(h.sel, "name"); name != "" {
			h.root.Find(`input[type="radio"][name="` + escapeAttrValue(name) + `"]`).RemoveAttr("checked")
		}
		h.sel.SetAttr("checked", "checked")
	} else {
		h.SetChecked(!h.Checked())
	}
	h.NotifyChanged()
}

// escapeAttrValue makes a raw attribute value safe inside a
// double-quoted CSS attribute selector.
func escapeAttrValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

func (h *htmlControl) Options() []Option {
	raw := htmlutil.SelectOptions(h.sel)
	opts := make([]Option, len(raw))
	for i, o := range raw {
		opts[i] = Option{Label: o.Label, Value: o.Value}
	}
	return opts
}

func (h *htmlControl) SelectOption(value string) {
	h.sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		if optionValue(o) == value {
			o.SetAttr("selected", "selected")
		} else {
			o.RemoveAttr("selected")
		}
	})
}

func (h *htmlControl) OptionLabel() string {
	if h.label != "" {
		return h.label
	}
	return htmlutil.Attr(h.sel, "value")
}

func (h *htmlControl) NotifyChanged() {
	h.sel.SetAttr(AttrChanged, "true")
}

func (h *htmlControl) Highlight(reason string) {
	h.sel.SetAttr(AttrHighlight, reason)
}

func optionValue(o *goquery.Selection) string {
	if v, ok := o.Attr("value"); ok && v != "" {
		return v
	}
	return strings.TrimSpace(o.Text())
}
