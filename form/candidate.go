// Package form models logical form fields and performs safe,
// non-destructive fills against them.
package form

// FieldType is the kind of logical form field a candidate represents.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

// Option is one selectable choice with its visible label and submit value.
type Option struct {
	Label string
	Value string
}

// Control is the minimal port onto one interactive form control. It
// decouples classification and fill logic from any concrete document
// backend, so the engine runs identically against a parsed HTML tree
// and an in-memory fake.
type Control interface {
	// Value returns the control's current value: the input value, the
	// textarea content, or the selected option's value for selects.
	Value() string
	// SetValue writes a text value. Meaningful for text-like controls.
	SetValue(value string)
	// Disabled reports whether the control rejects input.
	Disabled() bool
	// ReadOnly reports whether the control is read-only.
	ReadOnly() bool
	// Checked reports the checked state of a radio or checkbox control.
	Checked() bool
	// SetChecked toggles a checkbox control.
	SetChecked(checked bool)
	// Click simulates a user click, used for radios so bound framework
	// listeners observe a real activation rather than a state poke.
	Click()
	// Options returns a select control's ordered options.
	Options() []Option
	// SelectOption selects the option with the given submit value.
	SelectOption(value string)
	// OptionLabel returns the visible label of a radio/checkbox member.
	OptionLabel() string
	// NotifyChanged raises the backend's input/change notifications.
	NotifyChanged()
	// Highlight marks the control for manual attention.
	Highlight(reason string)
}

// Candidate is the engine's immutable representation of one logical
// form field: a single text-like control, or a radio/checkbox group.
// It is created once per scan and never mutated afterwards; only the
// underlying control state changes, through the fill executor.
type Candidate struct {
	// ID is unique within one run, derived from type-prefixed label
	// slugs with a collision counter.
	ID string
	// Type is the logical field type.
	Type FieldType
	// Label is the normalized combined label text; empty means no
	// usable label was found.
	Label string
	// Options holds the ordered, de-duplicated normalized option
	// labels for select/radio/checkbox fields.
	Options []string
	// Required reports whether any evidence marks the field mandatory.
	Required bool
	// Controls are the member controls, in document order. Text-like
	// fields have exactly one; groups have one per option control.
	Controls []Control
}

// CurrentValue returns the candidate's current user-visible value: the
// first control's value for text-like fields, or the checked members'
// labels for groups.
func (c *Candidate) CurrentValue() string {
	if len(c.Controls) == 0 {
		return ""
	}
	switch c.Type {
	case FieldRadio, FieldCheckbox:
		for _, ctrl := range c.Controls {
			if ctrl.Checked() {
				return ctrl.OptionLabel()
			}
		}
		return ""
	default:
		return c.Controls[0].Value()
	}
}

// Highlight marks every member control for manual attention.
func (c *Candidate) Highlight(reason string) {
	for _, ctrl := range c.Controls {
		ctrl.Highlight(reason)
	}
}
