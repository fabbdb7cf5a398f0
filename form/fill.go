package form

import (
	"strings"

	"github.com/jobcopilot/autofill/internal/textutil"
)

// Outcome is the exhaustive result code of one fill attempt.
type Outcome string

const (
	OutcomeFilled               Outcome = "filled"
	OutcomeMissingProfileValue  Outcome = "missing-profile-value"
	OutcomeNotEditable          Outcome = "not-editable"
	OutcomeAlreadyPopulated     Outcome = "already-populated"
	OutcomeOptionNotFound       Outcome = "option-not-found"
	OutcomeMissingElement       Outcome = "missing-element"
	OutcomeUnsupportedFieldType Outcome = "unsupported-field-type"
)

// checkTokens are the string values that mean "check it" for a single
// checkbox receiving a string target.
var checkTokens = []string{"yes", "true", "1", "checked"}

// Fill writes value into the candidate's controls when it is safe to do
// so and reports exactly one outcome. It never overwrites user-entered
// data and mutates control state only on the filled outcome. The value
// is a string for text-like fields, a string or []string for option
// fields, and a bool for single checkboxes.
func Fill(c *Candidate, value any) Outcome {
	if c == nil || len(c.Controls) == 0 || c.Controls[0] == nil {
		return OutcomeMissingElement
	}

	switch c.Type {
	case FieldText, FieldTextarea:
		return fillText(c.Controls[0], value)
	case FieldSelect:
		return fillSelect(c.Controls[0], value)
	case FieldRadio:
		return fillRadio(c.Controls, value)
	case FieldCheckbox:
		return fillCheckbox(c.Controls, value)
	}
	return OutcomeUnsupportedFieldType
}

func fillText(ctrl Control, value any) Outcome {
	text, ok := stringValue(value)
	if !ok {
		return OutcomeUnsupportedFieldType
	}
	if ctrl.Disabled() || ctrl.ReadOnly() {
		return OutcomeNotEditable
	}
	if strings.TrimSpace(ctrl.Value()) != "" {
		return OutcomeAlreadyPopulated
	}
	ctrl.SetValue(text)
	ctrl.NotifyChanged()
	return OutcomeFilled
}

func fillSelect(ctrl Control, value any) Outcome {
	text, ok := stringValue(value)
	if !ok {
		return OutcomeUnsupportedFieldType
	}
	if ctrl.Disabled() {
		return OutcomeNotEditable
	}
	opt, found := matchOption(text, ctrl.Options())
	if !found {
		return OutcomeOptionNotFound
	}
	ctrl.SelectOption(opt.Value)
	ctrl.NotifyChanged()
	return OutcomeFilled
}

func fillRadio(controls []Control, value any) Outcome {
	text, ok := stringValue(value)
	if !ok {
		return OutcomeUnsupportedFieldType
	}
	idx, found := matchMember(text, controls)
	if !found {
		return OutcomeOptionNotFound
	}
	target := controls[idx]
	if target.Disabled() {
		return OutcomeNotEditable
	}
	// A click, not a state poke, so framework listeners fire.
	if !target.Checked() {
		target.Click()
	}
	return OutcomeFilled
}

func fillCheckbox(controls []Control, value any) Outcome {
	// Single checkbox with a boolean target: toggle to match.
	if b, isBool := value.(bool); isBool && len(controls) == 1 {
		ctrl := controls[0]
		if ctrl.Disabled() {
			return OutcomeNotEditable
		}
		if ctrl.Checked() != b {
			ctrl.SetChecked(b)
			ctrl.NotifyChanged()
		}
		return OutcomeFilled
	}

	// Single checkbox with a string target: check only on an
	// affirmative token.
	if s, isString := value.(string); isString && len(controls) == 1 {
		ctrl := controls[0]
		if ctrl.Disabled() {
			return OutcomeNotEditable
		}
		if !textutil.ContainsToken(s, checkTokens...) {
			return OutcomeOptionNotFound
		}
		if !ctrl.Checked() {
			ctrl.SetChecked(true)
			ctrl.NotifyChanged()
		}
		return OutcomeFilled
	}

	// Group with a list target: check every member that matches any
	// target item.
	items, ok := stringList(value)
	if !ok {
		return OutcomeUnsupportedFieldType
	}
	matched := false
	for _, item := range items {
		for _, ctrl := range controls {
			if ctrl.Disabled() {
				continue
			}
			if !optionMatches(item, ctrl.OptionLabel(), ctrl.Value()) {
				continue
			}
			matched = true
			if !ctrl.Checked() {
				ctrl.SetChecked(true)
				ctrl.NotifyChanged()
			}
		}
	}
	if !matched {
		return OutcomeOptionNotFound
	}
	return OutcomeFilled
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "yes", true
		}
		return "no", true
	case []string:
		if len(v) > 0 {
			return v[0], true
		}
		return "", true
	}
	return "", false
}

func stringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case string:
		return []string{v}, true
	}
	return nil, false
}

// matchOption finds the best option for a target value: normalized
// exact match on label or value first, then bidirectional substring
// containment.
func matchOption(target string, opts []Option) (Option, bool) {
	nt := textutil.Normalize(target)
	if nt == "" {
		return Option{}, false
	}
	for _, o := range opts {
		if textutil.Normalize(o.Label) == nt || textutil.Normalize(o.Value) == nt {
			return o, true
		}
	}
	for _, o := range opts {
		if optionMatches(target, o.Label, o.Value) {
			return o, true
		}
	}
	return Option{}, false
}

// matchMember applies the option-matching algorithm across a group's
// member controls, preferring exact matches.
func matchMember(target string, controls []Control) (int, bool) {
	nt := textutil.Normalize(target)
	if nt == "" {
		return 0, false
	}
	for i, ctrl := range controls {
		if textutil.Normalize(ctrl.OptionLabel()) == nt || textutil.Normalize(ctrl.Value()) == nt {
			return i, true
		}
	}
	for i, ctrl := range controls {
		if optionMatches(target, ctrl.OptionLabel(), ctrl.Value()) {
			return i, true
		}
	}
	return 0, false
}

// optionMatches reports symmetric-containment equivalence between a
// target value and an option's label or value: "United States" matches
// "United States of America" in either direction after normalization.
func optionMatches(target, label, value string) bool {
	nt := textutil.Normalize(target)
	if nt == "" {
		return false
	}
	for _, cand := range []string{label, value} {
		nc := textutil.Normalize(cand)
		if nc == "" {
			continue
		}
		if strings.Contains(nc, nt) || strings.Contains(nt, nc) {
			return true
		}
	}
	return false
}
