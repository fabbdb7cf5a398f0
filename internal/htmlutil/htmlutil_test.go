package htmlutil

import (
	"testing"
)

const testHTML = `
<html><body>
<form id="apply" method="POST" action="/apply" class="application-form">
  <div class="form-group">
    <label for="fn">First Name *</label>
    <input type="text" name="first_name" id="fn" required/>
  </div>
  <div class="form-group">
    <input type="email" id="em" placeholder="Email address" aria-required="true"/>
  </div>
  <label>Phone <input type="tel" name="phone"/></label>
  <div class="question">
    <span class="question-title">Work authorization</span>
    <select name="work_auth">
      <option value="">Select...</option>
      <option value="us">United States</option>
      <option>Other</option>
    </select>
  </div>
  <div id="legend-loc">Location</div>
  <input type="text" aria-labelledby="legend-loc" name="loc"/>
</form>
</body></html>
`

func TestFindLabelByFor(t *testing.T) {
	doc, err := LoadHTMLString(testHTML)
	if err != nil {
		t.Fatal(err)
	}
	root := doc.Selection
	input := doc.Find("#fn")
	label := FindLabel(root, input)
	if label == nil {
		t.Fatal("expected label for #fn")
	}
	if got := label.Text(); got != "First Name *" {
		t.Errorf("label text = %q", got)
	}
}

func TestFindLabelAncestor(t *testing.T) {
	doc, _ := LoadHTMLString(testHTML)
	input := doc.Find(`input[name="phone"]`)
	label := FindLabel(doc.Selection, input)
	if label == nil {
		t.Fatal("expected ancestor label for phone input")
	}
}

func TestResolveLabel(t *testing.T) {
	doc, _ := LoadHTMLString(testHTML)
	root := doc.Selection

	tests := []struct {
		selector string
		want     string
	}{
		{"#fn", "first name fn"},
		{"#em", "email address em"},
		{`select[name="work_auth"]`, "work auth work authorization"},
		{`input[name="loc"]`, "location loc"},
	}
	for _, tt := range tests {
		got := ResolveLabel(root, doc.Find(tt.selector))
		if got != tt.want {
			t.Errorf("ResolveLabel(%s) = %q, want %q", tt.selector, got, tt.want)
		}
	}
}

func TestResolveLabelEmpty(t *testing.T) {
	doc, _ := LoadHTMLString(`<html><body><input type="text"/></body></html>`)
	got := ResolveLabel(doc.Selection, doc.Find("input"))
	if got != "" {
		t.Errorf("expected empty label, got %q", got)
	}
}

func TestSelectOptions(t *testing.T) {
	doc, _ := LoadHTMLString(testHTML)
	opts := SelectOptions(doc.Find(`select[name="work_auth"]`))
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	if opts[1].Label != "United States" || opts[1].Value != "us" {
		t.Errorf("option[1] = %+v", opts[1])
	}
	// Missing value attribute falls back to label text.
	if opts[2].Value != "Other" {
		t.Errorf("option[2].Value = %q, want fallback to label", opts[2].Value)
	}
}

func TestIsRequired(t *testing.T) {
	doc, _ := LoadHTMLString(testHTML)
	if !IsRequired(doc.Find("#fn")) {
		t.Error("native required attribute not detected")
	}
	if !IsRequired(doc.Find("#em")) {
		t.Error("aria-required not detected")
	}
	if IsRequired(doc.Find(`input[name="phone"]`)) {
		t.Error("phone input should not be required")
	}
}

func TestInputType(t *testing.T) {
	doc, _ := LoadHTMLString(`<input/><input type="EMAIL"/><textarea></textarea>`)
	sel := doc.Find("input, textarea")
	if got := InputType(sel.Eq(0)); got != "text" {
		t.Errorf("default input type = %q, want text", got)
	}
	if got := InputType(sel.Eq(1)); got != "email" {
		t.Errorf("input type = %q, want email", got)
	}
	if got := InputType(sel.Eq(2)); got != "textarea" {
		t.Errorf("textarea type = %q", got)
	}
}
