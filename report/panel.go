package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PanelID is the element id of the in-page summary panel. Rendering is
// idempotent: re-running a fill replaces the panel instead of stacking
// a second one.
const PanelID = "jobcopilot-autofill-summary"

// RenderPanel injects the run summary into the document, replacing any
// panel left by a previous run.
func RenderPanel(doc *goquery.Document, s *Summary) {
	doc.Find("#" + PanelID).Remove()

	var b strings.Builder
	fmt.Fprintf(&b, `<div id=%q role="status">`, PanelID)
	fmt.Fprintf(&b, "<strong>%s</strong>", html.EscapeString(s.Message))
	if s.AIMessage != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(s.AIMessage))
	}
	if s.LowConfidenceCount > 0 {
		fmt.Fprintf(&b, "<p>%d field(s) highlighted for manual review</p>", s.LowConfidenceCount)
	}
	if len(s.MissingValues) > 0 {
		fmt.Fprintf(&b, "<p>Missing profile values: %s</p>",
			html.EscapeString(strings.Join(s.MissingValues, ", ")))
	}
	b.WriteString("</div>")

	doc.Find("body").First().AppendHtml(b.String())
}
