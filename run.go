package autofill

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/adapter"
	"github.com/jobcopilot/autofill/form"
	"github.com/jobcopilot/autofill/report"
	"github.com/jobcopilot/autofill/rules"
)

// fieldState tracks what the rule pass decided about a candidate, so
// the AI pass can exclude anything already handled or blocked.
type fieldState int

const (
	statePending fieldState = iota // unresolved, eligible for the AI pass
	stateHandled                   // filled, already-populated or not-editable
	stateBlocked                   // low-confidence rule match, skip-and-highlight
)

func (e *Engine) run(ctx context.Context, doc *goquery.Document, pageURL string) (*Result, error) {
	ad, ok := e.registry.Detect(doc, pageURL)
	if !ok {
		slog.Debug("No adapter matched", "url", pageURL)
		return &Result{OK: false, Error: "unsupported page"}, nil
	}
	slog.Debug("Adapter detected", "site", ad.ID(), "url", pageURL)

	prof, err := e.client.Profile(ctx)
	if err != nil {
		return &Result{OK: false, Site: ad.ID(), Error: err.Error()}, nil
	}

	candidates := ad.ExtractFields(doc)
	slog.Debug("Fields extracted", "site", ad.ID(), "count", len(candidates))

	rec := report.NewRecorder()
	states := make(map[string]fieldState, len(candidates))

	// Rule pass. Fully synchronous: every gate decision and fill
	// completes before the AI candidate set is computed.
	for _, c := range candidates {
		states[c.ID] = statePending
		m, matched := ad.MapFields(c)
		if !matched {
			continue
		}
		if !rules.PassesRule(m.Confidence) {
			c.Highlight(report.ReasonLowConfidence)
			rec.Skip(c.ID, report.ReasonLowConfidence)
			states[c.ID] = stateBlocked
			slog.Debug("Low-confidence match", "field", c.ID, "key", m.Key, "confidence", m.Confidence)
			continue
		}
		value := prof.Value(m.Key)
		if value == "" {
			rec.Skip(c.ID, string(form.OutcomeMissingProfileValue))
			rec.MissingValue(m.Key)
			continue
		}
		outcome := ad.Fill(c, value)
		if outcome == form.OutcomeFilled {
			rec.Fill(c.ID, m.Key, report.SourceRule)
			states[c.ID] = stateHandled
			continue
		}
		rec.Skip(c.ID, string(outcome))
		if outcome == form.OutcomeAlreadyPopulated || outcome == form.OutcomeNotEditable {
			states[c.ID] = stateHandled
		}
	}

	if e.aiEnabled {
		e.aiPass(ctx, ad, doc, pageURL, candidates, states, rec)
	}

	summary := rec.Summary()
	report.RenderPanel(doc, summary)

	// Audit is best effort. A failure here never changes the
	// user-visible result.
	if err := e.client.EmitAudit(ctx, summary.AuditEvent(ad.ID(), pageURL)); err != nil {
		slog.Debug("Audit emission failed", "error", err)
	}

	return resultFrom(ad, summary), nil
}

func resultFrom(ad adapter.Adapter, s *report.Summary) *Result {
	return &Result{
		OK:              true,
		Site:            ad.ID(),
		FilledRuleCount: s.FilledRuleCount,
		FilledAICount:   s.FilledAICount,
		FilledCount:     s.FilledCount,
		SkippedCount:    s.SkippedCount,
		MissingValues:   s.MissingValues,
		Message:         s.Message,
		AIMessage:       s.AIMessage,
	}
}

// aiEligible reports whether a candidate is still open for the AI pass:
// not handled, not blocked, and not already holding user input.
func aiEligible(c *form.Candidate, states map[string]fieldState) bool {
	if states[c.ID] != statePending {
		return false
	}
	return strings.TrimSpace(c.CurrentValue()) == ""
}
