package autofill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/adapter"
	"github.com/jobcopilot/autofill/form"
	"github.com/jobcopilot/autofill/internal/api"
	"github.com/jobcopilot/autofill/report"
	"github.com/jobcopilot/autofill/rules"
)

// aiPass batches every field the rule pass left unresolved into one
// answering request, then routes each answer through the same
// confidence gate and fill executor the rule pass used. A failed
// request degrades the phase to "no AI answers"; the run completes on
// rule-pass results.
func (e *Engine) aiPass(ctx context.Context, ad adapter.Adapter, doc *goquery.Document, pageURL string, candidates []*form.Candidate, states map[string]fieldState, rec *report.Recorder) {
	var pending []*form.Candidate
	for _, c := range candidates {
		if aiEligible(c, states) {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return
	}

	pc := ad.PageContext(doc, pageURL)
	req := &api.AnswerRequest{
		Site:           pc.Site,
		JobURL:         pc.URL,
		JobTitle:       pc.JobTitle,
		Company:        pc.Company,
		JobDescription: pc.JobDescription,
		Fields:         make([]api.AnswerField, 0, len(pending)),
	}
	for _, c := range pending {
		req.Fields = append(req.Fields, api.AnswerField{
			FieldID:      c.ID,
			Label:        c.Label,
			FieldType:    string(c.Type),
			Required:     c.Required,
			Options:      c.Options,
			CurrentValue: c.CurrentValue(),
		})
	}

	rec.AIInvoked()
	slog.Debug("Requesting AI answers", "fields", len(pending))
	resp, err := e.client.AnswerFields(ctx, req)
	if err != nil {
		slog.Debug("AI request failed", "error", err)
		for _, c := range pending {
			rec.Skip(c.ID, report.ReasonAIRequestFailed)
		}
		rec.SetAIMessage(fmt.Sprintf("AI fallback unavailable: %v", err))
		return
	}
	rec.SetAIMessage(resp.Message)

	answers := make(map[string]*api.Answer, len(resp.Answers))
	for i := range resp.Answers {
		answers[resp.Answers[i].FieldID] = &resp.Answers[i]
	}

	for _, c := range pending {
		ans, ok := answers[c.ID]
		if !ok {
			rec.Skip(c.ID, report.ReasonNoAIAnswer)
			continue
		}
		if !rules.PassesAI(ans.Confidence) {
			c.Highlight(report.ReasonLowConfidence)
			rec.Skip(c.ID, report.ReasonLowConfidence)
			continue
		}
		value := ans.NormalizedValue()
		if s, isString := value.(string); isString && s == "" {
			rec.Skip(c.ID, string(form.OutcomeMissingProfileValue))
			continue
		}
		outcome := ad.Fill(c, value)
		if outcome == form.OutcomeFilled {
			rec.Fill(c.ID, "", report.SourceAI)
			continue
		}
		rec.Skip(c.ID, string(outcome))
	}
}
