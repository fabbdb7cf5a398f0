// Package report aggregates per-field outcomes into a run summary,
// renders the in-page report panel and builds the audit record.
package report

import (
	"fmt"
	"sort"
)

// Source identifies which pass produced a fill.
type Source string

const (
	SourceRule Source = "rule"
	SourceAI   Source = "ai"
)

// Skip reason codes that are not fill-executor outcomes.
const (
	ReasonLowConfidence   = "low-confidence"
	ReasonNoAIAnswer      = "no-ai-answer"
	ReasonAIRequestFailed = "ai-request-failed"
)

// FilledField is one successful fill.
type FilledField struct {
	ID     string
	Key    string
	Source Source
}

// SkippedField is one field left untouched, with its reason code.
type SkippedField struct {
	ID     string
	Reason string
}

// Summary is the aggregate result of one autofill run.
type Summary struct {
	FilledRuleCount    int
	FilledAICount      int
	FilledCount        int
	SkippedCount       int
	LowConfidenceCount int
	// MissingValues is the de-duplicated, sorted set of canonical keys
	// that matched a field but had no profile value.
	MissingValues []string
	Message       string
	AIMessage     string
	AIInvoked     bool
	Filled        []FilledField
	Skipped       []SkippedField
}

// Recorder collects outcomes during a run and produces the Summary.
// A field appears at most once across the filled and skipped lists: a
// repeated skip keeps the first reason, and a fill supersedes any
// earlier skip for the same field.
type Recorder struct {
	summary Summary
	missing map[string]bool
	skipped map[string]string // field id -> recorded reason
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		missing: make(map[string]bool),
		skipped: make(map[string]string),
	}
}

// Fill records a successful fill from the given pass, dropping any skip
// the field picked up in an earlier pass.
func (r *Recorder) Fill(id, key string, source Source) {
	r.dropSkip(id)
	r.summary.Filled = append(r.summary.Filled, FilledField{ID: id, Key: key, Source: source})
	r.summary.FilledCount++
	if source == SourceAI {
		r.summary.FilledAICount++
	} else {
		r.summary.FilledRuleCount++
	}
}

// Skip records a field left untouched with a reason code. A field
// already skipped keeps its original, more specific reason.
func (r *Recorder) Skip(id, reason string) {
	if _, dup := r.skipped[id]; dup {
		return
	}
	r.skipped[id] = reason
	r.summary.Skipped = append(r.summary.Skipped, SkippedField{ID: id, Reason: reason})
	r.summary.SkippedCount++
	if reason == ReasonLowConfidence {
		r.summary.LowConfidenceCount++
	}
}

func (r *Recorder) dropSkip(id string) {
	reason, ok := r.skipped[id]
	if !ok {
		return
	}
	delete(r.skipped, id)
	for i, f := range r.summary.Skipped {
		if f.ID == id {
			r.summary.Skipped = append(r.summary.Skipped[:i], r.summary.Skipped[i+1:]...)
			break
		}
	}
	r.summary.SkippedCount--
	if reason == ReasonLowConfidence {
		r.summary.LowConfidenceCount--
	}
}

// MissingValue records a canonical key that resolved to no profile value.
func (r *Recorder) MissingValue(key string) {
	r.missing[key] = true
}

// AIInvoked marks that the AI fallback request was actually sent.
func (r *Recorder) AIInvoked() {
	r.summary.AIInvoked = true
}

// SetAIMessage stores the AI service's (or failure's) diagnostic message.
func (r *Recorder) SetAIMessage(msg string) {
	r.summary.AIMessage = msg
}

// Summary finalizes and returns the run summary.
func (r *Recorder) Summary() *Summary {
	s := r.summary
	s.MissingValues = make([]string, 0, len(r.missing))
	for k := range r.missing {
		s.MissingValues = append(s.MissingValues, k)
	}
	sort.Strings(s.MissingValues)
	s.Message = fmt.Sprintf("Filled %d field(s) (%d via rules, %d via AI), skipped %d",
		s.FilledCount, s.FilledRuleCount, s.FilledAICount, s.SkippedCount)
	return &s
}

// AuditEvent is the best-effort side-channel record of one run, shaped
// for POST /events/audit.
type AuditEvent struct {
	Site          string         `json:"site"`
	JobURL        string         `json:"job_url"`
	FilledFields  []string       `json:"filled_fields"`
	SkippedFields []string       `json:"skipped_fields"`
	Metadata      map[string]any `json:"metadata"`
}

// AuditEvent renders the summary as an audit record: filled fields with
// their source, skipped fields with their reason code, and the
// aggregate counters.
func (s *Summary) AuditEvent(site, jobURL string) *AuditEvent {
	ev := &AuditEvent{
		Site:          site,
		JobURL:        jobURL,
		FilledFields:  make([]string, 0, len(s.Filled)),
		SkippedFields: make([]string, 0, len(s.Skipped)),
		Metadata: map[string]any{
			"filled_rule_count":    s.FilledRuleCount,
			"filled_ai_count":      s.FilledAICount,
			"filled_count":         s.FilledCount,
			"skipped_count":        s.SkippedCount,
			"low_confidence_count": s.LowConfidenceCount,
			"missing_values":       s.MissingValues,
			"ai_invoked":           s.AIInvoked,
		},
	}
	for _, f := range s.Filled {
		ev.FilledFields = append(ev.FilledFields, fmt.Sprintf("%s (%s)", f.ID, f.Source))
	}
	for _, f := range s.Skipped {
		ev.SkippedFields = append(ev.SkippedFields, fmt.Sprintf("%s: %s", f.ID, f.Reason))
	}
	return ev
}
