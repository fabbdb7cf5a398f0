// Package autofill fills web job-application forms from a canonical
// candidate profile. It scans a page's form, classifies each field
// against a declarative rule table, fills deterministically what it is
// confident about, escalates leftover fields to an AI answering
// service, and leaves anything doubtful untouched and highlighted. It
// never submits a form.
//
//	e, err := autofill.New("http://localhost:8000")
//	result, err := e.RunHTML(ctx, pageHTML, pageURL)
//	fmt.Println(result.Message)
package autofill

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/adapter"
	"github.com/jobcopilot/autofill/internal/api"
	"github.com/jobcopilot/autofill/internal/htmlutil"
)

// ErrRunInProgress guards the page against interleaved writes: an
// Engine executes one run at a time and rejects concurrent triggers.
var ErrRunInProgress = errors.New("autofill: a run is already in progress")

// Engine wires the adapter registry, the backend client and the
// matching/filling core into one runnable pipeline.
type Engine struct {
	client    *api.Client
	registry  *adapter.Registry
	aiEnabled bool
	running   atomic.Bool
}

// Option customises an Engine.
type Option func(*Engine)

// WithRegistry replaces the default site adapter registry.
func WithRegistry(r *adapter.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithoutAI disables the AI fallback pass; runs complete on rule-pass
// results alone.
func WithoutAI() Option {
	return func(e *Engine) { e.aiEnabled = false }
}

// New creates an Engine talking to the backend at apiBaseURL.
func New(apiBaseURL string, opts ...Option) (*Engine, error) {
	e := &Engine{
		client:    api.NewClient(apiBaseURL),
		aiEnabled: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		reg, err := adapter.DefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("autofill: %w", err)
		}
		e.registry = reg
	}
	return e, nil
}

// Result is the trigger response of one run.
type Result struct {
	OK              bool     `json:"ok"`
	Site            string   `json:"site,omitempty"`
	FilledRuleCount int      `json:"filledRuleCount"`
	FilledAICount   int      `json:"filledAiCount"`
	FilledCount     int      `json:"filledCount"`
	SkippedCount    int      `json:"skippedCount"`
	MissingValues   []string `json:"missingValues,omitempty"`
	Message         string   `json:"message,omitempty"`
	AIMessage       string   `json:"aiMessage,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// RunHTML parses the page HTML and runs the pipeline against it. The
// returned document in Result reflects fills, highlights and the
// summary panel only through the parsed tree the caller provided via
// Run; use Run directly to keep a handle on it.
func (e *Engine) RunHTML(ctx context.Context, pageHTML, pageURL string) (*Result, error) {
	doc, err := htmlutil.LoadHTMLString(pageHTML)
	if err != nil {
		return nil, fmt.Errorf("autofill: parse page: %w", err)
	}
	return e.Run(ctx, doc, pageURL)
}

// Run executes one autofill pass over the parsed page: adapter
// detection, extraction, the synchronous rule pass, the asynchronous AI
// pass on leftover fields, then summary rendering and best-effort audit
// emission. Fatal conditions (unsupported page, profile fetch failure)
// produce an ok=false Result; per-field and AI-phase failures degrade
// gracefully and the run completes.
func (e *Engine) Run(ctx context.Context, doc *goquery.Document, pageURL string) (*Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer e.running.Store(false)

	return e.run(ctx, doc, pageURL)
}
