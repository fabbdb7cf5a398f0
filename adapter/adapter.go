// Package adapter defines the per-site capability interface and the
// registry that picks which adapter handles a page. The matching and
// filling core is adapter-agnostic; adapters wire it to one site's
// page structure and are declared as pure data in sites.yaml.
package adapter

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/form"
	"github.com/jobcopilot/autofill/profile"
	"github.com/jobcopilot/autofill/rules"
)

// ErrNotImplemented is returned by adapter capabilities a site does not
// support; the rest of the run proceeds normally.
var ErrNotImplemented = errors.New("adapter: not implemented")

// PageContext is the page-level information sent with the AI request.
type PageContext struct {
	Site           string
	URL            string
	JobTitle       string
	Company        string
	JobDescription string
}

// Adapter is one site's integration surface. Detect is evaluated over
// the registry in declaration order; the first adapter that returns
// true owns the run.
type Adapter interface {
	// ID is the site identifier used in summaries and audit records.
	ID() string
	// Detect reports whether this adapter handles the given page.
	Detect(doc *goquery.Document, pageURL string) bool
	// ExtractFields scans the page's application form.
	ExtractFields(doc *goquery.Document) []*form.Candidate
	// MapFields classifies one candidate against the rule table.
	MapFields(c *form.Candidate) (rules.Match, bool)
	// Fill writes a value through the safe fill executor.
	Fill(c *form.Candidate, value any) form.Outcome
	// UploadResume attaches the profile's resume to the application.
	// May return ErrNotImplemented without affecting the run.
	UploadResume(ctx context.Context, p *profile.Profile) error
	// PageContext extracts the page-level context for the AI request.
	PageContext(doc *goquery.Document, pageURL string) PageContext
}

// Registry holds adapters in declaration order.
type Registry struct {
	adapters []Adapter
}

// NewRegistry builds a registry; order is significant.
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// Detect returns the first adapter whose Detect accepts the page.
// Absence of a match is a normal outcome, not an error.
func (r *Registry) Detect(doc *goquery.Document, pageURL string) (Adapter, bool) {
	for _, a := range r.adapters {
		if a.Detect(doc, pageURL) {
			return a, true
		}
	}
	return nil, false
}

// Adapters returns the registered adapters in declaration order.
func (r *Registry) Adapters() []Adapter {
	return r.adapters
}
