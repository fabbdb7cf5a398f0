package adapter

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"
	"gopkg.in/yaml.v3"

	"github.com/jobcopilot/autofill/form"
	"github.com/jobcopilot/autofill/internal/textutil"
	"github.com/jobcopilot/autofill/profile"
	"github.com/jobcopilot/autofill/rules"
)

// MaxJobDescription caps the job-description text sent to the AI
// answering service.
const MaxJobDescription = 12000

// SiteDef declares one site adapter as data. Adding support for a new
// application-tracking system is a new entry in sites.yaml, not code.
type SiteDef struct {
	ID                  string   `yaml:"id"`
	HostPatterns        []string `yaml:"host_patterns"`
	DetectSelectors     []string `yaml:"detect_selectors"`
	ScopeSelector       string   `yaml:"scope_selector"`
	JobTitleSelector    string   `yaml:"job_title_selector"`
	CompanySelector     string   `yaml:"company_selector"`
	DescriptionSelector string   `yaml:"description_selector"`
}

// Site is the Adapter built from one SiteDef.
type Site struct {
	def SiteDef
}

// NewSite builds an adapter from a site definition.
func NewSite(def SiteDef) *Site {
	return &Site{def: def}
}

func (s *Site) ID() string { return s.def.ID }

// Detect accepts a page when its host matches one of the declared host
// patterns, or when one of the detect selectors is present in the
// document. Hosts sharing a pattern's registrable domain also match,
// so "job-boards.eu.greenhouse.io" is covered by "boards.greenhouse.io".
func (s *Site) Detect(doc *goquery.Document, pageURL string) bool {
	if u, err := url.Parse(pageURL); err == nil {
		host := strings.ToLower(u.Hostname())
		domain, derr := publicsuffix.EffectiveTLDPlusOne(host)
		for _, p := range s.def.HostPatterns {
			if host == p || strings.HasSuffix(host, "."+p) {
				return true
			}
			if derr == nil {
				if pd, perr := publicsuffix.EffectiveTLDPlusOne(p); perr == nil && pd == domain {
					return true
				}
			}
		}
	}
	for _, sel := range s.def.DetectSelectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// ExtractFields scans the site's application-form scope; when the scope
// selector matches nothing, the whole document is scanned.
func (s *Site) ExtractFields(doc *goquery.Document) []*form.Candidate {
	scope := doc.Selection
	if s.def.ScopeSelector != "" {
		if found := doc.Find(s.def.ScopeSelector).First(); found.Length() > 0 {
			scope = found
		}
	}
	return form.Extract(scope)
}

func (s *Site) MapFields(c *form.Candidate) (rules.Match, bool) {
	return rules.MapFieldFromText(c.Label)
}

func (s *Site) Fill(c *form.Candidate, value any) form.Outcome {
	return form.Fill(c, value)
}

// UploadResume is not supported for data-declared sites yet.
func (s *Site) UploadResume(_ context.Context, _ *profile.Profile) error {
	return ErrNotImplemented
}

func (s *Site) PageContext(doc *goquery.Document, pageURL string) PageContext {
	return PageContext{
		Site:           s.def.ID,
		URL:            pageURL,
		JobTitle:       selectionText(doc, s.def.JobTitleSelector),
		Company:        selectionText(doc, s.def.CompanySelector),
		JobDescription: truncate(selectionText(doc, s.def.DescriptionSelector), MaxJobDescription),
	}
}

func selectionText(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return textutil.NormalizeWhitespaces(strings.TrimSpace(sel.Text()))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes)
}

//go:embed sites.yaml
var sitesYAML []byte

type sitesFile struct {
	Sites []SiteDef `yaml:"sites"`
}

// DefaultRegistry builds the registry from the embedded site
// definitions, in file order.
func DefaultRegistry() (*Registry, error) {
	var f sitesFile
	if err := yaml.Unmarshal(sitesYAML, &f); err != nil {
		return nil, fmt.Errorf("adapter: parse sites.yaml: %w", err)
	}
	adapters := make([]Adapter, len(f.Sites))
	for i, def := range f.Sites {
		adapters[i] = NewSite(def)
	}
	return NewRegistry(adapters...), nil
}
