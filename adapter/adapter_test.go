package adapter

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/autofill/profile"
)

const greenhouseHTML = `
<html><head><title>Engineer at Acme</title></head><body>
<h1 class="app-title">Software Engineer</h1>
<span class="company-name">Acme Corp</span>
<div id="content"><p>We build rockets.</p></div>
<form id="application_form">
  <label for="fn">First Name</label>
  <input type="text" id="fn" name="first_name"/>
  <label for="em">Email</label>
  <input type="email" id="em" name="email"/>
</form>
</body></html>`

func loadDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if len(reg.Adapters()) == 0 {
		t.Fatal("no adapters declared")
	}
	if reg.Adapters()[0].ID() != "greenhouse" {
		t.Errorf("first adapter = %q, want greenhouse", reg.Adapters()[0].ID())
	}
}

func TestDetectByHost(t *testing.T) {
	reg, _ := DefaultRegistry()
	doc := loadDoc(t, `<html><body></body></html>`)

	a, ok := reg.Detect(doc, "https://boards.greenhouse.io/acme/jobs/123")
	if !ok {
		t.Fatal("expected greenhouse host to be detected")
	}
	if a.ID() != "greenhouse" {
		t.Errorf("adapter = %q", a.ID())
	}
}

func TestDetectByRegistrableDomain(t *testing.T) {
	a := NewSite(SiteDef{ID: "gh", HostPatterns: []string{"boards.greenhouse.io"}})
	doc := loadDoc(t, `<html><body></body></html>`)

	if !a.Detect(doc, "https://job-boards.eu.greenhouse.io/acme/jobs/123") {
		t.Error("regional host sharing the registrable domain must be detected")
	}
	if a.Detect(doc, "https://boards.lever.co/acme") {
		t.Error("unrelated domain must not be detected")
	}
}

func TestDetectBySelector(t *testing.T) {
	reg, _ := DefaultRegistry()
	doc := loadDoc(t, greenhouseHTML)

	if _, ok := reg.Detect(doc, "https://careers.example.com/jobs/1"); !ok {
		t.Fatal("expected #application_form to be detected")
	}
}

func TestDetectUnsupportedPage(t *testing.T) {
	reg, _ := DefaultRegistry()
	doc := loadDoc(t, `<html><body><p>Nothing here</p></body></html>`)

	if _, ok := reg.Detect(doc, "https://example.com/"); ok {
		t.Fatal("unrelated page must not be detected")
	}
}

func TestDetectDeclarationOrder(t *testing.T) {
	first := NewSite(SiteDef{ID: "first", HostPatterns: []string{"example.com"}})
	second := NewSite(SiteDef{ID: "second", HostPatterns: []string{"example.com"}})
	reg := NewRegistry(first, second)

	doc := loadDoc(t, `<html></html>`)
	a, ok := reg.Detect(doc, "https://example.com/jobs")
	if !ok || a.ID() != "first" {
		t.Errorf("detected %v, want first-declared adapter", a)
	}
}

func TestExtractFieldsScope(t *testing.T) {
	reg, _ := DefaultRegistry()
	doc := loadDoc(t, greenhouseHTML)
	a, _ := reg.Detect(doc, "")

	candidates := a.ExtractFields(doc)
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if m, ok := a.MapFields(candidates[0]); !ok || m.Key != profile.KeyFirstName {
		t.Errorf("MapFields(first) = %+v ok=%v", m, ok)
	}
}

func TestPageContext(t *testing.T) {
	reg, _ := DefaultRegistry()
	doc := loadDoc(t, greenhouseHTML)
	a, _ := reg.Detect(doc, "")

	pc := a.PageContext(doc, "https://boards.greenhouse.io/acme/jobs/123")
	if pc.Site != "greenhouse" {
		t.Errorf("site = %q", pc.Site)
	}
	if pc.JobTitle != "Software Engineer" {
		t.Errorf("job title = %q", pc.JobTitle)
	}
	if pc.Company != "Acme Corp" {
		t.Errorf("company = %q", pc.Company)
	}
	if !strings.Contains(pc.JobDescription, "rockets") {
		t.Errorf("description = %q", pc.JobDescription)
	}
}

func TestUploadResumeNotImplemented(t *testing.T) {
	a := NewSite(SiteDef{ID: "x"})
	if err := a.UploadResume(t.Context(), &profile.Profile{}); err != ErrNotImplemented {
		t.Errorf("err = %v, want ErrNotImplemented", err)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", MaxJobDescription+500)
	if got := truncate(long, MaxJobDescription); len(got) != MaxJobDescription {
		t.Errorf("truncated length = %d", len(got))
	}
	if got := truncate("short", MaxJobDescription); got != "short" {
		t.Errorf("short string altered: %q", got)
	}
}
