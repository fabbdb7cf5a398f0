package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jobcopilot/autofill/internal/api"
	"github.com/jobcopilot/autofill/internal/config"
	"github.com/jobcopilot/autofill/profile"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	s, err := New(&config.Config{
		ListenAddr:    "127.0.0.1:0",
		ProfilePath:   filepath.Join(dir, "profile.json"),
		DBPath:        ":memory:",
		SignedURLBase: "https://s3.local.example/resumes",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q, want status ok", rec.Body.String())
	}
}

func TestLoginReturnsLocalToken(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/auth/login", nil)
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["token"] != localDevToken {
		t.Errorf("token = %q, want %q", got["token"], localDevToken)
	}
	if got["token_type"] != "bearer" {
		t.Errorf("token_type = %q, want bearer", got["token_type"])
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestServer(t)

	p := profile.Profile{}
	p.Personal.FirstName = "Ada"
	p.Personal.Email = "ada@example.com"

	rec := doJSON(t, s.Handler(), http.MethodPut, "/profile", p)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s.Handler(), http.MethodGet, "/profile", nil)
	var got profile.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Personal.FirstName != "Ada" || got.Personal.Email != "ada@example.com" {
		t.Errorf("profile = %+v, want Ada / ada@example.com", got.Personal)
	}
}

func TestProfileSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		ListenAddr:    "127.0.0.1:0",
		ProfilePath:   filepath.Join(dir, "profile.json"),
		DBPath:        ":memory:",
		SignedURLBase: "https://s3.local.example/resumes",
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	p := profile.Profile{}
	p.Personal.LastName = "Lovelace"
	doJSON(t, s.Handler(), http.MethodPut, "/profile", p)
	_ = s.Close()

	s2, err := New(cfg)
	if err != nil {
		t.Fatalf("New() after restart error: %v", err)
	}
	defer func() { _ = s2.Close() }()
	if got := s2.profiles.Get().Personal.LastName; got != "Lovelace" {
		t.Errorf("last name after restart = %q, want Lovelace", got)
	}
}

func TestProfileRejectsBadJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadResumeReturnsSignedURL(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/documents/resume", strings.NewReader("%PDF-1.4 fake"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["file_id"] == "" {
		t.Error("file_id is empty")
	}
	if !strings.HasPrefix(got["signed_url"], "https://s3.local.example/resumes/") {
		t.Errorf("signed_url = %q, want signed-url-base prefix", got["signed_url"])
	}
	if !strings.HasSuffix(got["signed_url"], ".pdf") {
		t.Errorf("signed_url = %q, want .pdf suffix", got["signed_url"])
	}
}

func TestAuditEventStored(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/events/audit", AuditRecord{
		Site:         "greenhouse",
		JobURL:       "https://boards.greenhouse.io/acme/jobs/1",
		FilledFields: []string{"text-first-name (rule)"},
		Metadata:     map[string]any{"filled_count": 1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["id"] == "" {
		t.Error("audit id is empty")
	}
}

func TestJobEventsSavedAndListed(t *testing.T) {
	s := newTestServer(t)

	ev := api.JobEvent{
		Site:    "greenhouse",
		JobURL:  "https://boards.greenhouse.io/acme/jobs/1",
		Title:   "Backend Engineer",
		Company: "Acme",
	}
	if rec := doJSON(t, s.Handler(), http.MethodPost, "/jobs/save", ev); rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, s.Handler(), http.MethodPost, "/jobs/applied", ev); rec.Code != http.StatusOK {
		t.Fatalf("applied status = %d: %s", rec.Code, rec.Body.String())
	}

	rec := doJSON(t, s.Handler(), http.MethodGet, "/jobs/save", nil)
	var listed struct {
		Items []JobRecord `json:"items"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Count != 1 || len(listed.Items) != 1 {
		t.Fatalf("saved count = %d (%d items), want 1", listed.Count, len(listed.Items))
	}
	got := listed.Items[0]
	if got.Status != "saved" || got.Title != "Backend Engineer" || got.Company != "Acme" {
		t.Errorf("listed job = %+v, want saved Backend Engineer at Acme", got)
	}

	rec = doJSON(t, s.Handler(), http.MethodGet, "/jobs/applied", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Count != 1 {
		t.Errorf("applied count = %d, want 1", listed.Count)
	}
}

func TestAnswerFieldsUsesHeuristicWithoutAPIKey(t *testing.T) {
	s := newTestServer(t)

	p := profile.Profile{}
	p.Personal.Email = "ada@example.com"
	doJSON(t, s.Handler(), http.MethodPut, "/profile", p)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/ai/answer-fields", api.AnswerRequest{
		Site: "greenhouse",
		Fields: []api.AnswerField{
			{FieldID: "text-email", Label: "Email address", FieldType: "text"},
			{FieldID: "textarea-why-us", Label: "Why do you want to work here?", FieldType: "textarea"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.AnswerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UsedLLM {
		t.Error("UsedLLM = true, want false without an API key")
	}
	if resp.Model != heuristicModel {
		t.Errorf("model = %q, want %q", resp.Model, heuristicModel)
	}
	if len(resp.Answers) != 1 || resp.Answers[0].FieldID != "text-email" {
		t.Fatalf("answers = %+v, want exactly the email field", resp.Answers)
	}
	if resp.Answers[0].Value != "ada@example.com" {
		t.Errorf("email answer = %v, want ada@example.com", resp.Answers[0].Value)
	}
}
