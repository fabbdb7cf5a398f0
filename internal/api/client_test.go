package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jobcopilot/autofill/report"
)

func TestProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"personal":{"first_name":"Ada","email":"ada@x.io"}}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL).Profile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.Personal.FirstName != "Ada" {
		t.Errorf("first name = %q", p.Personal.FirstName)
	}
}

func TestProfileNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Profile(context.Background()); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestAnswerFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/answer-fields" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req AnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Fields) != 1 || req.Fields[0].FieldID != "text-pronouns" {
			t.Errorf("fields = %+v", req.Fields)
		}
		_ = json.NewEncoder(w).Encode(AnswerResponse{
			Answers: []Answer{{FieldID: "text-pronouns", Value: "she/her", Confidence: 0.8}},
			UsedLLM: true,
			Model:   "test-model",
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).AnswerFields(context.Background(), &AnswerRequest{
		Site:   "greenhouse",
		Fields: []AnswerField{{FieldID: "text-pronouns", Label: "pronouns", FieldType: "text"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.UsedLLM || len(resp.Answers) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestAnswerNormalizedValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{`{"field_id":"a","value":"text","confidence":1}`, "text"},
		{`{"field_id":"a","value":true,"confidence":1}`, true},
		{`{"field_id":"a","value":5,"confidence":1}`, "5"},
		{`{"field_id":"a","value":["Go","Rust"],"confidence":1}`, []string{"Go", "Rust"}},
		{`{"field_id":"a","confidence":1}`, ""},
	}
	for _, tt := range tests {
		var a Answer
		if err := json.Unmarshal([]byte(tt.raw), &a); err != nil {
			t.Fatal(err)
		}
		got := a.NormalizedValue()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizedValue(%s) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}

func TestEmitAudit(t *testing.T) {
	var got report.AuditEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/audit" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":"x","status":"recorded"}`))
	}))
	defer srv.Close()

	ev := &report.AuditEvent{Site: "greenhouse", FilledFields: []string{"text-email (rule)"}}
	if err := NewClient(srv.URL).EmitAudit(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if got.Site != "greenhouse" {
		t.Errorf("posted site = %q", got.Site)
	}
}
