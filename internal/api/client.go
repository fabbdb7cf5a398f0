// Package api is the HTTP client for the Job Copilot backend: profile
// fetch, AI field answering, audit and job-tracking emission.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jobcopilot/autofill/profile"
	"github.com/jobcopilot/autofill/report"
)

// Per-call timeouts. The AI answering call is a slow generative
// request; profile and audit are cheap. No call is ever retried.
const (
	ProfileTimeout = 15 * time.Second
	AnswerTimeout  = 45 * time.Second
	AuditTimeout   = 10 * time.Second
)

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// AnswerField describes one unresolved field in an AI request.
type AnswerField struct {
	FieldID      string   `json:"field_id"`
	Label        string   `json:"label"`
	FieldType    string   `json:"field_type"`
	Required     bool     `json:"required"`
	Options      []string `json:"options"`
	CurrentValue string   `json:"current_value"`
}

// AnswerRequest is the batched POST /ai/answer-fields payload: page
// context plus every field the rule pass left unresolved.
type AnswerRequest struct {
	Site           string        `json:"site"`
	JobURL         string        `json:"job_url"`
	JobTitle       string        `json:"job_title"`
	Company        string        `json:"company"`
	JobDescription string        `json:"job_description"`
	Fields         []AnswerField `json:"fields"`
}

// Answer is one AI-suggested field value. Value is a string, a string
// list or a bool depending on the field type; absent fields simply have
// no Answer entry.
type Answer struct {
	FieldID    string  `json:"field_id"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// NormalizedValue converts the JSON-decoded value into the types the
// fill executor accepts: string, []string or bool.
func (a *Answer) NormalizedValue() any {
	switch v := a.Value.(type) {
	case string, bool:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return items
	}
	return ""
}

// AnswerResponse is the POST /ai/answer-fields response.
type AnswerResponse struct {
	Answers []Answer `json:"answers"`
	UsedLLM bool     `json:"used_llm"`
	Model   string   `json:"model"`
	Message string   `json:"message"`
}

// JobEvent is the POST /jobs/save and /jobs/applied payload.
type JobEvent struct {
	Site          string         `json:"site"`
	JobURL        string         `json:"job_url"`
	Title         string         `json:"title"`
	Company       string         `json:"company"`
	ExternalJobID string         `json:"external_job_id"`
	Metadata      map[string]any `json:"metadata"`
}

// Profile fetches the candidate profile. Any non-2xx status is an
// error; the caller treats it as fatal for the run.
func (c *Client) Profile(ctx context.Context) (*profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, ProfileTimeout)
	defer cancel()

	var p profile.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &p); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &p, nil
}

// AnswerFields requests best-effort AI answers for the batched fields.
// Failures are recoverable: the caller degrades to rule-only results.
func (c *Client) AnswerFields(ctx context.Context, req *AnswerRequest) (*AnswerResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, AnswerTimeout)
	defer cancel()

	var resp AnswerResponse
	if err := c.do(ctx, http.MethodPost, "/ai/answer-fields", req, &resp); err != nil {
		return nil, fmt.Errorf("answer fields: %w", err)
	}
	return &resp, nil
}

// EmitAudit posts the run's audit record. Best effort: callers swallow
// the returned error and never surface it to the user.
func (c *Client) EmitAudit(ctx context.Context, ev *report.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, AuditTimeout)
	defer cancel()

	if err := c.do(ctx, http.MethodPost, "/events/audit", ev, nil); err != nil {
		return fmt.Errorf("emit audit: %w", err)
	}
	return nil
}

// SaveJob records a saved-job event.
func (c *Client) SaveJob(ctx context.Context, ev *JobEvent) error {
	ctx, cancel := context.WithTimeout(ctx, AuditTimeout)
	defer cancel()

	if err := c.do(ctx, http.MethodPost, "/jobs/save", ev, nil); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

// MarkApplied records an applied-job event.
func (c *Client) MarkApplied(ctx context.Context, ev *JobEvent) error {
	ctx, cancel := context.WithTimeout(ctx, AuditTimeout)
	defer cancel()

	if err := c.do(ctx, http.MethodPost, "/jobs/applied", ev, nil); err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
