package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jobcopilot/autofill/internal/api"
	"github.com/jobcopilot/autofill/profile"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

const answerSystemPrompt = `You help a job seeker fill application forms.
Given their profile and a list of unresolved form fields, answer each
field you are reasonably confident about. Respond with ONLY a JSON array
of objects {"field_id": string, "value": string|array|boolean,
"confidence": number between 0 and 1}. Omit fields you cannot answer.
Never invent credentials, visa status or contact details not present in
the profile.`

// ClaudeAnswerer serves /ai/answer-fields through the Anthropic
// Messages API.
type ClaudeAnswerer struct {
	apiKey string
	model  string
	client *http.Client
}

// NewClaudeAnswerer creates an answerer for the given API key and model.
func NewClaudeAnswerer(apiKey, model string) *ClaudeAnswerer {
	return &ClaudeAnswerer{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 40 * time.Second},
	}
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Answer asks the model for best-effort field values.
func (c *ClaudeAnswerer) Answer(ctx context.Context, req *api.AnswerRequest, prof profile.Profile) (*api.AnswerResponse, error) {
	profJSON, _ := json.Marshal(prof)
	fieldsJSON, _ := json.Marshal(req.Fields)

	prompt := fmt.Sprintf(
		"Job: %s at %s (%s)\n\nJob description:\n%s\n\nCandidate profile:\n%s\n\nFields to answer:\n%s",
		req.JobTitle, req.Company, req.JobURL, req.JobDescription, profJSON, fieldsJSON)

	body, err := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 1024,
		System:    answerSystemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("anthropic: HTTP %d: %s", httpResp.StatusCode, msg)
	}

	var decoded claudeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}
	if len(decoded.Content) == 0 {
		return nil, fmt.Errorf("anthropic: empty response")
	}

	answers, err := parseAnswers(decoded.Content[0].Text)
	if err != nil {
		return nil, err
	}
	return &api.AnswerResponse{
		Answers: answers,
		UsedLLM: true,
		Model:   c.model,
		Message: "answered by model",
	}, nil
}

// parseAnswers extracts the JSON answer array, tolerating markdown code
// fences around it.
func parseAnswers(text string) ([]api.Answer, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}
	var answers []api.Answer
	if err := json.Unmarshal([]byte(text), &answers); err != nil {
		return nil, fmt.Errorf("anthropic: parse answers: %w", err)
	}
	return answers, nil
}
