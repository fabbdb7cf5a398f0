package server

import (
	"strings"

	"github.com/jobcopilot/autofill/internal/api"
	"github.com/jobcopilot/autofill/internal/textutil"
	"github.com/jobcopilot/autofill/profile"
	"github.com/jobcopilot/autofill/rules"
)

// heuristicModel names the deterministic answerer in responses.
const heuristicModel = "rules-heuristic"

// answerHeuristically serves /ai/answer-fields without an LLM: it reuses
// the classification rule table against the candidate profile, plus a
// few profile-specific question heuristics (sponsorship, skills).
func answerHeuristically(req *api.AnswerRequest, prof profile.Profile) *api.AnswerResponse {
	resp := &api.AnswerResponse{
		UsedLLM: false,
		Model:   heuristicModel,
		Message: "answered from profile rules",
	}

	for _, f := range req.Fields {
		label := textutil.Normalize(f.Label)
		if ans, ok := answerField(f, label, prof); ok {
			resp.Answers = append(resp.Answers, ans)
		}
	}
	return resp
}

func answerField(f api.AnswerField, label string, prof profile.Profile) (api.Answer, bool) {
	// Sponsorship questions answer from work_auth, not the rule table.
	if strings.Contains(label, "sponsorship") || strings.Contains(label, "sponsor") {
		return api.Answer{
			FieldID:    f.FieldID,
			Value:      sponsorshipValue(f.FieldType, prof.WorkAuth.NeedSponsorship),
			Confidence: 0.8,
		}, true
	}

	// Skill checkbox groups: offer the profile's skill list.
	if f.FieldType == "checkbox" && (strings.Contains(label, "skill") || optionsOverlap(f.Options, prof.Skills)) {
		if len(prof.Skills) > 0 {
			return api.Answer{FieldID: f.FieldID, Value: prof.Skills, Confidence: 0.75}, true
		}
	}

	m, ok := rules.MapFieldFromText(label)
	if !ok {
		return api.Answer{}, false
	}
	value := prof.Value(m.Key)
	if value == "" {
		return api.Answer{}, false
	}
	return api.Answer{FieldID: f.FieldID, Value: value, Confidence: m.Confidence}, true
}

func sponsorshipValue(fieldType string, needSponsorship bool) any {
	if fieldType == "checkbox" {
		return needSponsorship
	}
	if needSponsorship {
		return "Yes"
	}
	return "No"
}

func optionsOverlap(options, skills []string) bool {
	for _, opt := range options {
		for _, skill := range skills {
			if textutil.Normalize(opt) == textutil.Normalize(skill) {
				return true
			}
		}
	}
	return false
}
