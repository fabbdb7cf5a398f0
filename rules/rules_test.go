package rules

import (
	"testing"

	"github.com/jobcopilot/autofill/internal/textutil"
	"github.com/jobcopilot/autofill/profile"
)

func TestMapFieldFromText(t *testing.T) {
	tests := []struct {
		haystack   string
		wantKey    string
		wantConf   float64
		wantsMatch bool
	}{
		{"first name", profile.KeyFirstName, 0.95, true},
		{"given name", profile.KeyFirstName, 0.95, true},
		{"last name", profile.KeyLastName, 0.95, true},
		{"surname", profile.KeyLastName, 0.95, true},
		{"email address", profile.KeyEmail, 0.98, true},
		{"e mail", profile.KeyEmail, 0.98, true},
		{"phone number", profile.KeyPhone, 0.90, true},
		{"linkedin profile url", profile.KeyLinkedIn, 0.92, true},
		{"current location", profile.KeyLocation, 0.85, true},
		{"github profile", profile.KeyGitHub, 0.90, true},
		{"portfolio website", profile.KeyPortfolio, 0.85, true},
		{"are you authorized to work in the us", profile.KeyWorkAuthorization, 0.80, true},
		{"favorite color", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		got, ok := MapFieldFromText(tt.haystack)
		if ok != tt.wantsMatch {
			t.Errorf("MapFieldFromText(%q) matched=%v, want %v", tt.haystack, ok, tt.wantsMatch)
			continue
		}
		if !ok {
			continue
		}
		if got.Key != tt.wantKey || got.Confidence != tt.wantConf {
			t.Errorf("MapFieldFromText(%q) = {%s %v}, want {%s %v}",
				tt.haystack, got.Key, got.Confidence, tt.wantKey, tt.wantConf)
		}
	}
}

func TestMapFieldFromTextNormalizedInput(t *testing.T) {
	// "First Name *" arrives normalized; the pipeline guarantees it.
	got, ok := MapFieldFromText(textutil.Normalize("First Name *"))
	if !ok || got.Key != profile.KeyFirstName || got.Confidence != 0.95 {
		t.Errorf("normalized 'First Name *' = %+v ok=%v", got, ok)
	}
}

func TestBareNameDowngrade(t *testing.T) {
	got, ok := MapFieldFromText("name")
	if !ok {
		t.Fatal("bare 'name' must classify")
	}
	if got.Key != profile.KeyFirstName {
		t.Errorf("bare name key = %s, want first_name", got.Key)
	}
	if got.Confidence != BareNameConfidence {
		t.Errorf("bare name confidence = %v, want %v", got.Confidence, BareNameConfidence)
	}
	if PassesRule(got.Confidence) {
		t.Error("bare name must stay below the rule gate")
	}
}

func TestQualifiedNameIsNotDowngraded(t *testing.T) {
	got, ok := MapFieldFromText("first name")
	if !ok || got.Confidence != 0.95 {
		t.Errorf("qualified name = %+v ok=%v, want 0.95 match", got, ok)
	}
}

func TestHighestConfidenceWins(t *testing.T) {
	// "email or phone" matches both; email's 0.98 beats phone's 0.90.
	got, ok := MapFieldFromText("email or phone")
	if !ok || got.Key != profile.KeyEmail {
		t.Errorf("got %+v, want email to win", got)
	}
}

func TestTieBreaksByDeclarationOrder(t *testing.T) {
	// first_name and last_name share confidence 0.95; first_name is
	// declared earlier and must win the tie.
	got, ok := MapFieldFromText("first name and last name")
	if !ok || got.Key != profile.KeyFirstName {
		t.Errorf("got %+v, want first_name by declaration order", got)
	}
}

func TestGateBoundaries(t *testing.T) {
	if !PassesRule(0.65) {
		t.Error("0.65 must pass the rule gate")
	}
	if PassesRule(0.649999) {
		t.Error("0.649999 must not pass the rule gate")
	}
	if !PassesAI(0.72) {
		t.Error("0.72 must pass the AI gate")
	}
	if PassesAI(0.7199) {
		t.Error("0.7199 must not pass the AI gate")
	}
}
