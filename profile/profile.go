// Package profile defines the canonical candidate profile document and
// the fixed mapping from canonical field keys to values inside it.
package profile

// Canonical profile keys. Form fields are classified against these,
// independent of any specific site's field naming.
const (
	KeyFirstName         = "first_name"
	KeyLastName          = "last_name"
	KeyEmail             = "email"
	KeyPhone             = "phone"
	KeyLocation          = "location"
	KeyLinkedIn          = "linkedin"
	KeyGitHub            = "github"
	KeyPortfolio         = "portfolio"
	KeyWorkAuthorization = "work_authorization"
	KeyResumeURL         = "resume_url"
)

// Personal holds the candidate's identity and contact details.
type Personal struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
}

// Links holds the candidate's public profile URLs.
type Links struct {
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

// WorkAuth holds work-authorization answers.
type WorkAuth struct {
	NeedSponsorship   bool   `json:"need_sponsorship"`
	WorkAuthorization string `json:"work_authorization"`
}

// ExperienceItem is one entry of the candidate's work history.
type ExperienceItem struct {
	Company   string `json:"company"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Location  string `json:"location"`
	Summary   string `json:"summary"`
}

// EducationItem is one entry of the candidate's education history.
type EducationItem struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Documents holds uploaded document references.
type Documents struct {
	ResumeURL      string `json:"resume_url"`
	CoverLetterURL string `json:"cover_letter_url"`
}

// Profile is the canonical candidate profile served by GET /profile.
type Profile struct {
	Personal   Personal         `json:"personal"`
	Links      Links            `json:"links"`
	WorkAuth   WorkAuth         `json:"work_auth"`
	Experience []ExperienceItem `json:"experience"`
	Education  []EducationItem  `json:"education"`
	Skills     []string         `json:"skills"`
	Documents  Documents        `json:"documents"`
}

// Value resolves a canonical key to its value in the profile. Unknown
// keys and empty fields resolve to "" — resolution never fails.
func (p *Profile) Value(key string) string {
	if p == nil {
		return ""
	}
	switch key {
	case KeyFirstName:
		return p.Personal.FirstName
	case KeyLastName:
		return p.Personal.LastName
	case KeyEmail:
		return p.Personal.Email
	case KeyPhone:
		return p.Personal.Phone
	case KeyLocation:
		return p.Personal.Location
	case KeyLinkedIn:
		return p.Links.LinkedIn
	case KeyGitHub:
		return p.Links.GitHub
	case KeyPortfolio:
		return p.Links.Portfolio
	case KeyWorkAuthorization:
		return p.WorkAuth.WorkAuthorization
	case KeyResumeURL:
		return p.Documents.ResumeURL
	}
	return ""
}
