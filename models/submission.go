package models

import "strconv"

// ExpectedAction is the action name every verification token must be bound to
const ExpectedAction = "submit_form"

// DefaultProjectDescription fills project_description when the form has none
const DefaultProjectDescription = "Not provided"

// UTM parameter names carried from the landing page URL into the submission
const (
	UTMSource   = "utm_source"
	UTMMedium   = "utm_medium"
	UTMCampaign = "utm_campaign"
	UTMTerm     = "utm_term"
	UTMContent  = "utm_content"
)

// UTMKeys lists the campaign parameters in the order they are read
var UTMKeys = []string{UTMSource, UTMMedium, UTMCampaign, UTMTerm, UTMContent}

// UTM holds campaign attribution read from the page query string.
// Absent parameters are empty strings.
type UTM struct {
	Source   string `json:"utm_source"`
	Medium   string `json:"utm_medium"`
	Campaign string `json:"utm_campaign"`
	Term     string `json:"utm_term"`
	Content  string `json:"utm_content"`
}

// SubmissionPayload is the JSON body posted to the submission endpoint
type SubmissionPayload struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	ProjectDescription string `json:"project_description,omitempty"`
	TermsAccepted      *bool  `json:"terms_accepted,omitempty"`
	RecaptchaResponse  string `json:"recaptcha_response"`
	UTM
}

// ForwardPayload is what the webhook receives once a submission has passed
// verification. The token is never forwarded.
type ForwardPayload struct {
	SubmissionID       string   `json:"submission_id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	ProjectDescription string   `json:"project_description"`
	TermsAccepted      *bool    `json:"terms_accepted,omitempty"`
	RecaptchaScore     *float64 `json:"recaptcha_score,omitempty"`
	VerifiedByRelay    bool     `json:"verified_by_relay"`
	UTM
}

// ScoreText renders the score for humans; checkbox verifications have none
func (p *ForwardPayload) ScoreText() string {
	if p == nil || p.RecaptchaScore == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p.RecaptchaScore, 'f', -1, 64)
}

// SubmitResponse is the uniform JSON envelope returned by the relay
type SubmitResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details *RejectDetails `json:"details,omitempty"`
}

// RejectDetails carries the machine-readable reason of a policy rejection
type RejectDetails struct {
	Reason string   `json:"reason"`
	Score  *float64 `json:"score,omitempty"`
}
