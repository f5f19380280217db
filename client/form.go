package client

import (
	"net/url"
	"sync"
)

// Tone classifies a status message
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneWarning Tone = "warning"
)

// DefaultButtonLabel is the submit button text at rest
const DefaultButtonLabel = "Submit Request"

// SendingButtonLabel is shown while a submission is in flight
const SendingButtonLabel = "Sending..."

// SubmitButton mirrors the form's submit control
type SubmitButton struct {
	Disabled bool
	Label    string
}

// StatusRegion is the message area that belongs to one form
type StatusRegion struct {
	Message string
	Tone    Tone
	Visible bool
}

// Form is one contact form instance. Several may live on a page; each keeps
// its own button and status state.
type Form struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	ProjectDescription string
	// HasTerms is true when the form shows a consent checkbox
	HasTerms     bool
	TermsChecked bool
	// Query is the query string of the page the form was served on
	Query url.Values

	Button SubmitButton
	Status StatusRegion

	mu sync.Mutex
}

// NewForm returns a form with its button in the resting state
func NewForm(id string) *Form {
	return &Form{ID: id, Button: SubmitButton{Label: DefaultButtonLabel}}
}

// begin disables the button. It reports false if a submission is already
// in flight on this form.
func (f *Form) begin() (restore func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Button.Disabled {
		return nil, false
	}
	label := f.Button.Label
	if label == "" {
		label = DefaultButtonLabel
	}
	f.Button = SubmitButton{Disabled: true, Label: SendingButtonLabel}
	return func() {
		f.mu.Lock()
		f.Button = SubmitButton{Disabled: false, Label: label}
		f.mu.Unlock()
	}, true
}

// InFlight reports whether the submit button is currently disabled
func (f *Form) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Button.Disabled
}

func (f *Form) clearStatus() {
	f.mu.Lock()
	f.Status = StatusRegion{}
	f.mu.Unlock()
}

func (f *Form) showStatus(message string, tone Tone) {
	f.mu.Lock()
	f.Status = StatusRegion{Message: message, Tone: tone, Visible: true}
	f.mu.Unlock()
}

// Reset clears the user-entered values. The page query string stays.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Name = ""
	f.Email = ""
	f.Phone = ""
	f.ProjectDescription = ""
	f.TermsChecked = false
}

// utmValue reads one campaign parameter; absent ones are empty
func utmValue(q url.Values, key string) string {
	if q == nil {
		return ""
	}
	return q.Get(key)
}
