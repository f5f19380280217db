package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"landing_relay_app_go/models"
)

var (
	// ErrProviderUnavailable means the challenge SDK could not be reached
	ErrProviderUnavailable = errors.New("verification provider unavailable")
	// ErrChallengeFailed means the provider refused to issue a token
	ErrChallengeFailed = errors.New("verification challenge failed")
	// ErrServerError is a non-2xx reply without a readable error message
	ErrServerError = errors.New("server error")
	// ErrNotConfigured means no submission endpoint was set
	ErrNotConfigured = errors.New("submission endpoint not configured")
	// ErrInFlight is returned when the form is already submitting
	ErrInFlight = errors.New("submission already in progress")
)

// User-facing status messages
const (
	MessageSuccess        = "Thanks! Your request has been sent successfully."
	MessageNotConfigured  = "Configuration Error: submission endpoint not set"
	MessageUnavailable    = "Security check is unavailable. Please reload the page."
	MessageChallenge      = "Please complete the reCAPTCHA verification."
	MessageGenericFailure = "Something went wrong. Please try again later."
)

var fieldMessages = map[string]string{
	models.FieldName:  "Please enter your name.",
	models.FieldEmail: "Please enter a valid email address.",
	models.FieldPhone: "Please enter a valid 10-digit phone number.",
	models.FieldTerms: "Please accept the terms to continue.",
}

// ServerMessageError carries the error text of a non-2xx JSON reply
type ServerMessageError struct {
	StatusCode int
	Message    string
}

func (e *ServerMessageError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// SubmissionResult is a successful reply from the submission endpoint
type SubmissionResult struct {
	StatusCode int
	Message    string
}

// Controller turns filled-in forms into submissions. It owns the map from
// form id to challenge widget handle; forms share nothing else.
type Controller struct {
	endpoint   string
	siteKey    string
	provider   TokenProvider
	httpClient *http.Client

	mu      sync.RWMutex
	widgets map[string]WidgetHandle
}

// NewController creates a controller posting to endpoint
func NewController(endpoint, siteKey string, provider TokenProvider, httpClient *http.Client) *Controller {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Controller{
		endpoint:   strings.TrimSpace(endpoint),
		siteKey:    siteKey,
		provider:   provider,
		httpClient: httpClient,
		widgets:    make(map[string]WidgetHandle),
	}
}

// RegisterWidget binds a rendered checkbox widget to a form
func (c *Controller) RegisterWidget(formID string, handle WidgetHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widgets[formID] = handle
}

// Widget returns the widget handle bound to a form
func (c *Controller) Widget(formID string) (WidgetHandle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.widgets[formID]
	return h, ok
}

// ValidateForm checks name, email, phone and terms in that order and returns
// the first failure.
func ValidateForm(f *Form) error {
	if _, err := models.ValidateContact(f.Name, f.Email, f.Phone); err != nil {
		return err
	}
	return models.ValidateTerms(f.HasTerms, f.TermsChecked)
}

// BuildPayload assembles the JSON body for a validated form
func BuildPayload(f *Form, token string) models.SubmissionPayload {
	description := strings.TrimSpace(f.ProjectDescription)
	if description == "" {
		description = models.DefaultProjectDescription
	}

	p := models.SubmissionPayload{
		Name:               strings.TrimSpace(f.Name),
		Email:              f.Email,
		Phone:              f.Phone,
		ProjectDescription: description,
		RecaptchaResponse:  token,
		UTM: models.UTM{
			Source:   utmValue(f.Query, models.UTMSource),
			Medium:   utmValue(f.Query, models.UTMMedium),
			Campaign: utmValue(f.Query, models.UTMCampaign),
			Term:     utmValue(f.Query, models.UTMTerm),
			Content:  utmValue(f.Query, models.UTMContent),
		},
	}
	if f.HasTerms {
		accepted := f.TermsChecked
		p.TermsAccepted = &accepted
	}
	return p
}

// Submit validates the form, obtains a token, posts the payload and writes
// the outcome into the form's status region. The submit button is disabled
// for the duration and restored on every path.
func (c *Controller) Submit(ctx context.Context, f *Form) (*SubmissionResult, error) {
	f.clearStatus()

	if err := ValidateForm(f); err != nil {
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			f.showStatus(fieldMessages[fieldErr.Field], ToneError)
		}
		return nil, err
	}

	restore, ok := f.begin()
	if !ok {
		return nil, ErrInFlight
	}
	defer restore()

	result, err := c.submit(ctx, f)
	if err != nil {
		c.reportFailure(f, err)
		return nil, err
	}

	f.showStatus(MessageSuccess, ToneSuccess)
	f.Reset()
	if handle, ok := c.Widget(f.ID); ok {
		c.provider.Reset(handle)
	}
	return result, nil
}

func (c *Controller) submit(ctx context.Context, f *Form) (*SubmissionResult, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}
	if c.provider == nil {
		return nil, ErrProviderUnavailable
	}

	handle, _ := c.Widget(f.ID)
	token, err := c.provider.AcquireToken(ctx, TokenRequest{
		SiteKey: c.siteKey,
		Action:  models.ExpectedAction,
		Handle:  handle,
	})
	if err != nil {
		return nil, err
	}

	return c.Post(ctx, BuildPayload(f, token))
}

// Post sends a payload to the submission endpoint and interprets the reply:
// 2xx is success, a JSON error field is surfaced as *ServerMessageError,
// anything else is ErrServerError.
func (c *Controller) Post(ctx context.Context, payload models.SubmissionPayload) (*SubmissionResult, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach submission endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var decoded models.SubmitResponse
	parsed := json.Unmarshal(raw, &decoded) == nil

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return &SubmissionResult{StatusCode: resp.StatusCode, Message: decoded.Message}, nil
	}
	if parsed && decoded.Error != "" {
		return nil, &ServerMessageError{StatusCode: resp.StatusCode, Message: decoded.Error}
	}
	return nil, fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
}

func (c *Controller) reportFailure(f *Form, err error) {
	var serverErr *ServerMessageError
	switch {
	case errors.Is(err, ErrNotConfigured):
		f.showStatus(MessageNotConfigured, ToneWarning)
	case errors.Is(err, ErrProviderUnavailable):
		f.showStatus(MessageUnavailable, ToneError)
	case errors.Is(err, ErrChallengeFailed):
		f.showStatus(MessageChallenge, ToneError)
	case errors.As(err, &serverErr):
		f.showStatus(serverErr.Message, ToneError)
	default:
		f.showStatus(MessageGenericFailure, ToneError)
	}
}
