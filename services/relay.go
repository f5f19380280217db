package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"landing_relay_app_go/config"
	"landing_relay_app_go/models"

	"github.com/google/uuid"
)

// ErrMissingToken is returned when a submission carries no recaptcha_response
var ErrMissingToken = &models.FieldError{Field: "recaptcha_response", Message: "reCAPTCHA token missing"}

// Relay is the server-side gate between public form input and the webhook.
// It holds no per-request state and is safe for concurrent use.
type Relay struct {
	config    *config.Config
	verifier  Verifier
	forwarder Forwarder
	notifier  LeadNotifier
	monitor   *SecurityMonitor
	newID     func() string
}

// NewRelay wires a relay. notifier may be nil.
func NewRelay(cfg *config.Config, verifier Verifier, forwarder Forwarder, notifier LeadNotifier) *Relay {
	return &Relay{
		config:    cfg,
		verifier:  verifier,
		forwarder: forwarder,
		notifier:  notifier,
		newID:     uuid.NewString,
	}
}

// WithMonitor reports policy rejections to m
func (r *Relay) WithMonitor(m *SecurityMonitor) *Relay {
	r.monitor = m
	return r
}

// Submit runs one submission through configuration, input, verification and
// policy checks, then forwards it. The returned error is one of
// *config.ConfigError, *models.FieldError, *PolicyError, or an upstream
// failure that must not be shown to the caller.
func (r *Relay) Submit(ctx context.Context, payload models.SubmissionPayload, remoteIP string) (*models.ForwardPayload, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	if r.verifier == nil || r.forwarder == nil {
		return nil, &config.ConfigError{Key: "relay", Reason: "is not fully wired"}
	}

	if strings.TrimSpace(payload.RecaptchaResponse) == "" {
		return nil, ErrMissingToken
	}

	// Validate what will be forwarded, so markup-only names are rejected
	payload.Name = SanitizeText(payload.Name)
	payload.ProjectDescription = SanitizeText(payload.ProjectDescription)

	phone, err := models.ValidateContact(payload.Name, payload.Email, payload.Phone)
	if err != nil {
		return nil, err
	}

	verifyCtx, cancel := r.withTimeout(ctx)
	result, err := r.verifier.Verify(verifyCtx, VerifyRequest{
		Token:          payload.RecaptchaResponse,
		ExpectedAction: models.ExpectedAction,
		RemoteIP:       remoteIP,
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("verification failed: %w", err)
	}

	if err := EvaluateVerification(result, models.ExpectedAction); err != nil {
		var policyErr *PolicyError
		if errors.As(err, &policyErr) {
			r.monitor.TrackRejection(remoteIP, policyErr.Reason)
		}
		return nil, err
	}

	forward := r.normalize(payload, phone, result)

	forwardCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.forwarder.Forward(forwardCtx, forward); err != nil {
		return nil, fmt.Errorf("forward failed: %w", err)
	}

	log.Printf("[INFO] Submission %s forwarded (score %s)", forward.SubmissionID, forward.ScoreText())

	if r.notifier != nil {
		r.notifier.NotifyLead(forward)
	}
	return forward, nil
}

// normalize builds the webhook payload from an already sanitised submission:
// digit-only phone, score, provenance flag and a fresh submission id. UTM
// values pass through untouched.
func (r *Relay) normalize(p models.SubmissionPayload, phone string, result *models.VerificationResult) *models.ForwardPayload {
	description := p.ProjectDescription
	if description == "" {
		description = models.DefaultProjectDescription
	}

	return &models.ForwardPayload{
		SubmissionID:       r.newID(),
		Name:               p.Name,
		Email:              p.Email,
		Phone:              phone,
		ProjectDescription: description,
		TermsAccepted:      p.TermsAccepted,
		RecaptchaScore:     copyScore(result.Score),
		VerifiedByRelay:    true,
		UTM:                p.UTM,
	}
}

func copyScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	v := *score
	return &v
}

func (r *Relay) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := r.config.OutboundTimeout
	if timeout <= 0 {
		timeout = config.DefaultOutboundTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
