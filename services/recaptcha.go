package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"landing_relay_app_go/config"
	"landing_relay_app_go/models"
)

// VerifyRequest is one token presented for verification
type VerifyRequest struct {
	Token          string
	ExpectedAction string
	RemoteIP       string
}

// Verifier checks a bot-verification token with the provider. Each call sends
// the token exactly once; a provider "no" is a result, not an error. Errors are
// reserved for transport failures, non-2xx replies and unreadable bodies.
type Verifier interface {
	Verify(ctx context.Context, req VerifyRequest) (*models.VerificationResult, error)
}

// NewVerifier picks the verification strategy implied by the configured
// credential.
func NewVerifier(cfg *config.Config, client *http.Client) (Verifier, error) {
	if client == nil {
		client = &http.Client{}
	}
	switch cfg.VerificationMode() {
	case config.ModeEnterprise:
		return &EnterpriseVerifier{
			BaseURL:   cfg.RecaptchaEnterpriseURL,
			ProjectID: cfg.RecaptchaProjectID,
			APIKey:    cfg.RecaptchaAPIKey,
			SiteKey:   cfg.RecaptchaSiteKey,
			Client:    client,
		}, nil
	case config.ModeSiteVerify:
		return &SiteVerifyVerifier{
			VerifyURL: cfg.RecaptchaVerifyURL,
			SecretKey: cfg.RecaptchaSecretKey,
			Client:    client,
		}, nil
	default:
		return nil, &config.ConfigError{Key: "RECAPTCHA_API_KEY", Reason: "is missing (set it or RECAPTCHA_SECRET_KEY)"}
	}
}

// EnterpriseVerifier creates score-based assessments through the reCAPTCHA
// Enterprise REST API.
type EnterpriseVerifier struct {
	BaseURL   string
	ProjectID string
	APIKey    string
	SiteKey   string
	Client    *http.Client
}

type assessmentRequest struct {
	Event assessmentEvent `json:"event"`
}

type assessmentEvent struct {
	Token          string `json:"token"`
	ExpectedAction string `json:"expectedAction"`
	SiteKey        string `json:"siteKey"`
	UserIPAddress  string `json:"userIpAddress,omitempty"`
}

// AssessmentResponse is the subset of an Enterprise assessment the relay reads
type AssessmentResponse struct {
	TokenProperties *struct {
		Valid         bool   `json:"valid"`
		Action        string `json:"action"`
		InvalidReason string `json:"invalidReason"`
	} `json:"tokenProperties"`
	RiskAnalysis *struct {
		Score *float64 `json:"score"`
	} `json:"riskAnalysis"`
}

func (v *EnterpriseVerifier) assessmentURL() string {
	return fmt.Sprintf("%s/projects/%s/assessments?key=%s",
		strings.TrimRight(v.BaseURL, "/"), url.PathEscape(v.ProjectID), url.QueryEscape(v.APIKey))
}

func (v *EnterpriseVerifier) Verify(ctx context.Context, req VerifyRequest) (*models.VerificationResult, error) {
	body, err := json.Marshal(assessmentRequest{Event: assessmentEvent{
		Token:          req.Token,
		ExpectedAction: req.ExpectedAction,
		SiteKey:        v.SiteKey,
		UserIPAddress:  req.RemoteIP,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode assessment: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.assessmentURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build assessment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var result AssessmentResponse
	if err := doJSON(v.Client, httpReq, &result); err != nil {
		return nil, &UpstreamError{Service: "recaptcha enterprise", Err: err}
	}

	score := 0.0
	if result.RiskAnalysis != nil && result.RiskAnalysis.Score != nil {
		score = *result.RiskAnalysis.Score
	}
	verdict := &models.VerificationResult{Score: &score}
	if tp := result.TokenProperties; tp != nil {
		verdict.Valid = tp.Valid
		verdict.Action = tp.Action
		verdict.InvalidReason = tp.InvalidReason
	}
	if !verdict.Valid && verdict.InvalidReason == "" {
		verdict.InvalidReason = "unknown"
	}
	return verdict, nil
}

// SiteVerifyVerifier posts form-encoded secret/response pairs to the classic
// siteverify endpoint used by checkbox and v3 secret-key integrations.
type SiteVerifyVerifier struct {
	VerifyURL string
	SecretKey string
	Client    *http.Client
}

// SiteVerifyResponse is the siteverify reply. Score and action are only
// present for score-based keys.
type SiteVerifyResponse struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

func (v *SiteVerifyVerifier) Verify(ctx context.Context, req VerifyRequest) (*models.VerificationResult, error) {
	form := url.Values{
		"secret":   {v.SecretKey},
		"response": {req.Token},
	}
	if req.RemoteIP != "" {
		form.Set("remoteip", req.RemoteIP)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build siteverify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result SiteVerifyResponse
	if err := doJSON(v.Client, httpReq, &result); err != nil {
		return nil, &UpstreamError{Service: "recaptcha siteverify", Err: err}
	}

	verdict := &models.VerificationResult{
		Valid:  result.Success,
		Action: result.Action,
		Score:  result.Score,
	}
	if !result.Success {
		verdict.InvalidReason = "unknown"
		if len(result.ErrorCodes) > 0 {
			verdict.InvalidReason = strings.Join(result.ErrorCodes, ",")
		}
	}
	return verdict, nil
}

// doJSON sends req and decodes a 2xx JSON reply into out
func doJSON(client *http.Client, req *http.Request, out interface{}) error {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
