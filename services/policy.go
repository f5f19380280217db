package services

import (
	"fmt"
	"strconv"

	"landing_relay_app_go/models"
)

// Rejection reasons reported to the caller in details.reason
const (
	ReasonInvalidToken   = "invalid_token"
	ReasonActionMismatch = "action_mismatch"
	ReasonLowScore       = "low_score"
)

// PolicyError is a verification verdict that blocks the submission
type PolicyError struct {
	Reason string
	Detail string
	Score  *float64
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("Security verification failed (%s)", e.Detail)
}

// EvaluateVerification applies the acceptance policy to a provider verdict:
// the token must be valid, the action (when reported) must match, and the
// score (when reported) must be at least models.ScoreThreshold.
func EvaluateVerification(result *models.VerificationResult, expectedAction string) error {
	if result == nil {
		return fmt.Errorf("missing verification result")
	}

	if !result.Valid {
		return &PolicyError{
			Reason: ReasonInvalidToken,
			Detail: "Invalid token: " + result.InvalidReason,
			Score:  result.Score,
		}
	}

	if result.Action != "" && result.Action != expectedAction {
		return &PolicyError{
			Reason: ReasonActionMismatch,
			Detail: "Action mismatch: " + result.Action,
			Score:  result.Score,
		}
	}

	if result.Score != nil && *result.Score < models.ScoreThreshold {
		return &PolicyError{
			Reason: ReasonLowScore,
			Detail: fmt.Sprintf("Low Score: %s, threshold %s", formatScore(*result.Score), formatScore(models.ScoreThreshold)),
			Score:  result.Score,
		}
	}

	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
