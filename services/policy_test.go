package services

import (
	"errors"
	"testing"

	"landing_relay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestEvaluateVerification(t *testing.T) {
	tests := []struct {
		name       string
		result     models.VerificationResult
		wantReason string
		wantDetail string
	}{
		{
			name:   "Passes at threshold",
			result: models.VerificationResult{Valid: true, Action: "submit_form", Score: score(0.5)},
		},
		{
			name:       "Rejects just below threshold",
			result:     models.VerificationResult{Valid: true, Action: "submit_form", Score: score(0.49)},
			wantReason: ReasonLowScore,
			wantDetail: "Low Score: 0.49, threshold 0.5",
		},
		{
			name:       "Invalid token wins over a high score",
			result:     models.VerificationResult{Valid: false, InvalidReason: "EXPIRED", Score: score(0.99)},
			wantReason: ReasonInvalidToken,
			wantDetail: "Invalid token: EXPIRED",
		},
		{
			name:       "Action mismatch",
			result:     models.VerificationResult{Valid: true, Action: "login", Score: score(0.9)},
			wantReason: ReasonActionMismatch,
			wantDetail: "Action mismatch: login",
		},
		{
			name:   "Missing action is not checked",
			result: models.VerificationResult{Valid: true, Score: score(0.9)},
		},
		{
			name:   "Checkbox result without score passes",
			result: models.VerificationResult{Valid: true},
		},
		{
			name:       "Zero score",
			result:     models.VerificationResult{Valid: true, Action: "submit_form", Score: score(0)},
			wantReason: ReasonLowScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EvaluateVerification(&tt.result, models.ExpectedAction)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}
			var policyErr *PolicyError
			require.True(t, errors.As(err, &policyErr))
			assert.Equal(t, tt.wantReason, policyErr.Reason)
			assert.Contains(t, policyErr.Error(), "Security verification failed")
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, policyErr.Detail)
			}
		})
	}
}

func TestEvaluateVerificationNilResult(t *testing.T) {
	err := EvaluateVerification(nil, models.ExpectedAction)
	assert.Error(t, err)
	var policyErr *PolicyError
	assert.False(t, errors.As(err, &policyErr))
}
