package models

// ScoreThreshold is the lowest score accepted as human. Inclusive.
const ScoreThreshold = 0.5

// VerificationResult is the provider's verdict on one token.
type VerificationResult struct {
	Valid  bool
	Action string
	// Score is nil for providers that issue no score (checkbox challenges)
	Score         *float64
	InvalidReason string
}

// ScoreValue returns the score, or 0 when the provider issued none
func (r *VerificationResult) ScoreValue() float64 {
	if r == nil || r.Score == nil {
		return 0
	}
	return *r.Score
}
