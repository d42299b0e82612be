package domain

import (
	"errors"
	"math"
	"testing"
)

func TestConfidenceMapping(t *testing.T) {
	// 0.4 / 800.4, as reported by the atom API for a count of 0.4
	if got := CountToConfidence(0.4); math.Abs(got-0.0004997501) > 1e-9 {
		t.Errorf("CountToConfidence(0.4) = %v", got)
	}
	if got := CountToConfidence(0); got != 0 {
		t.Errorf("CountToConfidence(0) = %v, want 0", got)
	}
	for _, n := range []float64{1, 10, 800, 12345} {
		back := ConfidenceToCount(CountToConfidence(n))
		if math.Abs(back-n) > 1e-6*n {
			t.Errorf("round trip of count %v gave %v", n, back)
		}
	}
	if !math.IsInf(ConfidenceToCount(1), 1) {
		t.Error("confidence 1 should map to +Inf count")
	}
}

func TestTruthValueValidate(t *testing.T) {
	tests := []struct {
		name  string
		tv    TruthValue
		valid bool
	}{
		{"zero", TruthValue{}, true},
		{"typical", NewTruthValue(0.7, 12), true},
		{"bounds", NewTruthValue(1, 0), true},
		{"strength above one", NewTruthValue(1.5, 1), false},
		{"negative strength", NewTruthValue(-0.1, 1), false},
		{"negative count", NewTruthValue(0.5, -1), false},
		{"nan strength", NewTruthValue(math.NaN(), 1), false},
		{"infinite count", NewTruthValue(0.5, math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tv.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidTruthValue) {
				t.Errorf("Validate() = %v, want ErrInvalidTruthValue", err)
			}
		})
	}
}
