package domain

import (
	"errors"
	"fmt"
	"math"
)

// DefaultK is the evidence lookahead used to turn a count into a confidence.
const DefaultK = 800.0

var (
	ErrInvalidTruthValue = errors.New("invalid truth value")
	ErrFormulaInvalid    = errors.New("formula produced no valid truth value")
)

// TruthValue is an uncertain estimate attached to an atom. It is a value type:
// formulas build new ones, nothing mutates an existing one.
type TruthValue struct {
	Strength float64 `json:"strength"`
	Count    float64 `json:"count"`
}

// DefaultTruthValue is attached to atoms that nothing has estimated yet.
var DefaultTruthValue = TruthValue{Strength: 0, Count: 0}

func NewTruthValue(strength, count float64) TruthValue {
	return TruthValue{Strength: strength, Count: count}
}

func (tv TruthValue) Confidence() float64 {
	return CountToConfidence(tv.Count)
}

func CountToConfidence(count float64) float64 {
	if count <= 0 {
		return 0
	}
	return count / (count + DefaultK)
}

// ConfidenceToCount inverts CountToConfidence. A confidence of 1 maps to +Inf,
// which Validate rejects.
func ConfidenceToCount(confidence float64) float64 {
	if confidence <= 0 {
		return 0
	}
	if confidence >= 1 {
		return math.Inf(1)
	}
	return DefaultK * confidence / (1 - confidence)
}

func (tv TruthValue) Validate() error {
	if math.IsNaN(tv.Strength) || tv.Strength < 0 || tv.Strength > 1 {
		return fmt.Errorf("%w: strength %v outside [0,1]", ErrInvalidTruthValue, tv.Strength)
	}
	if math.IsNaN(tv.Count) || math.IsInf(tv.Count, 0) || tv.Count < 0 {
		return fmt.Errorf("%w: count %v must be finite and non-negative", ErrInvalidTruthValue, tv.Count)
	}
	return nil
}

func (tv TruthValue) IsValid() bool {
	return tv.Validate() == nil
}

func (tv TruthValue) String() string {
	return fmt.Sprintf("(stv %g %g)", tv.Strength, tv.Confidence())
}
