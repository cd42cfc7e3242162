package threshold

import (
	"fmt"

	"github.com/mackerelio/checkers"
	"golang.org/x/exp/constraints"
)

// Direction defines which side of a threshold is the bad one.
type Direction int

const (
	// HigherIsWorse raises the state when the value reaches or exceeds the threshold (usage, temperature).
	HigherIsWorse Direction = iota

	// LowerIsWorse raises the state when the value drops to or below the threshold (number of adapters).
	LowerIsWorse
)

func (d Direction) String() string {
	switch d {
	case HigherIsWorse:
		return "higher is worse"
	case LowerIsWorse:
		return "lower is worse"
	}

	return fmt.Sprintf("direction(%d)", int(d))
}

// Number is any value a threshold can be compared against.
type Number interface {
	constraints.Integer | constraints.Float
}

// Threshold contains a warning and critical bound along with the comparison direction.
type Threshold[T Number] struct {
	Warning   T
	Critical  T
	Direction Direction
}

// New returns a threshold with given bounds.
func New[T Number](warning, critical T, direction Direction) *Threshold[T] {
	return &Threshold[T]{Warning: warning, Critical: critical, Direction: direction}
}

// String prints the Threshold
func (t *Threshold[T]) String() string {
	return fmt.Sprintf("warning=%v critical=%v (%s)", t.Warning, t.Critical, t.Direction)
}

// Evaluate returns the state for value.
func (t *Threshold[T]) Evaluate(value T) checkers.Status {
	return Evaluate(value, t.Warning, t.Critical, t.Direction)
}

// Evaluate maps a value onto a state. Critical is tested first, so it wins
// whenever both bounds are reached.
func Evaluate[T Number](value, warning, critical T, direction Direction) checkers.Status {
	switch direction {
	case LowerIsWorse:
		switch {
		case value <= critical:
			return checkers.CRITICAL
		case value <= warning:
			return checkers.WARNING
		}
	default:
		switch {
		case value >= critical:
			return checkers.CRITICAL
		case value >= warning:
			return checkers.WARNING
		}
	}

	return checkers.OK
}
