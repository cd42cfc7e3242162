package vspheredb

import (
	"errors"
	"fmt"
	"math"

	"github.com/mackerelio/checkers"
)

var (
	// ErrConnection is returned when the database cannot be reached or refuses the login.
	ErrConnection = errors.New("connection failed")

	// ErrQuery is returned when the statement fails after the connection has been established.
	ErrQuery = errors.New("query failed")

	// ErrEmptyResult is returned when the query did not return any row.
	ErrEmptyResult = errors.New("query returned no results")

	// ErrMissingColumn is returned when a column is missing, NULL or cannot be parsed.
	ErrMissingColumn = errors.New("missing column")

	// ErrArithmetic is returned when a derived value cannot be computed.
	ErrArithmetic = errors.New("arithmetic error")
)

// resultFromError turns errors from connecting or querying into a check result.
func resultFromError(err error) *CheckResult {
	switch {
	case errors.Is(err, ErrConnection):
		return NewCheckResult(checkers.CRITICAL, fmt.Sprintf("Could not connect to database: %s", unwrapCause(err)))
	case errors.Is(err, ErrEmptyResult):
		return NewCheckResult(checkers.UNKNOWN, "Query returned no results.")
	case errors.Is(err, ErrQuery):
		return NewCheckResult(checkers.UNKNOWN, fmt.Sprintf("Query failed: %s", unwrapCause(err)))
	}

	return NewCheckResult(checkers.UNKNOWN, err.Error())
}

// causeError keeps the sentinel for errors.Is while printing only the cause.
type causeError struct {
	kind  error
	cause error
}

func (e *causeError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind.Error(), e.cause.Error())
}

func (e *causeError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

func wrapCause(kind, cause error) error {
	return &causeError{kind: kind, cause: cause}
}

func unwrapCause(err error) string {
	var cErr *causeError
	if errors.As(err, &cErr) {
		return cErr.cause.Error()
	}

	return err.Error()
}

// percent returns part*100/total truncated, total must be positive and
// the multiplication must not overflow.
func percent(part, total int64) (int64, error) {
	if total <= 0 {
		return 0, fmt.Errorf("%w: division by %d", ErrArithmetic, total)
	}
	if part > math.MaxInt64/100 || part < math.MinInt64/100 {
		return 0, fmt.Errorf("%w: %d * 100 overflows", ErrArithmetic, part)
	}

	return part * 100 / total, nil
}

// multiply returns a*b or an error if the product overflows int64.
func multiply(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	res := a * b
	if res/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, fmt.Errorf("%w: %d * %d overflows", ErrArithmetic, a, b)
	}

	return res, nil
}
