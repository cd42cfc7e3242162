package convert

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNull is returned when a database column holds NULL.
var ErrNull = errors.New("value is NULL")

// Int64 converts anything into a int64
// errors will fall back to 0
func Int64(raw interface{}) int64 {
	val, _ := Int64E(raw)

	return val
}

// Int64E converts raw database values into a int64
// errors will be returned
func Int64E(raw interface{}) (int64, error) {
	switch val := raw.(type) {
	case nil:
		return 0, ErrNull
	case int64:
		return val, nil
	case int32:
		return int64(val), nil
	case int:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		if val > uint64(1<<63-1) {
			return 0, fmt.Errorf("int64 overflow for %d", val)
		}

		return int64(val), nil
	case float64:
		return floatToInt64(val)
	case []byte:
		return parseInt(string(val))
	case string:
		return parseInt(val)
	default:
		return parseInt(fmt.Sprintf("%v", val))
	}
}

func parseInt(str string) (int64, error) {
	str = strings.TrimSpace(str)
	num, err := strconv.ParseInt(str, 10, 64)
	if err == nil {
		return num, nil
	}

	// decimal columns arrive as "1234.00"
	fNum, fErr := strconv.ParseFloat(str, 64)
	if fErr != nil {
		return 0, fmt.Errorf("cannot parse int64 value from %q", str)
	}

	return floatToInt64(fNum)
}

// floatToInt64 truncates val, NaN, Inf and values outside the int64 range are errors.
func floatToInt64(val float64) (int64, error) {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("cannot convert %v to int64", val)
	}
	// float64(math.MaxInt64) rounds up to 2^63
	if val >= float64(math.MaxInt64) || val < float64(math.MinInt64) {
		return 0, fmt.Errorf("int64 overflow for %v", val)
	}

	return int64(val), nil
}

// StringE converts raw database values into a string
// errors will be returned
func StringE(raw interface{}) (string, error) {
	switch val := raw.(type) {
	case nil:
		return "", ErrNull
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return fmt.Sprintf("%v", val), nil
	}
}

// Bool converts anything into a bool
// errors will fall back to false
func Bool(raw interface{}) bool {
	b, _ := BoolE(raw)

	return b
}

// BoolE converts anything into a bool
// errors will be returned
func BoolE(raw interface{}) (bool, error) {
	switch val := raw.(type) {
	case bool:
		return val, nil
	case []byte:
		return BoolE(string(val))
	default:
		switch strings.ToLower(fmt.Sprintf("%v", raw)) {
		case "1", "enable", "enabled", "true", "yes", "on":
			return true, nil
		case "0", "disable", "disabled", "false", "no", "off":
			return false, nil
		}
	}

	return false, fmt.Errorf("cannot parse boolean value from %v (%T)", raw, raw)
}

// StateString returns the string corresponding to a monitoring plugin exit code
func StateString(state int64) string {
	switch state {
	case 0:
		return "OK"
	case 1:
		return "WARNING"
	case 2:
		return "CRITICAL"
	}

	return "UNKNOWN"
}
