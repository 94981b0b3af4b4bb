package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Storage layouts for temporal values. The datetime layout is one the sqlite
// driver parses back into time.Time.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05.999999999-07:00"
)

var errRequired = errors.New("required field is null")

// timeLayouts are tried in order when a string has to become a timestamp.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	DateTimeLayout,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseTime parses a timestamp in any of the layouts found in recorded data.
// Layouts without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Coerce converts v into the value stored for the field: int64, float64,
// string, bool, time.Time or nil. Dates are stored as YYYY-MM-DD strings.
func (f Field) Coerce(v any) (any, error) {
	if v == nil {
		if f.Required {
			return nil, errRequired
		}
		return nil, nil
	}
	switch f.Type {
	case Integer:
		return toInteger(v)
	case Real:
		return toReal(v)
	case Text:
		return toText(v)
	case Boolean:
		return toBoolean(v)
	case Date:
		t, err := toTime(v)
		if err != nil {
			return nil, err
		}
		return t.Format(DateLayout), nil
	case DateTime:
		t, err := toTime(v)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil
	case JSON:
		return toJSON(v)
	}
	return nil, fmt.Errorf("unsupported field type %q", f.Type)
}

func toInteger(v any) (any, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("value %d overflows integer", x)
		}
		return int64(x), nil
	case float32:
		return integralFloat(float64(x))
	case float64:
		return integralFloat(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer", x)
		}
		return integralFloat(f)
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return integralFloat(f)
		}
		return nil, fmt.Errorf("value %q is not an integer", x)
	}
	return nil, fmt.Errorf("cannot use %T as integer", v)
}

func integralFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("value %v is not a finite number", f)
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("value %v is not an integer", f)
	}
	// int64(f) is implementation-defined outside [-2^63, 2^63).
	if f < -9.223372036854775808e18 || f >= 9.223372036854775808e18 {
		return nil, fmt.Errorf("value %v overflows integer", f)
	}
	return int64(f), nil
}

func toReal(v any) (any, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number", x)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number", x)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("cannot use %T as real", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("value %v is not a finite number", f)
	}
	return f, nil
}

func toText(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case json.Number:
		return x.String(), nil
	}
	return nil, fmt.Errorf("cannot use %T as text", v)
}

func toBoolean(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return oneOrZero(float64(x))
	case int:
		return oneOrZero(float64(x))
	case float64:
		return oneOrZero(x)
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "yes", "y", "1":
			return true, nil
		case "false", "f", "no", "n", "0":
			return false, nil
		}
		return nil, fmt.Errorf("value %q is not a boolean", x)
	}
	return nil, fmt.Errorf("cannot use %T as boolean", v)
}

func oneOrZero(f float64) (any, error) {
	switch f {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return nil, fmt.Errorf("value %v is not a boolean", f)
}

func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		return ParseTime(x)
	case []byte:
		return ParseTime(string(x))
	}
	return time.Time{}, fmt.Errorf("cannot use %T as timestamp", v)
}

func toJSON(v any) (any, error) {
	switch x := v.(type) {
	case string:
		if !json.Valid([]byte(x)) {
			return nil, fmt.Errorf("value is not valid JSON")
		}
		return x, nil
	case []byte:
		if !json.Valid(x) {
			return nil, fmt.Errorf("value is not valid JSON")
		}
		return string(x), nil
	case json.RawMessage:
		return string(x), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return string(b), nil
}
