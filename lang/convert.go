package lang

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Stringify converts a resolved value to its rendered text.
//
// Nil renders empty, booleans render as "1" or "", integers in decimal,
// floats in their shortest exact form and times with the scope's date layout.
func Stringify(s *Scope, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}

		return ""
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case time.Time:
		layout := DefaultDateLayout
		if s != nil {
			layout = s.DateLayout()
		}

		return val.Format(layout)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toFloat converts numbers and numeric strings to float64.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// toTime converts times and date strings to time.Time.
func toTime(s *Scope, v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		return ParseDate(s, val)
	default:
		return time.Time{}, false
	}
}

// compareValues orders a and b numerically when both are numeric, and as
// dates otherwise. It reports false when neither interpretation applies.
func compareValues(s *Scope, a, b any) (int, bool) {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmp.Compare(x, y), true
		}
	}

	x, ok := toTime(s, a)
	if !ok {
		return 0, false
	}

	y, ok := toTime(s, b)
	if !ok {
		return 0, false
	}

	return x.Compare(y), true
}

// equalValues compares numerically when both operands are numeric and by
// rendered text otherwise.
func equalValues(s *Scope, a, b any) bool {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
	}

	return Stringify(s, a) == Stringify(s, b)
}

// isEmpty reports whether v renders as nothing meaningful. Zero is not empty.
func isEmpty(s *Scope, v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return strings.TrimSpace(val) == ""
	case time.Time:
		return val.IsZero()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}

	return strings.TrimSpace(Stringify(s, v)) == ""
}

// isTruthy reports whether v counts as checked or true.
func isTruthy(s *Scope, v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "0", "false", "no", "off":
			return false
		}

		return true
	}

	if f, ok := toFloat(v); ok {
		return f != 0
	}

	return !isEmpty(s, v)
}
