package entities

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NumericField holds a request value that clients send either as a JSON
// number or as a numeric string ("5" and 5 are both accepted).
type NumericField struct {
	raw string
	set bool
}

// NewNumericField builds a field from an integer.
func NewNumericField(v int64) *NumericField {
	return &NumericField{raw: strconv.FormatInt(v, 10), set: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NumericField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NumericField{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericField{raw: strings.TrimSpace(s), set: true}
		return nil
	}
	*n = NumericField{raw: string(data), set: true}
	return nil
}

// MarshalJSON writes the value back as a number when it parses as one.
func (n NumericField) MarshalJSON() ([]byte, error) {
	if v, ok := n.Int64(); ok {
		return []byte(strconv.FormatInt(v, 10)), nil
	}
	return json.Marshal(n.raw)
}

// String returns the raw text as received.
func (n *NumericField) String() string {
	if n == nil {
		return ""
	}
	return n.raw
}

// IsSet reports whether a non-null value was supplied.
func (n *NumericField) IsSet() bool {
	return n != nil && n.set && n.raw != ""
}

// Int64 parses the value as an integer. Decimal inputs such as "5.0" are
// truncated the way parseInt would.
func (n *NumericField) Int64() (int64, bool) {
	if !n.IsSet() {
		return 0, false
	}
	if v, err := strconv.ParseInt(n.raw, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, false
	}
	return TruncateFloat(f)
}

// TruncateFloat truncates f toward zero. NaN, infinities and values outside
// the int64 range are rejected.
func TruncateFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
