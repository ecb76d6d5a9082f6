package grading

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Score is a mark, maximum mark or credit weight as submitted by a client.
// JSON numbers and numeric strings are accepted; null and blank strings read
// as zero. Anything else decodes to an invalid score, which adds nothing to
// sums, is never classified as failed and never raises an error.
type Score struct {
	value decimal.Decimal
	valid bool
}

// NewScore returns a valid score.
func NewScore(v float64) Score {
	return Score{value: decimal.NewFromFloat(v), valid: true}
}

// NewScoreFromDecimal returns a valid score.
func NewScoreFromDecimal(d decimal.Decimal) Score {
	return Score{value: d, valid: true}
}

// ParseScore parses s. A blank s is zero; anything else that is not numeric
// is an invalid score.
func ParseScore(s string) Score {
	s = strings.TrimSpace(s)
	if s == "" {
		return Score{valid: true}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Score{}
	}
	return Score{value: d, valid: true}
}

// InvalidScore returns the zero-valued, non-numeric score.
func InvalidScore() Score {
	return Score{}
}

// Valid reports whether the score holds a number.
func (s Score) Valid() bool {
	return s.valid
}

// Decimal returns the numeric value, or zero for an invalid score.
func (s Score) Decimal() decimal.Decimal {
	if !s.valid {
		return decimal.Zero
	}
	return s.value
}

// IsZero reports whether the score holds no number. Fields tagged
// omitzero leave such scores out of JSON.
func (s Score) IsZero() bool {
	return !s.valid
}

// IsNegative reports whether the score is a number below zero.
func (s Score) IsNegative() bool {
	return s.valid && s.value.IsNegative()
}

// GreaterThan reports whether the score is a number above limit.
func (s Score) GreaterThan(limit decimal.Decimal) bool {
	return s.valid && s.value.GreaterThan(limit)
}

func (s Score) String() string {
	if !s.valid {
		return ""
	}
	return s.value.String()
}

// MarshalJSON writes a number, or null for an invalid score.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return []byte(s.value.String()), nil
}

// UnmarshalJSON accepts numbers and numeric strings, and reads null as zero.
// Other payloads (text, booleans, objects) produce an invalid score rather
// than an error.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = Score{}
	if len(data) == 0 {
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = Score{valid: true}
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		*s = ParseScore(str)
		return nil
	}
	*s = ParseScore(string(data))
	return nil
}
