package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a numeric cell that is either present or absent. Zero is a valid
// observation and must never stand in for missing, so absence is carried as
// its own state rather than a sentinel number. The zero Value is absent.
type Value struct {
	v       float64
	present bool
}

// Present wraps an observed number.
func Present(v float64) Value { return Value{v: v, present: true} }

// Absent returns the missing-value marker.
func Absent() Value { return Value{} }

// IsPresent reports whether the cell holds an observation.
func (v Value) IsPresent() bool { return v.present }

// Float returns the observation and whether one exists.
func (v Value) Float() (float64, bool) { return v.v, v.present }

// Or returns the observation, or fallback when absent. Callers must opt in to
// substitution explicitly; there is no implicit missing-as-zero path.
func (v Value) Or(fallback float64) float64 {
	if v.present {
		return v.v
	}
	return fallback
}

func (v Value) String() string {
	if !v.present {
		return "absent"
	}
	return fmt.Sprintf("%g", v.v)
}

var nullLiteral = []byte("null")

// MarshalJSON encodes an absent cell as JSON null so the cache artifact and
// exports round-trip missingness losslessly.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return nullLiteral, nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), nullLiteral) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("value must be numeric or null: %w", err)
	}
	*v = Present(f)
	return nil
}
