package types

import (
	"database/sql/driver"
	"encoding/json"
)

// Scores is a user's score ledger. Order is submission order.
//
// In storage the ledger is a JSON array, held in a TEXT column or a JSONB
// column depending on the driver. A column that is NULL or does not decode
// as a JSON number array scans as an empty ledger.
type Scores []float64

// Append returns the ledger with score added at the end.
func (s Scores) Append(score float64) Scores {
	out := make(Scores, 0, len(s)+1)
	out = append(out, s...)
	return append(out, score)
}

// Scan implements sql.Scanner.
func (s *Scores) Scan(src any) error {
	var decoded []float64
	if !decodeJSONArray(src, &decoded) {
		decoded = nil
	}
	*s = Scores(decoded)
	return nil
}

// Value implements driver.Valuer.
func (s Scores) Value() (driver.Value, error) {
	return encodeJSONArray([]float64(s))
}

// MarshalJSON keeps an empty ledger as [] rather than null.
func (s Scores) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]float64(s))
}

// Levels is the set of levels a catalog entry applies to, stored as a JSON
// array of strings. Decoding failures yield an empty set.
type Levels []Level

// Scan implements sql.Scanner.
func (l *Levels) Scan(src any) error {
	var decoded []Level
	if !decodeJSONArray(src, &decoded) {
		decoded = nil
	}
	*l = Levels(decoded)
	return nil
}

// Value implements driver.Valuer.
func (l Levels) Value() (driver.Value, error) {
	return encodeJSONArray([]Level(l))
}

// MarshalJSON keeps an empty set as [] rather than null.
func (l Levels) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Level(l))
}

func decodeJSONArray[T any](src any, dst *[]T) bool {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return false
	}
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func encodeJSONArray[T any](values []T) (driver.Value, error) {
	if values == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}
