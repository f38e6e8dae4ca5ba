package ingest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// record is one loosely-typed upstream object. Field access goes through the
// typed helpers below so nothing untyped escapes this package.
type record map[string]json.RawMessage

// Bounds of int64 as float64. maxInt64Float is 2^63 and itself out of range.
const (
	minInt64Float = -(1 << 63)
	maxInt64Float = 1 << 63
)

func decodeRecord(raw json.RawMessage) (record, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var rec record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, false
	}
	return rec, true
}

// number returns the field as a float64 when it holds a JSON number.
func (r record) number(key string) (float64, bool) {
	raw, ok := r[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// integer returns the field as an int64 when it holds an integral JSON number
// that fits in 64 bits. Fractional and out of range values are rejected.
func (r record) integer(key string) (int64, bool) {
	f, ok := r.number(key)
	if !ok || f != math.Trunc(f) || f < minInt64Float || f >= maxInt64Float {
		return 0, false
	}
	return int64(f), true
}

// intPtr is integer narrowed to the 32-bit range of the INTEGER columns it
// is stored in.
func (r record) intPtr(key string) *int {
	v, ok := r.integer(key)
	if !ok || v < math.MinInt32 || v > math.MaxInt32 {
		return nil
	}
	i := int(v)
	return &i
}

// text returns a non-empty string or number field as a string.
func (r record) text(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func (r record) boolean(key string) (bool, bool) {
	raw, ok := r[key]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

func (r record) object(key string) (record, bool) {
	raw, ok := r[key]
	if !ok {
		return nil, false
	}
	return decodeRecord(raw)
}

// list returns the elements of an array field, or the values of an object field
// ordered by key. Anything else yields nil.
func (r record) list(key string) []json.RawMessage {
	raw, ok := r[key]
	if !ok {
		return nil
	}
	return elements(raw)
}

func elements(raw json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		return items
	case '{':
		return orderedValues(trimmed)
	default:
		return nil
	}
}

// orderedValues returns an object's values in document order, matching how the
// upstream serialized them.
func orderedValues(raw json.RawMessage) []json.RawMessage {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var values []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil
		}
		values = append(values, v)
	}
	return values
}

// orderedEntries is orderedValues with keys, for map-shaped stats blocks.
func orderedEntries(raw json.RawMessage) []entry {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var out []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil
		}
		out = append(out, entry{Key: key, Value: v})
	}
	return out
}

type entry struct {
	Key   string
	Value json.RawMessage
}
