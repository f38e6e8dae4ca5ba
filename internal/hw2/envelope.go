package hw2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/osse101/statsgate/internal/domain"
)

// TimestampLayout is the millisecond ISO-8601 form used for _meta.fetchedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Meta is the _meta object added to every cacheable response.
type Meta struct {
	Cached    bool             `json:"cached"`
	FetchedAt *string          `json:"fetchedAt"`
	Reason    domain.ErrorType `json:"reason,omitempty"`
}

// NewMeta builds a Meta. A zero fetchedAt is reported as null.
func NewMeta(cached bool, fetchedAt time.Time, reason domain.ErrorType) Meta {
	m := Meta{Cached: cached, Reason: reason}
	if !fetchedAt.IsZero() {
		ts := FormatTimestamp(fetchedAt)
		m.FetchedAt = &ts
	}
	return m
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// WithMeta adds meta to payload as its _meta member. The payload's own bytes
// are kept as they are; a payload that is not a JSON object is wrapped as
// {"data": payload}.
func WithMeta(payload json.RawMessage, meta Meta) (json.RawMessage, error) {
	encodedMeta, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToEncode, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		wrapped := map[string]json.RawMessage{"data": payload, "_meta": encodedMeta}
		if len(bytes.TrimSpace(payload)) == 0 || !json.Valid(payload) {
			wrapped["data"] = json.RawMessage("null")
		}
		return json.Marshal(wrapped)
	}

	if _, exists := fields["_meta"]; exists {
		fields["_meta"] = encodedMeta
		return json.Marshal(fields)
	}

	trimmed := bytes.TrimSpace(payload)
	body := bytes.TrimSpace(trimmed[1 : len(trimmed)-1])
	var buf bytes.Buffer
	buf.Grow(len(trimmed) + len(encodedMeta) + 10)
	buf.WriteByte('{')
	if len(body) > 0 {
		buf.Write(body)
		buf.WriteByte(',')
	}
	buf.WriteString(`"_meta":`)
	buf.Write(encodedMeta)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
