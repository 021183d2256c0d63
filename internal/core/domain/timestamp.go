package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Timestamp is a server-assigned time the client stores and displays but
// never parses. Any JSON scalar is accepted: strings keep their text, numbers
// and booleans keep their literal form, null is empty.
type Timestamp string

// FormatTimestamp renders t the way the sandbox API does.
func FormatTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
		return nil
	default:
		*t = Timestamp(data)
		return nil
	}
}

func (t Timestamp) String() string { return string(t) }
