package entry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// layoutISO matches the millisecond UTC form written by browsers
// (Date.prototype.toISOString), so journals exported from the web app load
// unchanged.
const layoutISO = "2006-01-02T15:04:05.000Z07:00"

// layouts are tried in order by ParseTime. Layouts without a zone are read
// as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTime reads v in RFC 3339 or one of a few common date layouts.
func ParseTime(v string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("entry: unrecognized timestamp %q", v)
}

type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to the stored precision.
func Now() Timestamp {
	return At(time.Now())
}

// At wraps t truncated to millisecond precision.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON never fails: a value that is not a recognizable timestamp
// decodes to the zero time, so one bad field cannot spoil a whole record
// list.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		log.Warn().Str("value", string(b)).Msg("entry: timestamp is not a string, leaving it unset")
		return nil
	}
	if timestamp == "" {
		return nil
	}
	parsed, err := ParseTime(timestamp)
	if err != nil {
		log.Warn().Err(err).Msg("entry: leaving timestamp unset")
		return nil
	}
	*t = At(parsed)
	return nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(layoutISO)
}

// Date renders the UTC calendar day, e.g. 2024-03-01.
func (t Timestamp) Date() string {
	return t.UTC().Format("2006-01-02")
}
