// Package timeutil parses the lookback windows accepted by `list --since`.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var units = map[string]time.Duration{
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
}

// Window is a lookback period such as "3d" or "1w2d".
type Window time.Duration

// ParseWindow reads a sequence of <number><unit> pairs. Units are minutes,
// hours, days and weeks.
func ParseWindow(input string) (Window, error) {
	s := strings.ToLower(strings.ReplaceAll(input, " ", ""))
	if s == "" {
		return 0, fmt.Errorf("timeutil: empty window")
	}
	var total time.Duration
	for s != "" {
		n := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
		if n <= 0 {
			return 0, fmt.Errorf("timeutil: invalid window %q", input)
		}
		value, err := strconv.Atoi(s[:n])
		if err != nil {
			return 0, fmt.Errorf("timeutil: invalid window %q: %w", input, err)
		}
		s = s[n:]
		u := strings.IndexFunc(s, unicode.IsDigit)
		if u < 0 {
			u = len(s)
		}
		unit, ok := units[s[:u]]
		if !ok {
			return 0, fmt.Errorf("timeutil: unknown unit %q in %q", s[:u], input)
		}
		s = s[u:]
		total += time.Duration(value) * unit
	}
	if total <= 0 {
		return 0, fmt.Errorf("timeutil: window must be positive")
	}
	return Window(total), nil
}

// Since returns the start of the window ending at now.
func (w Window) Since(now time.Time) time.Time {
	return now.Add(-time.Duration(w))
}

// String renders w compactly, e.g. "1w2d".
func (w Window) String() string {
	d := time.Duration(w)
	var b strings.Builder
	for _, u := range []struct {
		label string
		value time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}} {
		if d >= u.value {
			fmt.Fprintf(&b, "%d%s", d/u.value, u.label)
			d %= u.value
		}
	}
	if b.Len() == 0 {
		return "0m"
	}
	return b.String()
}
