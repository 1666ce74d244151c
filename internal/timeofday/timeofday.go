// Package timeofday implements inclusive wall-clock windows of the form
// "HH:MM-HH:MM" that may wrap past midnight.
package timeofday

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"static-flow-classifier/internal/model"
)

// Window is an inclusive time-of-day interval. Start and End are offsets
// from midnight with minute granularity.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// Parse reads a window such as "09:00-17:00" or "22:00-02:00".
func Parse(text string) (Window, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("%w: time of day window %q, want HH:MM-HH:MM", model.ErrMalformedLiteral, text)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return Window{}, err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

func parseClock(text string) (time.Duration, error) {
	hm := strings.Split(text, ":")
	if len(hm) != 2 {
		return 0, fmt.Errorf("%w: time of day %q, want HH:MM", model.ErrMalformedLiteral, text)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: hour %q", model.ErrMalformedLiteral, hm[0])
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: minute %q", model.ErrMalformedLiteral, hm[1])
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// Contains reports whether the wall-clock time of now, in now's own
// location, falls inside the window. When Start is after End the window
// crosses midnight.
func (w Window) Contains(now time.Time) bool {
	t := sinceMidnight(now)
	if w.Start <= w.End {
		return w.Start <= t && t <= w.End
	}
	return w.Start <= t || t <= w.End
}

func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

func (w Window) String() string {
	return clock(w.Start) + "-" + clock(w.End)
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
