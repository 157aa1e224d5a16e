package schedule

import (
	"fmt"
	"time"
)

// WindowSpan is how far before and after the reference time a program may
// start and still be kept.
const WindowSpan = 12 * time.Hour

// Status is a program's position relative to a reference time.
type Status int

const (
	// Upcoming programs have not started yet, or start exactly now.
	Upcoming Status = iota
	// Live programs started before now and end after now.
	Live
	// Ended programs ended before now.
	Ended
)

var statusNames = map[Status]string{
	Upcoming: "upcoming",
	Live:     "live",
	Ended:    "ended",
}

var statusLabels = map[Status]string{
	Upcoming: "Kommer",
	Live:     "Nu",
	Ended:    "Slut",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Label returns the fixed-locale label shown next to a program.
func (s Status) Label() string {
	return statusLabels[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Classify places the range [start, end] relative to now. Comparisons are
// strict, so a program starting or ending exactly at now is Upcoming.
func Classify(start, end, now time.Time) Status {
	if end.Before(now) {
		return Ended
	}
	if start.Before(now) && end.After(now) {
		return Live
	}
	return Upcoming
}

// InWindow reports whether start lies strictly within WindowSpan of now.
func InWindow(start, now time.Time) bool {
	return start.After(now.Add(-WindowSpan)) && start.Before(now.Add(WindowSpan))
}
