package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the layout of the date query parameter sent upstream.
const DateLayout = "2006-01-02"

var monthAbbrev = [...]string{
	"jan", "feb", "mar", "apr", "maj", "jun",
	"jul", "aug", "sep", "okt", "nov", "dec",
}

// Window is the pair of calendar days queried for every channel. A single
// day's feed does not cover twelve hours on both sides of midnight, so the
// pair shifts at noon.
type Window [2]time.Time

// WindowFor returns yesterday and today when now is before noon in the
// reference zone, and today and tomorrow otherwise.
func WindowFor(now time.Time) Window {
	local := now.In(Location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location)

	if local.Hour() < 12 {
		return Window{today.AddDate(0, 0, -1), today}
	}
	return Window{today, today.AddDate(0, 0, 1)}
}

// Dates returns the window days formatted for the schedule endpoint, in
// query order.
func (w Window) Dates() []string {
	return []string{w[0].Format(DateLayout), w[1].Format(DateLayout)}
}

// FormatDisplay renders t in the reference zone with a fixed Swedish month
// abbreviation, e.g. "2020 jan 29  08:00".
func FormatDisplay(t time.Time) string {
	t = t.In(Location)
	return fmt.Sprintf("%d %s %d  %s", t.Year(), monthAbbrev[t.Month()-1], t.Day(), t.Format("15:04"))
}

// FormatClock renders the hour and minute of t in the reference zone.
func FormatClock(t time.Time) string {
	return t.In(Location).Format("15:04")
}
