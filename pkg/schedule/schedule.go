// Package schedule holds the radio schedule domain model: channels, programs
// and the rules that place a program relative to the current time.
package schedule

import (
	"time"
	_ "time/tzdata" // CET must resolve on hosts without zoneinfo
)

// Location is the fixed reference zone every instant is parsed into and
// formatted in.
var Location = mustLoadLocation("CET")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Channel is a radio station from the catalog.
type Channel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Program is one scheduled broadcast, classified against the time it was
// built for. A Program is never updated in place; a new status means a new
// Program.
type Program struct {
	ChannelID   int       `json:"channel_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      Status    `json:"status"`
}

// NewProgram builds a Program from one parsed episode and the reference time.
func NewProgram(channelID int, title string, description, imageURL *string, start, end, now time.Time) Program {
	start = start.In(Location)
	end = end.In(Location)

	return Program{
		ChannelID:   channelID,
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Start:       start,
		End:         end,
		StartTime:   FormatDisplay(start),
		EndTime:     FormatDisplay(end),
		Status:      Classify(start, end, now),
	}
}

// StatusLabel returns the user facing label for the program's status.
func (p Program) StatusLabel() string {
	return p.Status.Label()
}
