// Package sr parses the XML documents served by the Sveriges Radio open API:
// the channel catalog and per-day scheduled episodes.
package sr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/savid/radioinfo/pkg/schedule"
)

var (
	// ErrMissingAttribute is returned when a channel lacks its id or name.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrMissingSchedule is returned when a schedule document has no schedule element.
	ErrMissingSchedule = errors.New("missing schedule element")
	// ErrMissingField is wrapped by EpisodeError when a mandatory tag is absent.
	ErrMissingField = errors.New("missing mandatory field")
)

// channelsDocument is the catalog response. Channels sit under a single
// channels element in document order.
type channelsDocument struct {
	Channels []rawChannel `xml:"channels>channel"`
}

type rawChannel struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// scheduleDocument is a scheduledepisodes response. Every child of the
// schedule element is one episode regardless of its tag name.
type scheduleDocument struct {
	Schedule *struct {
		Episodes []rawEpisode `xml:",any"`
	} `xml:"schedule"`
}

type rawEpisode struct {
	Title        *string `xml:"title"`
	Description  *string `xml:"description"`
	ImageURL     *string `xml:"imageurl"`
	StartTimeUTC *string `xml:"starttimeutc"`
	EndTimeUTC   *string `xml:"endtimeutc"`
}

// Episode is one parsed schedule entry. Description and ImageURL are nil
// when the tag was absent.
type Episode struct {
	Title       string
	Description *string
	ImageURL    *string
	Start       time.Time
	End         time.Time
}

// EpisodeError describes a single episode that could not be parsed.
type EpisodeError struct {
	Index int
	Title string
	Err   error
}

func (e *EpisodeError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("episode %d (%s): %v", e.Index, e.Title, e.Err)
	}
	return fmt.Sprintf("episode %d: %v", e.Index, e.Err)
}

func (e *EpisodeError) Unwrap() error {
	return e.Err
}

// Schedule is the result of parsing one schedule document. Episodes keep
// feed order; Skipped lists the entries that were dropped.
type Schedule struct {
	Episodes []Episode
	Skipped  []*EpisodeError
}

// ParseChannels parses a catalog document into channels in document order.
func ParseChannels(reader io.Reader) ([]schedule.Channel, error) {
	decoder := xml.NewDecoder(reader)

	var doc channelsDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	channels := make([]schedule.Channel, 0, len(doc.Channels))
	for i, raw := range doc.Channels {
		idText := strings.TrimSpace(raw.ID)
		if idText == "" {
			return nil, fmt.Errorf("channel %d: %w: id", i, ErrMissingAttribute)
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("channel %d: %w: name", i, ErrMissingAttribute)
		}

		id, err := strconv.Atoi(idText)
		if err != nil {
			return nil, fmt.Errorf("channel %d: invalid id %q: %w", i, raw.ID, err)
		}

		channels = append(channels, schedule.Channel{ID: id, Name: raw.Name})
	}

	return channels, nil
}

// ParseSchedule parses a schedule document. Instants are read as RFC 3339
// and moved into loc. An episode with a missing title or a bad instant is
// skipped without affecting the rest of the document.
func ParseSchedule(reader io.Reader, loc *time.Location) (*Schedule, error) {
	decoder := xml.NewDecoder(reader)

	var doc scheduleDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	if doc.Schedule == nil {
		return nil, ErrMissingSchedule
	}

	result := &Schedule{
		Episodes: make([]Episode, 0, len(doc.Schedule.Episodes)),
	}

	for i, raw := range doc.Schedule.Episodes {
		episode, err := raw.episode(loc)
		if err != nil {
			epErr := &EpisodeError{Index: i, Err: err}
			if raw.Title != nil {
				epErr.Title = *raw.Title
			}
			result.Skipped = append(result.Skipped, epErr)
			continue
		}
		result.Episodes = append(result.Episodes, episode)
	}

	return result, nil
}

func (r rawEpisode) episode(loc *time.Location) (Episode, error) {
	if r.Title == nil {
		return Episode{}, fmt.Errorf("%w: title", ErrMissingField)
	}

	start, err := parseInstant("starttimeutc", r.StartTimeUTC, loc)
	if err != nil {
		return Episode{}, err
	}

	end, err := parseInstant("endtimeutc", r.EndTimeUTC, loc)
	if err != nil {
		return Episode{}, err
	}

	return Episode{
		Title:       *r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Start:       start,
		End:         end,
	}, nil
}

func parseInstant(field string, value *string, loc *time.Location) (time.Time, error) {
	if value == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", field, err)
	}

	return t.In(loc), nil
}
