package data

import (
	"time"

	"github.com/savid/radioinfo/pkg/schedule"
	"github.com/savid/radioinfo/pkg/utils"
)

// Result is the output of one pipeline run over a channel set.
//
// Programs has an entry for every channel that was processed, even when no
// episode survived. NotFound holds every channel for which at least one
// queried day returned no content; such a channel may still have programs
// from its other day.
type Result struct {
	Programs map[int][]schedule.Program
	NotFound map[int]struct{}
}

func newResult(size int) *Result {
	return &Result{
		Programs: make(map[int][]schedule.Program, size),
		NotFound: make(map[int]struct{}),
	}
}

// ProgramCount returns the number of programs across all channels.
func (r *Result) ProgramCount() int {
	total := 0
	for _, programs := range r.Programs {
		total += len(programs)
	}
	return total
}

// Snapshot is everything one completed update produced. It is never
// modified after construction.
type Snapshot struct {
	RunID     string
	UpdatedAt time.Time
	Channels  []schedule.Channel
	Result    *Result

	byName map[string]int
	byKey  map[string]int
}

// NewSnapshot assembles a snapshot from a catalog and a run result.
func NewSnapshot(runID string, updatedAt time.Time, channels []schedule.Channel, result *Result) *Snapshot {
	byName := make(map[string]int, len(channels))
	byKey := make(map[string]int, len(channels))
	for _, ch := range channels {
		byName[ch.Name] = ch.ID
		key := utils.NormalizeChannelName(ch.Name)
		if _, taken := byKey[key]; !taken {
			byKey[key] = ch.ID
		}
	}

	return &Snapshot{
		RunID:     runID,
		UpdatedAt: updatedAt,
		Channels:  channels,
		Result:    result,
		byName:    byName,
		byKey:     byKey,
	}
}

// ChannelID looks up a channel id by its catalog name. Names that differ only
// in case, spacing or punctuation resolve to the first matching channel.
func (s *Snapshot) ChannelID(name string) (int, bool) {
	if id, ok := s.byName[name]; ok {
		return id, true
	}
	id, ok := s.byKey[utils.NormalizeChannelName(name)]
	return id, ok
}

// Programs returns the ordered programs for a channel and whether the
// channel was part of the run.
func (s *Snapshot) Programs(channelID int) ([]schedule.Program, bool) {
	programs, ok := s.Result.Programs[channelID]
	return programs, ok
}

// IsNotFound reports whether any queried day for the channel had no content.
func (s *Snapshot) IsNotFound(channelID int) bool {
	_, ok := s.Result.NotFound[channelID]
	return ok
}

// UpdatedLabel renders the last update time the way the schedule view shows it.
func (s *Snapshot) UpdatedLabel() string {
	return "Uppdaterad: " + schedule.FormatClock(s.UpdatedAt)
}
