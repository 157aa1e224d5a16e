package data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/savid/radioinfo/internal/metrics"
	"github.com/savid/radioinfo/pkg/schedule"
	"github.com/savid/radioinfo/pkg/sr"
	"github.com/sirupsen/logrus"
)

// Source is the upstream API the pipeline reads from.
type Source interface {
	FetchChannels(ctx context.Context) ([]schedule.Channel, error)
	FetchSchedule(ctx context.Context, channelID int, date string) ([]byte, error)
}

// Pipeline turns the catalog and per-day schedules into program lists. It
// issues one request at a time and holds no state between runs.
type Pipeline struct {
	source  Source
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewPipeline creates a pipeline reading from source.
func NewPipeline(source Source, logger *logrus.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		logger:  logger,
		metrics: m,
	}
}

// Update fetches the catalog and runs every channel against now. A catalog
// failure or a cancelled context aborts the update with no snapshot.
func (p *Pipeline) Update(ctx context.Context, now time.Time) (*Snapshot, error) {
	runID := uuid.NewString()
	logger := p.logger.WithField("run_id", runID)

	channels, err := p.source.FetchChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", err)
	}

	result := p.run(ctx, logger, channels, now)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("update cancelled: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"channels":  len(channels),
		"programs":  result.ProgramCount(),
		"not_found": len(result.NotFound),
	}).Info("Schedule update completed")

	return NewSnapshot(runID, now, channels, result), nil
}

// Run processes channels for the two days around now. Days that return no
// content mark the channel as not found; other failures are logged and
// that day is skipped.
func (p *Pipeline) Run(ctx context.Context, channels []schedule.Channel, now time.Time) *Result {
	return p.run(ctx, logrus.NewEntry(p.logger), channels, now)
}

func (p *Pipeline) run(ctx context.Context, logger *logrus.Entry, channels []schedule.Channel, now time.Time) *Result {
	result := newResult(len(channels))
	dates := schedule.WindowFor(now).Dates()

	for _, ch := range channels {
		programs := make([]schedule.Program, 0)

		for _, date := range dates {
			entry := logger.WithFields(logrus.Fields{
				"channel_id": ch.ID,
				"channel":    ch.Name,
				"date":       date,
			})

			episodes, err := p.load(ctx, ch.ID, date, entry)
			if errors.Is(err, ErrNotFound) {
				entry.Debug("No schedule for date")
				result.NotFound[ch.ID] = struct{}{}
				continue
			}
			if err != nil {
				reason := "parse"
				if IsNetworkError(err) {
					reason = "network"
				}
				entry.WithError(err).WithField("reason", reason).Warn("Skipping schedule")
				continue
			}

			for _, ep := range episodes {
				if !schedule.InWindow(ep.Start, now) {
					continue
				}
				programs = append(programs, schedule.NewProgram(ch.ID, ep.Title, ep.Description, ep.ImageURL, ep.Start, ep.End, now))
			}
		}

		result.Programs[ch.ID] = programs
	}

	return result
}

func (p *Pipeline) load(ctx context.Context, channelID int, date string, logger *logrus.Entry) ([]sr.Episode, error) {
	body, err := p.source.FetchSchedule(ctx, channelID, date)
	if err != nil {
		return nil, err
	}

	parsed, err := sr.ParseSchedule(bytes.NewReader(body), schedule.Location)
	if err != nil {
		return nil, &ParseError{Doc: EndpointSchedule, Err: err}
	}

	for _, skipped := range parsed.Skipped {
		logger.WithError(skipped).Warn("Skipping malformed episode")
		p.metrics.SkippedEpisodes.Inc()
	}

	return parsed.Episodes, nil
}
