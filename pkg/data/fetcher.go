// Package data fetches radio schedules, turns them into per-channel program
// lists and keeps the latest complete snapshot in memory.
package data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/savid/radioinfo/config"
	"github.com/savid/radioinfo/internal/metrics"
	"github.com/savid/radioinfo/internal/retry"
	"github.com/savid/radioinfo/pkg/schedule"
	"github.com/savid/radioinfo/pkg/sr"
	"github.com/sirupsen/logrus"
)

// Endpoint names used in errors, logs and metrics.
const (
	EndpointChannels = "channels"
	EndpointSchedule = "scheduledepisodes"
)

const maxBodySize = 20 << 20

// Fetcher handles requests to the catalog and schedule endpoints.
type Fetcher struct {
	baseURL   string
	userAgent string
	client    *http.Client
	retry     *retry.Manager
	logger    *logrus.Logger
	metrics   *metrics.Metrics
}

// NewFetcher creates a new fetcher instance.
func NewFetcher(cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics) *Fetcher {
	return &Fetcher{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		retry:   retry.NewManager(cfg.Retries, cfg.RetryDelay, 2),
		logger:  logger,
		metrics: m,
	}
}

// FetchChannels loads the channel catalog. Any failure here is fatal for the
// caller: without channels nothing else can run.
func (f *Fetcher) FetchChannels(ctx context.Context) ([]schedule.Channel, error) {
	endpoint, err := url.JoinPath(f.baseURL, EndpointChannels)
	if err != nil {
		return nil, &NetworkError{Op: EndpointChannels, URL: f.baseURL, Err: err}
	}
	rawURL := endpoint + "?" + url.Values{"pagination": {"false"}}.Encode()

	f.logger.WithField("url", rawURL).Debug("Fetching channel catalog")

	body, status, err := f.get(ctx, EndpointChannels, rawURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &NetworkError{Op: EndpointChannels, URL: rawURL, Err: fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)}
	}

	parsed, err := sr.ParseChannels(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Doc: EndpointChannels, Err: err}
	}

	channels := uniqueChannels(parsed, f.logger)

	f.logger.WithField("channels", len(channels)).Info("Fetched channel catalog")
	return channels, nil
}

// FetchSchedule loads the raw schedule document for one channel and day.
// A 404 yields ErrNotFound.
func (f *Fetcher) FetchSchedule(ctx context.Context, channelID int, date string) ([]byte, error) {
	endpoint, err := url.JoinPath(f.baseURL, EndpointSchedule)
	if err != nil {
		return nil, &NetworkError{Op: EndpointSchedule, URL: f.baseURL, Err: err}
	}
	query := url.Values{
		"channelid":  {strconv.Itoa(channelID)},
		"date":       {date},
		"pagination": {"false"},
	}
	rawURL := endpoint + "?" + query.Encode()

	body, status, err := f.get(ctx, EndpointSchedule, rawURL)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &NetworkError{Op: EndpointSchedule, URL: rawURL, Err: fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)}
	}
}

// get performs a GET, retrying transport failures and 5xx responses.
// Non-200 responses are returned with a nil body and their status so callers
// can decide what a 404 means.
func (f *Fetcher) get(ctx context.Context, endpoint, rawURL string) ([]byte, int, error) {
	var (
		body   []byte
		status int
	)

	err := f.retry.Do(ctx, func() (bool, error) {
		var err error
		body, status, err = f.attempt(ctx, endpoint, rawURL)
		if err != nil {
			retryable := ctx.Err() == nil
			if retryable {
				f.logger.WithError(err).WithField("url", rawURL).Debug("Request failed, retrying")
			}
			return retryable, err
		}
		if status >= http.StatusInternalServerError {
			f.logger.WithFields(logrus.Fields{
				"url":    rawURL,
				"status": status,
			}).Debug("Server error, retrying")
			return true, fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
		}
		return false, nil
	})
	if err != nil && status < http.StatusInternalServerError {
		return nil, 0, err
	}

	return body, status, nil
}

// attempt performs one GET.
func (f *Fetcher) attempt(ctx context.Context, endpoint, rawURL string) ([]byte, int, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, &NetworkError{Op: endpoint, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml,*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		f.metrics.ObserveFetch(endpoint, metrics.ResultError, time.Since(start))
		return nil, 0, &NetworkError{Op: endpoint, URL: rawURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		f.metrics.ObserveFetch(endpoint, metrics.ResultNotFound, time.Since(start))
		return nil, resp.StatusCode, nil
	default:
		f.metrics.ObserveFetch(endpoint, metrics.ResultError, time.Since(start))
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		f.metrics.ObserveFetch(endpoint, metrics.ResultError, time.Since(start))
		return nil, 0, &NetworkError{Op: endpoint, URL: rawURL, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	f.metrics.ObserveFetch(endpoint, metrics.ResultOK, time.Since(start))
	return body, resp.StatusCode, nil
}

// uniqueChannels drops channels whose name was already seen so the name can
// be used as a lookup key.
func uniqueChannels(channels []schedule.Channel, logger *logrus.Logger) []schedule.Channel {
	seen := make(map[string]int, len(channels))
	unique := make([]schedule.Channel, 0, len(channels))

	for _, ch := range channels {
		if firstID, exists := seen[ch.Name]; exists {
			logger.WithFields(logrus.Fields{
				"channel":  ch.Name,
				"id":       ch.ID,
				"first_id": firstID,
			}).Warn("Duplicate channel name found")
			continue
		}
		seen[ch.Name] = ch.ID
		unique = append(unique, ch)
	}

	return unique
}

// IsNetworkError reports whether err came from the transport layer.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
