package data

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/savid/radioinfo/config"
	"github.com/savid/radioinfo/internal/metrics"
	"github.com/sirupsen/logrus"
)

// response is what the fake API answers for one request.
type response struct {
	status int
	body   string
}

// fakeAPI mimics the catalog and schedule endpoints.
type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	catalog  response
	days     map[string]response // key: "channelid/date"
	flaky    map[string]int      // 503s to serve before days[key]
	requests []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	return &fakeAPI{
		t:       t,
		catalog: response{status: http.StatusOK, body: readFixture(t, "testdata/channels.xml")},
		days:    make(map[string]response),
		flaky:   make(map[string]int),
	}
}

func (f *fakeAPI) setDay(channelID int, date string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days[fmt.Sprintf("%d/%s", channelID, date)] = response{status: status, body: body}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	query := r.URL.Query()
	if query.Get("pagination") != "false" {
		f.t.Errorf("Expected pagination=false, got %q", r.URL.RawQuery)
	}

	var res response
	switch r.URL.Path {
	case "/api/v2/channels":
		f.requests = append(f.requests, "channels")
		res = f.catalog
	case "/api/v2/scheduledepisodes":
		key := query.Get("channelid") + "/" + query.Get("date")
		f.requests = append(f.requests, key)
		if f.flaky[key] > 0 {
			f.flaky[key]--
			res = response{status: http.StatusServiceUnavailable}
			break
		}
		var ok bool
		res, ok = f.days[key]
		if !ok {
			res = response{status: http.StatusOK, body: scheduleXML()}
		}
	default:
		res = response{status: http.StatusTeapot}
	}

	w.WriteHeader(res.status)
	_, _ = io.WriteString(w, res.body)
}

func (f *fakeAPI) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// newTestPipeline starts the fake API and wires a fetcher and pipeline to it.
func newTestPipeline(t *testing.T, api *fakeAPI) (*Pipeline, *Fetcher) {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.BaseURL = server.URL + "/api/v2"
	cfg.HTTPTimeout = 5 * time.Second
	cfg.RetryDelay = time.Millisecond

	logger := testLogger()
	m := metrics.New(nil)
	fetcher := NewFetcher(cfg, logger, m)
	return NewPipeline(fetcher, logger, m), fetcher
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func readFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", path, err)
	}
	return string(data)
}

// episode is a compact description of one scheduled episode for scheduleXML.
type episode struct {
	title string
	start string
	end   string
}

func scheduleXML(episodes ...episode) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><sr><schedule>`)
	for _, ep := range episodes {
		b.WriteString("<scheduledepisode>")
		b.WriteString("<title>" + ep.title + "</title>")
		b.WriteString("<starttimeutc>" + ep.start + "</starttimeutc>")
		b.WriteString("<endtimeutc>" + ep.end + "</endtimeutc>")
		b.WriteString("</scheduledepisode>")
	}
	b.WriteString("</schedule></sr>")
	return b.String()
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", value, err)
	}
	return parsed
}

func titles(t *testing.T, snapshot *Snapshot, channelID int) []string {
	t.Helper()
	programs, ok := snapshot.Programs(channelID)
	if !ok {
		t.Fatalf("Channel %d missing from snapshot", channelID)
	}
	out := make([]string, 0, len(programs))
	for _, p := range programs {
		out = append(out, p.Title)
	}
	return out
}
