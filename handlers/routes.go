package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/savid/radioinfo/internal/metrics"
	"github.com/savid/radioinfo/pkg/data"
	"github.com/sirupsen/logrus"
)

// Routes wires every endpoint behind the logging middleware.
func Routes(ctx context.Context, store *data.Store, starter Starter, gatherer prometheus.Gatherer, m *metrics.Metrics, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/channels", NewChannelsHandler(store, logger))
	mux.Handle("/programs", NewProgramsHandler(store, logger))
	mux.Handle("/refresh", NewRefreshHandler(ctx, starter, logger))
	mux.Handle("/metrics", metrics.Handler(gatherer))

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if snapshot, ok := store.Get(); ok {
			w.Header().Set("Last-Modified", snapshot.UpdatedAt.UTC().Format(http.TimeFormat))
		}
		w.Header().Set("X-Last-Sync", store.LastSync().UTC().Format(time.RFC3339))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return LoggingMiddleware(logger, m)(mux)
}
