package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/savid/radioinfo/pkg/data"
	"github.com/sirupsen/logrus"
)

// Starter launches an update without waiting for it.
type Starter interface {
	Go(ctx context.Context) (<-chan data.RunResult, error)
}

// RefreshHandler is the manual update trigger.
type RefreshHandler struct {
	starter Starter
	ctx     context.Context
	logger  *logrus.Logger
}

// NewRefreshHandler creates a refresh handler. Updates it starts run under
// ctx rather than the request context, so they outlive the request.
func NewRefreshHandler(ctx context.Context, starter Starter, logger *logrus.Logger) *RefreshHandler {
	return &RefreshHandler{
		starter: starter,
		ctx:     ctx,
		logger:  logger,
	}
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := h.starter.Go(h.ctx); err != nil {
		if errors.Is(err, data.ErrRunInProgress) {
			http.Error(w, "Update already in progress", http.StatusConflict)
			return
		}
		h.logger.WithError(err).Error("Failed to start update")
		http.Error(w, "Failed to start update", http.StatusInternalServerError)
		return
	}

	h.logger.WithField("remote", r.RemoteAddr).Info("Manual update started")
	w.WriteHeader(http.StatusAccepted)
}
