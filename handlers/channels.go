// Package handlers provides the read-only HTTP surface over the latest
// schedule snapshot.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/savid/radioinfo/pkg/data"
	"github.com/sirupsen/logrus"
)

const noDataMessage = "Schedule data not available"

// ChannelEntry is one catalog row in the /channels response.
type ChannelEntry struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Programs int    `json:"programs"`
	NotFound bool   `json:"not_found"`
}

// ChannelsResponse is the /channels document.
type ChannelsResponse struct {
	Updated  string         `json:"updated"`
	Channels []ChannelEntry `json:"channels"`
}

// ChannelsHandler serves the channel catalog of the current snapshot.
type ChannelsHandler struct {
	store  *data.Store
	logger *logrus.Logger
}

// NewChannelsHandler creates a new channels handler instance.
func NewChannelsHandler(store *data.Store, logger *logrus.Logger) *ChannelsHandler {
	return &ChannelsHandler{
		store:  store,
		logger: logger,
	}
}

func (h *ChannelsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	snapshot, ok := h.store.Get()
	if !ok {
		h.logger.Error(noDataMessage)
		http.Error(w, noDataMessage, http.StatusServiceUnavailable)
		return
	}

	resp := ChannelsResponse{
		Updated:  snapshot.UpdatedLabel(),
		Channels: make([]ChannelEntry, 0, len(snapshot.Channels)),
	}
	for _, ch := range snapshot.Channels {
		programs, _ := snapshot.Programs(ch.ID)
		resp.Channels = append(resp.Channels, ChannelEntry{
			ID:       ch.ID,
			Name:     ch.Name,
			Programs: len(programs),
			NotFound: snapshot.IsNotFound(ch.ID),
		})
	}

	writeJSON(w, h.logger, resp)
}

func writeJSON(w http.ResponseWriter, logger *logrus.Logger, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to encode JSON")
	}
}
