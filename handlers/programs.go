package handlers

import (
	"net/http"

	"github.com/savid/radioinfo/pkg/data"
	"github.com/savid/radioinfo/pkg/schedule"
	"github.com/sirupsen/logrus"
)

// ProgramEntry is one row of the schedule table plus its detail fields.
type ProgramEntry struct {
	Title       string          `json:"title"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Status      schedule.Status `json:"status"`
	StatusLabel string          `json:"status_label"`
	Description *string         `json:"description,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// ProgramsResponse is the /programs document for one channel.
type ProgramsResponse struct {
	ChannelID int            `json:"channel_id"`
	Channel   string         `json:"channel"`
	Updated   string         `json:"updated"`
	NotFound  bool           `json:"not_found"`
	Programs  []ProgramEntry `json:"programs"`
}

// ProgramsHandler serves the program list of a channel looked up by name.
type ProgramsHandler struct {
	store  *data.Store
	logger *logrus.Logger
}

// NewProgramsHandler creates a new programs handler instance.
func NewProgramsHandler(store *data.Store, logger *logrus.Logger) *ProgramsHandler {
	return &ProgramsHandler{
		store:  store,
		logger: logger,
	}
}

func (h *ProgramsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.store.Get()
	if !ok {
		h.logger.Error(noDataMessage)
		http.Error(w, noDataMessage, http.StatusServiceUnavailable)
		return
	}

	name := r.URL.Query().Get("channel")
	if name == "" {
		http.Error(w, "channel parameter is required", http.StatusBadRequest)
		return
	}

	id, ok := snapshot.ChannelID(name)
	if !ok {
		h.logger.WithField("channel", name).Debug("Unknown channel requested")
		http.Error(w, "Unknown channel", http.StatusNotFound)
		return
	}

	programs, _ := snapshot.Programs(id)
	resp := ProgramsResponse{
		ChannelID: id,
		Channel:   name,
		Updated:   snapshot.UpdatedLabel(),
		NotFound:  snapshot.IsNotFound(id),
		Programs:  make([]ProgramEntry, 0, len(programs)),
	}
	for _, p := range programs {
		resp.Programs = append(resp.Programs, ProgramEntry{
			Title:       p.Title,
			Start:       p.StartTime,
			End:         p.EndTime,
			Status:      p.Status,
			StatusLabel: p.StatusLabel(),
			Description: p.Description,
			ImageURL:    p.ImageURL,
		})
	}

	writeJSON(w, h.logger, resp)
}
