package sr

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/savid/radioinfo/pkg/schedule"
)

func TestParseChannels(t *testing.T) {
	file, err := os.Open("testdata/channels.xml")
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()

	channels, err := ParseChannels(file)
	if err != nil {
		t.Fatalf("ParseChannels failed: %v", err)
	}

	want := []schedule.Channel{
		{ID: 132, Name: "P1"},
		{ID: 163, Name: "P2"},
		{ID: 164, Name: "P3"},
	}
	if len(channels) != len(want) {
		t.Fatalf("Expected %d channels, got %d", len(want), len(channels))
	}
	for i := range want {
		if channels[i] != want[i] {
			t.Errorf("Channel %d: expected %+v, got %+v", i, want[i], channels[i])
		}
	}
}

func TestParseChannelsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:  "invalid XML",
			input: "<sr><channels><channel id=\"1\"",
		},
		{
			name:  "empty document",
			input: "",
		},
		{
			name:    "missing id",
			input:   `<sr><channels><channel name="P1"/></channels></sr>`,
			wantErr: ErrMissingAttribute,
		},
		{
			name:    "missing name",
			input:   `<sr><channels><channel id="132"/></channels></sr>`,
			wantErr: ErrMissingAttribute,
		},
		{
			name:  "non numeric id",
			input: `<sr><channels><channel id="p1" name="P1"/></channels></sr>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChannels(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseSchedule(t *testing.T) {
	file, err := os.Open("testdata/schedule.xml")
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()

	result, err := ParseSchedule(file, schedule.Location)
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}

	if len(result.Episodes) != 3 {
		t.Fatalf("Expected 3 episodes, got %d", len(result.Episodes))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("Expected 1 skipped episode, got %d", len(result.Skipped))
	}

	first := result.Episodes[0]
	if first.Title != "Nyheter" {
		t.Errorf("Expected title 'Nyheter', got %q", first.Title)
	}
	if first.Description == nil || !strings.Contains(*first.Description, "Ekoredaktionen") {
		t.Errorf("Expected description to mention Ekoredaktionen, got %v", first.Description)
	}
	if first.ImageURL == nil || *first.ImageURL != "https://static-cdn.sr.se/images/4540/ekot.jpg" {
		t.Errorf("Unexpected image URL %v", first.ImageURL)
	}
	wantStart := time.Date(2020, 1, 29, 7, 0, 0, 0, time.UTC)
	if !first.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, first.Start)
	}
	if first.Start.Location() != schedule.Location {
		t.Errorf("Expected start in %v, got %v", schedule.Location, first.Start.Location())
	}

	second := result.Episodes[1]
	if second.Title != "Morgonpasset" {
		t.Errorf("Expected title 'Morgonpasset', got %q", second.Title)
	}
	if second.Description != nil {
		t.Errorf("Expected nil description, got %q", *second.Description)
	}
	if second.ImageURL != nil {
		t.Errorf("Expected nil image URL, got %q", *second.ImageURL)
	}

	// The broken entry is dropped but the one after it survives.
	third := result.Episodes[2]
	if third.Title != "Musikguiden" {
		t.Errorf("Expected title 'Musikguiden', got %q", third.Title)
	}
	if third.Description == nil || *third.Description != "" {
		t.Errorf("Expected empty but present description, got %v", third.Description)
	}

	skipped := result.Skipped[0]
	if skipped.Index != 2 || skipped.Title != "Trasig post" {
		t.Errorf("Unexpected skipped entry %+v", skipped)
	}
}

func TestParseScheduleMissingFields(t *testing.T) {
	input := `<sr><schedule>
		<scheduledepisode><starttimeutc>2020-01-29T07:00:00Z</starttimeutc><endtimeutc>2020-01-29T08:00:00Z</endtimeutc></scheduledepisode>
		<scheduledepisode><title>Utan slut</title><starttimeutc>2020-01-29T07:00:00Z</starttimeutc></scheduledepisode>
		<scheduledepisode><title>Hel</title><starttimeutc>2020-01-29T07:00:00Z</starttimeutc><endtimeutc>2020-01-29T08:00:00Z</endtimeutc></scheduledepisode>
	</schedule></sr>`

	result, err := ParseSchedule(strings.NewReader(input), schedule.Location)
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}

	if len(result.Episodes) != 1 || result.Episodes[0].Title != "Hel" {
		t.Fatalf("Expected only 'Hel' to survive, got %+v", result.Episodes)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("Expected 2 skipped entries, got %d", len(result.Skipped))
	}
	for _, skipped := range result.Skipped {
		if !errors.Is(skipped, ErrMissingField) {
			t.Errorf("Expected ErrMissingField, got %v", skipped)
		}
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "invalid XML", input: "<sr><schedule><scheduledepisode>"},
		{name: "empty document", input: ""},
		{name: "no schedule element", input: "<sr><copyright>x</copyright></sr>", wantErr: ErrMissingSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule(strings.NewReader(tt.input), schedule.Location)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseScheduleEmpty(t *testing.T) {
	result, err := ParseSchedule(strings.NewReader("<sr><schedule></schedule></sr>"), schedule.Location)
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}
	if len(result.Episodes) != 0 || len(result.Skipped) != 0 {
		t.Errorf("Expected empty schedule, got %+v", result)
	}
}
