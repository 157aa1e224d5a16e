package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/savid/radioinfo/internal/metrics"
	"github.com/savid/radioinfo/pkg/data"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [channel]",
		Short: "Run one update and print the schedule of a channel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := updateOnce(cmd)
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			} else if len(snapshot.Channels) > 0 {
				name = snapshot.Channels[0].Name
			}
			return printSchedule(cmd.OutOrStdout(), snapshot, name)
		},
	}
}

func newChannelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "Run one update and list every channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := updateOnce(cmd)
			if err != nil {
				return err
			}
			return printChannels(cmd.OutOrStdout(), snapshot)
		},
	}
}

func updateOnce(cmd *cobra.Command) (*data.Snapshot, error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return nil, err
	}

	m := metrics.New(nil)
	fetcher := data.NewFetcher(cfg, logger, m)
	pipeline := data.NewPipeline(fetcher, logger, m)
	return pipeline.Update(cmd.Context(), time.Now())
}

// printSchedule writes one channel's programs as a table.
func printSchedule(w io.Writer, snapshot *data.Snapshot, name string) error {
	id, ok := snapshot.ChannelID(name)
	if !ok {
		return fmt.Errorf("unknown channel %q", name)
	}

	fmt.Fprintln(w, name)
	fmt.Fprintln(w, snapshot.UpdatedLabel())

	if snapshot.IsNotFound(id) {
		fmt.Fprintln(w, "Some of the schedule for this channel could not be found.")
	}

	programs, _ := snapshot.Programs(id)
	if len(programs) == 0 {
		fmt.Fprintln(w, "No content!")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Program\tStart\tSlut\tStatus")
	for _, p := range programs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Title, p.StartTime, p.EndTime, p.StatusLabel())
	}
	return tw.Flush()
}

func printChannels(w io.Writer, snapshot *data.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKanal\tProgram\tSaknas")
	for _, ch := range snapshot.Channels {
		programs, _ := snapshot.Programs(ch.ID)
		missing := ""
		if snapshot.IsNotFound(ch.ID) {
			missing = "ja"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", ch.ID, ch.Name, len(programs), missing)
	}
	return tw.Flush()
}
