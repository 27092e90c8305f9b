package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"RemindBot/bot"
	"RemindBot/schedule"

	"github.com/spf13/cobra"
)

var entriesKind string

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Print the pending entries the configured store holds, without modifying it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := kindByName(entriesKind)
		if err != nil {
			return err
		}
		cfg, log, _, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		reader, db, err := bot.OpenReader(cfg, kind, log.Named("store"))
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}
		entries, err := reader.Read(cmd.Context())
		if err != nil {
			return fmt.Errorf("read %s entries: %w", kind.Name, err)
		}
		return printEntries(cmd.OutOrStdout(), kind, entries, time.Now())
	},
}

func init() {
	entriesCmd.Flags().StringVarP(&entriesKind, "kind", "k", "reminder", "entry kind: reminder or timer")
}

func kindByName(name string) (schedule.Kind, error) {
	switch strings.ToLower(strings.TrimSuffix(name, "s")) {
	case schedule.Reminders.Name:
		return schedule.Reminders, nil
	case schedule.Timers.Name:
		return schedule.Timers, nil
	}
	return schedule.Kind{}, fmt.Errorf("unknown kind %q", name)
}

func printEntries(w io.Writer, kind schedule.Kind, entries []schedule.Entry, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tCHANNEL\tDUE\tIN\tTEXT")
	for _, e := range entries {
		id := e.ID
		if !kind.HasID() {
			id = "-"
		}
		channel := e.Destination()
		if channel == "" {
			channel = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			id, e.Owner(), channel,
			e.Due().UTC().Format(time.RFC3339),
			schedule.FormatDuration(e.DueAt-now.Unix()),
			e.Payload)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d %s entries\n", len(entries), kind.Name)
	return err
}
