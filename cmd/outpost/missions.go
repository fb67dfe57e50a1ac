package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/engine"
	"github.com/talgya/outpost/internal/persistence"
)

var missionsActive bool

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List missions recorded in the journal",
	Long: `Read the SQLite journal written by "outpost run" and print every
recorded mission with its phase, crew and final statuses.`,
	RunE: listMissions,
}

func init() {
	missionsCmd.Flags().BoolVar(&missionsActive, "active", false, "Only show missions still in flight")
}

func listMissions(cmd *cobra.Command, args []string) error {
	db, err := persistence.Open(tuning.Server.DB)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()

	if !db.HasJournal() {
		fmt.Fprintf(cmd.OutOrStdout(), "No journal at %s\n", tuning.Server.DB)
		return nil
	}
	recs, err := db.Missions()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tPHASE\tHOME\tROVER\tCREW\tSTARTED\tSTATUS")
	shown := 0
	for _, r := range recs {
		if missionsActive && r.Done {
			continue
		}
		members, err := r.Members()
		if err != nil {
			return err
		}
		statuses, err := r.Statuses()
		if err != nil {
			return err
		}
		codes := make([]string, len(statuses))
		for i, s := range statuses {
			codes[i] = string(s)
		}
		status := strings.Join(codes, ",")
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
			shortID(r.ID), r.Kind, r.Phase, r.Home, orDash(r.Rover), len(members),
			engine.MarsTime(uint64(r.Started)), status)
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s of %s missions\n", humanize.Comma(int64(shown)), humanize.Comma(int64(len(recs))))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
