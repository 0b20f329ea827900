package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/doctrail/internal/status"
)

func newDocStatusCmd() *cobra.Command {
	var (
		configPath string
		actor      string
	)

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a document's status",
		Long: `Applies a manual status transition (e.g. ACTIVE to COMPLETED, COMPLETED to
APPROVED). Legality is checked against the document's current effective
status, and the acting user must be authorized: the author for most targets,
a team leader for APPROVED.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocStatus(cmd, configPath, actor, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "doctrail.yaml", "path to Doctrail config file")
	cmd.Flags().StringVar(&actor, "actor", "", "acting user ID (required)")
	cmd.MarkFlagRequired("actor")
	return cmd
}

func runDocStatus(cmd *cobra.Command, configPath, actor, id, rawStatus string) error {
	target, err := status.Parse(rawStatus)
	if err != nil {
		return err
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	v, err := newService(gormDB).Transition(cmd.Context(), id, actor, target, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document %s is now %s\n", v.ID, v.Status)
	if v.CompletedAt != nil && v.Status == status.Completed {
		if v.Facts.IsOnTime {
			fmt.Fprintln(out, "Completed on time.")
		} else {
			fmt.Fprintf(out, "Completed %d day(s) late.\n", v.Facts.DaysLate)
		}
	}
	return nil
}
