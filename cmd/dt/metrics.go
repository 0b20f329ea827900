package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/doctrail/internal/lifecycle"
	"github.com/zulandar/doctrail/internal/metrics"
)

func newMetricsCmd() *cobra.Command {
	var (
		configPath string
		actor      string
		createdBy  string
		teamID     string
		periodDays int
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show performance metrics",
		Long: `Computes performance metrics over a document scope: completion rate, on-time
rate, overdue count, average processing time, and a trend against the
previous period. With --team, team leaders also get a per-member breakdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if createdBy == "" && teamID == "" {
				return fmt.Errorf("either --created-by or --team is required")
			}
			return runMetrics(cmd, configPath, actor, createdBy, teamID, periodDays)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "doctrail.yaml", "path to Doctrail config file")
	cmd.Flags().StringVar(&actor, "actor", "", "acting user ID (enables the member breakdown for leaders)")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "scope to one author's documents")
	cmd.Flags().StringVar(&teamID, "team", "", "scope to one team's documents")
	cmd.Flags().IntVar(&periodDays, "period-days", 30, "trend comparison window in days")
	return cmd
}

func runMetrics(cmd *cobra.Command, configPath, actor, createdBy, teamID string, periodDays int) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	svc := newService(gormDB)
	now := time.Now()
	ctx := cmd.Context()

	views, err := svc.ListAll(ctx, lifecycle.Filters{CreatedByID: createdBy, TeamID: teamID}, now)
	if err != nil {
		return err
	}
	summary := metrics.Summarize(viewDocuments(views), now, time.Duration(periodDays)*24*time.Hour)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Documents:       %d (%d completed)\n", summary.TotalDocuments, summary.CompletedDocuments)
	fmt.Fprintf(out, "Completion rate: %.1f%%\n", summary.CompletionRate)
	fmt.Fprintf(out, "On-time rate:    %.1f%%\n", summary.OnTimeRate)
	fmt.Fprintf(out, "Overdue:         %d\n", summary.OverdueDocuments)
	fmt.Fprintf(out, "Avg processing:  %.1f day(s)\n", summary.AverageProcessingDays)
	fmt.Fprintf(out, "Volume trend:    %+.1f%% vs previous %d days\n", summary.DocumentsTrend, periodDays)

	if teamID == "" || actor == "" {
		return nil
	}
	leader, err := svc.IsTeamLeader(ctx, actor, teamID)
	if err != nil {
		return err
	}
	if !leader {
		return nil
	}

	members, err := svc.Members(ctx, teamID)
	if err != nil {
		return err
	}
	perMember := metrics.PerMember(members, viewDocuments(views), now)

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tROLE\tDOCS\tCOMPLETED\tON-TIME\tOVERDUE\tTREND")
	for _, m := range perMember {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\t%.1f%%\t%d\t%s\n",
			m.Name, m.Role, m.TotalDocuments, m.CompletionRate, m.OnTimeRate, m.OverdueDocuments, m.OnTimeTrend)
	}
	w.Flush()
	return nil
}
