package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/doctrail/internal/lifecycle"
	"github.com/zulandar/doctrail/internal/status"
)

func newDocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Document management commands",
	}

	cmd.AddCommand(newDocCreateCmd())
	cmd.AddCommand(newDocListCmd())
	cmd.AddCommand(newDocShowCmd())
	cmd.AddCommand(newDocStatusCmd())
	cmd.AddCommand(newDocPinCmd())
	return cmd
}

func newDocCreateCmd() *cobra.Command {
	var (
		configPath  string
		actor       string
		title       string
		description string
		docType     string
		flow        string
		start       string
		end         string
		teamID      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new document",
		Long:  "Creates a document with an auto-generated ID. Its initial status is derived from the tracking window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := parseTimeFlag(start)
			if err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			endAt, err := parseTimeFlag(end)
			if err != nil {
				return fmt.Errorf("parse --end: %w", err)
			}
			return runDocCreate(cmd, configPath, lifecycle.CreateOpts{
				Title:        title,
				Description:  description,
				Type:         docType,
				Flow:         flow,
				StartTrackAt: startAt,
				EndTrackAt:   endAt,
				CreatedByID:  actor,
				TeamID:       teamID,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "doctrail.yaml", "path to Doctrail config file")
	cmd.Flags().StringVar(&actor, "actor", "", "acting user ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "document title (required)")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().StringVar(&docType, "type", "report", "document type")
	cmd.Flags().StringVar(&flow, "flow", "internal", "document flow")
	cmd.Flags().StringVar(&start, "start", "", "tracking window start, YYYY-MM-DD or RFC3339 (required)")
	cmd.Flags().StringVar(&end, "end", "", "tracking window end, YYYY-MM-DD or RFC3339 (required)")
	cmd.Flags().StringVar(&teamID, "team", "", "owning team ID")
	cmd.MarkFlagRequired("actor")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func runDocCreate(cmd *cobra.Command, configPath string, opts lifecycle.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	v, err := newService(gormDB).Create(cmd.Context(), opts, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created document %s\n", v.ID)
	fmt.Fprintf(out, "Status: %s\n", v.Status)
	fmt.Fprintf(out, "Due:    %s\n", v.EndTrackAt.Format("2006-01-02"))
	return nil
}

func newDocListCmd() *cobra.Command {
	var (
		configPath string
		createdBy  string
		teamID     string
		docType    string
		flow       string
		rawStatus  string
		pinnedOnly bool
		sortKey    string
		desc       bool
		offset     int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Long:  "Lists documents with optional filters. Statuses are reconciled against the clock before display.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := lifecycle.Filters{
				CreatedByID: createdBy,
				TeamID:      teamID,
				Type:        docType,
				Flow:        flow,
			}
			if rawStatus != "" {
				s, err := status.Parse(rawStatus)
				if err != nil {
					return err
				}
				f.Status = s
			}
			if pinnedOnly {
				pinned := true
				f.Pinned = &pinned
			}
			srt := lifecycle.Sort{Key: lifecycle.SortKey(sortKey), Desc: desc}
			page := lifecycle.Page{Offset: offset, Limit: limit}
			return runDocList(cmd, configPath, f, srt, page)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "doctrail.yaml", "path to Doctrail config file")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "filter by author")
	cmd.Flags().StringVar(&teamID, "team", "", "filter by team")
	cmd.Flags().StringVar(&docType, "type", "", "filter by type")
	cmd.Flags().StringVar(&flow, "flow", "", "filter by flow")
	cmd.Flags().StringVar(&rawStatus, "status", "", "filter by status")
	cmd.Flags().BoolVar(&pinnedOnly, "pinned", false, "only pinned documents")
	cmd.Flags().StringVar(&sortKey, "sort", "created_at", "sort key (created_at, end_track_at, remaining_time)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.Flags().IntVar(&limit, "limit", lifecycle.DefaultPageSize, "page size")
	return cmd
}

func runDocList(cmd *cobra.Command, configPath string, f lifecycle.Filters, srt lifecycle.Sort, page lifecycle.Page) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	now := time.Now()
	res, err := newService(gormDB).List(cmd.Context(), f, srt, page, now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Items) == 0 {
		fmt.Fprintln(out, "No documents found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDUE\tREMAINING\tAUTHOR")
	for _, v := range res.Items {
		pin := ""
		if v.IsPinned {
			pin = "* "
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t%s\t%s\n",
			v.ID, pin, truncate(v.Title, 40), v.Status,
			v.EndTrackAt.Format("2006-01-02"),
			formatRemaining(v.Facts.RemainingTimeMs),
			v.CreatedByID)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d of %d document(s)\n", len(res.Items), res.Total)
	return nil
}

func newDocShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show document details",
		Long:  "Displays full details of a document including its reconciled status and derived facts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "doctrail.yaml", "path to Doctrail config file")
	return cmd
}

func runDocShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	v, err := newService(gormDB).Get(cmd.Context(), id, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", v.ID)
	fmt.Fprintf(out, "Title:       %s\n", v.Title)
	fmt.Fprintf(out, "Status:      %s\n", v.Status)
	fmt.Fprintf(out, "Type:        %s\n", v.Type)
	fmt.Fprintf(out, "Flow:        %s\n", v.Flow)
	fmt.Fprintf(out, "Author:      %s\n", v.CreatedByID)
	if v.TeamID != nil {
		fmt.Fprintf(out, "Team:        %s\n", *v.TeamID)
	}
	fmt.Fprintf(out, "Window:      %s to %s\n",
		v.StartTrackAt.Format("2006-01-02"), v.EndTrackAt.Format("2006-01-02"))
	fmt.Fprintf(out, "Remaining:   %s\n", formatRemaining(v.Facts.RemainingTimeMs))
	if v.Facts.IsOverdue {
		fmt.Fprintf(out, "Late by:     %d day(s)\n", v.Facts.DaysLate)
	}
	if v.CompletedAt != nil {
		onTime := "late"
		if v.Facts.IsOnTime {
			onTime = "on time"
		}
		fmt.Fprintf(out, "Completed:   %s (%s)\n", v.CompletedAt.Format("2006-01-02"), onTime)
	}
	if v.Facts.ProcessingTimeDays != nil {
		fmt.Fprintf(out, "Processing:  %d day(s)\n", *v.Facts.ProcessingTimeDays)
	}
	if v.ApprovedAt != nil {
		fmt.Fprintf(out, "Approved:    %s\n", v.ApprovedAt.Format("2006-01-02"))
	}
	if v.IsPinned {
		fmt.Fprintln(out, "Pinned:      yes")
	}
	if v.Description != "" {
		fmt.Fprintf(out, "\n%s\n", v.Description)
	}
	return nil
}

func newDocPinCmd() *cobra.Command {
	var (
		configPath string
		unpin      bool
	)

	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a document",
		Long:  "Pins a document so it can be surfaced first in listings. Pinning is independent of the lifecycle.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocPin(cmd, configPath, args[0], !unpin)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "doctrail.yaml", "path to Doctrail config file")
	cmd.Flags().BoolVar(&unpin, "unpin", false, "clear the pin instead")
	return cmd
}

func runDocPin(cmd *cobra.Command, configPath, id string, pinned bool) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	v, err := newService(gormDB).SetPinned(cmd.Context(), id, pinned, time.Now())
	if err != nil {
		return err
	}

	verb := "Pinned"
	if !pinned {
		verb = "Unpinned"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s document %s\n", verb, v.ID)
	return nil
}
