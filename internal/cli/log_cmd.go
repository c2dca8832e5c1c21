package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and list daily site reports",
	}
	cmd.AddCommand(newLogAddCmd(app), newLogListCmd(app))
	return cmd
}

func newLogAddCmd(app *App) *cobra.Command {
	var progress float64
	var workers int
	var note string
	date := &dateValue{}

	cmd := &cobra.Command{
		Use:   "add ACTIVITY",
		Short: "Log progress for an activity; its progress becomes the latest report's",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("activity", args[0])
			if err != nil {
				return err
			}
			l := &domain.DailyLog{
				ActivityID:  id,
				ProgressPct: progress,
				Workers:     workers,
				Note:        note,
			}
			if date.t != nil {
				l.Date = *date.t
			} else {
				l.Date = time.Now().UTC()
			}
			if err := app.DailyLogs.Log(ctx, l); err != nil {
				return err
			}
			a, err := app.Activities.GetByID(ctx, id)
			if err != nil {
				return err
			}
			// Progress and status moved underneath any open workspace.
			if ws, ok := app.Engine.Workspace(a.ProjectID); ok {
				if err := ws.Reload(ctx); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s for #%d %s: %s\n",
				l.Date.Format(domain.DateLayout), a.ID, a.Name, formatter.ActivityStatusPill(a.Status))
			return nil
		},
	}
	cmd.Flags().Var(date, "date", "Report date (default today)")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Percent complete, 0-100")
	cmd.Flags().IntVar(&workers, "workers", 0, "Workers on site")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	_ = cmd.MarkFlagRequired("progress")
	return cmd
}

func newLogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list ACTIVITY",
		Short: "List an activity's daily reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("activity", args[0])
			if err != nil {
				return err
			}
			logs, err := app.DailyLogs.ListByActivity(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No daily logs.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDailyLogs(logs))
			return nil
		},
	}
}
