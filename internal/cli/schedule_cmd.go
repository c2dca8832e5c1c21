package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run or preview the project scheduler",
	}
	cmd.AddCommand(
		newScheduleRunCmd(app, "auto", "Place activities as early as their dependencies allow",
			func(ctx context.Context, id string) error { return app.Engine.RequestAutoSchedule(ctx, id) }),
		newScheduleRunCmd(app, "manual", "Restore every activity's user-fixed dates",
			func(ctx context.Context, id string) error { return app.Engine.RequestManualSchedule(ctx, id) }),
		newSchedulePreviewCmd(app),
	)
	return cmd
}

func newScheduleRunCmd(app *App, mode, short string, request func(context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   mode + " PROJECT",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := openProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := request(ctx, ws.ProjectID()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ran %s schedule for %s\n\n", mode, args[0])
			fmt.Fprintln(out, formatter.FormatActivityList(ws.Activities()))
			return nil
		},
	}
}

func newSchedulePreviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preview PROJECT",
		Short: "Show the auto schedule with float and critical path without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := openProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.Schedule.Preview(ctx, ws.ProjectID())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(plan, formatter.ActivityNames(ws.Activities())))
			return nil
		},
	}
}
