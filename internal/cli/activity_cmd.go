package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Manage activities",
	}
	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityShowCmd(app),
		newActivityEditCmd(app),
		newActivityRemoveCmd(app),
	)
	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var project, name, comments string
	var duration int
	var contractorID, packageID int64
	start, end := &dateValue{}, &dateValue{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an activity; any two of --start, --end and --duration derive the third",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := openProject(ctx, app, project)
			if err != nil {
				return err
			}
			a := domain.Activity{
				Name:      strings.TrimSpace(name),
				StartDate: start.t,
				EndDate:   end.t,
				Comments:  comments,
			}
			if cmd.Flags().Changed("duration") {
				a.Duration = &duration
			}
			if cmd.Flags().Changed("contractor") {
				a.ContractorID = &contractorID
			}
			if cmd.Flags().Changed("package") {
				a.PackageID = &packageID
			}
			created, err := ws.AddActivity(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActivity(created))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project ID")
	cmd.Flags().StringVar(&name, "name", "", "Activity name")
	cmd.Flags().Var(start, "start", "Start date")
	cmd.Flags().Var(end, "end", "End date")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in days")
	cmd.Flags().Int64Var(&contractorID, "contractor", 0, "Contractor id")
	cmd.Flags().Int64Var(&packageID, "package", 0, "Work package id")
	cmd.Flags().StringVar(&comments, "comments", "", "Free-text comments")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openProject(cmd.Context(), app, project)
			if err != nil {
				return err
			}
			acts := ws.Activities()
			if len(acts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activities.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActivityList(acts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newActivityShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an activity with its predecessors and successors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("activity", args[0])
			if err != nil {
				return err
			}
			ws, err := openActivityProject(ctx, app, id)
			if err != nil {
				return err
			}
			a, err := ws.Activity(id)
			if err != nil {
				return err
			}
			names := formatter.ActivityNames(ws.Activities())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatActivity(a))
			for _, dir := range []domain.Direction{domain.DirectionPredecessors, domain.DirectionSuccessors} {
				deps := ws.DependenciesFor(id, dir)
				if len(deps) == 0 {
					continue
				}
				fmt.Fprintln(out, "\n"+formatter.Header(dir.String()))
				fmt.Fprintln(out, formatter.FormatDependencyList(deps, names))
			}
			return nil
		},
	}
}

func newActivityEditCmd(app *App) *cobra.Command {
	var name, comments string

	cmd := &cobra.Command{
		Use:   "edit ID [FIELD=VALUE...]",
		Short: "Edit an activity; date edits apply in order and recompute the sibling field",
		Long: `Edit an activity. Each FIELD=VALUE pair is one edit, applied left to right:

  start_date=2025-03-10   keeps the duration and moves the end date
  end_date=2025-03-14     keeps the start date and recomputes the duration
  duration=5              keeps the start date and moves the end date

An empty VALUE clears the field.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("activity", args[0])
			if err != nil {
				return err
			}
			edits, err := parseEdits(args[1:])
			if err != nil {
				return err
			}
			renamed := cmd.Flags().Changed("name") || cmd.Flags().Changed("comments")
			if len(edits) == 0 && !renamed {
				return fmt.Errorf("nothing to change: %w", domain.ErrValidation)
			}

			ws, err := openActivityProject(ctx, app, id)
			if err != nil {
				return err
			}
			a, err := ws.Activity(id)
			if err != nil {
				return err
			}
			if len(edits) > 0 {
				if a, err = ws.EditActivity(ctx, id, edits...); err != nil {
					return err
				}
			}
			if renamed {
				if cmd.Flags().Changed("name") {
					a.Name = name
				}
				if cmd.Flags().Changed("comments") {
					a.Comments = comments
				}
				if a, err = ws.UpdateActivity(ctx, a); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActivity(a))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&comments, "comments", "", "New comments")
	return cmd
}

func parseEdits(pairs []string) ([]schedule.Edit, error) {
	edits := make([]schedule.Edit, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("edit %q is not FIELD=VALUE: %w", pair, domain.ErrValidation)
		}
		field, err := schedule.ParseField(key)
		if err != nil {
			return nil, err
		}
		e, err := schedule.ParseEdit(field, value)
		if err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	return edits, nil
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an activity and every dependency touching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("activity", args[0])
			if err != nil {
				return err
			}
			ws, err := openActivityProject(ctx, app, id)
			if err != nil {
				return err
			}
			a, err := ws.Activity(id)
			if err != nil {
				return err
			}
			touching := len(ws.DependenciesFor(id, domain.DirectionPredecessors)) + len(ws.DependenciesFor(id, domain.DirectionSuccessors))
			ok, err := confirmed(cmd.OutOrStdout(), app, yes,
				fmt.Sprintf("Remove activity #%d %s?", id, a.Name),
				fmt.Sprintf("%d dependencies touching it are removed too.", touching))
			if !ok {
				return err
			}
			removed, err := ws.DeleteActivity(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed activity #%d and %d dependencies\n", id, len(removed))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
