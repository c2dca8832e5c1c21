package cli

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"dependency"},
		Short:   "Manage dependencies between activities",
	}
	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepUpdateCmd(app),
		newDepRemoveCmd(app),
	)
	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var lag int
	depType := newDepTypeValue(domain.FinishToStart)

	cmd := &cobra.Command{
		Use:   "add FROM TO",
		Short: "Make activity TO depend on activity FROM",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fromID, err := parseID("activity", args[0])
			if err != nil {
				return err
			}
			toID, err := parseID("activity", args[1])
			if err != nil {
				return err
			}
			// The successor's project owns the edge.
			ws, err := openActivityProject(ctx, app, toID)
			if err != nil {
				return err
			}
			d, err := ws.AddDependency(ctx, fromID, toID, depType.t, lag)
			if err != nil {
				return err
			}
			names := formatter.ActivityNames(ws.Activities())
			fmt.Fprintln(cmd.OutOrStdout(), "Added "+formatter.FormatDependency(d, names))
			return nil
		},
	}
	cmd.Flags().VarP(depType, "type", "t", "Relationship: FS, SS, FF or SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days; negative for a lead")
	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	var project, activity, direction string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's dependencies, or one activity's predecessors or successors",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var deps []domain.Dependency
			var names map[int64]string

			switch {
			case activity != "":
				id, err := parseID("activity", activity)
				if err != nil {
					return err
				}
				dir, err := domain.ParseDirection(direction)
				if err != nil {
					return err
				}
				ws, err := openActivityProject(ctx, app, id)
				if err != nil {
					return err
				}
				deps = ws.DependenciesFor(id, dir)
				names = formatter.ActivityNames(ws.Activities())
			case project != "":
				ws, err := openProject(ctx, app, project)
				if err != nil {
					return err
				}
				deps = ws.Dependencies()
				names = formatter.ActivityNames(ws.Activities())
			default:
				return fmt.Errorf("one of --project or --activity is required: %w", domain.ErrValidation)
			}

			if len(deps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No dependencies.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDependencyList(deps, names))
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project ID")
	cmd.Flags().StringVarP(&activity, "activity", "a", "", "Activity id")
	cmd.Flags().StringVar(&direction, "direction", "predecessors", "With --activity: predecessors or successors")
	return cmd
}

func newDepUpdateCmd(app *App) *cobra.Command {
	var lag int
	depType := newDepTypeValue(domain.FinishToStart)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a dependency's type or lag; endpoints are fixed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("dependency", args[0])
			if err != nil {
				return err
			}
			var patch domain.DependencyPatch
			if cmd.Flags().Changed("type") {
				patch.Type = &depType.t
			}
			if cmd.Flags().Changed("lag") {
				patch.Lag = &lag
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change (use --type or --lag): %w", domain.ErrValidation)
			}
			ws, err := openDependencyProject(ctx, app, id)
			if err != nil {
				return err
			}
			d, err := ws.UpdateDependency(ctx, id, patch)
			if err != nil {
				return err
			}
			names := formatter.ActivityNames(ws.Activities())
			fmt.Fprintln(cmd.OutOrStdout(), "Updated "+formatter.FormatDependency(d, names))
			return nil
		},
	}
	cmd.Flags().VarP(depType, "type", "t", "Relationship: FS, SS, FF or SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days; negative for a lead")
	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("dependency", args[0])
			if err != nil {
				return err
			}
			ws, err := openDependencyProject(ctx, app, id)
			if err != nil {
				return err
			}
			ok, err := confirmed(cmd.OutOrStdout(), app, yes, fmt.Sprintf("Remove dependency %d?", id), "")
			if !ok {
				return err
			}
			if err := ws.RemoveDependency(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
