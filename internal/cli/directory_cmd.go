package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/spf13/cobra"
)

func newContractorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contractor",
		Short: "Manage a project's contractors",
	}

	var project, name, trade, phone string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a contractor",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, project)
			if err != nil {
				return err
			}
			c := &domain.Contractor{ProjectID: projectID, Name: name, Trade: trade, Phone: phone, CreatedAt: time.Now().UTC()}
			if err := app.Contractors.Create(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added contractor #%d %s\n", c.ID, c.Name)
			return nil
		},
	}
	add.Flags().StringVarP(&project, "project", "p", "", "Project ID")
	add.Flags().StringVar(&name, "name", "", "Contractor name")
	add.Flags().StringVar(&trade, "trade", "", "Trade, e.g. electrical")
	add.Flags().StringVar(&phone, "phone", "", "Contact phone")
	_ = add.MarkFlagRequired("project")
	_ = add.MarkFlagRequired("name")

	var listProject string
	list := &cobra.Command{
		Use:   "list",
		Short: "List contractors",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, listProject)
			if err != nil {
				return err
			}
			cs, err := app.Contractors.ListByProject(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			if len(cs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No contractors.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatContractors(cs))
			return nil
		},
	}
	list.Flags().StringVarP(&listProject, "project", "p", "", "Project ID")
	_ = list.MarkFlagRequired("project")

	cmd.AddCommand(add, list)
	return cmd
}

func newPackageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Manage a project's work packages",
	}

	var project, name string
	var contractorID int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a work package",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), app, project)
			if err != nil {
				return err
			}
			p := &domain.WorkPackage{ProjectID: projectID, Name: name, CreatedAt: time.Now().UTC()}
			if cmd.Flags().Changed("contractor") {
				p.ContractorID = &contractorID
			}
			if err := app.Packages.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added package #%d %s\n", p.ID, p.Name)
			return nil
		},
	}
	add.Flags().StringVarP(&project, "project", "p", "", "Project ID")
	add.Flags().StringVar(&name, "name", "", "Package name")
	add.Flags().Int64Var(&contractorID, "contractor", 0, "Assigned contractor id")
	_ = add.MarkFlagRequired("project")
	_ = add.MarkFlagRequired("name")

	var listProject string
	list := &cobra.Command{
		Use:   "list",
		Short: "List work packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, listProject)
			if err != nil {
				return err
			}
			ps, err := app.Packages.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(ps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No work packages.")
				return nil
			}
			cs, err := app.Contractors.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPackages(ps, cs))
			return nil
		},
	}
	list.Flags().StringVarP(&listProject, "project", "p", "", "Project ID")
	_ = list.MarkFlagRequired("project")

	cmd.AddCommand(add, list)
	return cmd
}
