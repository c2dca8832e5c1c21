package cli

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newGraphCmd(app *App) *cobra.Command {
	var relations bool

	cmd := &cobra.Command{
		Use:   "graph PROJECT",
		Short: "Show the dependency graph and anything left out of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openProject(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			g := ws.Graph()
			if relations {
				g = ws.DetailedGraph()
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGraph(g))
			return nil
		},
	}
	cmd.Flags().BoolVar(&relations, "relations", false, "Show type and lag of each predecessor link")
	return cmd
}
