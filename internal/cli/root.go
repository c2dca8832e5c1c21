package cli

import (
	"io"
	"log/slog"

	"github.com/alexanderramin/siteplan/internal/config"
	"github.com/alexanderramin/siteplan/internal/engine"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and engine the commands run against.
type App struct {
	Projects     service.ProjectService
	Activities   service.ActivityService
	Dependencies service.DependencyService
	Schedule     service.ScheduleService
	DailyLogs    service.DailyLogService
	Contractors  service.ContractorService
	Packages     service.PackageService
	Import       service.ImportService

	// Engine serves activity, dependency and schedule commands so they get
	// the same validation and graph view as the HTTP API.
	Engine *engine.Controller

	Config config.Config
	Logger *slog.Logger

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}

// NewRootCmd creates the top-level "siteplan" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "siteplan",
		Short:         "Construction schedule and activity dependency manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newActivityCmd(app),
		newDepCmd(app),
		newScheduleCmd(app),
		newGraphCmd(app),
		newLogCmd(app),
		newContractorCmd(app),
		newPackageCmd(app),
		newServeCmd(app),
	)
	return root
}
