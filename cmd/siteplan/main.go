package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/siteplan/internal/cli"
	"github.com/alexanderramin/siteplan/internal/config"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/engine"
	"github.com/alexanderramin/siteplan/internal/observability"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Use-case timings always feed metrics; logging them is opt-in.
	metrics := observability.Recorder{}
	observers := []service.UseCaseObserver{metrics}
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	projectRepo := repository.NewSQLiteProjectRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	logRepo := repository.NewSQLiteDailyLogRepo(database)
	contractorRepo := repository.NewSQLiteContractorRepo(database)
	packageRepo := repository.NewSQLiteWorkPackageRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Projects:     service.NewProjectService(projectRepo),
		Activities:   service.NewActivityService(activityRepo, uow, observers...),
		Dependencies: service.NewDependencyService(depRepo, uow, observers...),
		Schedule:     service.NewScheduleService(uow, observers...),
		DailyLogs:    service.NewDailyLogService(logRepo, uow),
		Contractors:  service.NewContractorService(contractorRepo),
		Packages:     service.NewPackageService(packageRepo, contractorRepo),
		Import:       service.NewImportService(uow, observers...),
		Config:       cfg,
		Logger:       logger,
	}
	app.Engine = engine.NewController(&service.Backend{
		Activities:   app.Activities,
		Dependencies: app.Dependencies,
		Schedule:     app.Schedule,
		Contractors:  app.Contractors,
		Packages:     app.Packages,
	}, engine.WithLogger(logger), engine.WithRecorder(metrics))

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
