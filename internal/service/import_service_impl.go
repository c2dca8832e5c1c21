package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/importer"
	"github.com/alexanderramin/siteplan/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"short_id": schema.Project.ShortID}
	defer func() {
		observe(ctx, s.observer, "import-project", startedAt, fields, err)
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return persistPlan(ctx, tx, plan)
	})
	if err != nil {
		return nil, err
	}

	result = &ImportResult{
		Project:         plan.Project,
		ContractorCount: len(plan.Contractors),
		PackageCount:    len(plan.Packages),
		ActivityCount:   len(plan.Activities),
		DependencyCount: len(plan.Dependencies),
	}
	fields["activities"] = result.ActivityCount
	fields["dependencies"] = result.DependencyCount
	return result, nil
}

// persistPlan inserts in reference order and resolves refs to the ids the
// database assigns.
func persistPlan(ctx context.Context, tx db.DBTX, plan *importer.Plan) error {
	if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, plan.Project); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	contractorIDs := make(map[string]int64, len(plan.Contractors))
	contractors := repository.NewSQLiteContractorRepo(tx)
	for _, c := range plan.Contractors {
		if err := contractors.Create(ctx, c.Contractor); err != nil {
			return fmt.Errorf("creating contractor %q: %w", c.Contractor.Name, err)
		}
		contractorIDs[c.Ref] = c.Contractor.ID
	}

	packageIDs := make(map[string]int64, len(plan.Packages))
	packages := repository.NewSQLiteWorkPackageRepo(tx)
	for _, p := range plan.Packages {
		p.Package.ContractorID = refID(contractorIDs, p.ContractorRef)
		if err := packages.Create(ctx, p.Package); err != nil {
			return fmt.Errorf("creating package %q: %w", p.Package.Name, err)
		}
		packageIDs[p.Ref] = p.Package.ID
	}

	activityIDs := make(map[string]int64, len(plan.Activities))
	activities := repository.NewSQLiteActivityRepo(tx)
	for _, a := range plan.Activities {
		a.Activity.PackageID = refID(packageIDs, a.PackageRef)
		a.Activity.ContractorID = refID(contractorIDs, a.ContractorRef)
		if err := a.Activity.Validate(); err != nil {
			return err
		}
		if err := activities.Create(ctx, a.Activity); err != nil {
			return fmt.Errorf("creating activity %q: %w", a.Activity.Name, err)
		}
		activityIDs[a.Ref] = a.Activity.ID
	}

	deps := repository.NewSQLiteDependencyRepo(tx)
	for _, d := range plan.Dependencies {
		dep := &domain.Dependency{
			ProjectID: plan.Project.ID,
			FromID:    activityIDs[d.FromRef],
			ToID:      activityIDs[d.ToRef],
			Type:      d.Type,
			Lag:       d.Lag,
			CreatedAt: plan.Project.CreatedAt,
		}
		if err := deps.Create(ctx, dep); err != nil {
			return fmt.Errorf("creating dependency %s -> %s: %w", d.FromRef, d.ToRef, err)
		}
	}
	return nil
}

func refID(ids map[string]int64, ref string) *int64 {
	if ref == "" {
		return nil
	}
	id, ok := ids[ref]
	if !ok {
		return nil
	}
	return &id
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s: %w", msg, domain.ErrValidation)
}
