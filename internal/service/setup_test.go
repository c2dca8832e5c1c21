package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	db          *sql.DB
	uow         db.UnitOfWork
	projects    ProjectService
	activities  ActivityService
	deps        DependencyService
	schedule    ScheduleService
	logs        DailyLogService
	contractors ContractorService
	packages    PackageService
	imports     ImportService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	contractorRepo := repository.NewSQLiteContractorRepo(database)
	return &testServices{
		db:          database,
		uow:         uow,
		projects:    NewProjectService(repository.NewSQLiteProjectRepo(database)),
		activities:  NewActivityService(repository.NewSQLiteActivityRepo(database), uow),
		deps:        NewDependencyService(repository.NewSQLiteDependencyRepo(database), uow),
		schedule:    NewScheduleService(uow),
		logs:        NewDailyLogService(repository.NewSQLiteDailyLogRepo(database), uow),
		contractors: NewContractorService(contractorRepo),
		packages:    NewPackageService(repository.NewSQLiteWorkPackageRepo(database), contractorRepo),
		imports:     NewImportService(uow),
	}
}

func (s *testServices) project(t *testing.T, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	require.NoError(t, s.projects.Create(context.Background(), p))
	return p
}

func (s *testServices) activity(t *testing.T, projectID, name string, opts ...testutil.ActivityOption) *domain.Activity {
	t.Helper()
	a := testutil.NewTestActivity(projectID, name, opts...)
	require.NoError(t, s.activities.Create(context.Background(), a))
	return a
}

func (s *testServices) dependency(t *testing.T, projectID string, from, to int64, typ domain.DependencyType, lag int) *domain.Dependency {
	t.Helper()
	d, err := s.deps.Add(context.Background(), projectID, from, to, typ, lag)
	require.NoError(t, err)
	return d
}
