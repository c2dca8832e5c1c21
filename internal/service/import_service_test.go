package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/importer"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const warehousePlan = `
project:
  short_id: WHS01
  name: Warehouse
  start_date: "2025-04-07"
contractors:
  - ref: steel
    name: Ironside Steel
    trade: structural
packages:
  - ref: frame
    name: Frame
    contractor_ref: steel
activities:
  - ref: pad
    name: Pad foundations
    start_date: "2025-04-07"
    duration: 5
  - ref: columns
    name: Columns
    duration: 3
    package_ref: frame
  - ref: roof
    name: Roof sheeting
    duration: 4
    contractor_ref: steel
dependencies:
  - from: pad
    to: columns
    lag: 1
  - from: columns
    to: roof
    type: SS
    lag: 2
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportService_ImportProject(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	res, err := s.imports.ImportProject(ctx, writePlan(t, warehousePlan))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ContractorCount)
	assert.Equal(t, 1, res.PackageCount)
	assert.Equal(t, 3, res.ActivityCount)
	assert.Equal(t, 2, res.DependencyCount)

	proj, err := s.projects.Resolve(ctx, "WHS01")
	require.NoError(t, err)
	assert.Equal(t, res.Project.ID, proj.ID)

	acts, err := s.activities.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, acts, 3)
	assert.Equal(t, testutil.Date("2025-04-12"), *acts[0].EndDate)
	require.NotNil(t, acts[1].PackageID)
	require.NotNil(t, acts[2].ContractorID)

	pkgs, err := s.packages.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, pkgs[0].ID, *acts[1].PackageID)
	assert.Equal(t, *pkgs[0].ContractorID, *acts[2].ContractorID)

	deps, err := s.deps.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, acts[0].ID, deps[0].FromID)
	assert.Equal(t, acts[1].ID, deps[0].ToID)
	assert.Equal(t, 1, deps[0].Lag)
	assert.Equal(t, domain.StartToStart, deps[1].Type)

	// The imported plan schedules end to end.
	_, err = s.schedule.RunAutoSchedule(ctx, proj.ID)
	require.NoError(t, err)
	roof, err := s.activities.GetByID(ctx, acts[2].ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Date("2025-04-15"), *roof.StartDate)
}

func TestImportService_ValidationErrorsAggregated(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	schema := &importer.ImportSchema{
		Project:      importer.ProjectImport{Name: "Broken", StartDate: "soon"},
		Activities:   []importer.ActivityImport{{Ref: "a", Name: "A"}},
		Dependencies: []importer.DependencyImport{{From: "a", To: "a"}},
	}
	_, err := s.imports.ImportProjectFromSchema(ctx, schema)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "(3 errors)")

	projects, err := s.projects.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestImportService_RollbackOnDependencyFailure(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	schema, err := importer.ParseImportSchema([]byte(warehousePlan))
	require.NoError(t, err)

	failUoW := &testutil.FailingExecUoW{DB: s.db, Match: "INSERT INTO dependencies", Nth: 1, Err: fmt.Errorf("injected dependency failure")}
	svc := NewImportService(failUoW)

	_, err = svc.ImportProjectFromSchema(ctx, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected dependency failure")

	projects, err := s.projects.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, projects, "whole import rolled back")
}
