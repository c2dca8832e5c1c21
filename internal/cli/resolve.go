package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/engine"
)

// resolveProjectID accepts a short ID, a full UUID or an unambiguous UUID
// prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("project ID is required: %w", domain.ErrValidation)
	}
	p, err := app.Projects.Resolve(ctx, input)
	if err == nil {
		return p.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project %q: %w", input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches): %w", input, len(matches), domain.ErrValidation)
	}
}

// parseID reads a numeric activity or dependency id, with or without a
// leading '#'.
func parseID(kind, input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(input), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q: %w", kind, input, domain.ErrValidation)
	}
	return id, nil
}

// openProject resolves a project reference and opens its workspace.
func openProject(ctx context.Context, app *App, input string) (*engine.Workspace, error) {
	projectID, err := resolveProjectID(ctx, app, input)
	if err != nil {
		return nil, err
	}
	return app.Engine.Open(ctx, projectID)
}

// openActivityProject opens the workspace owning an activity.
func openActivityProject(ctx context.Context, app *App, activityID int64) (*engine.Workspace, error) {
	a, err := app.Activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return app.Engine.Open(ctx, a.ProjectID)
}

// openDependencyProject opens the workspace owning a dependency.
func openDependencyProject(ctx context.Context, app *App, depID int64) (*engine.Workspace, error) {
	d, err := app.Dependencies.GetByID(ctx, depID)
	if err != nil {
		return nil, err
	}
	return app.Engine.Open(ctx, d.ProjectID)
}
