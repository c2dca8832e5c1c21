// Package api exposes the dependency and scheduling engine over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/engine"
	"github.com/alexanderramin/siteplan/internal/service"
)

// Services are the lookups the handler needs to route id-only requests to
// the owning project's workspace.
type Services struct {
	Projects     service.ProjectService
	Activities   service.ActivityService
	Dependencies service.DependencyService
	DailyLogs    service.DailyLogService
}

// Handler serves project views through engine workspaces so every mutation
// is validated and reflected in the graph the same way the CLI sees it.
type Handler struct {
	controller *engine.Controller
	svc        Services
	logger     *slog.Logger
}

// NewHandler builds a Handler. A nil logger discards output.
func NewHandler(controller *engine.Controller, svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{controller: controller, svc: svc, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/projects/{id}/activities", h.listActivities)
	mux.HandleFunc("GET /api/projects/{id}/dependencies", h.listDependencies)
	mux.HandleFunc("GET /api/projects/{id}/graph", h.graph)
	mux.HandleFunc("POST /api/projects/{id}/auto-schedule", h.autoSchedule)
	mux.HandleFunc("POST /api/projects/{id}/manual-schedule", h.manualSchedule)

	mux.HandleFunc("POST /api/activities", h.createActivity)
	mux.HandleFunc("PUT /api/activities/{id}", h.updateActivity)
	mux.HandleFunc("DELETE /api/activities/{id}", h.deleteActivity)
	mux.HandleFunc("GET /api/activities/{id}/daily-logs", h.listDailyLogs)
	mux.HandleFunc("POST /api/activities/{id}/daily-logs", h.addDailyLog)

	mux.HandleFunc("POST /api/dependencies", h.createDependency)
	mux.HandleFunc("PUT /api/dependencies/{id}", h.updateDependency)
	mux.HandleFunc("DELETE /api/dependencies/{id}", h.deleteDependency)

	mux.HandleFunc("GET /healthz", healthz)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// workspace resolves a project id or short id and opens its workspace.
func (h *Handler) workspace(ctx context.Context, ref string) (*engine.Workspace, error) {
	p, err := h.svc.Projects.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return h.controller.Open(ctx, p.ID)
}

func (h *Handler) activityWorkspace(ctx context.Context, id int64) (*engine.Workspace, error) {
	a, err := h.svc.Activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return h.controller.Open(ctx, a.ProjectID)
}

func (h *Handler) dependencyWorkspace(ctx context.Context, id int64) (*engine.Workspace, error) {
	d, err := h.svc.Dependencies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return h.controller.Open(ctx, d.ProjectID)
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, domain.ErrValidation)
	}
	return id, nil
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityViews(ws.Activities()))
}

func (h *Handler) listDependencies(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDependencyViews(ws.Dependencies()))
}

func (h *Handler) graph(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	g := ws.Graph()
	if detailed, _ := strconv.ParseBool(r.URL.Query().Get("relations")); detailed {
		g = ws.DetailedGraph()
	}
	writeJSON(w, http.StatusOK, toGraphView(ws.ProjectID(), g))
}

func (h *Handler) autoSchedule(w http.ResponseWriter, r *http.Request) {
	h.runSchedule(w, r, domain.ScheduleAuto, h.controller.RequestAutoSchedule)
}

func (h *Handler) manualSchedule(w http.ResponseWriter, r *http.Request) {
	h.runSchedule(w, r, domain.ScheduleManual, h.controller.RequestManualSchedule)
}

func (h *Handler) runSchedule(w http.ResponseWriter, r *http.Request, mode domain.ScheduleMode, request func(context.Context, string) error) {
	ws, err := h.workspace(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := request(r.Context(), ws.ProjectID()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{
		ProjectID:    ws.ProjectID(),
		Mode:         string(mode),
		Activities:   toActivityViews(ws.Activities()),
		Dependencies: toDependencyViews(ws.Dependencies()),
	})
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := req.toActivity()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.workspace(r.Context(), req.ProjectID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := ws.AddActivity(r.Context(), a)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityView(created))
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req UpdateActivityRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	edits, err := req.edits()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.activityWorkspace(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cur, err := ws.Activity(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(edits) > 0 {
		if cur, err = ws.EditActivity(r.Context(), id, edits...); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if req.Name != nil || req.Comments != nil {
		if req.Name != nil {
			cur.Name = *req.Name
		}
		if req.Comments != nil {
			cur.Comments = *req.Comments
		}
		if cur, err = ws.UpdateActivity(r.Context(), cur); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toActivityView(cur))
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.activityWorkspace(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	removed, err := ws.DeleteActivity(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if removed == nil {
		removed = []int64{}
	}
	writeJSON(w, http.StatusOK, DeleteActivityResponse{ID: id, RemovedDependencies: removed})
}

func (h *Handler) createDependency(w http.ResponseWriter, r *http.Request) {
	var req CreateDependencyRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	depType := domain.FinishToStart
	if req.Type != "" {
		var err error
		if depType, err = domain.ParseDependencyType(req.Type); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	projectRef := req.ProjectID
	if projectRef == "" {
		// The successor's project owns the edge.
		a, err := h.svc.Activities.GetByID(r.Context(), req.ToID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		projectRef = a.ProjectID
	}
	ws, err := h.workspace(r.Context(), projectRef)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := ws.AddDependency(r.Context(), req.FromID, req.ToID, depType, req.Lag)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDependencyView(created))
}

func (h *Handler) updateDependency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req UpdateDependencyRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.dependencyWorkspace(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := ws.UpdateDependency(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDependencyView(saved))
}

func (h *Handler) deleteDependency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.dependencyWorkspace(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := ws.RemoveDependency(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listDailyLogs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.svc.Activities.GetByID(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	logs, err := h.svc.DailyLogs.ListByActivity(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]DailyLogView, 0, len(logs))
	for _, l := range logs {
		out = append(out, toDailyLogView(*l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addDailyLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req DailyLogRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	l := &domain.DailyLog{
		ActivityID:  id,
		Date:        date,
		ProgressPct: req.ProgressPct,
		Workers:     req.Workers,
		Note:        req.Note,
	}
	if err := h.svc.DailyLogs.Log(r.Context(), l); err != nil {
		h.fail(w, r, err)
		return
	}
	// Progress changed behind the workspace; refresh an open view.
	if a, err := h.svc.Activities.GetByID(r.Context(), id); err == nil {
		if ws, ok := h.controller.Workspace(a.ProjectID); ok {
			if err := ws.Reload(r.Context()); err != nil {
				h.logger.WarnContext(r.Context(), "workspace reload failed", "project_id", a.ProjectID, "error", err)
			}
		}
	}
	writeJSON(w, http.StatusCreated, toDailyLogView(*l))
}

