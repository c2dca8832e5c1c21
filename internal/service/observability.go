package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Use-case outcomes. Rejected means the caller's input was refused (bad
// dependency, unknown id, failed validation); nothing went wrong server side.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// UseCaseEvent is the telemetry for one service call.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// Outcome classifies the event as success, rejected or error.
func (e UseCaseEvent) Outcome() string {
	switch {
	case e.Success && e.Err == nil:
		return OutcomeSuccess
	case errors.Is(e.Err, domain.ErrValidation),
		errors.Is(e.Err, domain.ErrInvalidDependency),
		errors.Is(e.Err, domain.ErrNotFound):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// observe reports a call that began at startedAt. Services defer it with a
// named error return.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes text log lines to w.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	outcome := event.Outcome()
	attrs := []any{
		"use_case", event.Name,
		"outcome", outcome,
		"duration_ms", event.Duration.Milliseconds(),
	}
	// Sorted so the same call always logs the same line shape.
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, k, event.Fields[k])
	}

	switch outcome {
	case OutcomeSuccess:
		o.logger.InfoContext(ctx, "service_use_case", attrs...)
	case OutcomeRejected:
		o.logger.WarnContext(ctx, "service_use_case", append(attrs, "error", event.Err.Error())...)
	default:
		if event.Err != nil {
			attrs = append(attrs, "error", event.Err.Error())
		}
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
	}
}

// NewMultiUseCaseObserver fans events out to every non-nil observer.
func NewMultiUseCaseObserver(observers ...UseCaseObserver) UseCaseObserver {
	return useCaseObserverOrNoop(observers)
}

type multiUseCaseObserver []UseCaseObserver

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		obs.ObserveUseCase(ctx, event)
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}
