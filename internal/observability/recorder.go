package observability

import (
	"context"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/engine"
	"github.com/alexanderramin/siteplan/internal/schedule"
	"github.com/alexanderramin/siteplan/internal/service"
)

var (
	_ engine.Recorder         = Recorder{}
	_ service.UseCaseObserver = Recorder{}
)

// Recorder feeds engine and service telemetry into the package collectors.
type Recorder struct{}

func (Recorder) ScheduleRun(mode domain.ScheduleMode, outcome string, elapsed time.Duration) {
	scheduleRunsCounter.WithLabelValues(string(mode), outcome).Inc()
	scheduleRunDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

func (Recorder) GraphBuilt(g *schedule.Graph) {
	if g == nil {
		return
	}
	graphNodesGauge.Set(float64(len(g.Nodes)))
	for _, w := range g.Warnings {
		graphWarningsCounter.WithLabelValues(string(w.Kind)).Inc()
	}
}

func (Recorder) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	useCaseDuration.WithLabelValues(event.Name, event.Outcome()).Observe(event.Duration.Seconds())
}
