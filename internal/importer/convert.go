package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
	"github.com/google/uuid"
)

// Plan is a converted import ready for persistence. Database ids do not exist
// yet, so cross references stay as refs and are resolved while inserting.
type Plan struct {
	Project      *domain.Project
	Contractors  []PlannedContractor
	Packages     []PlannedPackage
	Activities   []PlannedActivity
	Dependencies []PlannedDependency
}

type PlannedContractor struct {
	Ref        string
	Contractor *domain.Contractor
}

type PlannedPackage struct {
	Ref           string
	ContractorRef string
	Package       *domain.WorkPackage
}

type PlannedActivity struct {
	Ref           string
	PackageRef    string
	ContractorRef string
	Activity      *domain.Activity
}

type PlannedDependency struct {
	FromRef string
	ToRef   string
	Type    domain.DependencyType
	Lag     int
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*Plan, error) {
	now := time.Now().UTC().Truncate(time.Second)

	startDate, err := domain.ParseDate(schema.Project.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	mode := domain.ScheduleMode(schema.Project.ScheduleMode)
	if mode == "" {
		mode = domain.ScheduleManual
	}

	project := &domain.Project{
		ID:           uuid.New().String(),
		ShortID:      strings.ToUpper(schema.Project.ShortID),
		Name:         schema.Project.Name,
		Location:     schema.Project.Location,
		StartDate:    startDate,
		Status:       domain.ProjectActive,
		ScheduleMode: mode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	plan := &Plan{Project: project}

	for _, c := range schema.Contractors {
		plan.Contractors = append(plan.Contractors, PlannedContractor{
			Ref: c.Ref,
			Contractor: &domain.Contractor{
				ProjectID: project.ID,
				Name:      c.Name,
				Trade:     c.Trade,
				Phone:     c.Phone,
				CreatedAt: now,
			},
		})
	}

	for _, p := range schema.Packages {
		plan.Packages = append(plan.Packages, PlannedPackage{
			Ref:           p.Ref,
			ContractorRef: p.ContractorRef,
			Package: &domain.WorkPackage{
				ProjectID: project.ID,
				Name:      p.Name,
				CreatedAt: now,
			},
		})
	}

	for _, a := range schema.Activities {
		triple := schedule.Complete(schedule.Triple{
			Start:    parseOptionalDate(a.StartDate),
			End:      parseOptionalDate(a.EndDate),
			Duration: a.Duration,
		})
		act := &domain.Activity{
			ProjectID: project.ID,
			Name:      a.Name,
			Status:    domain.ActivityPlanned,
			Comments:  a.Comments,
			CreatedAt: now,
			UpdatedAt: now,
		}
		triple.ApplyTo(act)
		act.SyncManualDates()
		plan.Activities = append(plan.Activities, PlannedActivity{
			Ref:           a.Ref,
			PackageRef:    a.PackageRef,
			ContractorRef: a.ContractorRef,
			Activity:      act,
		})
	}

	for _, d := range schema.Dependencies {
		t, err := domain.ParseDependencyType(dependencyTypeOrDefault(d.Type))
		if err != nil {
			return nil, err
		}
		plan.Dependencies = append(plan.Dependencies, PlannedDependency{
			FromRef: d.From,
			ToRef:   d.To,
			Type:    t,
			Lag:     d.Lag,
		})
	}

	return plan, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}

func validateOptionalDate(field string, s *string) (*time.Time, []error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil, []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return &t, nil
}
