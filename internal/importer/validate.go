package importer

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	contractorRefs := make(map[string]bool)
	errs = append(errs, validateContractors(schema.Contractors, contractorRefs)...)

	packageRefs := make(map[string]bool)
	errs = append(errs, validatePackages(schema.Packages, contractorRefs, packageRefs)...)

	activityRefs := make(map[string]bool)
	errs = append(errs, validateActivities(schema.Activities, contractorRefs, packageRefs, activityRefs)...)

	errs = append(errs, validateDependencies(schema.Dependencies, activityRefs)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate == "" {
		errs = append(errs, fmt.Errorf("project.start_date is required"))
	} else if _, err := domain.ParseDate(p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("project.start_date: invalid date format %q (expected YYYY-MM-DD)", p.StartDate))
	}
	switch domain.ScheduleMode(p.ScheduleMode) {
	case "", domain.ScheduleAuto, domain.ScheduleManual:
	default:
		errs = append(errs, fmt.Errorf("project.schedule_mode: invalid value %q", p.ScheduleMode))
	}

	return errs
}

func validateRef(prefix, ref string, seen map[string]bool) []error {
	switch {
	case ref == "":
		return []error{fmt.Errorf("%s.ref is required", prefix)}
	case seen[ref]:
		return []error{fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)}
	default:
		seen[ref] = true
		return nil
	}
}

func validateContractors(items []ContractorImport, refs map[string]bool) []error {
	var errs []error
	for i, c := range items {
		prefix := fmt.Sprintf("contractors[%d]", i)
		errs = append(errs, validateRef(prefix, c.Ref, refs)...)
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
	}
	return errs
}

func validatePackages(items []PackageImport, contractorRefs, refs map[string]bool) []error {
	var errs []error
	for i, p := range items {
		prefix := fmt.Sprintf("packages[%d]", i)
		errs = append(errs, validateRef(prefix, p.Ref, refs)...)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.ContractorRef != "" && !contractorRefs[p.ContractorRef] {
			errs = append(errs, fmt.Errorf("%s.contractor_ref: ref %q not found in contractors", prefix, p.ContractorRef))
		}
	}
	return errs
}

func validateActivities(items []ActivityImport, contractorRefs, packageRefs, refs map[string]bool) []error {
	var errs []error
	for i, a := range items {
		prefix := fmt.Sprintf("activities[%d]", i)
		errs = append(errs, validateRef(prefix, a.Ref, refs)...)
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if a.PackageRef != "" && !packageRefs[a.PackageRef] {
			errs = append(errs, fmt.Errorf("%s.package_ref: ref %q not found in packages", prefix, a.PackageRef))
		}
		if a.ContractorRef != "" && !contractorRefs[a.ContractorRef] {
			errs = append(errs, fmt.Errorf("%s.contractor_ref: ref %q not found in contractors", prefix, a.ContractorRef))
		}

		start, startErrs := validateOptionalDate(prefix+".start_date", a.StartDate)
		end, endErrs := validateOptionalDate(prefix+".end_date", a.EndDate)
		errs = append(errs, startErrs...)
		errs = append(errs, endErrs...)

		if a.Duration != nil && *a.Duration < 0 {
			errs = append(errs, fmt.Errorf("%s.duration must not be negative", prefix))
		}
		if start != nil && end != nil {
			if end.Before(*start) {
				errs = append(errs, fmt.Errorf("%s: end_date %q is before start_date %q", prefix, *a.EndDate, *a.StartDate))
			} else if a.Duration != nil && !start.AddDate(0, 0, *a.Duration).Equal(*end) {
				errs = append(errs, fmt.Errorf("%s: duration %d does not match start_date %q and end_date %q",
					prefix, *a.Duration, *a.StartDate, *a.EndDate))
			}
		}
	}
	return errs
}

func validateDependencies(deps []DependencyImport, activityRefs map[string]bool) []error {
	var errs []error
	seen := make(map[DependencyImport]bool)
	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.From == "" {
			errs = append(errs, fmt.Errorf("%s.from is required", prefix))
		} else if !activityRefs[d.From] {
			errs = append(errs, fmt.Errorf("%s.from: ref %q not found in activities", prefix, d.From))
		}
		if d.To == "" {
			errs = append(errs, fmt.Errorf("%s.to is required", prefix))
		} else if !activityRefs[d.To] {
			errs = append(errs, fmt.Errorf("%s.to: ref %q not found in activities", prefix, d.To))
		}
		if d.From != "" && d.From == d.To {
			errs = append(errs, fmt.Errorf("%s: activity %q cannot depend on itself", prefix, d.From))
		}
		if d.Type != "" {
			if _, err := domain.ParseDependencyType(d.Type); err != nil {
				errs = append(errs, fmt.Errorf("%s.type: invalid value %q (want FS, SS, FF or SF)", prefix, d.Type))
			}
		}

		key := DependencyImport{From: d.From, To: d.To, Type: dependencyTypeOrDefault(d.Type)}
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate %s dependency %q -> %q", prefix, key.Type, d.From, d.To))
		}
		seen[key] = true
	}
	return errs
}

func dependencyTypeOrDefault(t string) string {
	if t == "" {
		return string(domain.FinishToStart)
	}
	return t
}
