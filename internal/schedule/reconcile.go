package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Field names one member of the start/end/duration triple.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
	FieldDuration
)

func (f Field) String() string {
	switch f {
	case FieldStart:
		return "start_date"
	case FieldEnd:
		return "end_date"
	case FieldDuration:
		return "duration"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField accepts the wire names used by forms and the API.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start_date", "start":
		return FieldStart, nil
	case "end_date", "end":
		return FieldEnd, nil
	case "duration", "days":
		return FieldDuration, nil
	default:
		return 0, fmt.Errorf("unknown field %q (want start_date, end_date or duration): %w", s, domain.ErrValidation)
	}
}

// Triple is an activity's possibly partial start/end/duration state.
type Triple struct {
	Start    *time.Time
	End      *time.Time
	Duration *int
}

// Edit is a single-field change. Date carries start/end values, Days the
// duration; a nil value clears the field.
type Edit struct {
	Field Field
	Date  *time.Time
	Days  *int
}

// StartEdit, EndEdit and DurationEdit build edits for the given field.
func StartEdit(t time.Time) Edit { return Edit{Field: FieldStart, Date: &t} }
func EndEdit(t time.Time) Edit   { return Edit{Field: FieldEnd, Date: &t} }
func DurationEdit(d int) Edit    { return Edit{Field: FieldDuration, Days: &d} }

// ParseEdit turns raw form text into an Edit. An empty value clears the field.
func ParseEdit(field Field, raw string) (Edit, error) {
	raw = strings.TrimSpace(raw)
	e := Edit{Field: field}
	if raw == "" {
		return e, nil
	}
	switch field {
	case FieldStart, FieldEnd:
		t, err := domain.ParseDate(raw)
		if err != nil {
			return e, fmt.Errorf("%s: %w", field, err)
		}
		e.Date = &t
	case FieldDuration:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return e, fmt.Errorf("duration %q is not a whole number of days: %w", raw, domain.ErrValidation)
		}
		e.Days = &n
	default:
		return e, fmt.Errorf("unknown field %v: %w", field, domain.ErrValidation)
	}
	return e, nil
}

// CalculateEndDate returns start + days calendar days.
func CalculateEndDate(start time.Time, days int) time.Time {
	return domain.NormalizeDate(start).AddDate(0, 0, days)
}

// CalculateDuration returns the day difference end - start rounded up.
// A same-day span is 0; end before start yields a negative duration.
func CalculateDuration(start, end time.Time) int {
	diff := domain.NormalizeDate(end).Sub(domain.NormalizeDate(start))
	return int(math.Ceil(diff.Hours() / 24))
}

// Reconcile applies e to cur and recomputes the sibling that was not edited.
// The edited field is never overwritten. When the sibling needed for a
// derivation is unknown, the triple stays partially populated.
func Reconcile(cur Triple, e Edit) Triple {
	out := Triple{Start: cur.Start, End: cur.End, Duration: cur.Duration}

	switch e.Field {
	case FieldStart:
		out.Start = domain.NormalizeDatePtr(e.Date)
		if out.Start != nil && cur.Duration != nil {
			end := CalculateEndDate(*out.Start, *cur.Duration)
			out.End = &end
		}
	case FieldEnd:
		out.End = domain.NormalizeDatePtr(e.Date)
		if out.End != nil && cur.Start != nil {
			d := CalculateDuration(*cur.Start, *out.End)
			out.Duration = &d
		}
	case FieldDuration:
		out.Duration = copyInt(e.Days)
		if out.Duration != nil && cur.Start != nil {
			end := CalculateEndDate(*cur.Start, *out.Duration)
			out.End = &end
		}
	}
	return out
}

// TripleOf extracts the triple from an activity.
func TripleOf(a *domain.Activity) Triple {
	return Triple{Start: a.StartDate, End: a.EndDate, Duration: a.Duration}
}

// ApplyTo writes the triple back onto an activity.
func (t Triple) ApplyTo(a *domain.Activity) {
	a.StartDate = t.Start
	a.EndDate = t.End
	a.Duration = t.Duration
}

// Complete derives whatever a fully specified creation form can: the third
// field from any two. Used when an activity arrives with two of three values.
func Complete(t Triple) Triple {
	switch {
	case t.Start != nil && t.Duration != nil && t.End == nil:
		return Reconcile(t, Edit{Field: FieldDuration, Days: t.Duration})
	case t.Start != nil && t.End != nil && t.Duration == nil:
		return Reconcile(t, Edit{Field: FieldEnd, Date: t.End})
	case t.End != nil && t.Duration != nil && t.Start == nil:
		start := t.End.AddDate(0, 0, -*t.Duration)
		return Triple{Start: &start, End: t.End, Duration: t.Duration}
	default:
		return t
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
