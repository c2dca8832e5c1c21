package cli

import (
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*depTypeValue)(nil)
	_ pflag.Value = (*dateValue)(nil)
)

// depTypeValue is a --type flag accepting FS, SS, FF or SF in any case.
type depTypeValue struct {
	t domain.DependencyType
}

func newDepTypeValue(def domain.DependencyType) *depTypeValue {
	return &depTypeValue{t: def}
}

func (v *depTypeValue) String() string { return string(v.t) }

func (v *depTypeValue) Set(s string) error {
	t, err := domain.ParseDependencyType(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	v.t = t
	return nil
}

func (v *depTypeValue) Type() string { return "FS|SS|FF|SF" }

// dateValue is an optional YYYY-MM-DD flag; nil until set.
type dateValue struct {
	t *time.Time
}

func (v *dateValue) String() string { return domain.FormatDate(v.t) }

func (v *dateValue) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	v.t = &t
	return nil
}

func (v *dateValue) Type() string { return "YYYY-MM-DD" }
