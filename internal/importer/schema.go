package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a plan file. JSON input is
// accepted as well since it parses as YAML.
type ImportSchema struct {
	Project      ProjectImport      `yaml:"project"`
	Contractors  []ContractorImport `yaml:"contractors,omitempty"`
	Packages     []PackageImport    `yaml:"packages,omitempty"`
	Activities   []ActivityImport   `yaml:"activities"`
	Dependencies []DependencyImport `yaml:"dependencies,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID      string `yaml:"short_id"`
	Name         string `yaml:"name"`
	Location     string `yaml:"location,omitempty"`
	StartDate    string `yaml:"start_date"`
	ScheduleMode string `yaml:"schedule_mode,omitempty"`
}

type ContractorImport struct {
	Ref   string `yaml:"ref"`
	Name  string `yaml:"name"`
	Trade string `yaml:"trade,omitempty"`
	Phone string `yaml:"phone,omitempty"`
}

type PackageImport struct {
	Ref           string `yaml:"ref"`
	Name          string `yaml:"name"`
	ContractorRef string `yaml:"contractor_ref,omitempty"`
}

// ActivityImport defines an activity. Any two of start_date, end_date and
// duration are enough; the third is derived.
type ActivityImport struct {
	Ref           string  `yaml:"ref"`
	Name          string  `yaml:"name"`
	StartDate     *string `yaml:"start_date,omitempty"`
	EndDate       *string `yaml:"end_date,omitempty"`
	Duration      *int    `yaml:"duration,omitempty"`
	PackageRef    string  `yaml:"package_ref,omitempty"`
	ContractorRef string  `yaml:"contractor_ref,omitempty"`
	Comments      string  `yaml:"comments,omitempty"`
}

// DependencyImport links two activity refs. Type defaults to FS.
type DependencyImport struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Type string `yaml:"type,omitempty"`
	Lag  int    `yaml:"lag,omitempty"`
}

// LoadImportSchema reads and parses a plan file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return ParseImportSchema(data)
}

// ParseImportSchema parses plan file contents.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &schema, nil
}
