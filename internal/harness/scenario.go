package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios validate filter semantics by running requests against fixture
// tables and asserting on the selected records.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is the model descriptor file or directory (schema.Load).
	// Relative paths are resolved against the scenario file's directory.
	Models string `yaml:"models"`

	// Tables holds the fixture rows, keyed by table name.
	Tables map[string][]map[string]any `yaml:"tables"`

	// Cases are the requests to run, in order.
	Cases []Case `yaml:"cases"`
}

// Case is one request and its expected outcome.
type Case struct {
	// Name identifies the case within its scenario.
	Name string `yaml:"name"`

	// Request is the filter request to run.
	Request RequestSpec `yaml:"request"`

	// Expect specifies the expected outcome.
	// If nil, only backend agreement is checked.
	Expect *Expect `yaml:"expect,omitempty"`
}

// RequestSpec mirrors engine.Request in YAML.
type RequestSpec struct {
	Model        string     `yaml:"model"`
	Filter       string     `yaml:"filter,omitempty"`
	Pairs        []PairSpec `yaml:"pairs,omitempty"`
	Search       string     `yaml:"search,omitempty"`
	SearchFields []string   `yaml:"search_fields,omitempty"`
	Strict       bool       `yaml:"strict,omitempty"`
}

// PairSpec is one Form A entry.
type PairSpec struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// Expect specifies expected case behavior. Omitted fields are not checked.
type Expect struct {
	// IDs are the expected record ids, in order.
	IDs []any `yaml:"ids,omitempty"`

	// ValidationErrors are the expected validation error codes, in order.
	ValidationErrors []string `yaml:"validation_errors,omitempty"`

	// DroppedClauses are the fields of clauses the whitelist removed.
	DroppedClauses []string `yaml:"dropped_clauses,omitempty"`

	// DroppedFields are the search fields the whitelist removed.
	DroppedFields []string `yaml:"dropped_fields,omitempty"`

	// Error is the expected engine error code (e.g. "INVALID_FILTER").
	// When set, the request must fail and IDs are not checked.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative Models path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the models path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Models != "" && !filepath.IsAbs(scenario.Models) && basePath != "" {
		scenario.Models = filepath.Join(basePath, scenario.Models)
	}
	if _, err := os.Stat(scenario.Models); os.IsNotExist(err) {
		return nil, fmt.Errorf("invalid scenario: models not found: %s", scenario.Models)
	}

	return scenario, nil
}

// ParseScenario decodes and validates a scenario. The models path is not
// resolved or checked.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Models == "" {
		return fmt.Errorf("models is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for table, rows := range s.Tables {
		for i, row := range rows {
			if _, ok := row["id"]; !ok {
				return fmt.Errorf("tables.%s[%d]: id is required", table, i)
			}
		}
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Request.Model == "" {
			return fmt.Errorf("cases[%d]: request.model is required", i)
		}
		for j, p := range c.Request.Pairs {
			if p.Key == "" {
				return fmt.Errorf("cases[%d].request.pairs[%d]: key is required", i, j)
			}
		}
		if c.Expect != nil && c.Expect.Error != "" && len(c.Expect.IDs) > 0 {
			return fmt.Errorf("cases[%d].expect: ids and error are mutually exclusive", i)
		}
	}

	return nil
}
