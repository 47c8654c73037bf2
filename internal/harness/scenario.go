package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rdfq/internal/query"
)

// Scenario defines a query conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Data is N-Quads text loaded into the store before any query runs.
	Data string `yaml:"data"`

	// Queries run in order against the loaded store.
	Queries []QueryStep `yaml:"queries"`

	// Assertions validate the store after the queries.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// QueryStep is one query with its expected outcome.
type QueryStep struct {
	Name   string         `yaml:"name"`
	Query  query.FileSpec `yaml:"query"`
	Expect *ExpectClause  `yaml:"expect,omitempty"`
}

// ExpectClause specifies what a query must produce. Rows and Error are
// mutually exclusive.
type ExpectClause struct {
	// Rows are the expected rows in N-Quads term syntax.
	Rows [][]string `yaml:"rows,omitempty"`

	// Ordered makes row order significant.
	Ordered bool `yaml:"ordered,omitempty"`

	// Count, when set, is the expected number of rows.
	Count *int `yaml:"count,omitempty"`

	// Error is the expected error code.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the store after the queries ran.
type Assertion struct {
	// Type is one of store_size, contains, tree.
	Type string `yaml:"type"`

	// Statement is an N-Triples line (contains).
	Statement string `yaml:"statement,omitempty"`

	// Root is the IRI to extract from (tree).
	Root string `yaml:"root,omitempty"`

	// Level is the recursion depth (tree).
	Level int `yaml:"level,omitempty"`

	// Count is the expected number of statements (store_size, tree).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertStoreSize = "store_size"
	AssertContains  = "contains"
	AssertTree      = "tree"
)

// Error codes a query may be expected to fail with, beyond the bridge's.
const (
	ErrCodeInvalidQuery = "INVALID_QUERY"
	ErrCodeEvaluation   = "EVALUATION_ERROR"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
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
	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if names[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate name %q", i, q.Name)
		}
		names[q.Name] = true

		if e := q.Expect; e != nil && e.Error != "" && (len(e.Rows) > 0 || e.Count != nil) {
			return fmt.Errorf("queries[%d].expect: error excludes rows and count", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertStoreSize:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for store_size", index)
		}
	case AssertContains:
		if a.Statement == "" {
			return fmt.Errorf("assertions[%d]: statement is required for contains", index)
		}
	case AssertTree:
		if a.Root == "" {
			return fmt.Errorf("assertions[%d]: root is required for tree", index)
		}
		if a.Level < 0 {
			return fmt.Errorf("assertions[%d]: level must be non-negative for tree", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
