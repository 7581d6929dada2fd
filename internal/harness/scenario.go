package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/issuefilter/internal/model"
)

// Scenario defines a conformance scenario: a catalog, a flow of parse, query
// and apply steps, and assertions on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path of the catalog file or CUE package to load.
	// Relative paths are resolved against the scenario file's directory.
	Catalog string `yaml:"catalog"`

	// Now is the RFC 3339 instant time-relative qualifiers are evaluated
	// against. Empty means 2024-03-15T12:00:00Z.
	Now string `yaml:"now,omitempty"`

	// Flow contains the steps, executed in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final catalog and apply log.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DefaultNow is the evaluation instant of scenarios that do not set one.
var DefaultNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// FlowStep is one step of the flow. Exactly one of Parse, Query and Apply is
// set; pointers distinguish an empty filter from an absent one.
type FlowStep struct {
	Parse *string `yaml:"parse,omitempty"`
	Query *string `yaml:"query,omitempty"`
	Apply *string `yaml:"apply,omitempty"`

	// Issue is the apply target, "owner/name#id".
	Issue string `yaml:"issue,omitempty"`

	// Expect is checked against the step's trace event. Nil checks nothing.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause lists the expected trace event fields. Only fields that are
// set are compared.
type ExpectClause struct {
	Canonical string `yaml:"canonical,omitempty"`

	// Matches is compared exactly when present; "matches: []" expects none.
	Matches []string `yaml:"matches,omitempty"`

	Outcome string `yaml:"outcome,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "issue_labels": the issue carries exactly Labels, in order
	// - "issue_open": the issue's open flag equals Open
	// - "issue_milestone": the issue's milestone title equals Value ("" for none)
	// - "issue_assignee": the issue's assignee login equals Value ("" for none)
	// - "apply_count": the apply log holds Count records (with Outcome, if set)
	Type string `yaml:"type"`

	// Issue is the issue the assertion reads, "owner/name#id".
	Issue string `yaml:"issue,omitempty"`

	Labels  []string `yaml:"labels,omitempty"`
	Open    *bool    `yaml:"open,omitempty"`
	Value   *string  `yaml:"value,omitempty"`
	Outcome string   `yaml:"outcome,omitempty"`
	Count   int      `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertIssueLabels    = "issue_labels"
	AssertIssueOpen      = "issue_open"
	AssertIssueMilestone = "issue_milestone"
	AssertIssueAssignee  = "issue_assignee"
	AssertApplyCount     = "apply_count"
)

// Kind returns the trace event type the step produces.
func (s FlowStep) Kind() string {
	switch {
	case s.Parse != nil:
		return EventParse
	case s.Query != nil:
		return EventQuery
	default:
		return EventApply
	}
}

// Input returns the step's filter text.
func (s FlowStep) Input() string {
	switch {
	case s.Parse != nil:
		return *s.Parse
	case s.Query != nil:
		return *s.Query
	case s.Apply != nil:
		return *s.Apply
	default:
		return ""
	}
}

// NowTime returns the scenario's evaluation instant.
func (s *Scenario) NowTime() (time.Time, error) {
	if s.Now == "" {
		return DefaultNow, nil
	}
	t, err := time.Parse(time.RFC3339, s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("now: %w", err)
	}
	return t.UTC(), nil
}

// LoadScenario reads and parses a scenario YAML file, resolving the catalog
// path against the file's directory.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}
	if _, err := os.Stat(scenario.Catalog); err != nil {
		return nil, fmt.Errorf("invalid scenario: catalog not found: %s", scenario.Catalog)
	}
	return scenario, nil
}

// ParseScenario decodes and validates a scenario. The catalog path is
// returned as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the scenario files (*.yaml, *.yml) directly inside
// dir, sorted by name.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if s.Catalog == "" {
		return errors.New("catalog is required")
	}
	if _, err := s.NowTime(); err != nil {
		return err
	}
	if len(s.Flow) == 0 {
		return errors.New("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *FlowStep) error {
	set := 0
	for _, p := range []*string{step.Parse, step.Query, step.Apply} {
		if p != nil {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("flow[%d]: exactly one of parse, query or apply is required", index)
	}

	if step.Apply != nil {
		if _, _, err := model.ParseRef(step.Issue); err != nil {
			return fmt.Errorf("flow[%d]: %w", index, err)
		}
	} else if step.Issue != "" {
		return fmt.Errorf("flow[%d]: issue is only valid for apply", index)
	}

	if e := step.Expect; e != nil {
		if e.Matches != nil && step.Query == nil {
			return fmt.Errorf("flow[%d].expect: matches is only valid for query", index)
		}
		if e.Outcome != "" && step.Apply == nil {
			return fmt.Errorf("flow[%d].expect: outcome is only valid for apply", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertIssueLabels, AssertIssueOpen, AssertIssueMilestone, AssertIssueAssignee:
		if _, _, err := model.ParseRef(a.Issue); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Type == AssertIssueOpen && a.Open == nil {
			return fmt.Errorf("assertions[%d]: open is required for issue_open", index)
		}
		if (a.Type == AssertIssueMilestone || a.Type == AssertIssueAssignee) && a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertApplyCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for apply_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
