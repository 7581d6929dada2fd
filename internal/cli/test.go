package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Golden string // golden file directory; empty disables comparison
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run scenario files against their catalogs, checking expect clauses and
final-state assertions. With --golden each trace is also compared against
<golden>/<scenario name>.golden; --update rewrites those files instead.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  issuefilter test ./testdata/scenarios
  issuefilter test ./testdata/scenarios --golden ./testdata/golden
  issuefilter test ./testdata/scenarios --golden ./testdata/golden --update
  issuefilter test ./testdata/scenarios --filter "label_*" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Golden, "golden", "", "golden file directory")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files (requires --golden)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if info, err := os.Stat(scenariosDir); err != nil || !info.IsDir() {
		return f.Fail(ExitCommandError, NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir)), nil)
	}
	if opts.Update && opts.Golden == "" {
		return f.Fail(ExitCommandError, NewExitError(ExitCommandError, "--update requires --golden"), nil)
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return f.Fail(ExitCommandError, WrapExitError(ExitCommandError, "failed to find scenarios", err), nil)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	logger := opts.logger(cmd)
	for _, file := range files {
		sr := runScenario(opts, file, harness.WithLogger(logger))
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !f.IsJSON() {
			printScenarioResult(cmd, sr)
		}
	}

	if f.IsJSON() {
		return outputTestJSON(f, result)
	}
	return outputTestText(cmd, result)
}

// findScenarioFiles lists the scenario files of dir whose base name matches
// filter.
func findScenarioFiles(dir, filter string) ([]string, error) {
	paths, err := harness.FindScenarios(dir)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return paths, nil
	}

	var matched []string
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		ok, err := filepath.Match(filter, name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if ok {
			matched = append(matched, path)
		}
	}
	return matched, nil
}

// runScenario executes a single scenario and returns the result.
func runScenario(opts *TestOptions, file string, runOpts ...harness.Option) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := harness.Run(scenario, runOpts...)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	sr := ScenarioResult{Name: scenario.Name, Pass: result.Pass, Errors: result.Errors}
	if opts.Golden == "" {
		return sr
	}

	snapshot, err := harness.MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return failScenario(sr, fmt.Sprintf("failed to marshal trace: %v", err))
	}
	goldenPath := filepath.Join(opts.Golden, scenario.Name+".golden")

	if opts.Update {
		if err := os.MkdirAll(opts.Golden, 0o755); err != nil {
			return failScenario(sr, fmt.Sprintf("failed to create golden directory: %v", err))
		}
		if err := os.WriteFile(goldenPath, snapshot, 0o644); err != nil {
			return failScenario(sr, fmt.Sprintf("failed to write golden file: %v", err))
		}
		return sr
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		// No golden file: assertions alone decide.
		return sr
	}
	if err != nil {
		return failScenario(sr, fmt.Sprintf("failed to read golden file: %v", err))
	}
	if !bytes.Equal(golden, snapshot) {
		return failScenario(sr, "trace does not match golden file (run with --update to regenerate)")
	}
	return sr
}

func failScenario(sr ScenarioResult, msg string) ScenarioResult {
	sr.Pass = false
	sr.Errors = append(sr.Errors, msg)
	return sr
}

func printScenarioResult(cmd *cobra.Command, sr ScenarioResult) {
	w := cmd.OutOrStdout()
	if sr.Pass {
		fmt.Fprintf(w, "✓ %s\n", sr.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(strings.TrimRight(e, "\n"), "\n", "\n  "))
	}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(f *OutputFormatter, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}
	if err := f.encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return reportedExit(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed), nil)
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return reportedExit(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed), nil)
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
