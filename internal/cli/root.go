package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/catalog"
	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string // sqlite database for panels and the apply log
	Catalog string // catalog file or CUE package directory
	Now     string // RFC 3339 override for time-relative qualifiers

	clk *filter.Clock // parsed from Now by PersistentPreRunE
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultDB is the database used when --db is not given.
const DefaultDB = "issuefilter.db"

// NewRootCommand creates the root command for the issuefilter CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "issuefilter",
		Short: "Query and triage issues with a filter language",
		Long: `issuefilter parses filter expressions such as

  label:bug state:open updated:<24 -author:bot

evaluates them against a catalog of repositories and issues, and applies
single qualifiers to issues (label, milestone, assignee, state). Named
filters can be saved as panels.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			clk, err := parseNow(opts.Now)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --now", err)
			}
			opts.clk = clk
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", DefaultDB, "database for panels and the apply log")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "catalog file (.yaml, .yml, .cue), CUE package directory, or - for YAML on stdin")
	cmd.PersistentFlags().StringVar(&opts.Now, "now", "", "evaluate time-relative qualifiers at this RFC 3339 instant")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewPanelCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // keeps JSON on stdout clean
		Verbose:   o.Verbose,
	}
}

// logger returns a text logger on stderr, at Debug with --verbose and Warn
// otherwise so that normal output stays quiet.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return newLogger(cmd.ErrOrStderr(), o.Verbose)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseNow builds the clock for --now: pinned at an RFC 3339 instant, or the
// wall clock when now is empty.
func parseNow(now string) (*filter.Clock, error) {
	if now == "" {
		return filter.NewClock(), nil
	}
	t, err := time.Parse(time.RFC3339, now)
	if err != nil {
		return nil, err
	}
	return filter.FixedClock(t), nil
}

// clock returns the clock time-relative qualifiers read. Options that did
// not go through PersistentPreRunE read the wall clock.
func (o *RootOptions) clock() *filter.Clock {
	if o.clk == nil {
		return filter.NewClock()
	}
	return o.clk
}

// StdinCatalog is the --catalog value that reads a YAML catalog from stdin.
const StdinCatalog = "-"

// loadCatalog loads --catalog. Load and validation failures are command
// errors.
func (o *RootOptions) loadCatalog(cmd *cobra.Command) (*model.Catalog, error) {
	var (
		c   *model.Catalog
		err error
	)
	switch o.Catalog {
	case "":
		return nil, NewExitError(ExitCommandError, "--catalog is required")
	case StdinCatalog:
		c, err = catalog.DecodeYAML(cmd.InOrStdin())
	default:
		c, err = catalog.Load(o.Catalog)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	return c, nil
}

// openStore opens --db.
func (o *RootOptions) openStore() (*store.Store, error) {
	st, err := store.Open(o.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
