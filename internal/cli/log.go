package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/store"
)

// LogEntry is one apply log record.
type LogEntry struct {
	Seq       int64  `json:"seq"`
	Issue     string `json:"issue"`
	Qualifier string `json:"qualifier"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
	AppliedAt string `json:"applied_at"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "log [owner/name#id]",
		Short: "Show the apply log",
		Long: `Show recorded apply attempts from --db, oldest first. With an issue
reference only that issue's attempts are shown.

Examples:
  issuefilter log
  issuefilter log acme/widgets#2 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runLog(rootOpts, ref, cmd)
		},
	}
}

func runLog(opts *RootOptions, ref string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var (
		repoID  string
		issueID int
	)
	if ref != "" {
		var err error
		if repoID, issueID, err = model.ParseRef(ref); err != nil {
			return f.Fail(ExitCommandError, err, nil)
		}
	}

	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	defer st.Close()

	records, err := st.ApplyLog(commandContext(cmd), repoID, issueID)
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}

	entries := make([]LogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, logEntry(rec))
	}
	return f.Success(entries, formatLog(entries))
}

func logEntry(rec store.ApplyRecord) LogEntry {
	return LogEntry{
		Seq:       rec.Seq,
		Issue:     model.FormatRef(rec.RepoID, rec.IssueID),
		Qualifier: rec.Qualifier,
		Outcome:   rec.Outcome,
		Reason:    rec.Reason,
		AppliedAt: rec.AppliedAt,
	}
}

func formatLog(entries []LogEntry) string {
	if len(entries) == 0 {
		return "No apply attempts recorded."
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%4d  %s  %-20s %-16s %s", e.Seq, e.AppliedAt, e.Issue, e.Outcome, e.Qualifier)
	}
	return b.String()
}
