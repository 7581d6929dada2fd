package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/store"
)

// PanelOutput is the listing form of a saved panel.
type PanelOutput struct {
	Name      string `json:"name"`
	Filter    string `json:"filter"`
	Seq       int64  `json:"seq"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NewPanelCommand creates the panel command group.
func NewPanelCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Manage saved filters",
		Long: `Panels are named filters stored in --db. A filter is saved in its
canonical form; an invalid filter is refused.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name> <filter>",
		Short: "Save or replace a panel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanelSave(rootOpts, args[0], args[1], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List panels in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanelList(rootOpts, cmd)
		},
	})

	showOpts := &QueryOptions{RootOptions: rootOpts}
	var run bool
	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a panel, optionally running its filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanelShow(showOpts, args[0], run, cmd)
		},
	}
	show.Flags().BoolVar(&run, "run", false, "run the panel's filter against --catalog")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanelDelete(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runPanelSave(opts *RootOptions, name, filterText string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	defer st.Close()

	p, err := st.SavePanel(commandContext(cmd), name, filterText)
	if err != nil {
		// Invalid names and filters are rejected input, not command errors.
		return f.Fail(ExitFailure, err, nil)
	}
	return f.Success(panelOutput(p), fmt.Sprintf("Saved panel %q: %s", p.Name, p.Filter))
}

func runPanelList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	defer st.Close()

	panels, err := st.ListPanels(commandContext(cmd))
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}

	out := make([]PanelOutput, 0, len(panels))
	var b strings.Builder
	for i, p := range panels {
		out = append(out, panelOutput(p))
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-20s %s", p.Name, p.Filter)
	}
	if len(panels) == 0 {
		b.WriteString("No panels saved.")
	}
	return f.Success(out, b.String())
}

// panelShowResult is the JSON form of "panel show --run".
type panelShowResult struct {
	Panel  PanelOutput    `json:"panel"`
	Issues []IssueSummary `json:"issues"`
}

func runPanelShow(opts *QueryOptions, name string, run bool, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	p, err := st.GetPanel(commandContext(cmd), name)
	st.Close()
	if err != nil {
		return failPanelLookup(f, name, err)
	}

	text := fmt.Sprintf("%s: %s", p.Name, p.Filter)
	if !run {
		return f.Success(panelOutput(p), text)
	}

	// Run the filter through the query path, capturing its result.
	result, err := selectIssues(opts, p.Filter, cmd)
	if err != nil {
		return f.Fail(GetExitCode(err), err, nil)
	}
	return f.Success(
		panelShowResult{Panel: panelOutput(p), Issues: result.Issues},
		text+"\n"+formatIssues(result.Issues),
	)
}

func runPanelDelete(opts *RootOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	defer st.Close()

	if err := st.DeletePanel(commandContext(cmd), name); err != nil {
		return failPanelLookup(f, name, err)
	}
	return f.Success(map[string]string{"deleted": name}, fmt.Sprintf("Deleted panel %q", name))
}

func failPanelLookup(f *OutputFormatter, name string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		msg := fmt.Sprintf("panel %q not found", name)
		if outErr := f.Error(ErrCodeNotFound, msg, nil); outErr != nil {
			return outErr
		}
		return reportedExit(ExitFailure, msg, err)
	}
	return f.Fail(ExitCommandError, err, nil)
}

func panelOutput(p store.Panel) PanelOutput {
	return PanelOutput{
		Name:      p.Name,
		Filter:    p.Filter,
		Seq:       p.Seq,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
