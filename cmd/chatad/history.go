package main

import (
	"fmt"

	"github.com/fwojciec/chatad"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := chatad.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatad.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'chatad curate' to record one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  documents=%d organized=%d uncategorized=%d skipped=%d enhanced=%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source,
			r.Documents, r.Organized, r.Uncategorized, r.Skipped, r.Enhanced)
	}

	return nil
}
