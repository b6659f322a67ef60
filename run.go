package chatad

import (
	"context"
	"time"
)

// Run records the outcome of one curation run.
type Run struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Documents     int       `json:"documents"`
	Pages         int       `json:"pages"`
	Organized     int       `json:"organized"`
	Skipped       int       `json:"skipped"`
	Uncategorized int       `json:"uncategorized"`
	Enhanced      int       `json:"enhanced"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewRun summarises a catalog as a run record.
func NewRun(c *Catalog) *Run {
	return &Run{
		Source:        c.Metadata.Source,
		Documents:     c.Metadata.TotalDocuments,
		Pages:         c.Metadata.PagesCount,
		Organized:     c.Metadata.OrganizedDocuments,
		Skipped:       c.Metadata.SkippedDocuments,
		Uncategorized: c.Metadata.UncategorizedDocuments,
		Enhanced:      c.Metadata.EnhancedCount,
	}
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	if r.Documents < 0 || r.Pages < 0 {
		return Errorf(EINVALID, "run counts must not be negative")
	}
	return nil
}

// RunService records curation history.
type RunService interface {
	// CreateRun stores a run, assigning its ID and CreatedAt.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns returns runs newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Source *string `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
