package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/chatad"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ chatad.RunService = (*RunService)(nil)

// RunService implements chatad.RunService using SQLite.
type RunService struct {
	db *DB

	// Now returns the current time; tests may override it.
	Now func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db, Now: time.Now}
}

const runColumns = "id, source, documents, pages, organized, skipped, uncategorized, enhanced, created_at"

// CreateRun stores a run, assigning its ID and CreatedAt.
func (s *RunService) CreateRun(ctx context.Context, run *chatad.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = s.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.Documents, run.Pages, run.Organized, run.Skipped,
		run.Uncategorized, run.Enhanced, formatTime(run.CreatedAt))

	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*chatad.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chatad.Errorf(chatad.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter chatad.RunFilter) ([]*chatad.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*chatad.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*chatad.Run, error) {
	var run chatad.Run
	var createdAt string

	if err := row.Scan(&run.ID, &run.Source, &run.Documents, &run.Pages, &run.Organized,
		&run.Skipped, &run.Uncategorized, &run.Enhanced, &createdAt); err != nil {
		return nil, err
	}

	var err error
	run.CreatedAt, err = parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &run, nil
}
