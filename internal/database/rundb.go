package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/darklink/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "darklink.db"

// ErrNilSummary is returned by SaveRun when given no run.
var ErrNilSummary = errors.New("database: nil run summary")

// RunDB provides SQLite-based storage for scan runs.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the run database in dbDir.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a scan first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	db, err := sql.Open("sqlite", dbPath+"?mode="+mode+"&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (r *RunDB) Path() string {
	return r.dbPath
}

// Close closes the database connection.
func (r *RunDB) Close() error {
	return r.db.Close()
}

func (r *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		dark_links INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS url_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		coverage TEXT NOT NULL,
		dark_link INTEGER NOT NULL,
		matched_rules TEXT,
		hidden_links TEXT,
		error TEXT,
		attempts TEXT,
		checked_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON url_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_url ON url_results(url);
	`

	_, err := r.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored header of one run.
type RunRecord struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	DarkLinks  int       `json:"dark_links"`
}

// URLRecord is one stored check of a URL.
type URLRecord struct {
	RunID  int64            `json:"run_id"`
	Result *model.URLResult `json:"result"`
}

// SaveRun stores the run and all its results in one transaction and sets
// summary.ID.
func (r *RunDB) SaveRun(ctx context.Context, summary *model.RunSummary) (int64, error) {
	if summary == nil {
		return 0, ErrNilSummary
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, finished_at, total, succeeded, failed, dark_links)
	VALUES (?, ?, ?, ?, ?, ?)`,
		formatTimestamp(summary.StartedAt),
		formatTimestamp(summary.FinishedAt),
		summary.Total,
		summary.Succeeded,
		summary.Failed,
		summary.DarkLinks,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO url_results
		(run_id, position, url, status, coverage, dark_link, matched_rules, hidden_links, error, attempts, checked_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, result := range summary.Results {
		if result == nil {
			continue
		}
		if err := insertResult(ctx, stmt, runID, i, result); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	summary.ID = runID
	return runID, nil
}

func insertResult(ctx context.Context, stmt *sql.Stmt, runID int64, position int, res *model.URLResult) error {
	rules, err := json.Marshal(res.MatchedRules)
	if err != nil {
		return fmt.Errorf("failed to serialize matched rules: %w", err)
	}
	links, err := json.Marshal(res.HiddenLinks)
	if err != nil {
		return fmt.Errorf("failed to serialize hidden links: %w", err)
	}
	attempts, err := json.Marshal(res.Attempts)
	if err != nil {
		return fmt.Errorf("failed to serialize attempts: %w", err)
	}

	_, err = stmt.ExecContext(ctx,
		runID,
		position,
		res.URL,
		string(res.Status),
		string(res.Coverage),
		res.DarkLink,
		string(rules),
		string(links),
		res.Error,
		string(attempts),
		formatTimestamp(res.CheckedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert result for %s: %w", res.URL, err)
	}
	return nil
}

// ListRuns returns the newest runs first. A limit <= 0 returns all runs.
func (r *RunDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, total, succeeded, failed, dark_links
	FROM runs
	ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run             RunRecord
			started, finish string
		)
		if err := rows.Scan(&run.ID, &started, &finish, &run.Total, &run.Succeeded, &run.Failed, &run.DarkLinks); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finish)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun loads a stored run with its results in input order. It returns
// nil without error when the run does not exist.
func (r *RunDB) GetRun(ctx context.Context, id int64) (*model.RunSummary, error) {
	var started, finished string
	summary := &model.RunSummary{ID: id}

	err := r.db.QueryRowContext(ctx, `
	SELECT started_at, finished_at, total, succeeded, failed, dark_links
	FROM runs WHERE id = ?`, id).Scan(
		&started, &finished, &summary.Total, &summary.Succeeded, &summary.Failed, &summary.DarkLinks,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	summary.StartedAt = parseTimestamp(started)
	summary.FinishedAt = parseTimestamp(finished)

	records, err := r.queryResults(ctx, `WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	summary.Results = make([]*model.URLResult, 0, len(records))
	for _, rec := range records {
		summary.Results = append(summary.Results, rec.Result)
	}
	return summary, nil
}

// URLHistory returns the stored checks of url, newest first. A limit <= 0
// returns all of them.
func (r *RunDB) URLHistory(ctx context.Context, url string, limit int) ([]URLRecord, error) {
	clause := `WHERE url = ? ORDER BY run_id DESC, position`
	args := []any{url}
	if limit > 0 {
		clause += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryResults(ctx, clause, args...)
}

func (r *RunDB) queryResults(ctx context.Context, clause string, args ...any) ([]URLRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT run_id, url, status, coverage, dark_link, matched_rules, hidden_links, error, attempts, checked_at
	FROM url_results `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var records []URLRecord
	for rows.Next() {
		var (
			rec                    URLRecord
			res                    model.URLResult
			status, coverage       string
			rules, links, attempts sql.NullString
			errText                sql.NullString
			checkedAt              string
		)
		if err := rows.Scan(&rec.RunID, &res.URL, &status, &coverage, &res.DarkLink,
			&rules, &links, &errText, &attempts, &checkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		res.Status = model.Status(status)
		res.Coverage = model.Coverage(coverage)
		res.Error = errText.String
		res.CheckedAt = parseTimestamp(checkedAt)
		if err := unmarshalColumn(rules, &res.MatchedRules); err != nil {
			return nil, fmt.Errorf("failed to parse matched rules: %w", err)
		}
		if err := unmarshalColumn(links, &res.HiddenLinks); err != nil {
			return nil, fmt.Errorf("failed to parse hidden links: %w", err)
		}
		if err := unmarshalColumn(attempts, &res.Attempts); err != nil {
			return nil, fmt.Errorf("failed to parse attempts: %w", err)
		}
		for _, a := range res.Attempts {
			if a.Succeeded() {
				res.Succeeded = append(res.Succeeded, a.Profile)
			}
		}

		rec.Result = &res
		records = append(records, rec)
	}
	return records, rows.Err()
}

// unmarshalColumn decodes a JSON column; NULL and "null" leave v untouched.
func unmarshalColumn(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" || col.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats are tried in order by parseTimestamp.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when s matches no known format.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
