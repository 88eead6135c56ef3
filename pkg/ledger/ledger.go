package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/grove-ai/grove/pkg/models"
)

// Period selects the reporting window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return Period(s), nil
	}
	return "", fmt.Errorf("invalid period %q (must be today, week, month, or all)", s)
}

// windowStart returns the inclusive lower bound of a period, in UTC.
func windowStart(p Period, now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	default: // all
		return time.Unix(0, 0).UTC()
	}
}

// Ledger records and reports per-request costs.
type Ledger interface {
	// Record appends one immutable request row.
	Record(ctx context.Context, rec models.RequestRecord) error
	// Report aggregates requests within the period, optionally filtered
	// to one tool name.
	Report(ctx context.Context, period Period, toolFilter string) (*models.Report, error)
	// TotalSince returns the summed cost of requests since a given time.
	TotalSince(ctx context.Context, since time.Time) (float64, error)
	// Close releases resources.
	Close() error
}

// SQLiteLedger implements Ledger with a SQLite database.
type SQLiteLedger struct {
	db *sql.DB
}

// timeLayout is the stored timestamp format, always UTC. It sorts
// lexicographically and is understood by SQLite's date functions.
const timeLayout = "2006-01-02 15:04:05"

const createTable = `
CREATE TABLE IF NOT EXISTS requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	tool_name TEXT NOT NULL,
	cost_usd REAL NOT NULL,
	input_tokens INTEGER,
	output_tokens INTEGER,
	file_path TEXT
);
CREATE INDEX IF NOT EXISTS idx_requests_tool_time ON requests(tool_name, created_at);
`

// New opens the ledger database and runs auto-migration.
func New(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger db: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// Record appends one request row. The insert timestamp is assigned here
// when the caller leaves CreatedAt zero; a request ID is stamped when empty.
func (l *SQLiteLedger) Record(ctx context.Context, rec models.RequestRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.RequestID == "" {
		rec.RequestID = uuid.NewString()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO requests (request_id, created_at, tool_name, cost_usd, input_tokens, output_tokens, file_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID, rec.CreatedAt.UTC().Format(timeLayout), rec.ToolName, rec.CostUSD, rec.InputTokens, rec.OutputTokens, rec.FilePath,
	)
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}
	return nil
}

// Report aggregates requests with created_at >= the period's window start,
// grouped by (calendar date, tool), newest date first. Cost figures are
// rounded to 4 decimal places.
func (l *SQLiteLedger) Report(ctx context.Context, period Period, toolFilter string) (*models.Report, error) {
	if _, err := ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	since := windowStart(period, time.Now())

	query := `SELECT date(created_at), tool_name, COUNT(*), SUM(cost_usd)
		 FROM requests WHERE created_at >= ?`
	args := []any{since.Format(timeLayout)}
	if toolFilter != "" {
		query += ` AND tool_name = ?`
		args = append(args, toolFilter)
	}
	query += ` GROUP BY date(created_at), tool_name ORDER BY date(created_at) DESC, tool_name`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}
	defer rows.Close()

	report := &models.Report{Breakdown: []models.ReportRow{}}
	var totalCost float64
	for rows.Next() {
		var r models.ReportRow
		if err := rows.Scan(&r.Date, &r.Tool, &r.Requests, &r.CostUSD); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		totalCost += r.CostUSD
		r.CostUSD = round4(r.CostUSD)
		report.TotalRequests += r.Requests
		report.Breakdown = append(report.Breakdown, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report rows: %w", err)
	}

	report.TotalCostUSD = round4(totalCost)
	return report, nil
}

// TotalSince returns the summed cost of all requests since a given time.
func (l *SQLiteLedger) TotalSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := l.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost_usd), 0) FROM requests WHERE created_at >= ?`,
		since.UTC().Format(timeLayout),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total cost: %w", err)
	}
	return total, nil
}

// Close releases the database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
