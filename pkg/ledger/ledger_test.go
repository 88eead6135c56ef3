package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/grove-ai/grove/pkg/models"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	l, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func record(t *testing.T, l *SQLiteLedger, tool string, cost float64, at time.Time) {
	t.Helper()
	err := l.Record(context.Background(), models.RequestRecord{
		ToolName:     tool,
		CostUSD:      cost,
		InputTokens:  100,
		OutputTokens: 50,
		CreatedAt:    at,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()

	costs := map[string]float64{
		models.ToolGenerateCode: 0.0021,
		models.ToolEditCode:     0.0013,
		models.ToolReviewCode:   0.0044,
	}
	var sum float64
	for tool, cost := range costs {
		record(t, l, tool, cost, now)
		sum += cost
	}

	report, err := l.Report(context.Background(), PeriodAll, "")
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalRequests != 3 {
		t.Errorf("total requests = %d, want 3", report.TotalRequests)
	}
	if report.TotalCostUSD != 0.0078 {
		t.Errorf("total cost = %v, want 0.0078 (sum %v)", report.TotalCostUSD, sum)
	}
	if len(report.Breakdown) != 3 {
		t.Errorf("breakdown rows = %d, want 3", len(report.Breakdown))
	}
}

func TestPeriodBoundaries(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()

	// Exactly 8 days old: outside week, inside month and all.
	record(t, l, models.ToolGenerateCode, 0.01, now.AddDate(0, 0, -8))

	for _, tt := range []struct {
		period Period
		want   int
	}{
		{PeriodWeek, 0},
		{PeriodMonth, 1},
		{PeriodAll, 1},
	} {
		report, err := l.Report(context.Background(), tt.period, "")
		if err != nil {
			t.Fatal(err)
		}
		if report.TotalRequests != tt.want {
			t.Errorf("period %s: requests = %d, want %d", tt.period, report.TotalRequests, tt.want)
		}
	}
}

func TestPeriodToday(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	record(t, l, models.ToolEditCode, 0.002, startOfDay)
	record(t, l, models.ToolEditCode, 0.003, startOfDay.Add(-time.Second))

	report, err := l.Report(context.Background(), PeriodToday, "")
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalRequests != 1 {
		t.Errorf("requests = %d, want 1 (midnight is inclusive, yesterday excluded)", report.TotalRequests)
	}
}

func TestGrouping(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()

	record(t, l, models.ToolReviewCode, 0.001, now)
	record(t, l, models.ToolReviewCode, 0.002, now.Add(-time.Minute))

	report, err := l.Report(context.Background(), PeriodAll, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Breakdown) != 1 {
		t.Fatalf("breakdown rows = %d, want 1", len(report.Breakdown))
	}
	row := report.Breakdown[0]
	if row.Requests != 2 {
		t.Errorf("requests = %d, want 2", row.Requests)
	}
	if row.CostUSD != 0.003 {
		t.Errorf("cost = %v, want 0.003", row.CostUSD)
	}
	if row.Tool != models.ToolReviewCode {
		t.Errorf("tool = %s", row.Tool)
	}
}

func TestToolFilter(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()

	record(t, l, models.ToolGenerateCode, 0.001, now)
	record(t, l, models.ToolEditCode, 0.002, now)

	report, err := l.Report(context.Background(), PeriodAll, models.ToolEditCode)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalRequests != 1 {
		t.Fatalf("requests = %d, want 1", report.TotalRequests)
	}
	if report.Breakdown[0].Tool != models.ToolEditCode {
		t.Errorf("tool = %s, want edit_code", report.Breakdown[0].Tool)
	}
}

func TestDateOrderingDescending(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()

	record(t, l, models.ToolGenerateCode, 0.001, now.AddDate(0, 0, -2))
	record(t, l, models.ToolGenerateCode, 0.001, now)

	report, err := l.Report(context.Background(), PeriodAll, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Breakdown) != 2 {
		t.Fatalf("breakdown rows = %d, want 2", len(report.Breakdown))
	}
	if report.Breakdown[0].Date < report.Breakdown[1].Date {
		t.Errorf("dates not descending: %s before %s", report.Breakdown[0].Date, report.Breakdown[1].Date)
	}
}

func TestReportRounding(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()

	record(t, l, models.ToolGenerateCode, 0.00012345, now)
	record(t, l, models.ToolGenerateCode, 0.00012345, now)

	report, err := l.Report(context.Background(), PeriodAll, "")
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalCostUSD != 0.0002 {
		t.Errorf("total cost = %v, want 0.0002", report.TotalCostUSD)
	}
	if report.Breakdown[0].CostUSD != 0.0002 {
		t.Errorf("row cost = %v, want 0.0002", report.Breakdown[0].CostUSD)
	}
}

func TestInvalidPeriod(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Report(context.Background(), Period("fortnight"), ""); err == nil {
		t.Error("expected error for invalid period")
	}
}

func TestTotalSince(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now().UTC()

	record(t, l, models.ToolGenerateCode, 0.5, now)
	record(t, l, models.ToolEditCode, 0.25, now.AddDate(0, 0, -2))

	total, err := l.TotalSince(context.Background(), now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatal(err)
	}
	if total != 0.5 {
		t.Errorf("total = %v, want 0.5", total)
	}

	total, err = l.TotalSince(context.Background(), time.Unix(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if total != 0.75 {
		t.Errorf("total = %v, want 0.75", total)
	}
}

func TestRecordAssignsTimestampAndID(t *testing.T) {
	l := newTestLedger(t)

	err := l.Record(context.Background(), models.RequestRecord{
		ToolName: models.ToolGenerateCode,
		CostUSD:  0.001,
	})
	if err != nil {
		t.Fatal(err)
	}

	var requestID, createdAt string
	err = l.db.QueryRow(`SELECT request_id, created_at FROM requests`).Scan(&requestID, &createdAt)
	if err != nil {
		t.Fatal(err)
	}
	if requestID == "" {
		t.Error("expected a generated request ID")
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		t.Fatalf("parse stored timestamp %q: %v", createdAt, err)
	}
	if d := time.Since(ts); d < 0 || d > time.Minute {
		t.Errorf("stored timestamp not near now: %s", createdAt)
	}
}
