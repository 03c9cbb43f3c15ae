package decision

import (
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateGeneratesID(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO decisions_v1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := r.Create(Decision{
		EventType: "news.mention",
		Tier:      TierReview,
		Score:     55,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Error("expected a generated decision id")
	}
}

func TestGetScansJSONColumns(t *testing.T) {
	r, mock := newMockRepository(t)

	now := time.Now()
	triggerID := int64(3)
	rows := sqlmock.NewRows(fields).AddRow(
		"dec-1", triggerID, "candidate-1", "donation.received",
		[]byte(`{"amount":2500}`), "go", 82,
		[]byte(`{"urgency":22.5,"relevance":20,"budget":20,"fatigue":15,"historical":4.5}`),
		[]byte(`["email","direct_mail"]`),
		[]byte(`[{"segment":"major_donor","count":50}]`),
		37.5, int64(12), false, nil, now,
	)
	mock.ExpectQuery("SELECT .* FROM decisions_v1").
		WithArgs("dec-1").
		WillReturnRows(rows)

	d, found, err := r.Get("dec-1")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected decision to be found")
	}
	if d.Tier != TierGo || d.Score != 82 {
		t.Errorf("unexpected decision: %+v", d)
	}
	if d.TriggerID == nil || *d.TriggerID != 3 {
		t.Errorf("trigger id: got %v want 3", d.TriggerID)
	}
	if d.ScoreBreakdown.Urgency != 22.5 {
		t.Errorf("breakdown urgency: got %v want 22.5", d.ScoreBreakdown.Urgency)
	}
	if len(d.Channels) != 2 || d.Channels[1] != "direct_mail" {
		t.Errorf("channels: got %v", d.Channels)
	}
	if d.TargetCount() != 50 {
		t.Errorf("target count: got %v want 50", d.TargetCount())
	}
}

func TestScoreBreakdownTotal(t *testing.T) {
	b := ScoreBreakdown{Urgency: 22.5, Relevance: 20, Budget: 20, Fatigue: 15, Historical: 10}
	if got := b.Total(); got != 87.5 {
		t.Errorf("total: got %v want 87.5", got)
	}
}

func TestMarkExecuted(t *testing.T) {
	r, mock := newMockRepository(t)

	executedAt := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE decisions_v1 SET executed = $1, executed_at = $2 WHERE id = $3")).
		WithArgs(true, executedAt, "dec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.MarkExecuted("dec-1", executedAt); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
