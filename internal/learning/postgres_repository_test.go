package learning

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/fieldreach/intelligence-api/internal/trigger"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestOutcomeROI(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    float64
	}{
		{"normal batch", Outcome{Sends: 1000, Revenue: 50}, 5},
		{"no sends", Outcome{Sends: 0, Revenue: 100}, 0},
		{"zero revenue", Outcome{Sends: 500, Revenue: 0}, 0},
	}
	for _, tt := range tests {
		if got := tt.outcome.ROI(); got != tt.want {
			t.Errorf("%s: got %v want %v", tt.name, got, tt.want)
		}
	}
}

func TestRecordOutcome(t *testing.T) {
	r, mock := newMockRepository(t)

	outcome := Outcome{
		Category: trigger.CategoryDonation,
		Channel:  "email",
		Segment:  "major_donor",
		Sends:    1000,
		Opens:    400,
		Clicks:   90,
		Revenue:  50,
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO learning_stats_v1")).
		WithArgs("donation", "email", "major_donor", int64(1000), int64(400), int64(90), int64(0), 50.0, 5.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.RecordOutcome(outcome); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAvgROI(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT AVG(avg_roi) FROM learning_stats_v1 WHERE trigger_category = $1")).
		WithArgs("news").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(2.5))

	avg, found, err := r.AvgROI(trigger.CategoryNews)
	if err != nil {
		t.Fatal(err)
	}
	if !found || avg != 2.5 {
		t.Errorf("avg roi: got %v found=%v want 2.5 found=true", avg, found)
	}
}

func TestAvgROINoHistory(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT AVG").
		WithArgs("gotv").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	_, found, err := r.AvgROI(trigger.CategoryGotv)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("a category without history must report no ROI")
	}
}
