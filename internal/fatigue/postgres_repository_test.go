package fatigue

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fieldreach/intelligence-api/internal/tests"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRecordContactUpsert(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contact_fatigue_v1")).
		WithArgs("contact-1", "email", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.RecordContact("contact-1", "email"); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCountFatigued(t *testing.T) {
	r, mock := newMockRepository(t)

	ids := []string{"c1", "c2", "c3"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT contact_id) FROM contact_fatigue_v1 WHERE contact_id = ANY($1) AND contacts_today >= $2")).
		WithArgs(pq.Array(ids), 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := r.CountFatigued(ids, 3)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count: got %v want 2", count)
	}
}

func TestCountFatiguedEmptyList(t *testing.T) {
	r, _ := newMockRepository(t)

	// no contacts means no query and no fatigue
	count, err := r.CountFatigued(nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count: got %v want 0", count)
	}
}

func TestResetDailyOnlyTouchesTodayCounter(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE contact_fatigue_v1 SET contacts_today = $1")).
		WithArgs(0).
		WillReturnResult(sqlmock.NewResult(0, 5))

	affected, err := r.ResetDaily()
	if err != nil {
		t.Fatal(err)
	}
	if affected != 5 {
		t.Errorf("affected: got %v want 5", affected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func dbInit(db *sqlx.DB, t *testing.T) {
	dbDestroy(db, t)
	tests.DBExec(db, tests.ContactFatigueTableV1, t, true)
}

func dbDestroy(db *sqlx.DB, t *testing.T) {
	tests.DBExec(db, tests.ContactFatigueDropTableV1, t, true)
}

func TestRecordContactTwiceCountsTwo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := tests.DBClient(t)
	defer dbDestroy(db, t)
	dbInit(db, t)
	r := NewPostgresRepository(db)

	if err := r.RecordContact("contact-1", "email"); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordContact("contact-1", "email"); err != nil {
		t.Fatal(err)
	}

	records, err := r.GetByContact("contact-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %v want 1", len(records))
	}
	rec := records[0]
	if rec.ContactsToday != 2 {
		t.Errorf("contacts today: got %v want 2", rec.ContactsToday)
	}
	if rec.ContactsWeek != 2 || rec.ContactsMonth != 2 || rec.ContactsTotal != 2 {
		t.Errorf("window counters: got %v/%v/%v want 2/2/2", rec.ContactsWeek, rec.ContactsMonth, rec.ContactsTotal)
	}
}

func TestResetDailyKeepsOtherWindows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := tests.DBClient(t)
	defer dbDestroy(db, t)
	dbInit(db, t)
	r := NewPostgresRepository(db)

	if err := r.RecordContact("contact-1", "email"); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordContact("contact-1", "email"); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordContact("contact-1", "sms"); err != nil {
		t.Fatal(err)
	}

	affected, err := r.ResetDaily()
	if err != nil {
		t.Fatal(err)
	}
	if affected != 2 {
		t.Errorf("affected: got %v want 2", affected)
	}

	records, err := r.GetByContact("contact-1")
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records {
		if rec.ContactsToday != 0 {
			t.Errorf("%s contacts today: got %v want 0", rec.Channel, rec.ContactsToday)
		}
	}
	for _, rec := range records {
		switch rec.Channel {
		case "email":
			if rec.ContactsWeek != 2 || rec.ContactsMonth != 2 || rec.ContactsTotal != 2 {
				t.Errorf("email window counters changed: got %v/%v/%v want 2/2/2", rec.ContactsWeek, rec.ContactsMonth, rec.ContactsTotal)
			}
		case "sms":
			if rec.ContactsWeek != 1 || rec.ContactsMonth != 1 || rec.ContactsTotal != 1 {
				t.Errorf("sms window counters changed: got %v/%v/%v want 1/1/1", rec.ContactsWeek, rec.ContactsMonth, rec.ContactsTotal)
			}
		}
	}
}

func TestCountFatiguedIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := tests.DBClient(t)
	defer dbDestroy(db, t)
	dbInit(db, t)
	r := NewPostgresRepository(db)

	for i := 0; i < 3; i++ {
		if err := r.RecordContact("tired", "email"); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.RecordContact("fresh", "email"); err != nil {
		t.Fatal(err)
	}

	count, err := r.CountFatigued([]string{"tired", "fresh", "unknown"}, DefaultDailyCeiling)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count: got %v want 1", count)
	}
}
