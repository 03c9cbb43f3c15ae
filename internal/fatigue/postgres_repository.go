package fatigue

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fieldreach/intelligence-api/internal/utils/dbutils"
)

const table = "contact_fatigue_v1"

var fields = []string{"contact_id", "channel", "last_contact_at", "contacts_today", "contacts_week", "contacts_month", "contacts_total"}

// PostgresRepository is a repository containing the contact fatigue store based on a PSQL database
type PostgresRepository struct {
	conn *sqlx.DB
}

// NewPostgresRepository returns a new instance of PostgresRepository
func NewPostgresRepository(conn *sqlx.DB) Repository {
	r := PostgresRepository{
		conn: conn,
	}
	var ifm Repository = &r
	return ifm
}

// RecordContact upserts the (contact, channel) record with increment
// semantics: a second call the same day counts 2, not 1. Called by the
// execution layer once per actual outbound contact.
func (r *PostgresRepository) RecordContact(contactID string, channel string) error {
	query := `INSERT INTO ` + table + ` (contact_id, channel, last_contact_at, contacts_today, contacts_week, contacts_month, contacts_total)
		VALUES ($1, $2, $3, 1, 1, 1, 1)
		ON CONFLICT (contact_id, channel) DO UPDATE SET
			last_contact_at = EXCLUDED.last_contact_at,
			contacts_today = ` + table + `.contacts_today + 1,
			contacts_week = ` + table + `.contacts_week + 1,
			contacts_month = ` + table + `.contacts_month + 1,
			contacts_total = ` + table + `.contacts_total + 1`
	_, err := r.conn.Exec(query, contactID, channel, time.Now())
	if err != nil {
		return err
	}
	return nil
}

// CountFatigued returns how many of the given contacts reached the daily
// ceiling on at least one channel
func (r *PostgresRepository) CountFatigued(contactIDs []string, dailyCeiling int) (int, error) {
	if len(contactIDs) == 0 {
		return 0, nil
	}
	var count int
	query := `SELECT COUNT(DISTINCT contact_id) FROM ` + table + ` WHERE contact_id = ANY($1) AND contacts_today >= $2`
	err := r.conn.QueryRow(query, pq.Array(contactIDs), dailyCeiling).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) GetByContact(contactID string) ([]Record, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"contact_id": contactID}).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return dbutils.ScanAll(rows, r.scan)
}

// ResetDaily zeroes the "today" counter of every record, leaving the other
// windows untouched. Returns the number of affected records.
func (r *PostgresRepository) ResetDaily() (int64, error) {
	return r.resetCounter("contacts_today")
}

// ResetWeekly zeroes the "this week" counter of every record
func (r *PostgresRepository) ResetWeekly() (int64, error) {
	return r.resetCounter("contacts_week")
}

// ResetMonthly zeroes the "this month" counter of every record
func (r *PostgresRepository) ResetMonthly() (int64, error) {
	return r.resetCounter("contacts_month")
}

func (r *PostgresRepository) resetCounter(column string) (int64, error) {
	result, err := r.newStatement().
		Update(table).
		Set(column, 0).
		Exec()
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) scan(rows *sql.Rows) (Record, error) {
	var record Record
	err := rows.Scan(&record.ContactID, &record.Channel, &record.LastContactAt,
		&record.ContactsToday, &record.ContactsWeek, &record.ContactsMonth, &record.ContactsTotal)
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

func (r *PostgresRepository) newStatement() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(r.conn.DB)
}
