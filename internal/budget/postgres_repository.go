package budget

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/fieldreach/intelligence-api/internal/utils/dbutils"
)

const table = "channel_budgets_v1"

var fields = []string{"candidate_id", "channel", "daily_limit", "weekly_limit", "monthly_limit", "spent_today", "spent_week", "spent_month"}

// PostgresRepository is a repository containing the budget ledger based on a PSQL database
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

// Upsert creates or replaces the ceilings for a (candidate, channel) pair,
// keeping the running spent counters
func (r *PostgresRepository) Upsert(record Record) error {
	query := `INSERT INTO ` + table + ` (candidate_id, channel, daily_limit, weekly_limit, monthly_limit, spent_today, spent_week, spent_month)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0)
		ON CONFLICT (candidate_id, channel) DO UPDATE SET
			daily_limit = EXCLUDED.daily_limit,
			weekly_limit = EXCLUDED.weekly_limit,
			monthly_limit = EXCLUDED.monthly_limit`
	_, err := r.conn.Exec(query, record.CandidateID, record.Channel, record.DailyLimit, record.WeeklyLimit, record.MonthlyLimit)
	if err != nil {
		return err
	}
	return nil
}

func (r *PostgresRepository) Get(candidateID string, channel string) (Record, bool, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"candidate_id": candidateID}).
		Where(sq.Eq{"channel": channel}).
		Query()
	if err != nil {
		return Record{}, false, err
	}
	defer rows.Close()
	return dbutils.ScanFirst(rows, r.scan)
}

func (r *PostgresRepository) GetAllForCandidate(candidateID string) ([]Record, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"candidate_id": candidateID}).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return dbutils.ScanAll(rows, r.scan)
}

// SumRemaining returns the sum over the candidate's channels of the daily
// ceiling minus the daily spend. A candidate with no ledger rows sums to 0.
func (r *PostgresRepository) SumRemaining(candidateID string) (float64, error) {
	var remaining float64
	query := `SELECT COALESCE(SUM(daily_limit - spent_today), 0) FROM ` + table + ` WHERE candidate_id = $1`
	err := r.conn.QueryRow(query, candidateID).Scan(&remaining)
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// RecordSpend adds an actual spend amount to the three running counters.
// Called by the execution layer after a contact batch went out; remaining
// budget may go negative.
func (r *PostgresRepository) RecordSpend(candidateID string, channel string, amount float64) error {
	query := `INSERT INTO ` + table + ` (candidate_id, channel, daily_limit, weekly_limit, monthly_limit, spent_today, spent_week, spent_month)
		VALUES ($1, $2, 0, 0, 0, $3, $3, $3)
		ON CONFLICT (candidate_id, channel) DO UPDATE SET
			spent_today = ` + table + `.spent_today + EXCLUDED.spent_today,
			spent_week = ` + table + `.spent_week + EXCLUDED.spent_week,
			spent_month = ` + table + `.spent_month + EXCLUDED.spent_month`
	_, err := r.conn.Exec(query, candidateID, channel, amount)
	if err != nil {
		return err
	}
	return nil
}

// ResetDaily zeroes every "spent today" counter. Returns the number of affected records.
func (r *PostgresRepository) ResetDaily() (int64, error) {
	return r.resetCounter("spent_today")
}

// ResetWeekly zeroes every "spent this week" counter
func (r *PostgresRepository) ResetWeekly() (int64, error) {
	return r.resetCounter("spent_week")
}

// ResetMonthly zeroes every "spent this month" counter
func (r *PostgresRepository) ResetMonthly() (int64, error) {
	return r.resetCounter("spent_month")
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
	err := rows.Scan(&record.CandidateID, &record.Channel, &record.DailyLimit, &record.WeeklyLimit,
		&record.MonthlyLimit, &record.SpentToday, &record.SpentWeek, &record.SpentMonth)
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

func (r *PostgresRepository) newStatement() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(r.conn.DB)
}
