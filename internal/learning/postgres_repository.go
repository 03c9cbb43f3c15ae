package learning

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/fieldreach/intelligence-api/internal/trigger"
	"github.com/fieldreach/intelligence-api/internal/utils/dbutils"
)

const table = "learning_stats_v1"

var fields = []string{"trigger_category", "channel", "donor_segment", "total_sends", "total_opens", "total_clicks", "total_conversions", "total_revenue", "avg_roi", "updated_at"}

// PostgresRepository is a repository containing the learning store based on a PSQL database
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

// RecordOutcome merges a campaign-result batch into the stats row for its
// key. The running average ROI folds the batch ROI 50/50 with the prior
// average; the first batch for a key is taken as-is.
func (r *PostgresRepository) RecordOutcome(outcome Outcome) error {
	query := `INSERT INTO ` + table + ` (trigger_category, channel, donor_segment, total_sends, total_opens, total_clicks, total_conversions, total_revenue, avg_roi, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (trigger_category, channel, donor_segment) DO UPDATE SET
			total_sends = ` + table + `.total_sends + EXCLUDED.total_sends,
			total_opens = ` + table + `.total_opens + EXCLUDED.total_opens,
			total_clicks = ` + table + `.total_clicks + EXCLUDED.total_clicks,
			total_conversions = ` + table + `.total_conversions + EXCLUDED.total_conversions,
			total_revenue = ` + table + `.total_revenue + EXCLUDED.total_revenue,
			avg_roi = (` + table + `.avg_roi + EXCLUDED.avg_roi) / 2,
			updated_at = EXCLUDED.updated_at`
	_, err := r.conn.Exec(query, outcome.Category, outcome.Channel, outcome.Segment,
		outcome.Sends, outcome.Opens, outcome.Clicks, outcome.Conversions, outcome.Revenue, outcome.ROI(), time.Now())
	if err != nil {
		return err
	}
	return nil
}

// AvgROI returns the average ROI over every channel and segment of one
// category. The boolean is false when the category has no history yet.
func (r *PostgresRepository) AvgROI(category trigger.Category) (float64, bool, error) {
	var avg sql.NullFloat64
	query := `SELECT AVG(avg_roi) FROM ` + table + ` WHERE trigger_category = $1`
	err := r.conn.QueryRow(query, category).Scan(&avg)
	if err != nil {
		return 0, false, err
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

func (r *PostgresRepository) Get(category trigger.Category, channel string, segment string) (Stats, bool, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"trigger_category": category}).
		Where(sq.Eq{"channel": channel}).
		Where(sq.Eq{"donor_segment": segment}).
		Query()
	if err != nil {
		return Stats{}, false, err
	}
	defer rows.Close()
	return dbutils.ScanFirst(rows, r.scan)
}

func (r *PostgresRepository) GetAll() ([]Stats, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		OrderBy("trigger_category", "channel", "donor_segment").
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return dbutils.ScanAll(rows, r.scan)
}

func (r *PostgresRepository) scan(rows *sql.Rows) (Stats, error) {
	var stats Stats
	err := rows.Scan(&stats.Category, &stats.Channel, &stats.Segment, &stats.TotalSends, &stats.TotalOpens,
		&stats.TotalClicks, &stats.TotalConversions, &stats.TotalRevenue, &stats.AvgROI, &stats.UpdatedAt)
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (r *PostgresRepository) newStatement() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(r.conn.DB)
}
