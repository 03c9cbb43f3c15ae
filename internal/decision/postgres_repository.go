package decision

import (
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fieldreach/intelligence-api/internal/utils/dbutils"
)

const table = "decisions_v1"

var fields = []string{"id", "trigger_id", "candidate_id", "event_type", "payload", "tier", "score",
	"score_breakdown", "channels", "targets", "budget_estimate", "processing_ms", "executed", "executed_at", "created_at"}

// PostgresRepository is a repository containing the decision log based on a PSQL database
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

func (r *PostgresRepository) Create(d Decision) (string, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	payloadData, err := json.Marshal(d.Payload)
	if err != nil {
		return "", err
	}
	breakdownData, err := json.Marshal(d.ScoreBreakdown)
	if err != nil {
		return "", err
	}
	channelsData, err := json.Marshal(d.Channels)
	if err != nil {
		return "", err
	}
	targetsData, err := json.Marshal(d.Targets)
	if err != nil {
		return "", err
	}

	_, err = r.newStatement().
		Insert(table).
		Columns("id", "trigger_id", "candidate_id", "event_type", "payload", "tier", "score",
			"score_breakdown", "channels", "targets", "budget_estimate", "processing_ms", "executed", "created_at").
		Values(d.ID, d.TriggerID, d.CandidateID, d.EventType, payloadData, d.Tier, d.Score,
			breakdownData, channelsData, targetsData, d.BudgetEstimate, d.ProcessingMs, false, time.Now()).
		Exec()
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

func (r *PostgresRepository) Get(id string) (Decision, bool, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"id": id}).
		Query()
	if err != nil {
		return Decision{}, false, err
	}
	defer rows.Close()
	return dbutils.ScanFirst(rows, r.scan)
}

func (r *PostgresRepository) GetAllFromTo(from time.Time, to time.Time) ([]Decision, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		OrderBy("created_at DESC").
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return dbutils.ScanAll(rows, r.scan)
}

func (r *PostgresRepository) GetLatestForCandidate(candidateID string, limit int) ([]Decision, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"candidate_id": candidateID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return dbutils.ScanAll(rows, r.scan)
}

// MarkExecuted is called by the channel-execution layer once an approved
// decision has actually been carried out
func (r *PostgresRepository) MarkExecuted(id string, executedAt time.Time) error {
	_, err := r.newStatement().
		Update(table).
		Set("executed", true).
		Set("executed_at", executedAt).
		Where(sq.Eq{"id": id}).
		Exec()
	if err != nil {
		return err
	}
	return nil
}

func (r *PostgresRepository) scan(rows *sql.Rows) (Decision, error) {
	var d Decision
	var triggerID sql.NullInt64
	var executedAt sql.NullTime
	var payloadData, breakdownData, channelsData, targetsData []byte
	err := rows.Scan(&d.ID, &triggerID, &d.CandidateID, &d.EventType, &payloadData, &d.Tier, &d.Score,
		&breakdownData, &channelsData, &targetsData, &d.BudgetEstimate, &d.ProcessingMs, &d.Executed, &executedAt, &d.CreatedAt)
	if err != nil {
		return Decision{}, err
	}
	if triggerID.Valid {
		d.TriggerID = &triggerID.Int64
	}
	if executedAt.Valid {
		d.ExecutedAt = &executedAt.Time
	}
	if err := json.Unmarshal(payloadData, &d.Payload); err != nil {
		return Decision{}, err
	}
	if err := json.Unmarshal(breakdownData, &d.ScoreBreakdown); err != nil {
		return Decision{}, err
	}
	if err := json.Unmarshal(channelsData, &d.Channels); err != nil {
		return Decision{}, err
	}
	if err := json.Unmarshal(targetsData, &d.Targets); err != nil {
		return Decision{}, err
	}
	return d, nil
}

func (r *PostgresRepository) newStatement() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(r.conn.DB)
}
