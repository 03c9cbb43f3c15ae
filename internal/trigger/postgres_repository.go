package trigger

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/fieldreach/intelligence-api/internal/utils/dbutils"
)

const table = "triggers_v1"

var fields = []string{"id", "name", "category", "priority", "enabled", "cooldown_seconds", "condition", "last_fired_at", "fire_count", "created_at", "updated_at"}

// PostgresRepository is a repository containing the trigger registry based on a PSQL database
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

func (r *PostgresRepository) Create(t Trigger) (int64, error) {
	var id int64
	now := time.Now()
	statement := r.newStatement().
		Insert(table).
		Columns("name", "category", "priority", "enabled", "cooldown_seconds", "condition", "fire_count", "created_at", "updated_at").
		Values(t.Name, t.Category, t.Priority, t.Enabled, t.CooldownSeconds, t.Condition, 0, now, now).
		Suffix("RETURNING \"id\"")
	err := statement.QueryRow().Scan(&id)
	if err != nil {
		return -1, err
	}
	return id, nil
}

func (r *PostgresRepository) Get(id int64) (Trigger, bool, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"id": id}).
		Query()
	if err != nil {
		return Trigger{}, false, err
	}
	defer rows.Close()
	return dbutils.ScanFirst(rows, r.scan)
}

// GetActiveByName returns the enabled trigger registered for an exact event
// type name. A miss is a valid state, not an error.
func (r *PostgresRepository) GetActiveByName(name string) (Trigger, bool, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"name": name}).
		Where(sq.Eq{"enabled": true}).
		Query()
	if err != nil {
		return Trigger{}, false, err
	}
	defer rows.Close()
	return dbutils.ScanFirst(rows, r.scan)
}

func (r *PostgresRepository) Update(t Trigger) error {
	_, err := r.newStatement().
		Update(table).
		Set("name", t.Name).
		Set("category", t.Category).
		Set("priority", t.Priority).
		Set("enabled", t.Enabled).
		Set("cooldown_seconds", t.CooldownSeconds).
		Set("condition", t.Condition).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": t.ID}).
		Exec()
	if err != nil {
		return err
	}
	return nil
}

// SetEnabled soft-enables or soft-disables a trigger. Triggers are never
// hard-deleted by the engine.
func (r *PostgresRepository) SetEnabled(id int64, enabled bool) error {
	_, err := r.newStatement().
		Update(table).
		Set("enabled", enabled).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Exec()
	if err != nil {
		return err
	}
	return nil
}

// Touch increments the trigger fire count and stamps the fire time
func (r *PostgresRepository) Touch(id int64, firedAt time.Time) error {
	_, err := r.newStatement().
		Update(table).
		Set("fire_count", sq.Expr("fire_count + 1")).
		Set("last_fired_at", firedAt).
		Where(sq.Eq{"id": id}).
		Exec()
	if err != nil {
		return err
	}
	return nil
}

func (r *PostgresRepository) GetAll() ([]Trigger, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return dbutils.ScanAll(rows, r.scan)
}

func (r *PostgresRepository) GetAllEnabled() ([]Trigger, error) {
	rows, err := r.newStatement().
		Select(fields...).
		From(table).
		Where(sq.Eq{"enabled": true}).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return dbutils.ScanAll(rows, r.scan)
}

func (r *PostgresRepository) scan(rows *sql.Rows) (Trigger, error) {
	var t Trigger
	var lastFiredAt sql.NullTime
	err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Priority, &t.Enabled, &t.CooldownSeconds,
		&t.Condition, &lastFiredAt, &t.FireCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Trigger{}, err
	}
	if lastFiredAt.Valid {
		t.LastFiredAt = &lastFiredAt.Time
	}
	return t, nil
}

func (r *PostgresRepository) newStatement() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(r.conn.DB)
}
