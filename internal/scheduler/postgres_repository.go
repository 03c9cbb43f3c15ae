package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PostgresRepository is a repository containing the job schedules based on a PSQL database and
// implementing the repository interface
type PostgresRepository struct {
	conn *sqlx.DB
}

// NewPostgresRepository returns a new instance of PostgresRepository
func NewPostgresRepository(dbClient *sqlx.DB) Repository {
	r := PostgresRepository{
		conn: dbClient,
	}
	var ifm Repository = &r
	return ifm
}

// Create creates a new schedule in the repository
func (r *PostgresRepository) Create(schedule InternalSchedule) (int64, error) {

	timestamp := time.Now().Truncate(1 * time.Millisecond).UTC()
	jobData, err := json.Marshal(schedule.Job)
	if err != nil {
		return -1, errors.New("failed to marshal the job of schedule " + fmt.Sprint(schedule.ID) + ": " + err.Error())
	}

	query := `INSERT INTO job_schedules_v1 (id, name, cronexpr, job_type, job_data, enabled, last_modified)
		VALUES (DEFAULT, :name, :cronexpr, :job_type, :job_data, :enabled, :last_modified) RETURNING id`
	params := map[string]interface{}{
		"name":          schedule.Name,
		"cronexpr":      schedule.CronExpr,
		"job_type":      schedule.JobType,
		"job_data":      string(jobData),
		"enabled":       schedule.Enabled,
		"last_modified": timestamp,
	}

	rows, err := r.conn.NamedQuery(query, params)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		rows.Scan(&id)
	} else {
		return -1, errors.New("no id returning of insert schedule")
	}
	return id, nil
}

// Get search and returns a job schedule from the repository by its id
func (r *PostgresRepository) Get(id int64) (InternalSchedule, bool, error) {
	query := `SELECT id, name, cronexpr, job_type, job_data, enabled FROM job_schedules_v1 WHERE id = :id`
	rows, err := r.conn.NamedQuery(query, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return InternalSchedule{}, false, err
	}
	defer rows.Close()

	if rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return InternalSchedule{}, false, err
		}
		return schedule, true, nil
	}
	return InternalSchedule{}, false, nil
}

// Update updates a schedule in the repository by its id
func (r *PostgresRepository) Update(schedule InternalSchedule) error {

	timestamp := time.Now().Truncate(1 * time.Millisecond).UTC()
	jobData, err := json.Marshal(schedule.Job)
	if err != nil {
		return errors.New("failed to marshal the job of schedule " + fmt.Sprint(schedule.ID) + ": " + err.Error())
	}

	query := `UPDATE job_schedules_v1 SET name = :name, cronexpr = :cronexpr,
		job_type = :job_type, job_data = :job_data, enabled = :enabled, last_modified = :last_modified WHERE id = :id`
	res, err := r.conn.NamedExec(query, map[string]interface{}{
		"id":            schedule.ID,
		"name":          schedule.Name,
		"cronexpr":      schedule.CronExpr,
		"job_type":      schedule.JobType,
		"job_data":      string(jobData),
		"enabled":       schedule.Enabled,
		"last_modified": timestamp,
	})
	if err != nil {
		return errors.New("couldn't query the database:" + err.Error())
	}
	i, err := res.RowsAffected()
	if err != nil {
		return errors.New("error with the affected rows:" + err.Error())
	}
	if i != 1 {
		return errors.New("no row updated (or multiple row updated) instead of 1 row")
	}
	return nil
}

// Delete deletes an entry from the repository by it's ID
func (r *PostgresRepository) Delete(id int64) error {
	query := `DELETE FROM job_schedules_v1 WHERE id = :id`

	res, err := r.conn.NamedExec(query, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return err
	}
	i, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if i != 1 {
		return errors.New("no row deleted (or multiple row deleted) instead of 1 row")
	}
	return nil
}

// GetAll returns all job schedules in the repository
func (r *PostgresRepository) GetAll() (map[int64]InternalSchedule, error) {

	query := `SELECT id, name, cronexpr, job_type, job_data, enabled FROM job_schedules_v1`
	rows, err := r.conn.Queryx(query)
	if err != nil {
		zap.L().Error("Couldn't retrieve the job schedules", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	schedules := make(map[int64]InternalSchedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules[schedule.ID] = schedule
	}
	return schedules, nil
}

func scanSchedule(rows *sqlx.Rows) (InternalSchedule, error) {
	var schedule InternalSchedule
	var jobData string
	err := rows.Scan(&schedule.ID, &schedule.Name, &schedule.CronExpr, &schedule.JobType, &jobData, &schedule.Enabled)
	if err != nil {
		return InternalSchedule{}, errors.New("couldn't scan the retrieved data: " + err.Error())
	}

	job, err := UnmarshalInternalJob(schedule.JobType, []byte(jobData), schedule.ID)
	if err != nil {
		return InternalSchedule{}, err
	}
	schedule.Job = job
	return schedule, nil
}
