package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huvtsp/alumni/pkg/models"
)

const (
	JobQueued  = "queued"
	JobRetry   = "retry"
	JobRunning = "running"
	JobDone    = "done"

	defaultMaxAttempts = 5
)

// Enqueue inserts a job into the jobs table and returns the new ID. A zero
// ScheduledAt means the job is due immediately.
func (r *SQLiteRepo) Enqueue(ctx context.Context, j *models.BackgroundJob) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}
	if j.MaxAttempts == 0 {
		j.MaxAttempts = defaultMaxAttempts
	}
	if j.ScheduledAt.IsZero() {
		j.ScheduledAt = time.Now().UTC()
	}
	var payload any
	if len(j.Payload) > 0 {
		payload = string(j.Payload)
	}

	ts := now()
	q := `INSERT INTO jobs(type, payload, status, attempts, max_attempts, priority, scheduled_at, created, updated) VALUES(?,?,?,?,?,?,?,?,?)`
	res, err := r.conn.Exec(ctx, q, j.Type, payload, JobQueued, j.Attempts, j.MaxAttempts, j.Priority, j.ScheduledAt.UTC().Unix(), ts, ts)
	if err != nil {
		return 0, fmt.Errorf("enqueue failed: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	j.ID = id
	j.Status = JobQueued
	return id, nil
}

// FetchNext claims the next due job respecting priority and schedule. The
// claimed job is marked running so concurrent pollers skip it.
func (r *SQLiteRepo) FetchNext(ctx context.Context) (*models.BackgroundJob, error) {
	q := `SELECT id, type, payload, status, attempts, max_attempts, priority, scheduled_at, next_try_at, last_error, created, updated
		FROM jobs
		WHERE (status = 'queued' OR status = 'retry') AND (next_try_at IS NULL OR next_try_at <= ?) AND scheduled_at <= ?
		ORDER BY priority ASC, scheduled_at ASC, id ASC LIMIT 1`

	var j *models.BackgroundJob
	err := r.conn.InTx(ctx, func(tx *sql.Tx) error {
		ts := time.Now().UTC().Unix()
		var (
			payload     sql.NullString
			scheduledAt int64
			nextTry     sql.NullInt64
			lastError   sql.NullString
			created     int64
			updated     int64
		)
		job := &models.BackgroundJob{}
		err := tx.QueryRowContext(ctx, q, ts, ts).Scan(&job.ID, &job.Type, &payload, &job.Status, &job.Attempts, &job.MaxAttempts,
			&job.Priority, &scheduledAt, &nextTry, &lastError, &created, &updated)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		claimed := now()
		if _, err := tx.ExecContext(ctx, `UPDATE jobs SET status = ?, updated = ? WHERE id = ?`, JobRunning, claimed, job.ID); err != nil {
			return err
		}

		job.Status = JobRunning
		job.ScheduledAt = time.Unix(scheduledAt, 0).UTC()
		job.Created = time.UnixMilli(created).UTC()
		job.Updated = time.UnixMilli(claimed).UTC()
		if payload.Valid {
			job.Payload = json.RawMessage(payload.String)
		}
		if nextTry.Valid {
			t := time.Unix(nextTry.Int64, 0).UTC()
			job.NextTryAt = &t
		}
		job.LastError = lastError.String
		j = job
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch next job: %w", err)
	}
	return j, nil
}

// UpdateJob updates attempts, status, next_try_at, last_error
func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.BackgroundJob) error {
	var nextTry any
	if j.NextTryAt != nil {
		nextTry = j.NextTryAt.Unix()
	}
	var lastError any
	if j.LastError != "" {
		lastError = j.LastError
	}
	q := `UPDATE jobs SET status = ?, attempts = ?, next_try_at = ?, last_error = ?, updated = ? WHERE id = ?`
	_, err := r.conn.Exec(ctx, q, j.Status, j.Attempts, nextTry, lastError, now(), j.ID)
	return err
}

// MoveToDeadLetter moves a job to dead_letter_jobs and deletes the original
func (r *SQLiteRepo) MoveToDeadLetter(ctx context.Context, j *models.BackgroundJob) error {
	return r.conn.InTx(ctx, func(tx *sql.Tx) error {
		var payload any
		if len(j.Payload) > 0 {
			payload = string(j.Payload)
		}
		insert := `INSERT INTO dead_letter_jobs(job_id, type, payload, attempts, last_error, failed_at) VALUES(?,?,?,?,?,?)`
		if _, err := tx.ExecContext(ctx, insert, j.ID, j.Type, payload, j.Attempts, j.LastError, time.Now().UTC().Unix()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, j.ID)
		return err
	})
}

// CountDeadLetters reports how many jobs exhausted their attempts.
func (r *SQLiteRepo) CountDeadLetters(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM dead_letter_jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count dead letters: %w", err)
	}
	return n, nil
}
