package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"clausegrade/internal/ports"
)

var _ ports.JobRepository = (*DB)(nil)

// ClaimNext selects the next queued job using SKIP LOCKED and marks it running.
func (db *DB) ClaimNext(ctx context.Context) (job ports.ScanJob, found bool, err error) {
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id, scan_id FROM scan_jobs
			WHERE status = 'queued'
			ORDER BY queued_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		`).Scan(&job.ID, &job.ScanID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return start(ctx, tx, job.ID, job.ScanID)
	})
	if err != nil {
		return ports.ScanJob{}, false, err
	}
	return job, found, nil
}

func start(ctx context.Context, tx pgx.Tx, jobID, scanID string) error {
	if _, err := tx.Exec(ctx, `
		UPDATE scan_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1
	`, jobID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		UPDATE scans SET status='running', started_at=COALESCE(started_at, now()) WHERE id=$1
	`, scanID)
	return err
}

func (db *DB) UpdateScanProgress(ctx context.Context, scanID string, progress float64) error {
	progress = min(max(progress, 0), 1)
	_, err := db.Pool.Exec(ctx, `UPDATE scans SET progress=$2 WHERE id=$1`, scanID, progress)
	return err
}

func (db *DB) MarkCompleted(ctx context.Context, jobID string) error {
	return db.finish(ctx, jobID, "completed", "")
}

func (db *DB) MarkFailed(ctx context.Context, jobID string, reason string) error {
	return db.finish(ctx, jobID, "failed", reason)
}

// finish closes a job and its scan atomically.
func (db *DB) finish(ctx context.Context, jobID, status, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.inTx(ctx, func(tx pgx.Tx) error {
		var scanID string
		if err := tx.QueryRow(ctx, `SELECT scan_id FROM scan_jobs WHERE id=$1`, jobID).Scan(&scanID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE scan_jobs SET status=$2, finished_at=now() WHERE id=$1`, jobID, status); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE scans
			SET status=$2, finished_at=now(), error=NULLIF($3, ''),
			    progress=CASE WHEN $2 = 'completed' THEN 1 ELSE progress END
			WHERE id=$1
		`, scanID, status, reason)
		return err
	})
}

// StartJobForScan marks the queued job for a specific scan as running and returns the job id.
func (db *DB) StartJobForScan(ctx context.Context, scanID string) (string, error) {
	var jobID string
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id FROM scan_jobs
			WHERE scan_id = $1 AND status = 'queued'
			FOR UPDATE SKIP LOCKED
		`, scanID).Scan(&jobID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.ErrNotFound
		}
		if err != nil {
			return err
		}
		return start(ctx, tx, jobID, scanID)
	})
	return jobID, err
}
