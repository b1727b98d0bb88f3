package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
)

var (
	_ ports.DomainRepository = (*DB)(nil)
	_ ports.ScanRepository   = (*DB)(nil)
	_ ports.AssessmentLog    = (*DB)(nil)
)

func (db *DB) GetOrCreate(ctx context.Context, registrable string) (string, error) {
	registrable = strings.ToLower(registrable)
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO domains (registrable_domain)
		VALUES ($1)
		ON CONFLICT (registrable_domain) DO UPDATE SET registrable_domain = EXCLUDED.registrable_domain
		RETURNING id
	`, registrable).Scan(&id)
	return id, err
}

// Create inserts a queued scan and its job row.
func (db *DB) Create(ctx context.Context, domainID string, url string) (string, error) {
	var scanID string
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO scans (domain_id, url, status, progress)
			VALUES ($1, $2, 'queued', 0)
			RETURNING id
		`, domainID, url).Scan(&scanID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO scan_jobs (scan_id) VALUES ($1)`, scanID)
		return err
	})
	return scanID, err
}

func (db *DB) Get(ctx context.Context, scanID string) (ports.ScanState, error) {
	s := ports.ScanState{ID: scanID}
	var raw []byte
	err := db.Pool.QueryRow(ctx, `SELECT url, status, progress, result FROM scans WHERE id = $1`, scanID).
		Scan(&s.URL, &s.Status, &s.Progress, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.ScanState{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.ScanState{}, err
	}
	if len(raw) > 0 {
		var r domain.AnalysisResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return ports.ScanState{}, fmt.Errorf("postgres: scan %s result: %w", scanID, err)
		}
		s.Result = &r
	}
	return s, nil
}

func (db *DB) SaveResult(ctx context.Context, scanID string, r domain.AnalysisResult) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx, `UPDATE scans SET result=$2 WHERE id=$1`, scanID, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Record stores an issued assessment. Re-recording the same id is a no-op.
func (db *DB) Record(ctx context.Context, rec ports.AssessmentRecord) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO assessments (assessment_id, seller_domain, payload_hash, issued_at, expires_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (assessment_id) DO NOTHING
	`, rec.AssessmentID, rec.SellerDomain, rec.PayloadHash, rec.IssuedAt, rec.ExpiresAt, rec.Payload)
	return err
}
