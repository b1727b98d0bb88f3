package ports

import (
	"context"
	"errors"
	"time"

	"clausegrade/internal/domain"
)

var ErrNotFound = errors.New("not found")

// DomainRepository stores and fetches sellers by registrable domain (eTLD+1).
type DomainRepository interface {
	GetOrCreate(ctx context.Context, registrable string) (domainID string, err error)
}

// ScanRepository manages scan records and their results.
type ScanRepository interface {
	Create(ctx context.Context, domainID string, url string) (scanID string, err error)
	Get(ctx context.Context, scanID string) (ScanState, error)
	SaveResult(ctx context.Context, scanID string, r domain.AnalysisResult) error
}

// AssessmentRecord is the issuance log entry for one signed assessment.
type AssessmentRecord struct {
	AssessmentID string
	SellerDomain string
	PayloadHash  string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Payload      []byte
}

// AssessmentLog records issued assessments for audit. Verification never
// consults it.
type AssessmentLog interface {
	Record(ctx context.Context, rec AssessmentRecord) error
}
