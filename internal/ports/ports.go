package ports

import (
	"context"

	"clausegrade/internal/domain"
)

// AnalysisRequest is what a caller submits: a subject URL, raw policy text, or both.
type AnalysisRequest struct {
	URL        string
	PolicyText string
	// Hybrid overrides the server default for the generative pass when set.
	Hybrid *bool
}

type Analysis struct {
	Result  domain.AnalysisResult
	Subject domain.Subject
}

// Analyzer runs the full pipeline for one request.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (Analysis, error)
}

// Assessor issues signed assessments and verifies them.
type Assessor interface {
	Issue(ctx context.Context, req AnalysisRequest) (domain.Envelope, error)
	Verify(ctx context.Context, req domain.VerifyRequest) domain.Verification
}

// Scanner enqueues and tracks asynchronous analysis scans.
type Scanner interface {
	Enqueue(ctx context.Context, url string) (scanID string, err error)
	Status(ctx context.Context, scanID string) (ScanState, error)
}

type ScanState struct {
	ID       string
	URL      string
	Status   string // queued|running|completed|failed
	Progress float64
	Result   *domain.AnalysisResult
}

// FetchResult is the outcome of retrieving policy pages for a subject.
// Attempted counts the categories tried; Documents holds the ones obtained.
type FetchResult struct {
	Attempted int
	Documents []domain.Document
}

// PolicyFetcher retrieves policy documents for a subject URL. Individual
// category failures are not errors; they are simply missing from Documents.
type PolicyFetcher interface {
	FetchPolicies(ctx context.Context, rawurl string) (FetchResult, error)
}

// ResultCache stores analysis results by subject for a bounded interval.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.AnalysisResult, bool, error)
	Set(ctx context.Context, key string, r domain.AnalysisResult) error
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModel is a generative text model that returns the assistant reply.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
