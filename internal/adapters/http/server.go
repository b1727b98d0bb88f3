// Package httpadapter exposes the analysis, assessment and scan services over HTTP.
package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"clausegrade/internal/api"
	"clausegrade/internal/assessment"
	"clausegrade/internal/clauses"
	"clausegrade/internal/domain"
	"clausegrade/internal/fetch"
	"clausegrade/internal/ports"
	"clausegrade/internal/services/analyzer"
	"clausegrade/internal/workers/scanrunner"
)

// Assessor issues and verifies assessments and publishes its keys.
type Assessor interface {
	ports.Assessor
	JWKS() assessment.JWKS
}

type Server struct {
	analyzer  ports.Analyzer
	assessor  Assessor
	registry  *clauses.Registry
	scanner   ports.Scanner
	jobs      ports.JobRepository
	processor scanrunner.ScanProcessor
	limiter   *RateLimiter
	pollEvery time.Duration
	log       *slog.Logger
}

var _ api.StrictServerInterface = (*Server)(nil)

type Option func(*Server)

// WithScans enables the scan endpoints.
func WithScans(scanner ports.Scanner, jobs ports.JobRepository, processor scanrunner.ScanProcessor) Option {
	return func(s *Server) { s.scanner, s.jobs, s.processor = scanner, jobs, processor }
}

func WithRateLimiter(rl *RateLimiter) Option { return func(s *Server) { s.limiter = rl } }

// WithScanPollInterval sets how often a waiting scan request rereads the scan
// when a background worker is running it.
func WithScanPollInterval(d time.Duration) Option { return func(s *Server) { s.pollEvery = d } }

func New(an ports.Analyzer, as Assessor, reg *clauses.Registry, log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		analyzer:  an,
		assessor:  as,
		registry:  reg,
		pollEvery: 250 * time.Millisecond,
		log:       log.With("component", "http"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// limitedOperations are the operations charged against a client's rate limit.
var limitedOperations = []string{"Analyze", "IssueAssessment", "VerifyAssessment", "CreateScan", "GetScan"}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)
	r.Use(limitBody)

	var mws []api.StrictMiddlewareFunc
	if s.limiter != nil {
		mws = append(mws, s.limiter.Limit(limitedOperations...))
	}
	handler := api.NewStrictHandlerWithOptions(s, mws, api.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  s.requestError,
		ResponseErrorHandlerFunc: s.fail,
	})
	api.HandlerWithOptions(handler, api.ChiServerOptions{BaseRouter: r, ErrorHandlerFunc: s.paramError})
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}
		s.log.DebugContext(r.Context(), "request", attrs...)
	})
}

func (s *Server) GetHealthz(context.Context, api.GetHealthzRequestObject) (api.GetHealthzResponseObject, error) {
	return api.GetHealthz200JSONResponse{Status: "ok"}, nil
}

func (s *Server) GetJWKS(context.Context, api.GetJWKSRequestObject) (api.GetJWKSResponseObject, error) {
	return api.GetJWKS200JSONResponse{
		Body:    s.assessor.JWKS(),
		Headers: api.GetJWKS200ResponseHeaders{CacheControl: "public, max-age=3600"},
	}, nil
}

func (s *Server) ListClauses(context.Context, api.ListClausesRequestObject) (api.ListClausesResponseObject, error) {
	return api.ListClauses200JSONResponse{
		Body:    api.ClauseTable{Version: s.registry.Version(), Clauses: s.registry.List()},
		Headers: api.ListClauses200ResponseHeaders{CacheControl: "public, max-age=86400"},
	}, nil
}

func analysisRequest(b *api.AnalyzeRequest) ports.AnalysisRequest {
	if b == nil {
		return ports.AnalysisRequest{}
	}
	return ports.AnalysisRequest{URL: deref(b.Url), PolicyText: deref(b.PolicyText), Hybrid: b.Hybrid}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Server) Analyze(ctx context.Context, req api.AnalyzeRequestObject) (api.AnalyzeResponseObject, error) {
	a, err := s.analyzer.Analyze(ctx, analysisRequest(req.Body))
	if err != nil {
		return nil, err
	}
	return api.Analyze200JSONResponse(domain.SellerAnalysis{
		AnalysisResult: a.Result,
		SellerDomain:   a.Subject.SellerDomain,
	}), nil
}

func (s *Server) IssueAssessment(ctx context.Context, req api.IssueAssessmentRequestObject) (api.IssueAssessmentResponseObject, error) {
	env, err := s.assessor.Issue(ctx, analysisRequest(req.Body))
	if err != nil {
		return nil, err
	}
	return api.IssueAssessment200JSONResponse(env), nil
}

// VerifyAssessment always answers 200: a bad envelope is a verification
// result, not a request error.
func (s *Server) VerifyAssessment(ctx context.Context, req api.VerifyAssessmentRequestObject) (api.VerifyAssessmentResponseObject, error) {
	if req.Body == nil {
		return api.VerifyAssessment200JSONResponse(malformed()), nil
	}
	raw := req.Body.SignedAssessment
	// Accept the payload as embedded JSON or as a JSON string holding it.
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err == nil {
			raw = json.RawMessage(str)
		}
	}
	v := s.assessor.Verify(ctx, domain.VerifyRequest{
		SignedAssessment:  raw,
		Signature:         req.Body.Signature,
		SignedPayloadHash: deref(req.Body.SignedPayloadHash),
	})
	return api.VerifyAssessment200JSONResponse(v), nil
}

func malformed() domain.Verification {
	return domain.Verification{
		Reason:     domain.ReasonMalformedAssessment,
		VerifiedAt: domain.FormatTime(time.Now()),
	}
}

var (
	errScansDisabled = fmt.Errorf("scans are not enabled: %w", ports.ErrNotFound)
	errScanTimeout   = &problemError{status: http.StatusGatewayTimeout, detail: "scan did not finish in time"}
)

func (s *Server) CreateScan(ctx context.Context, req api.CreateScanRequestObject) (api.CreateScanResponseObject, error) {
	if s.scanner == nil {
		return nil, errScansDisabled
	}
	var url string
	if req.Body != nil {
		url = req.Body.Url
	}
	id, err := s.scanner.Enqueue(ctx, url)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("scan id %q: %w", id, err)
	}
	if req.Params.Wait == nil || !*req.Params.Wait {
		return api.CreateScan202JSONResponse{ScanId: uid}, nil
	}
	timeout := 30
	if req.Params.Timeout != nil && *req.Params.Timeout > 0 {
		timeout = *req.Params.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()
	st, err := s.waitForScan(ctx, id)
	if err != nil {
		return nil, err
	}
	return api.CreateScan200JSONResponse(scanResponse(st)), nil
}

// waitForScan runs the scan on the request goroutine. When a background worker
// has already claimed the job it polls the scan until it finishes instead.
func (s *Server) waitForScan(ctx context.Context, id string) (ports.ScanState, error) {
	err := scanrunner.ProcessInline(ctx, s.jobs, s.processor, id)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return s.pollScan(ctx, id)
	case errors.Is(err, context.DeadlineExceeded):
		return ports.ScanState{}, errScanTimeout
	case err != nil:
		// Processing failures are recorded on the scan and reported through its status.
		s.log.WarnContext(ctx, "inline scan failed", "scan_id", id, "error", err)
	}
	return s.scanner.Status(ctx, id)
}

func (s *Server) pollScan(ctx context.Context, id string) (ports.ScanState, error) {
	t := time.NewTicker(s.pollEvery)
	defer t.Stop()
	for {
		st, err := s.scanner.Status(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return ports.ScanState{}, errScanTimeout
			}
			return ports.ScanState{}, err
		}
		if st.Status == string(api.Completed) || st.Status == string(api.Failed) {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return ports.ScanState{}, errScanTimeout
		case <-t.C:
		}
	}
}

func (s *Server) GetScan(ctx context.Context, req api.GetScanRequestObject) (api.GetScanResponseObject, error) {
	if s.scanner == nil {
		return nil, errScansDisabled
	}
	st, err := s.scanner.Status(ctx, req.Id.String())
	if err != nil {
		return nil, err
	}
	return api.GetScan200JSONResponse(scanResponse(st)), nil
}

func scanResponse(st ports.ScanState) api.ScanResponse {
	// Scan ids are minted by the database as uuids.
	id, _ := uuid.Parse(st.ID)
	return api.ScanResponse{
		Id:       id,
		Status:   api.ScanStatus(st.Status),
		Progress: float32(st.Progress),
		Result:   st.Result,
	}
}

// requestError handles bodies the generated handler could not decode.
func (s *Server) requestError(w http.ResponseWriter, r *http.Request, err error) {
	if r.URL.Path == "/v1/assessments/verify" {
		writeJSON(w, http.StatusOK, malformed())
		return
	}
	writeProblem(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
}

// paramError handles path and query parameters that fail to bind.
func (s *Server) paramError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *api.InvalidParamFormatError
	if errors.As(err, &pe) && pe.ParamName == "id" {
		writeProblem(w, r, http.StatusNotFound, "not found")
		return
	}
	writeProblem(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var pe *problemError
	switch {
	case errors.As(err, &pe):
		if pe.retryAfter > 0 {
			w.Header().Set("Retry-After", fmt.Sprint(pe.retryAfter))
		}
		writeProblem(w, r, pe.status, pe.detail)
	case errors.Is(err, analyzer.ErrEmptyRequest), errors.Is(err, fetch.ErrInvalidURL):
		writeProblem(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyzer.ErrNoFetcher):
		writeProblem(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeProblem(w, r, http.StatusNotFound, "not found")
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "internal error")
	}
}
