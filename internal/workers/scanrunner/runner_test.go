package scanrunner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
)

type fakeStore struct {
	mu       sync.Mutex
	pending  []ports.ScanJob
	progress map[string][]float64
	done     map[string]bool
	failed   map[string]string
	results  map[string]domain.AnalysisResult
	urls     map[string]string
}

func newStore() *fakeStore {
	return &fakeStore{
		progress: map[string][]float64{},
		done:     map[string]bool{},
		failed:   map[string]string{},
		results:  map[string]domain.AnalysisResult{},
		urls:     map[string]string{},
	}
}

func (s *fakeStore) ClaimNext(context.Context) (ports.ScanJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return ports.ScanJob{}, false, nil
	}
	j := s.pending[0]
	s.pending = s.pending[1:]
	return j, true, nil
}

func (s *fakeStore) UpdateScanProgress(_ context.Context, id string, p float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[id] = append(s.progress[id], p)
	return nil
}

func (s *fakeStore) MarkCompleted(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[jobID] = true
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, jobID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[jobID] = reason
	return nil
}

func (s *fakeStore) StartJobForScan(_ context.Context, scanID string) (string, error) {
	return "job-" + scanID, nil
}

func (s *fakeStore) Create(context.Context, string, string) (string, error) { return "", nil }

func (s *fakeStore) Get(_ context.Context, id string) (ports.ScanState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.urls[id]
	if !ok {
		return ports.ScanState{}, ports.ErrNotFound
	}
	return ports.ScanState{ID: id, URL: u, Status: "running"}, nil
}

func (s *fakeStore) SaveResult(_ context.Context, id string, r domain.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = r
	return nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(_ context.Context, req ports.AnalysisRequest) (ports.Analysis, error) {
	if req.URL == "https://broken.example" {
		return ports.Analysis{}, errors.New("fetch failed")
	}
	return ports.Analysis{Result: domain.NoContent(time.Now())}, nil
}

func TestProcessInline(t *testing.T) {
	st := newStore()
	st.urls["s1"] = "https://example.com"
	p := AnalysisProcessor{Jobs: st, Scans: st, Analyzer: stubAnalyzer{}}

	require.NoError(t, ProcessInline(context.Background(), st, p, "s1"))
	assert.True(t, st.done["job-s1"])
	assert.Equal(t, []float64{0.1, 0.9, 1.0}, st.progress["s1"])
	assert.Contains(t, st.results, "s1")

	st.urls["s2"] = "https://broken.example"
	err := ProcessInline(context.Background(), st, p, "s2")
	require.Error(t, err)
	assert.Contains(t, st.failed["job-s2"], "fetch failed")

	assert.ErrorIs(t, ProcessInline(context.Background(), st, p, "missing"), ports.ErrNotFound)
}

func TestRunDrainsQueue(t *testing.T) {
	st := newStore()
	st.urls["a"] = "https://a.example"
	st.urls["b"] = "https://broken.example"
	st.pending = []ports.ScanJob{{ID: "ja", ScanID: "a"}, {ID: "jb", ScanID: "b"}}
	p := AnalysisProcessor{Jobs: st, Scans: st, Analyzer: stubAnalyzer{}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	Run(ctx, st, p, 2, 5*time.Millisecond, nil)

	assert.Eventually(t, func() bool {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.done["ja"] && st.failed["jb"] != ""
	}, 2*time.Second, 10*time.Millisecond)
}
