package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/domain"
	"clausegrade/internal/fetch"
	"clausegrade/internal/ports"
)

type fakeRepo struct {
	domains []string
	urls    []string
}

func (f *fakeRepo) GetOrCreate(_ context.Context, registrable string) (string, error) {
	f.domains = append(f.domains, registrable)
	return "d1", nil
}

func (f *fakeRepo) Create(_ context.Context, domainID, url string) (string, error) {
	f.urls = append(f.urls, domainID+" "+url)
	return "s1", nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (ports.ScanState, error) {
	if id != "s1" {
		return ports.ScanState{}, ports.ErrNotFound
	}
	return ports.ScanState{ID: id, Status: "queued"}, nil
}

func (f *fakeRepo) SaveResult(context.Context, string, domain.AnalysisResult) error { return nil }

func TestEnqueue(t *testing.T) {
	repo := &fakeRepo{}
	s := New(repo, repo)

	id, err := s.Enqueue(context.Background(), "https://shop.example.co.uk/returns")
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
	assert.Equal(t, []string{"example.co.uk"}, repo.domains)
	assert.Equal(t, []string{"d1 https://shop.example.co.uk/returns"}, repo.urls)

	_, err = s.Enqueue(context.Background(), "shop.example.com")
	assert.ErrorIs(t, err, fetch.ErrInvalidURL)
}

func TestStatus(t *testing.T) {
	repo := &fakeRepo{}
	s := New(repo, repo)
	st, err := s.Status(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "queued", st.Status)

	_, err = s.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
