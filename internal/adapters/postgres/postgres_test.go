package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
)

// Runs against a disposable database: the schema is migrated in place.
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("CLAUSEGRADE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("set CLAUSEGRADE_TEST_DATABASE_URL to run postgres integration tests")
	}
	ctx := context.Background()
	db, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx, nil))
	return db
}

func TestScanLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	domainID, err := db.GetOrCreate(ctx, "Example.COM")
	require.NoError(t, err)
	again, err := db.GetOrCreate(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, domainID, again)

	scanID, err := db.Create(ctx, domainID, "https://example.com/shop")
	require.NoError(t, err)

	st, err := db.Get(ctx, scanID)
	require.NoError(t, err)
	assert.Equal(t, "queued", st.Status)
	assert.Nil(t, st.Result)

	jobID, err := db.StartJobForScan(ctx, scanID)
	require.NoError(t, err)
	require.NoError(t, db.UpdateScanProgress(ctx, scanID, 2))
	require.NoError(t, db.SaveResult(ctx, scanID, domain.NoContent(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, db.MarkCompleted(ctx, jobID))

	st, err = db.Get(ctx, scanID)
	require.NoError(t, err)
	assert.Equal(t, "completed", st.Status)
	assert.Equal(t, 1.0, st.Progress)
	require.NotNil(t, st.Result)
	assert.Equal(t, domain.StatusNoContent, st.Result.Status)

	_, err = db.StartJobForScan(ctx, scanID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGetUnknownScan(t *testing.T) {
	db := testDB(t)
	_, err := db.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRecordAssessment(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC().Truncate(time.Second)
	rec := ports.AssessmentRecord{
		AssessmentID: "6f1c1e1e-3b7a-4f6e-9d61-0d7c2c1f0a11",
		SellerDomain: "example.com",
		PayloadHash:  "sha256:00",
		IssuedAt:     now,
		ExpiresAt:    now.Add(5 * time.Minute),
		Payload:      []byte(`{"schema_version":"clausegrade.assessment/v1"}`),
	}
	require.NoError(t, db.Record(context.Background(), rec))
	require.NoError(t, db.Record(context.Background(), rec))
}
