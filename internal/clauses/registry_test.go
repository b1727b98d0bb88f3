package clauses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/domain"
)

func TestDefaultRegistryLoads(t *testing.T) {
	r := Default()
	require.NotNil(t, r)
	assert.Equal(t, "1.0.0", r.Version())
	assert.NotEmpty(t, r.List())

	for _, id := range []string{"binding_arbitration", "class_action_waiver", "at_will_termination", "liability_cap", "no_returns", "no_refund"} {
		_, ok := r.Lookup(id)
		assert.True(t, ok, id)
	}
}

func TestListIsStableCopy(t *testing.T) {
	r := Default()
	a := r.List()
	a[0].ID = "mutated"
	b := r.List()
	assert.NotEqual(t, "mutated", b[0].ID)
	assert.Equal(t, r.IDs()[0], b[0].ID)
}

func TestLoadRejectsBadTables(t *testing.T) {
	cases := map[string]string{
		"duplicate": `version: 1.0.0
clauses:
  - {id: a, category: legal, description: x, typical_severity: high}
  - {id: a, category: legal, description: y, typical_severity: low}`,
		"category": `version: 1.0.0
clauses:
  - {id: a, category: warranty, description: x, typical_severity: high}`,
		"severity": `version: 1.0.0
clauses:
  - {id: a, category: legal, description: x, typical_severity: severe}`,
		"version": `version: one
clauses: []`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestCompatible(t *testing.T) {
	r, err := Load([]byte("version: 1.3.0\nclauses:\n  - {id: a, category: privacy, description: x, typical_severity: low}\n"))
	require.NoError(t, err)
	assert.True(t, r.Compatible("1.0.0"))
	assert.True(t, r.Compatible("1.9.2"))
	assert.False(t, r.Compatible("2.0.0"))
	assert.False(t, r.Compatible("garbage"))

	ct, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityLow, ct.TypicalSeverity)
	assert.Equal(t, 0, r.Index("a"))
	assert.Equal(t, -1, r.Index("b"))
}
