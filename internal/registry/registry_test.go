package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmaps/internal/model"
)

func rec(name string) model.MarkerRecord {
	return model.MarkerRecord{DisplayName: name}
}

func names(recs []model.MarkerRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.DisplayName
	}
	return out
}

func TestLookup_UnassignedFirstThenInsertionOrder(t *testing.T) {
	r := New()
	r.Register("town", rec("a"))
	r.Register("", rec("everywhere"))
	r.Register("town", rec("b"))
	r.Register("dungeon", rec("c"))

	assert.Equal(t, []string{"everywhere", "a", "b"}, names(r.Lookup("town")))
	assert.Equal(t, []string{"everywhere", "c"}, names(r.Lookup("dungeon")))
	assert.Equal(t, []string{"everywhere"}, names(r.Lookup("nowhere")))
	assert.Equal(t, []string{"everywhere"}, names(r.Lookup("")))
}

func TestKey_Normalization(t *testing.T) {
	r := New()
	r.Register("Town", rec("a"))
	r.Register("  town ", rec("b"))

	assert.Equal(t, []string{"a", "b"}, names(r.Lookup("TOWN")))
	assert.Equal(t, Key("Town"), Key(" town"))
}

func TestKey_EmptyIsUnassigned(t *testing.T) {
	assert.Equal(t, Key(""), Key("   "))
	assert.NotEqual(t, Key(""), Key("town"))
}

func TestNamesExcludesUnassigned(t *testing.T) {
	r := New()
	r.Register("", rec("everywhere"))
	r.Register("town", rec("a"))

	got := r.Names()
	require.Len(t, got, 1)
	assert.Equal(t, "town", got[0])
	assert.Equal(t, 2, r.Len())
}

func TestLookupReturnsCopies(t *testing.T) {
	r := New()
	r.Register("town", rec("a"))

	got := r.Lookup("town")
	got[0].DisplayName = "mutated"
	assert.Equal(t, []string{"a"}, names(r.Lookup("town")))
}
