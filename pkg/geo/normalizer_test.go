package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droscher.com/OhioBrewPath/pkg/geo"
)

func defaultNormalizer(t *testing.T) *geo.Normalizer {
	t.Helper()

	tables, err := geo.DefaultTables()
	require.NoError(t, err)

	return geo.NewNormalizer(tables)
}

func TestCanonical_Identity(t *testing.T) {
	normalizer := defaultNormalizer(t)

	region, found := normalizer.Canonical("northeast")
	require.True(t, found)
	assert.Equal(t, geo.Northeast, region)
}

func TestCanonical_CaseAndWhitespace(t *testing.T) {
	normalizer := defaultNormalizer(t)

	region, found := normalizer.Canonical("  Central  ")
	require.True(t, found)
	assert.Equal(t, geo.Central, region)
}

func TestCanonical_Aliases(t *testing.T) {
	normalizer := defaultNormalizer(t)

	tests := map[string]geo.Region{
		"Greater Cincinnati": geo.Southwest,
		"Greater Columbus":   geo.Central,
		"Greater Cleveland":  geo.Northeast,
		"North Central":      geo.Northeast,
		"West Central":       geo.Southwest,
		"State Line":         geo.Northwest,
	}

	for label, expected := range tests {
		region, found := normalizer.Canonical(label)
		require.True(t, found, label)
		assert.Equal(t, expected, region, label)
	}
}

func TestCanonical_StripsPlanningPrefix(t *testing.T) {
	normalizer := defaultNormalizer(t)

	region, found := normalizer.Canonical("Breweries-in-Planning, Northeast")
	require.True(t, found)
	assert.Equal(t, geo.Northeast, region)

	region, found = normalizer.Canonical("breweries-in-planning, greater cincinnati")
	require.True(t, found)
	assert.Equal(t, geo.Southwest, region)
}

func TestCanonical_UnknownLabel(t *testing.T) {
	normalizer := defaultNormalizer(t)

	_, found := normalizer.Canonical("Mars")
	assert.False(t, found)
}
