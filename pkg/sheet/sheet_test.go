package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSample(t *testing.T) {
	s, err := Load("../../examples/sample/sheet.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sample valuations", s.Title)
	assert.Nil(t, s.Coefficient)
	assert.Equal(t, 100.0, s.DefaultArea)
	require.Len(t, s.Listings, 4)

	assert.Equal(t, ModeUnit, s.Listings[0].Mode())
	assert.Equal(t, 15000.0, *s.Listings[0].UnitPrice)
	assert.Equal(t, 100.0, s.Listings[0].EffectiveArea(s.DefaultArea))
	assert.Equal(t, 118.5, s.Listings[1].EffectiveArea(s.DefaultArea))
	assert.Equal(t, ModeTotal, s.Listings[2].Mode())
	assert.Equal(t, 2_000_000.0, *s.Listings[2].TotalPrice)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading sheet file")
}

func TestParseCoefficientOverride(t *testing.T) {
	s, err := Parse([]byte("coefficient: 0.95\nlistings:\n  - name: a\n    unit_price: 100\n"))
	require.NoError(t, err)
	require.NotNil(t, s.Coefficient)
	assert.Equal(t, 0.95, *s.Coefficient)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("listings: [unterminated"))
	assert.ErrorContains(t, err, "parsing sheet YAML")
}

func TestLoadFromTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listings:\n  - name: x\n    total_price: 500000\n    area: 50\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Listings, 1)
	assert.Equal(t, ModeTotal, s.Listings[0].Mode())
	assert.Equal(t, 50.0, s.Listings[0].EffectiveArea(0))
}

func TestListingMode(t *testing.T) {
	p := 1.0
	assert.Equal(t, ModeUnknown, Listing{}.Mode())
	assert.Equal(t, ModeUnknown, Listing{UnitPrice: &p, TotalPrice: &p}.Mode())
	assert.Equal(t, ModeUnit, Listing{UnitPrice: &p}.Mode())
	assert.Equal(t, ModeTotal, Listing{TotalPrice: &p}.Mode())
}

func TestDemoSheet(t *testing.T) {
	s := DemoSheet()
	require.Len(t, s.Listings, len(DemoUnitPrices)+1)
	for i, p := range DemoUnitPrices {
		assert.Equal(t, p, *s.Listings[i].UnitPrice)
	}
	last := s.Listings[len(s.Listings)-1]
	assert.Equal(t, ModeTotal, last.Mode())
	assert.Equal(t, DemoArea, last.EffectiveArea(s.DefaultArea))
}
