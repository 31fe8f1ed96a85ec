package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

func TestDefault_ShippedSports(t *testing.T) {
	r := Default()
	assert.Equal(t, []domain.Sport{domain.SportNBA, domain.SportNFL}, r.Sports())

	nfl, err := r.Catalog(domain.SportNFL)
	require.NoError(t, err)
	assert.Equal(t, 32, nfl.Len())

	nba, err := Get(domain.SportNBA)
	require.NoError(t, err)
	assert.Equal(t, 30, nba.Len())
}

func TestRegistry_UnknownSport(t *testing.T) {
	_, err := Default().Catalog("curling")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownSport)
}

func TestCatalog_ByCode(t *testing.T) {
	nfl, err := Get(domain.SportNFL)
	require.NoError(t, err)

	p, ok := nfl.ByCode("atl")
	require.True(t, ok)
	assert.Equal(t, "Atlanta Falcons", p.CanonicalName)
	assert.Contains(t, p.Aliases, "falcons")
	assert.Contains(t, p.Aliases, "atl")

	_, ok = nfl.ByCode("XYZ")
	assert.False(t, ok)
}

func TestCatalog_ResolveFallsBackToAlias(t *testing.T) {
	nfl, err := Get(domain.SportNFL)
	require.NoError(t, err)

	p, ok := nfl.Resolve("JAC")
	require.True(t, ok)
	assert.Equal(t, "JAX", p.ShortCode)

	p, ok = nfl.Resolve("Los Angeles R")
	require.True(t, ok)
	assert.Equal(t, "LAR", p.ShortCode)
}

func TestCatalog_ParticipantsIsACopy(t *testing.T) {
	nfl, err := Get(domain.SportNFL)
	require.NoError(t, err)

	ps := nfl.Participants()
	ps[0].ShortCode = "MUTATED"

	assert.Equal(t, "ARI", nfl.At(0).ShortCode)
}

func TestNew_RejectsDuplicateCodes(t *testing.T) {
	_, err := New("test", []domain.Participant{
		{CanonicalName: "One", ShortCode: "AAA"},
		{CanonicalName: "Two", ShortCode: "aaa"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate short code")
}

func TestNew_NormalizesAliases(t *testing.T) {
	c, err := New("test", []domain.Participant{
		{CanonicalName: "Alpha  Team", ShortCode: "alp", Aliases: []string{"ALPHA", "alpha"}},
	})
	require.NoError(t, err)

	p := c.At(0)
	assert.Equal(t, "ALP", p.ShortCode)
	assert.Equal(t, []string{"alpha team", "alp", "alpha"}, p.Aliases)
}
