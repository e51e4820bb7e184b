package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange_Vacio(t *testing.T) {
	rng, err := parseDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, rng.From)
	assert.Nil(t, rng.To)
}

func TestParseDateRange_RFC3339(t *testing.T) {
	rng, err := parseDateRange("2026-03-01T08:00:00Z", "2026-03-31T18:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, rng.From)
	require.NotNil(t, rng.To)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), rng.From.UTC())
	assert.Equal(t, time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC), rng.To.UTC())
}

func TestParseDateRange_FechaSolaCubreElDiaCompleto(t *testing.T) {
	rng, err := parseDateRange("2026-03-01", "2026-03-31")
	require.NoError(t, err)

	// startDate arranca a medianoche; endDate llega hasta el fin del día.
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), rng.From.UTC())
	end := rng.To.UTC()
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.Before(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseDateRange_FormatoInvalido(t *testing.T) {
	_, err := parseDateRange("01/03/2026", "")
	assert.Error(t, err)

	_, err = parseDateRange("", "ayer")
	assert.Error(t, err)
}
