package strategy

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "deltaspread/internal/errors"
	"deltaspread/internal/models"
)

var testExpiry = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func testUnderlier(t *testing.T) models.Underlier {
	t.Helper()
	u, err := models.NewUnderlier("SPY", 450, 100, "USD")
	require.NoError(t, err)
	return u
}

func makeLeg(t *testing.T, u models.Underlier, expiry time.Time, strike float64, typ models.OptionType, side models.Side, qty int, entry float64) models.OptionLeg {
	t.Helper()
	contract, err := models.NewOptionContract(u, expiry, strike, typ)
	require.NoError(t, err)
	leg, err := models.NewOptionLeg(contract, side, qty, &entry, "")
	require.NoError(t, err)
	return leg
}

func newTestManager(t *testing.T) (*Manager, models.Underlier) {
	t.Helper()
	u := testUnderlier(t)
	return NewManager(nil, zerolog.Nop()), u
}

func TestManagerEmptyState(t *testing.T) {
	m, u := newTestManager(t)

	assert.False(t, m.Has())
	assert.Nil(t, m.Current())
	assert.Nil(t, m.Legs())

	_, ok := m.Underlier()
	assert.False(t, ok)

	leg := makeLeg(t, u, testExpiry, 450, models.OptionCall, models.SideBuy, 1, 5.0)
	_, err := m.AddLeg(leg)
	assert.ErrorIs(t, err, apperrors.ErrNoStrategy)

	_, err = m.RemoveLeg(0)
	assert.ErrorIs(t, err, apperrors.ErrNoStrategy)

	_, err = m.UpdateLegStrike(0, 455, 4.0)
	assert.ErrorIs(t, err, apperrors.ErrNoStrategy)
}

func TestManagerCreateAndAdd(t *testing.T) {
	m, u := newTestManager(t)

	first := makeLeg(t, u, testExpiry, 450, models.OptionCall, models.SideBuy, 1, 5.0)
	s, err := m.Create("spread", u, first)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, m.Has())

	second := makeLeg(t, u, testExpiry, 455, models.OptionCall, models.SideSell, 1, 3.0)
	s, err = m.AddLeg(second)
	require.NoError(t, err)
	assert.Len(t, s.Legs, 2)
	assert.Len(t, m.Legs(), 2)

	got, ok := m.Underlier()
	assert.True(t, ok)
	assert.Equal(t, u, got)
}

func TestManagerAddLegDifferentExpiryRejected(t *testing.T) {
	m, u := newTestManager(t)
	_, err := m.Create("spread", u, makeLeg(t, u, testExpiry, 450, models.OptionCall, models.SideBuy, 1, 5.0))
	require.NoError(t, err)

	other := makeLeg(t, u, testExpiry.AddDate(0, 1, 0), 455, models.OptionCall, models.SideSell, 1, 3.0)
	_, err = m.AddLeg(other)
	assert.Error(t, err)
	assert.Len(t, m.Legs(), 1, "failed add leaves state untouched")
}

func TestManagerRemoveLeg(t *testing.T) {
	m, u := newTestManager(t)
	_, err := m.Create("spread", u, makeLeg(t, u, testExpiry, 450, models.OptionCall, models.SideBuy, 1, 5.0))
	require.NoError(t, err)
	_, err = m.AddLeg(makeLeg(t, u, testExpiry, 455, models.OptionCall, models.SideSell, 1, 3.0))
	require.NoError(t, err)

	_, err = m.RemoveLeg(5)
	var legErr *apperrors.LegError
	assert.ErrorAs(t, err, &legErr)

	s, err := m.RemoveLeg(1)
	require.NoError(t, err)
	assert.Len(t, s.Legs, 1)

	s, err = m.RemoveLeg(0)
	require.NoError(t, err)
	assert.Nil(t, s, "removing the last leg clears the strategy")
	assert.False(t, m.Has())
}

func TestManagerUpdateLeg(t *testing.T) {
	m, u := newTestManager(t)
	_, err := m.Create("spread", u, makeLeg(t, u, testExpiry, 450, models.OptionCall, models.SideBuy, 1, 5.0))
	require.NoError(t, err)

	s, err := m.UpdateLegStrike(0, 460, 3.25)
	require.NoError(t, err)
	assert.Equal(t, 460.0, s.Legs[0].Contract.Strike)
	assert.Equal(t, 3.25, *s.Legs[0].EntryPrice)

	s, err = m.UpdateLegType(0, models.OptionPut, 4.0)
	require.NoError(t, err)
	assert.Equal(t, models.OptionPut, s.Legs[0].Contract.Type)
	assert.Equal(t, 4.0, *s.Legs[0].EntryPrice)

	newExpiry := testExpiry.AddDate(0, 1, 0)
	s, err = m.UpdateLegExpiry(0, newExpiry, 4.5)
	require.NoError(t, err)
	assert.True(t, s.Legs[0].Contract.Expiry.Equal(newExpiry))

	_, err = m.UpdateLegStrike(3, 470, 2.0)
	var legErr *apperrors.LegError
	assert.ErrorAs(t, err, &legErr)
}

func TestManagerPreviewStrikeDoesNotMutate(t *testing.T) {
	m, u := newTestManager(t)
	_, err := m.Create("spread", u, makeLeg(t, u, testExpiry, 450, models.OptionCall, models.SideBuy, 1, 5.0))
	require.NoError(t, err)

	preview := m.PreviewStrike(0, 470, 2.5)
	require.NotNil(t, preview)
	assert.Equal(t, 470.0, preview.Legs[0].Contract.Strike)
	assert.Equal(t, 450.0, m.Current().Legs[0].Contract.Strike, "managed state unchanged")

	assert.Nil(t, m.PreviewStrike(7, 470, 2.5))
	assert.Nil(t, m.PreviewStrike(0, -1, 2.5), "invalid strike previews as nil")
}

func TestManagerExpiryForNewLeg(t *testing.T) {
	m, u := newTestManager(t)

	selected := testExpiry.AddDate(0, 2, 0)
	assert.True(t, m.ExpiryForNewLeg(selected).Equal(selected), "no strategy passes selection through")

	_, err := m.Create("spread", u, makeLeg(t, u, testExpiry, 450, models.OptionCall, models.SideBuy, 1, 5.0))
	require.NoError(t, err)
	assert.True(t, m.ExpiryForNewLeg(selected).Equal(testExpiry), "same-expiry constraint pins to first leg")

	m.Reset()
	assert.False(t, m.Has())
	assert.True(t, m.ExpiryForNewLeg(selected).Equal(selected))
}
