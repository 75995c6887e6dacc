package marketdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringsAcceptsBothForms(t *testing.T) {
	var resp tradierExpirationsResponse
	require.NoError(t, json.Unmarshal([]byte(`{"expirations":{"date":"2026-10-16"}}`), &resp))
	assert.Equal(t, flexStrings{"2026-10-16"}, resp.Expirations.Date)

	resp = tradierExpirationsResponse{}
	require.NoError(t, json.Unmarshal([]byte(`{"expirations":{"date":["2026-10-16","2026-11-20"]}}`), &resp))
	assert.Equal(t, flexStrings{"2026-10-16", "2026-11-20"}, resp.Expirations.Date)
}

func TestFlexOptionsAcceptsBothForms(t *testing.T) {
	single := `{"options":{"option":{"strike":100,"option_type":"call","bid":1.0,"ask":1.2}}}`
	var resp tradierChainResponse
	require.NoError(t, json.Unmarshal([]byte(single), &resp))
	require.Len(t, resp.Options.Option, 1)
	assert.Equal(t, 100.0, resp.Options.Option[0].Strike)
	assert.Equal(t, "CALL", resp.Options.Option[0].TypeUpper())

	many := `{"options":{"option":[
		{"strike":100,"option_type":"call","bid":1.0,"ask":1.2},
		{"strike":105,"option_type":"put","bid":0.5,"ask":0.7,"greeks":{"mid_iv":0.25}}
	]}}`
	resp = tradierChainResponse{}
	require.NoError(t, json.Unmarshal([]byte(many), &resp))
	require.Len(t, resp.Options.Option, 2)
	require.NotNil(t, resp.Options.Option[1].Greeks)
	assert.Equal(t, 0.25, resp.Options.Option[1].Greeks.MidIV)
}

func TestFlexStockQuotesAcceptsBothForms(t *testing.T) {
	var resp tradierQuotesResponse
	require.NoError(t, json.Unmarshal([]byte(`{"quotes":{"quote":{"last":450.5,"prevclose":448.0}}}`), &resp))
	require.Len(t, resp.Quotes.Quote, 1)
	assert.Equal(t, 450.5, resp.Quotes.Quote[0].Last)
}

func TestParseOptionQuote(t *testing.T) {
	t.Run("normal two-sided market", func(t *testing.T) {
		q, err := parseOptionQuote(tradierOption{
			Strike: 100, OptionType: "call", Bid: 1.0, Ask: 1.2,
			Greeks: &tradierGreeks{MidIV: 0.2534},
		})
		require.NoError(t, err)
		assert.Equal(t, 1.0, q.Bid)
		assert.Equal(t, 1.2, q.Ask)
		assert.Equal(t, 1.1, q.Mid)
		assert.Equal(t, 0.2534, q.IV)
	})

	t.Run("inverted market swaps sides", func(t *testing.T) {
		q, err := parseOptionQuote(tradierOption{Bid: 1.5, Ask: 1.0})
		require.NoError(t, err)
		assert.Equal(t, 1.0, q.Bid)
		assert.Equal(t, 1.5, q.Ask)
		assert.Equal(t, 1.25, q.Mid)
	})

	t.Run("one-sided market is rejected", func(t *testing.T) {
		_, err := parseOptionQuote(tradierOption{Bid: 1.0, Ask: 0})
		assert.Error(t, err)
	})

	t.Run("no bid yields zero mid", func(t *testing.T) {
		q, err := parseOptionQuote(tradierOption{Bid: 0, Ask: 2.0})
		require.NoError(t, err)
		assert.Equal(t, 0.0, q.Mid)
		assert.Equal(t, 2.0, q.Ask)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		_, err := parseOptionQuote(tradierOption{Bid: -1, Ask: 1})
		assert.Error(t, err)
	})

	t.Run("missing greeks falls back to zero iv", func(t *testing.T) {
		q, err := parseOptionQuote(tradierOption{Bid: 1.0, Ask: 1.2})
		require.NoError(t, err)
		assert.Equal(t, 0.0, q.IV)
	})
}
