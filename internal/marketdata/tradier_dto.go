package marketdata

import (
	"encoding/json"
	"strings"
	"time"

	"deltaspread/internal/errors"
	"deltaspread/internal/models"
)

// Tradier collapses single-element arrays to bare objects/strings, so
// the DTO wrappers below accept either form.

type tradierExpirationsResponse struct {
	Expirations struct {
		Date flexStrings `json:"date"`
	} `json:"expirations"`
}

type tradierChainResponse struct {
	Options struct {
		Option flexOptions `json:"option"`
	} `json:"options"`
}

type tradierQuotesResponse struct {
	Quotes struct {
		Quote flexStockQuotes `json:"quote"`
	} `json:"quotes"`
}

type tradierOption struct {
	Strike     float64        `json:"strike"`
	OptionType string         `json:"option_type"`
	Bid        float64        `json:"bid"`
	Ask        float64        `json:"ask"`
	Greeks     *tradierGreeks `json:"greeks"`
}

// TypeUpper returns the option type normalized to upper case.
func (o tradierOption) TypeUpper() string {
	return strings.ToUpper(o.OptionType)
}

type tradierGreeks struct {
	MidIV float64 `json:"mid_iv"`
}

type tradierStockQuote struct {
	Last             float64 `json:"last"`
	Change           float64 `json:"change"`
	ChangePercentage float64 `json:"change_percentage"`
	PrevClose        float64 `json:"prevclose"`
}

type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var ss []string
		if err := json.Unmarshal(b, &ss); err != nil {
			return err
		}
		*f = ss
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = flexStrings{s}
	return nil
}

type flexOptions []tradierOption

func (f *flexOptions) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var opts []tradierOption
		if err := json.Unmarshal(b, &opts); err != nil {
			return err
		}
		*f = opts
		return nil
	}
	var opt tradierOption
	if err := json.Unmarshal(b, &opt); err != nil {
		return err
	}
	*f = flexOptions{opt}
	return nil
}

type flexStockQuotes []tradierStockQuote

func (f *flexStockQuotes) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var qs []tradierStockQuote
		if err := json.Unmarshal(b, &qs); err != nil {
			return err
		}
		*f = qs
		return nil
	}
	var q tradierStockQuote
	if err := json.Unmarshal(b, &q); err != nil {
		return err
	}
	*f = flexStockQuotes{q}
	return nil
}

// parseOptionQuote converts a raw chain row into a validated quote.
// Mid is only derived when both sides are quoted; inverted markets are
// normalized by swapping bid and ask.
func parseOptionQuote(opt tradierOption) (models.OptionQuote, error) {
	bid, ask := opt.Bid, opt.Ask
	if bid < 0 || ask < 0 {
		return models.OptionQuote{}, errors.NewValidationError("quote", bid, "negative price in chain row")
	}
	if bid > ask && ask > 0 {
		bid, ask = ask, bid
	}

	mid := 0.0
	if bid > 0 && ask > 0 {
		mid = round2((bid + ask) / 2)
	}

	iv := 0.0
	if opt.Greeks != nil {
		iv = opt.Greeks.MidIV
	}
	if iv < 0 {
		iv = 0
	}

	return models.NewOptionQuote(round2(bid), round2(ask), mid, round4(iv), time.Now())
}
