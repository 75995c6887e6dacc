package cli

import (
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"deltaspread/internal/errors"
	"deltaspread/internal/models"
)

// legRow is one line of a strategy legs CSV file.
type legRow struct {
	Expiry     string  `csv:"expiry"` // 2006-01-02
	Strike     float64 `csv:"strike"`
	Type       string  `csv:"type"` // CALL or PUT
	Side       string  `csv:"side"` // BUY or SELL
	Quantity   int     `csv:"quantity"`
	EntryPrice string  `csv:"entry_price"` // empty means unknown
	Notes      string  `csv:"notes"`
}

// loadLegsCSV reads strategy legs from a CSV file and builds validated
// OptionLegs on the given underlier.
func loadLegsCSV(path string, underlier models.Underlier) ([]models.OptionLeg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open legs file")
	}
	defer f.Close()

	var rows []legRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrap(err, "parse legs file")
	}
	if len(rows) == 0 {
		return nil, errors.NewValidationError("legs", path, "legs file is empty")
	}

	legs := make([]models.OptionLeg, 0, len(rows))
	for i, row := range rows {
		expiry, err := time.Parse("2006-01-02", row.Expiry)
		if err != nil {
			return nil, errors.NewLegError(i, "parse", "expiry must be YYYY-MM-DD")
		}
		contract, err := models.NewOptionContract(underlier, expiry, row.Strike, models.OptionType(row.Type))
		if err != nil {
			return nil, errors.Wrapf(err, "legs file row %d", i+1)
		}
		var entryPrice *float64
		if row.EntryPrice != "" {
			v, err := strconv.ParseFloat(row.EntryPrice, 64)
			if err != nil {
				return nil, errors.NewLegError(i, "parse", "entry_price must be numeric")
			}
			entryPrice = &v
		}
		leg, err := models.NewOptionLeg(contract, models.Side(row.Side), row.Quantity, entryPrice, row.Notes)
		if err != nil {
			return nil, errors.Wrapf(err, "legs file row %d", i+1)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}
