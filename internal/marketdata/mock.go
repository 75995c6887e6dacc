package marketdata

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"deltaspread/internal/models"
)

// MockService is a deterministic market data source. Expiries, strikes
// and quotes are derived by hashing the request parameters, so repeated
// calls always agree and no network is involved.
type MockService struct {
	today time.Time
}

// NewMockService creates a mock source anchored at the current date.
func NewMockService() *MockService {
	return NewMockServiceAt(time.Now())
}

// NewMockServiceAt creates a mock source anchored at a fixed date,
// which keeps expiry generation reproducible in tests.
func NewMockServiceAt(today time.Time) *MockService {
	y, m, d := today.Date()
	return &MockService{today: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// GetExpiries returns one expiry per day from today through the last
// day of the next February.
func (s *MockService) GetExpiries(_ context.Context) ([]time.Time, error) {
	targetYear := s.today.Year()
	if s.today.Month() > time.February {
		targetYear++
	}
	febLastDay := 28
	if isLeapYear(targetYear) {
		febLastDay = 29
	}
	end := time.Date(targetYear, time.February, febLastDay, 0, 0, 0, 0, time.UTC)

	var expiries []time.Time
	for d := s.today; !d.After(end); d = d.AddDate(0, 0, 1) {
		expiries = append(expiries, d)
	}
	return expiries, nil
}

// GetStrikes returns an 11-strike ladder centered on a hash-derived
// base price, with a step of 1, 5 or 10 depending on the base level.
func (s *MockService) GetStrikes(_ context.Context, symbol string, expiry time.Time) ([]float64, error) {
	seed := hashSeed(fmt.Sprintf("%s|%s", symbol, expiry.Format("2006-01-02")))
	base := 50 + int(seed%250)

	step := 10
	switch {
	case base < 100:
		step = 1
	case base < 200:
		step = 5
	}

	const count = 11
	strikes := make([]float64, count)
	for i := 0; i < count; i++ {
		strikes[i] = round2(float64(base + (i-count/2)*step))
	}
	return strikes, nil
}

// GetChain returns quotes for every strike and type at the expiry.
func (s *MockService) GetChain(ctx context.Context, symbol string, expiry time.Time) ([]models.OptionQuote, error) {
	strikes, err := s.GetStrikes(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}
	quotes := make([]models.OptionQuote, 0, 2*len(strikes))
	for _, typ := range []models.OptionType{models.OptionCall, models.OptionPut} {
		for _, strike := range strikes {
			q, err := s.GetQuote(ctx, symbol, expiry, strike, typ)
			if err != nil {
				return nil, err
			}
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

// GetQuote derives a quote from the contract parameters. The same
// contract always yields the same bid/ask/mid/iv.
func (s *MockService) GetQuote(_ context.Context, symbol string, expiry time.Time, strike float64, typ models.OptionType) (models.OptionQuote, error) {
	seed := hashSeed(fmt.Sprintf("%s|%s|%.2f|%s", symbol, expiry.Format("2006-01-02"), strike, typ))

	base := float64(seed%1000) / 100.0
	spread := 0.2 + float64((seed>>8)%50)/100.0
	bid := math.Max(base-spread/2, 0)
	ask := base + spread/2
	mid := round2((bid + ask) / 2)
	iv := round4(0.1 + float64((seed>>16)%200)/1000.0)

	return models.NewOptionQuote(round2(bid), round2(ask), mid, iv, time.Now())
}

func hashSeed(key string) uint32 {
	sum := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint32(sum[:4])
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
