package application

import (
	"context"
	"fmt"

	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

// stubProvider implements marketdata.Provider with overridable function
// fields; unset methods fail loudly.
type stubProvider struct {
	fundListing   func(ctx context.Context) ([]marketdata.FundListing, error)
	fundNavReport func(ctx context.Context, fundID int64) ([]marketdata.NavRecord, error)
	candleHistory func(ctx context.Context, symbol, start, end string) ([]marketdata.CandleRecord, error)
	stockListing  func(ctx context.Context) ([]marketdata.StockSymbol, error)
	goldPrice     func(ctx context.Context, date string) ([]marketdata.GoldRecord, error)
}

func (s *stubProvider) FundListing(ctx context.Context) ([]marketdata.FundListing, error) {
	if s.fundListing != nil {
		return s.fundListing(ctx)
	}
	return nil, fmt.Errorf("FundListing not stubbed")
}

func (s *stubProvider) FundNavReport(ctx context.Context, fundID int64) ([]marketdata.NavRecord, error) {
	if s.fundNavReport != nil {
		return s.fundNavReport(ctx, fundID)
	}
	return nil, fmt.Errorf("FundNavReport not stubbed")
}

func (s *stubProvider) CandleHistory(ctx context.Context, symbol, start, end string) ([]marketdata.CandleRecord, error) {
	if s.candleHistory != nil {
		return s.candleHistory(ctx, symbol, start, end)
	}
	return nil, fmt.Errorf("CandleHistory not stubbed")
}

func (s *stubProvider) StockListing(ctx context.Context) ([]marketdata.StockSymbol, error) {
	if s.stockListing != nil {
		return s.stockListing(ctx)
	}
	return nil, fmt.Errorf("StockListing not stubbed")
}

func (s *stubProvider) GoldPrice(ctx context.Context, date string) ([]marketdata.GoldRecord, error) {
	if s.goldPrice != nil {
		return s.goldPrice(ctx, date)
	}
	return nil, fmt.Errorf("GoldPrice not stubbed")
}

func fptr(v float64) *float64 {
	return &v
}

// testFundListing is the directory most tests start from.
func testFundListing() []marketdata.FundListing {
	return []marketdata.FundListing{
		{FundCode: "VESAF", ShortName: "VESAF", Name: "VinaCapital Equity Special Access Fund", FundID: 23},
		{FundCode: "DCDS", ShortName: "DCDS", Name: "Dragon Capital Dynamic Securities Fund", FundID: 28},
		{FundCode: "SSISCA", ShortName: "SSI-SCA", Name: "SSI Sustainable Competitive Advantage Fund", FundID: 11},
	}
}
