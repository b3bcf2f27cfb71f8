package marketdata

import "context"

// FundListing is one row of the upstream fund directory.
type FundListing struct {
	FundCode  string
	ShortName string
	Name      string
	FundID    int64
}

// NavRecord is a single NAV observation for a fund. NavPerUnit is a pointer
// because the gateway emits null for days without a published NAV.
type NavRecord struct {
	Date       string
	NavPerUnit *float64
}

// CandleRecord is one OHLCV bar for a stock or index, in the provider's
// reduced price unit for equities. Any field may be null upstream.
type CandleRecord struct {
	Date   string
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *float64
}

// StockSymbol is one row of the exchange-wide symbol listing.
type StockSymbol struct {
	Symbol    string
	OrganName string
}

// GoldRecord is one SJC branch quote for a single day, in VND per tael.
type GoldRecord struct {
	Date      string
	BuyPrice  *float64
	SellPrice *float64
}

// Provider is the single upstream market-data source. All methods are
// synchronous queries; transport and authentication live behind the
// implementation.
type Provider interface {
	// FundListing returns the full mutual fund directory.
	FundListing(ctx context.Context) ([]FundListing, error)
	// FundNavReport returns the complete NAV series for one fund id.
	FundNavReport(ctx context.Context, fundID int64) ([]NavRecord, error)
	// CandleHistory returns daily bars for a stock or index symbol between
	// start and end (YYYY-MM-DD, inclusive).
	CandleHistory(ctx context.Context, symbol, start, end string) ([]CandleRecord, error)
	// StockListing returns every listed equity symbol with its company name.
	StockListing(ctx context.Context) ([]StockSymbol, error)
	// GoldPrice returns the SJC gold quotes for one date; an empty date
	// means the latest available quotes.
	GoldPrice(ctx context.Context, date string) ([]GoldRecord, error)
}
