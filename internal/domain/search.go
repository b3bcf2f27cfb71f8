package domain

// DataSource tags every outbound record with the provider family it came
// from, matching what downstream portfolio tooling expects.
const DataSource = "VN_MARKET"

// SearchResult is a transient search hit; it is built per query and never
// persisted.
type SearchResult struct {
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	AssetType  AssetClass `json:"asset_type"`
	Exchange   string     `json:"exchange"`
	Currency   string     `json:"currency"`
	DataSource string     `json:"data_source"`
}

func NewSearchResult(symbol, name string, assetType AssetClass, exchange string) SearchResult {
	return SearchResult{
		Symbol:     symbol,
		Name:       name,
		AssetType:  assetType,
		Exchange:   exchange,
		Currency:   "VND",
		DataSource: DataSource,
	}
}

// StockInfo is the listing entry returned by a stock symbol lookup.
type StockInfo struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Exchange    string `json:"exchange"`
}

// FundInfo describes one fund together with its most recent NAV.
type FundInfo struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"fund_name"`
	FundType   string  `json:"fund_type"`
	NavPerUnit Decimal `json:"nav_per_unit"`
}
