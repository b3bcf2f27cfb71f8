package domain

import "strings"

type AssetClass string

const (
	AssetClassStock     AssetClass = "STOCK"
	AssetClassFund      AssetClass = "FUND"
	AssetClassIndex     AssetClass = "INDEX"
	AssetClassCommodity AssetClass = "COMMODITY"
)

// Instrument is one entry of the symbol directory. InternalID is the
// provider-side identifier and is only populated for funds, which the
// upstream gateway addresses by numeric id instead of ticker.
type Instrument struct {
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	AssetClass AssetClass `json:"asset_class"`
	InternalID int64      `json:"-"`
}

func NewInstrument(symbol, name string, class AssetClass, internalID int64) Instrument {
	return Instrument{
		Symbol:     strings.ToUpper(symbol),
		Name:       name,
		AssetClass: class,
		InternalID: internalID,
	}
}

func (i Instrument) IsValid() bool {
	return i.Symbol != ""
}
