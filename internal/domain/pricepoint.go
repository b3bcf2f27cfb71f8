package domain

import "time"

// DateLayout is the calendar-date format used on every boundary of the
// service. Dates carry no time zone; two dates are equal when their
// YYYY-MM-DD renderings are equal.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PricePoint is the canonical OHLC record shared by every asset class.
// Instruments without intraday data (funds, gold) carry a single settlement
// value in all five price fields. Nav mirrors the settlement value for
// fund-style consumers.
type PricePoint struct {
	Date      string   `json:"date"`
	Nav       Decimal  `json:"nav"`
	Open      Decimal  `json:"open"`
	High      Decimal  `json:"high"`
	Low       Decimal  `json:"low"`
	Close     Decimal  `json:"close"`
	AdjClose  Decimal  `json:"adjclose"`
	Volume    Decimal  `json:"volume"`
	BuyPrice  *Decimal `json:"buy_price,omitempty"`
	SellPrice *Decimal `json:"sell_price,omitempty"`
}

// NewSettlementPoint builds a flat PricePoint where open, high, low, close
// and adjclose all equal the single known settlement value.
func NewSettlementPoint(date string, value Decimal) PricePoint {
	return PricePoint{
		Date:     date,
		Nav:      value,
		Open:     value,
		High:     value,
		Low:      value,
		Close:    value,
		AdjClose: value,
		Volume:   Zero,
	}
}
