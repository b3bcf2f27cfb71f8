package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/thangld/vnmarket/internal/domain"
	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

// equityScale converts the provider's reduced equity price unit to VND.
// Fund NAVs and gold quotes arrive in VND already and must not pass through
// this.
const equityScale = 1000

// StockService normalizes equity candles from the upstream provider. Every
// upstream failure inside an operation is absorbed into an empty result and
// a logged warning; callers never see an error for a single-symbol fetch.
type StockService struct {
	provider marketdata.Provider
	now      func() time.Time
}

func NewStockService(provider marketdata.Provider) *StockService {
	return &StockService{provider: provider, now: time.Now}
}

// History returns daily OHLCV rows between start and end, ascending by date,
// with prices rescaled to VND. No data, or any upstream failure, yields an
// empty slice.
func (s *StockService) History(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	candles, err := s.provider.CandleHistory(ctx, symbol, start, end)
	if err != nil {
		slog.Warn("stock history fetch failed", "symbol", symbol, "error", err)
		return []domain.PricePoint{}
	}
	return normalizeCandles(candles, equityScale)
}

// Latest returns today's bar for the symbol, or nil when the market has not
// produced one.
func (s *StockService) Latest(ctx context.Context, symbol string) *domain.PricePoint {
	today := domain.FormatDate(s.now())
	points := s.History(ctx, symbol, today, today)
	if len(points) == 0 {
		return nil
	}
	return &points[len(points)-1]
}

// Find looks the symbol up in the exchange-wide listing. It returns nil both
// for an unknown symbol and for an upstream failure.
func (s *StockService) Find(ctx context.Context, symbol string) *domain.StockInfo {
	symbol = strings.ToUpper(symbol)

	listing, err := s.provider.StockListing(ctx)
	if err != nil {
		slog.Warn("stock listing fetch failed", "symbol", symbol, "error", err)
		return nil
	}

	for _, entry := range listing {
		if strings.ToUpper(entry.Symbol) != symbol {
			continue
		}
		name := entry.OrganName
		if name == "" {
			name = symbol
		}
		return &domain.StockInfo{
			Symbol:      symbol,
			CompanyName: name,
			Exchange:    "HOSE",
		}
	}
	return nil
}

// normalizeCandles maps upstream bars onto the canonical PricePoint shape.
// Price fields are multiplied by scale; volume never is. Null numeric fields
// coerce to zero so the row survives; rows without a date are unusable and
// skipped.
func normalizeCandles(candles []marketdata.CandleRecord, scale float64) []domain.PricePoint {
	points := make([]domain.PricePoint, 0, len(candles))
	for _, c := range candles {
		if c.Date == "" {
			continue
		}
		closeVal := domain.NewDecimalFromFloat(deref(c.Close) * scale)
		points = append(points, domain.PricePoint{
			Date:     c.Date,
			Nav:      closeVal,
			Open:     domain.NewDecimalFromFloat(deref(c.Open) * scale),
			High:     domain.NewDecimalFromFloat(deref(c.High) * scale),
			Low:      domain.NewDecimalFromFloat(deref(c.Low) * scale),
			Close:    closeVal,
			AdjClose: closeVal,
			Volume:   domain.NewDecimalFromFloat(deref(c.Volume)),
		})
	}
	sortPointsByDate(points)
	return points
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
