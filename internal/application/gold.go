package application

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thangld/vnmarket/internal/domain"
	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

const (
	// GoldSymbol is the synthetic ticker for SJC gold.
	GoldSymbol = "VN_GOLD"
	goldName   = "SJC Gold Price"

	// Fallback prices in VND per tael (1 tael is about 37.5 grams), used
	// whenever the SJC feed has nothing for a date. Reviewed against the
	// feed periodically.
	fallbackBuyPrice  = 84_000_000.0
	fallbackSellPrice = 86_500_000.0

	defaultGoldConcurrency = 8
)

// GoldService serves SJC gold quotes with a hardcoded-price fallback. The
// upstream feed is addressed one calendar date at a time, so a history range
// fans out into independent per-date fetches; every date in the range gets
// exactly one PricePoint regardless of how many of those fetches fail.
type GoldService struct {
	provider    marketdata.Provider
	now         func() time.Time
	concurrency int
}

func NewGoldService(provider marketdata.Provider, concurrency int) *GoldService {
	if concurrency <= 0 {
		concurrency = defaultGoldConcurrency
	}
	return &GoldService{provider: provider, now: time.Now, concurrency: concurrency}
}

// Info returns the static gold asset description.
func (s *GoldService) Info() domain.SearchResult {
	return domain.NewSearchResult(GoldSymbol, goldName, domain.AssetClassCommodity, "SJC")
}

// History returns one PricePoint per calendar date in [start, end]. Dates
// the feed covers come back with real buy/sell prices; the rest are
// synthesized from the fallback constants. Malformed bounds or an inverted
// range yield an empty slice.
func (s *GoldService) History(ctx context.Context, start, end string) []domain.PricePoint {
	startDt, err := domain.ParseDate(start)
	if err != nil {
		slog.Warn("gold history skipped, bad start date", "start", start, "error", err)
		return []domain.PricePoint{}
	}
	endDt, err := domain.ParseDate(end)
	if err != nil {
		slog.Warn("gold history skipped, bad end date", "end", end, "error", err)
		return []domain.PricePoint{}
	}
	if endDt.Before(startDt) {
		return []domain.PricePoint{}
	}

	days := int(endDt.Sub(startDt).Hours()/24) + 1
	points := make([]domain.PricePoint, days)

	// Per-date fetches are independent; run them concurrently and let each
	// fill its own slot so the output stays in date order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := 0; i < days; i++ {
		i := i
		date := domain.FormatDate(startDt.AddDate(0, 0, i))
		g.Go(func() error {
			point, ok := s.fetchDay(gctx, date)
			if !ok {
				slog.Warn("no gold data from upstream, using fallback", "date", date)
				point = fallbackPoint(date)
			}
			points[i] = point
			return nil
		})
	}
	// Workers never return errors; failures become fallback points.
	_ = g.Wait()

	return points
}

// Latest returns today's gold quote. The same two-path policy as History
// collapses to one upstream attempt followed by one fallback construction,
// so the result is never nil.
func (s *GoldService) Latest(ctx context.Context) *domain.PricePoint {
	today := domain.FormatDate(s.now())

	records, err := s.provider.GoldPrice(ctx, "")
	if err != nil || len(records) == 0 {
		slog.Warn("latest gold quote unavailable, using fallback", "error", err)
		point := fallbackPoint(today)
		return &point
	}

	date := today
	if d := calendarDate(records[0].Date); d != "" {
		date = d
	}
	point, ok := buildGoldPoint(records[0], date)
	if !ok {
		slog.Warn("latest gold quote had no positive price, using fallback")
		point = fallbackPoint(today)
	}
	return &point
}

// fetchDay attempts the upstream path for one date. ok=false covers fetch
// errors, empty responses, and rows without a positive price.
func (s *GoldService) fetchDay(ctx context.Context, date string) (domain.PricePoint, bool) {
	records, err := s.provider.GoldPrice(ctx, date)
	if err != nil || len(records) == 0 {
		return domain.PricePoint{}, false
	}
	return buildGoldPoint(records[0], date)
}

// buildGoldPoint maps the first branch row (branches quote the same price)
// onto a settlement PricePoint carrying the given date. The sell price is
// preferred as the settlement value, falling back to the buy price.
func buildGoldPoint(rec marketdata.GoldRecord, date string) (domain.PricePoint, bool) {
	buy := deref(rec.BuyPrice)
	sell := deref(rec.SellPrice)

	price := sell
	if price <= 0 {
		price = buy
	}
	if price <= 0 {
		return domain.PricePoint{}, false
	}

	point := domain.NewSettlementPoint(date, domain.NewDecimalFromFloat(price))
	buyDec := domain.NewDecimalFromFloat(buy)
	sellDec := domain.NewDecimalFromFloat(sell)
	point.BuyPrice = &buyDec
	point.SellPrice = &sellDec
	return point, true
}

func fallbackPoint(date string) domain.PricePoint {
	point := domain.NewSettlementPoint(date, domain.NewDecimalFromFloat(fallbackSellPrice))
	buyDec := domain.NewDecimalFromFloat(fallbackBuyPrice)
	sellDec := domain.NewDecimalFromFloat(fallbackSellPrice)
	point.BuyPrice = &buyDec
	point.SellPrice = &sellDec
	return point
}
