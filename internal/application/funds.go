package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/thangld/vnmarket/internal/domain"
	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

// FundService serves mutual fund NAVs. Funds are the one asset class that
// needs symbol resolution: the provider addresses funds by internal id, so
// every operation goes through the directory first. NAVs arrive in VND and
// are never rescaled.
type FundService struct {
	provider  marketdata.Provider
	directory *FundDirectory
	now       func() time.Time
}

func NewFundService(provider marketdata.Provider, directory *FundDirectory) *FundService {
	return &FundService{provider: provider, directory: directory, now: time.Now}
}

// List returns the cached fund directory. This is the only fund operation
// that can fail hard: with no snapshot and no upstream there is no safe
// empty default for which funds exist.
func (s *FundService) List(ctx context.Context) ([]domain.Instrument, error) {
	return s.directory.Directory(ctx)
}

// History returns the fund's NAV series restricted to [start, end],
// inclusive on both ends, ascending by date. Unknown symbols and upstream
// failures yield an empty slice.
func (s *FundService) History(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	records := s.navReport(ctx, symbol)

	points := make([]domain.PricePoint, 0, len(records))
	for _, rec := range records {
		date := calendarDate(rec.Date)
		if date == "" || !withinRange(date, start, end) {
			continue
		}
		nav := domain.NewDecimalFromFloat(deref(rec.NavPerUnit))
		points = append(points, domain.NewSettlementPoint(date, nav))
	}
	sortPointsByDate(points)
	return points
}

// Latest returns the most recent NAV observation, or nil when the fund is
// unknown or the provider has nothing.
func (s *FundService) Latest(ctx context.Context, symbol string) *domain.PricePoint {
	records := s.navReport(ctx, symbol)
	if len(records) == 0 {
		return nil
	}

	last := records[len(records)-1]
	date := calendarDate(last.Date)
	if date == "" {
		date = domain.FormatDate(s.now())
	}
	point := domain.NewSettlementPoint(date, domain.NewDecimalFromFloat(deref(last.NavPerUnit)))
	return &point
}

// Find returns the fund's descriptive record with its latest NAV attached,
// or nil when the symbol does not resolve.
func (s *FundService) Find(ctx context.Context, symbol string) *domain.FundInfo {
	latest := s.Latest(ctx, symbol)
	if latest == nil {
		return nil
	}

	symbol = strings.ToUpper(symbol)
	name := symbol
	if instruments, err := s.directory.Directory(ctx); err == nil {
		for _, inst := range instruments {
			if inst.Symbol == symbol {
				name = inst.Name
				break
			}
		}
	}

	return &domain.FundInfo{
		Symbol:     symbol,
		Name:       name,
		FundType:   "MUTUAL_FUND",
		NavPerUnit: latest.Nav,
	}
}

// navReport resolves the symbol and fetches the full NAV series. All failure
// modes collapse to an empty slice per the absorb-at-the-normalizer policy.
func (s *FundService) navReport(ctx context.Context, symbol string) []marketdata.NavRecord {
	fundID, ok := s.directory.ResolveFundID(ctx, symbol)
	if !ok {
		slog.Warn("fund id not found", "symbol", symbol)
		return nil
	}

	records, err := s.provider.FundNavReport(ctx, fundID)
	if err != nil {
		slog.Warn("fund nav report fetch failed", "symbol", symbol, "fund_id", fundID, "error", err)
		return nil
	}
	return records
}

// calendarDate reduces an upstream date value to YYYY-MM-DD, dropping any
// time-of-day suffix. Unparseable values yield "".
func calendarDate(raw string) string {
	if raw == "" {
		return ""
	}
	if len(raw) >= len(domain.DateLayout) {
		candidate := raw[:len(domain.DateLayout)]
		if _, err := domain.ParseDate(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
