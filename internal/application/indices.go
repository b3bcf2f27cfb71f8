package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thangld/vnmarket/internal/domain"
	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

// KnownIndices is the fixed set of Vietnamese market indices the service
// recognizes. Index values are already denominated in points, not the
// reduced equity unit, so they are never rescaled.
var KnownIndices = []string{"VNINDEX", "VN30", "HNX", "HNX30", "UPCOM"}

// IsKnownIndex reports whether symbol names one of the recognized indices.
func IsKnownIndex(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	for _, idx := range KnownIndices {
		if idx == symbol {
			return true
		}
	}
	return false
}

// IndexExchange returns the venue an index belongs to.
func IndexExchange(symbol string) string {
	if strings.HasPrefix(strings.ToUpper(symbol), "VN") {
		return "HOSE"
	}
	return "HNX"
}

// IndexName renders the display name used for index search results.
func IndexName(symbol string) string {
	return fmt.Sprintf("Vietnam %s Index", strings.ToUpper(symbol))
}

// IndexService normalizes index candles. Identical to the equity path except
// that values pass through unscaled.
type IndexService struct {
	provider marketdata.Provider
	now      func() time.Time
}

func NewIndexService(provider marketdata.Provider) *IndexService {
	return &IndexService{provider: provider, now: time.Now}
}

func (s *IndexService) History(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	candles, err := s.provider.CandleHistory(ctx, symbol, start, end)
	if err != nil {
		slog.Warn("index history fetch failed", "symbol", symbol, "error", err)
		return []domain.PricePoint{}
	}
	return normalizeCandles(candles, 1)
}

func (s *IndexService) Latest(ctx context.Context, symbol string) *domain.PricePoint {
	today := domain.FormatDate(s.now())
	points := s.History(ctx, symbol, today, today)
	if len(points) == 0 {
		return nil
	}
	return &points[len(points)-1]
}
