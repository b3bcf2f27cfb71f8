package application

import (
	"context"
	"strings"
	"time"

	"github.com/thangld/vnmarket/internal/domain"
	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

// Options tunes the service; zero values pick the defaults.
type Options struct {
	DirectoryTTL    time.Duration
	GoldConcurrency int
}

// Service composes the per-asset-class services and the unified dispatch
// operations on top of them. It is the single entry point the HTTP layer
// talks to.
type Service struct {
	Stocks  *StockService
	Funds   *FundService
	Indices *IndexService
	Gold    *GoldService

	search    *SearchService
	directory *FundDirectory
}

func NewService(provider marketdata.Provider, opts Options) *Service {
	directory := NewFundDirectory(provider, opts.DirectoryTTL)
	stocks := NewStockService(provider)

	return &Service{
		Stocks:    stocks,
		Funds:     NewFundService(provider, directory),
		Indices:   NewIndexService(provider),
		Gold:      NewGoldService(provider, opts.GoldConcurrency),
		search:    NewSearchService(stocks, directory),
		directory: directory,
	}
}

// Search fans the query across asset classes; see SearchService.
func (s *Service) Search(ctx context.Context, query string) []domain.SearchResult {
	return s.search.Search(ctx, query)
}

// HistoryAny serves the class-agnostic history operation. Dispatch priority
// when a symbol could belong to several classes: gold, known indices, funds,
// then the stock fallthrough.
func (s *Service) HistoryAny(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	symbol = strings.ToUpper(symbol)

	switch {
	case symbol == GoldSymbol:
		return s.Gold.History(ctx, start, end)
	case IsKnownIndex(symbol):
		return s.Indices.History(ctx, symbol, start, end)
	default:
		if _, ok := s.directory.ResolveFundID(ctx, symbol); ok {
			return s.Funds.History(ctx, symbol, start, end)
		}
		return s.Stocks.History(ctx, symbol, start, end)
	}
}

// SearchSymbol resolves one exact symbol across asset classes with the same
// priority as HistoryAny. It returns ErrNotFound when nothing matches.
func (s *Service) SearchSymbol(ctx context.Context, symbol string) (*domain.SearchResult, error) {
	symbol = strings.ToUpper(symbol)

	if symbol == GoldSymbol {
		info := s.Gold.Info()
		return &info, nil
	}

	if IsKnownIndex(symbol) {
		result := domain.NewSearchResult(symbol, IndexName(symbol), domain.AssetClassIndex, IndexExchange(symbol))
		return &result, nil
	}

	if fund := s.Funds.Find(ctx, symbol); fund != nil {
		result := domain.NewSearchResult(fund.Symbol, fund.Name, domain.AssetClassFund, "VN")
		return &result, nil
	}

	if stock := s.Stocks.Find(ctx, symbol); stock != nil {
		result := domain.NewSearchResult(stock.Symbol, stock.CompanyName, domain.AssetClassStock, stock.Exchange)
		return &result, nil
	}

	return nil, domain.ErrNotFound
}
