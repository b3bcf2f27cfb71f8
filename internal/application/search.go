package application

import (
	"context"
	"strings"

	"github.com/thangld/vnmarket/internal/domain"
)

// searchResultCap bounds the merged result list once fund matches join it.
const searchResultCap = 20

// goldPhrases are the query fragments that resolve to the VN_GOLD commodity
// after normalization (lowercase, underscores and hyphens as spaces).
var goldPhrases = []string{"vn gold", "vngold", "gold vn", "vietnam gold", "sjc gold"}

// SearchService fans a free-text query out across asset classes and merges
// the hits into one ranked list: commodity first, then indices, then the
// stock match, then funds. A failing source contributes nothing; the router
// itself never fails.
type SearchService struct {
	stocks    *StockService
	directory *FundDirectory
}

func NewSearchService(stocks *StockService, directory *FundDirectory) *SearchService {
	return &SearchService{stocks: stocks, directory: directory}
}

func (s *SearchService) Search(ctx context.Context, query string) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, 8)
	upper := strings.ToUpper(query)
	lower := strings.ToLower(query)

	if matchesGold(lower) {
		results = append(results,
			domain.NewSearchResult(GoldSymbol, goldName, domain.AssetClassCommodity, "VN"))
	}

	for _, idx := range KnownIndices {
		if strings.Contains(idx, upper) {
			results = append(results,
				domain.NewSearchResult(idx, IndexName(idx), domain.AssetClassIndex, IndexExchange(idx)))
		}
	}

	if stock := s.stocks.Find(ctx, upper); stock != nil {
		results = append(results,
			domain.NewSearchResult(stock.Symbol, stock.CompanyName, domain.AssetClassStock, stock.Exchange))
	}

	if instruments, err := s.directory.Directory(ctx); err == nil {
		for _, fund := range instruments {
			if len(results) >= searchResultCap {
				break
			}
			if strings.Contains(strings.ToLower(fund.Symbol), lower) ||
				strings.Contains(strings.ToLower(fund.Name), lower) {
				results = append(results,
					domain.NewSearchResult(fund.Symbol, fund.Name, domain.AssetClassFund, "VN"))
			}
		}
	}

	return results
}

// matchesGold reports whether the lowercased query names the gold commodity.
func matchesGold(lower string) bool {
	normalized := strings.ReplaceAll(lower, "_", " ")
	normalized = strings.ReplaceAll(normalized, "-", " ")
	normalized = strings.TrimSpace(normalized)

	if normalized == "gold" {
		return true
	}
	for _, phrase := range goldPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
