package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thangld/vnmarket/internal/domain"
)

type mockFundService struct {
	list    func(ctx context.Context) ([]domain.Instrument, error)
	find    func(ctx context.Context, symbol string) *domain.FundInfo
	latest  func(ctx context.Context, symbol string) *domain.PricePoint
	history func(ctx context.Context, symbol, start, end string) []domain.PricePoint
}

func (m *mockFundService) List(ctx context.Context) ([]domain.Instrument, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}

func (m *mockFundService) Find(ctx context.Context, symbol string) *domain.FundInfo {
	if m.find == nil {
		return nil
	}
	return m.find(ctx, symbol)
}

func (m *mockFundService) Latest(ctx context.Context, symbol string) *domain.PricePoint {
	if m.latest == nil {
		return nil
	}
	return m.latest(ctx, symbol)
}

func (m *mockFundService) History(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	if m.history == nil {
		return nil
	}
	return m.history(ctx, symbol, start, end)
}

type mockStockService struct {
	find    func(ctx context.Context, symbol string) *domain.StockInfo
	latest  func(ctx context.Context, symbol string) *domain.PricePoint
	history func(ctx context.Context, symbol, start, end string) []domain.PricePoint
}

func (m *mockStockService) Find(ctx context.Context, symbol string) *domain.StockInfo {
	if m.find == nil {
		return nil
	}
	return m.find(ctx, symbol)
}

func (m *mockStockService) Latest(ctx context.Context, symbol string) *domain.PricePoint {
	if m.latest == nil {
		return nil
	}
	return m.latest(ctx, symbol)
}

func (m *mockStockService) History(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	if m.history == nil {
		return nil
	}
	return m.history(ctx, symbol, start, end)
}

type mockIndexService struct {
	latest  func(ctx context.Context, symbol string) *domain.PricePoint
	history func(ctx context.Context, symbol, start, end string) []domain.PricePoint
}

func (m *mockIndexService) Latest(ctx context.Context, symbol string) *domain.PricePoint {
	if m.latest == nil {
		return nil
	}
	return m.latest(ctx, symbol)
}

func (m *mockIndexService) History(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	if m.history == nil {
		return nil
	}
	return m.history(ctx, symbol, start, end)
}

type mockGoldService struct {
	latest  func(ctx context.Context) *domain.PricePoint
	history func(ctx context.Context, start, end string) []domain.PricePoint
}

func (m *mockGoldService) Info() domain.SearchResult {
	return domain.NewSearchResult("VN_GOLD", "SJC Gold Price", domain.AssetClassCommodity, "SJC")
}

func (m *mockGoldService) Latest(ctx context.Context) *domain.PricePoint {
	if m.latest == nil {
		return nil
	}
	return m.latest(ctx)
}

func (m *mockGoldService) History(ctx context.Context, start, end string) []domain.PricePoint {
	if m.history == nil {
		return nil
	}
	return m.history(ctx, start, end)
}

type mockRouter struct {
	search       func(ctx context.Context, query string) []domain.SearchResult
	historyAny   func(ctx context.Context, symbol, start, end string) []domain.PricePoint
	searchSymbol func(ctx context.Context, symbol string) (*domain.SearchResult, error)
}

func (m *mockRouter) Search(ctx context.Context, query string) []domain.SearchResult {
	if m.search == nil {
		return nil
	}
	return m.search(ctx, query)
}

func (m *mockRouter) HistoryAny(ctx context.Context, symbol, start, end string) []domain.PricePoint {
	if m.historyAny == nil {
		return nil
	}
	return m.historyAny(ctx, symbol, start, end)
}

func (m *mockRouter) SearchSymbol(ctx context.Context, symbol string) (*domain.SearchResult, error) {
	if m.searchSymbol == nil {
		return nil, domain.ErrNotFound
	}
	return m.searchSymbol(ctx, symbol)
}

type handlerMocks struct {
	funds   *mockFundService
	stocks  *mockStockService
	indices *mockIndexService
	gold    *mockGoldService
	router  *mockRouter
}

func newTestRouter(mocks handlerMocks) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if mocks.funds == nil {
		mocks.funds = &mockFundService{}
	}
	if mocks.stocks == nil {
		mocks.stocks = &mockStockService{}
	}
	if mocks.indices == nil {
		mocks.indices = &mockIndexService{}
	}
	if mocks.gold == nil {
		mocks.gold = &mockGoldService{}
	}
	if mocks.router == nil {
		mocks.router = &mockRouter{}
	}

	handler := NewHandler(mocks.funds, mocks.stocks, mocks.indices, mocks.gold, mocks.router)
	handler.now = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }

	engine := gin.New()
	SetupRoutes(engine, handler)
	return engine
}

func performRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(handlerMocks{})

	w := performRequest(router, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" || resp.Service != "vn-market-service" {
		t.Errorf("Unexpected health payload: %+v", resp)
	}
}

func TestGetFunds(t *testing.T) {
	router := newTestRouter(handlerMocks{
		funds: &mockFundService{
			list: func(ctx context.Context) ([]domain.Instrument, error) {
				return []domain.Instrument{
					domain.NewInstrument("VESAF", "VinaCapital Equity Special Access Fund", domain.AssetClassFund, 23),
					domain.NewInstrument("DCDS", "Dragon Capital Dynamic Securities Fund", domain.AssetClassFund, 28),
				}, nil
			},
		},
	})

	w := performRequest(router, "/funds")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp FundListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Funds) != 2 {
		t.Fatalf("Expected 2 funds, got %+v", resp)
	}
	if resp.Funds[0].Symbol != "VESAF" || resp.Funds[0].AssetType != "MUTUAL_FUND" {
		t.Errorf("Unexpected fund entry: %+v", resp.Funds[0])
	}
}

func TestGetFundsUpstreamError(t *testing.T) {
	router := newTestRouter(handlerMocks{
		funds: &mockFundService{
			list: func(ctx context.Context) ([]domain.Instrument, error) {
				return nil, fmt.Errorf("%w: gateway down", domain.ErrUpstreamUnavailable)
			},
		},
	})

	w := performRequest(router, "/funds")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
}

func TestSearchFundNotFound(t *testing.T) {
	router := newTestRouter(handlerMocks{})

	w := performRequest(router, "/funds/search/NOSUCH")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "Fund NOSUCH not found" {
		t.Errorf("Unexpected error message: %q", resp.Error)
	}
}

func TestGetFundQuoteUppercasesSymbol(t *testing.T) {
	var gotSymbol string
	router := newTestRouter(handlerMocks{
		funds: &mockFundService{
			latest: func(ctx context.Context, symbol string) *domain.PricePoint {
				gotSymbol = symbol
				p := domain.NewSettlementPoint("2025-06-02", decimalForTest("25010"))
				return &p
			},
		},
	})

	w := performRequest(router, "/funds/quote/vesaf")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if gotSymbol != "VESAF" {
		t.Errorf("Expected uppercased symbol, got %q", gotSymbol)
	}

	var resp FundQuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Nav.String() != "25010" || resp.Currency != "VND" {
		t.Errorf("Unexpected quote: %+v", resp)
	}
}

func TestHistoryDateValidation(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "Bad Start Date", path: "/stocks/history/FPT?start_date=junk", wantStatus: http.StatusBadRequest},
		{name: "Bad End Date", path: "/stocks/history/FPT?end_date=2025-13-45", wantStatus: http.StatusBadRequest},
		{name: "Wrong Layout", path: "/stocks/history/FPT?start_date=01-06-2025", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := newTestRouter(handlerMocks{
				stocks: &mockStockService{
					history: func(ctx context.Context, symbol, start, end string) []domain.PricePoint {
						called = true
						return nil
					},
				},
			})

			w := performRequest(router, tt.path)
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
			if called {
				t.Error("Service must not be invoked for an invalid date")
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Error != "Invalid date format. Use YYYY-MM-DD" {
				t.Errorf("Unexpected error message: %q", resp.Error)
			}
		})
	}
}

func TestHistoryDefaultRange(t *testing.T) {
	var gotStart, gotEnd string
	router := newTestRouter(handlerMocks{
		stocks: &mockStockService{
			history: func(ctx context.Context, symbol, start, end string) []domain.PricePoint {
				gotStart, gotEnd = start, end
				return []domain.PricePoint{domain.NewSettlementPoint("2025-06-02", decimalForTest("12500"))}
			},
		},
	})

	w := performRequest(router, "/stocks/history/FPT")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	// The handler clock is pinned to 2025-06-02; the default window is the
	// preceding 365 days.
	if gotEnd != "2025-06-02" {
		t.Errorf("Expected default end date 2025-06-02, got %q", gotEnd)
	}
	if gotStart != "2024-06-02" {
		t.Errorf("Expected default start date 2024-06-02, got %q", gotStart)
	}
}

func TestHistoryExplicitRangePassedThrough(t *testing.T) {
	var gotStart, gotEnd string
	router := newTestRouter(handlerMocks{
		stocks: &mockStockService{
			history: func(ctx context.Context, symbol, start, end string) []domain.PricePoint {
				gotStart, gotEnd = start, end
				return []domain.PricePoint{domain.NewSettlementPoint("2025-01-15", decimalForTest("12500"))}
			},
		},
	})

	w := performRequest(router, "/stocks/history/FPT?start_date=2025-01-01&end_date=2025-01-31")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if gotStart != "2025-01-01" || gotEnd != "2025-01-31" {
		t.Errorf("Expected explicit range to pass through, got %s..%s", gotStart, gotEnd)
	}
}

func TestHistoryEmptyIs404(t *testing.T) {
	router := newTestRouter(handlerMocks{
		stocks: &mockStockService{
			history: func(ctx context.Context, symbol, start, end string) []domain.PricePoint {
				return []domain.PricePoint{}
			},
		},
	})

	w := performRequest(router, "/stocks/history/FPT")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for empty history, got %d", w.Code)
	}
}

func TestGetStockHistoryPayload(t *testing.T) {
	router := newTestRouter(handlerMocks{
		stocks: &mockStockService{
			history: func(ctx context.Context, symbol, start, end string) []domain.PricePoint {
				p := domain.NewSettlementPoint("2025-06-02", decimalForTest("12500"))
				return []domain.PricePoint{p}
			},
		},
	})

	w := performRequest(router, "/stocks/history/fpt")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Symbol != "FPT" || resp.DataSource != domain.DataSource || len(resp.History) != 1 {
		t.Errorf("Unexpected payload: %+v", resp)
	}
	if resp.History[0].Close.String() != "12500" {
		t.Errorf("Unexpected close: %s", resp.History[0].Close)
	}
}

func TestGetIndexQuote(t *testing.T) {
	router := newTestRouter(handlerMocks{
		indices: &mockIndexService{
			latest: func(ctx context.Context, symbol string) *domain.PricePoint {
				p := domain.NewSettlementPoint("2025-06-02", decimalForTest("1280.5"))
				return &p
			},
		},
	})

	w := performRequest(router, "/indices/quote/VNINDEX")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Close.String() != "1280.5" {
		t.Errorf("Expected unscaled index level, got %s", resp.Close)
	}
}

func TestSearchGoldAlwaysSucceeds(t *testing.T) {
	router := newTestRouter(handlerMocks{})

	w := performRequest(router, "/gold/search/VN_GOLD")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp domain.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Symbol != "VN_GOLD" || resp.AssetType != domain.AssetClassCommodity {
		t.Errorf("Unexpected gold info: %+v", resp)
	}
}

func TestGetGoldQuoteIncludesBuySell(t *testing.T) {
	buy := decimalForTest("84000000")
	sell := decimalForTest("86500000")
	router := newTestRouter(handlerMocks{
		gold: &mockGoldService{
			latest: func(ctx context.Context) *domain.PricePoint {
				p := domain.NewSettlementPoint("2025-06-02", sell)
				p.BuyPrice = &buy
				p.SellPrice = &sell
				return &p
			},
		},
	})

	w := performRequest(router, "/gold/quote/VN_GOLD")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp GoldQuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.BuyPrice == nil || resp.BuyPrice.String() != "84000000" {
		t.Errorf("Expected buy price, got %v", resp.BuyPrice)
	}
	if resp.SellPrice == nil || resp.SellPrice.String() != "86500000" {
		t.Errorf("Expected sell price, got %v", resp.SellPrice)
	}
}

func TestSearchAssetsRequiresQuery(t *testing.T) {
	router := newTestRouter(handlerMocks{})

	w := performRequest(router, "/search")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a missing query, got %d", w.Code)
	}
}

func TestSearchAssets(t *testing.T) {
	router := newTestRouter(handlerMocks{
		router: &mockRouter{
			search: func(ctx context.Context, query string) []domain.SearchResult {
				return []domain.SearchResult{
					domain.NewSearchResult("VN_GOLD", "SJC Gold Price", domain.AssetClassCommodity, "VN"),
				}
			},
		},
	})

	w := performRequest(router, "/search?query=gold")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Symbol != "VN_GOLD" {
		t.Errorf("Unexpected search payload: %+v", resp)
	}
}

func TestGetHistoryDispatches(t *testing.T) {
	var gotSymbol string
	router := newTestRouter(handlerMocks{
		router: &mockRouter{
			historyAny: func(ctx context.Context, symbol, start, end string) []domain.PricePoint {
				gotSymbol = symbol
				return []domain.PricePoint{domain.NewSettlementPoint("2025-06-02", decimalForTest("25010"))}
			},
		},
	})

	w := performRequest(router, "/history/vesaf")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if gotSymbol != "VESAF" {
		t.Errorf("Expected uppercased symbol, got %q", gotSymbol)
	}
}

func TestSearchAssetStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		resolve    func(ctx context.Context, symbol string) (*domain.SearchResult, error)
		wantStatus int
	}{
		{
			name: "Found",
			resolve: func(ctx context.Context, symbol string) (*domain.SearchResult, error) {
				r := domain.NewSearchResult("FPT", "FPT Corporation", domain.AssetClassStock, "HOSE")
				return &r, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Not Found",
			resolve: func(ctx context.Context, symbol string) (*domain.SearchResult, error) {
				return nil, domain.ErrNotFound
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "Upstream Failure",
			resolve: func(ctx context.Context, symbol string) (*domain.SearchResult, error) {
				return nil, fmt.Errorf("%w: gateway down", domain.ErrUpstreamUnavailable)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(handlerMocks{
				router: &mockRouter{searchSymbol: tt.resolve},
			})

			w := performRequest(router, "/search/FPT")
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

// decimalForTest builds fixture values outside of testing.T helpers.
func decimalForTest(s string) domain.Decimal {
	d, err := domain.NewDecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
