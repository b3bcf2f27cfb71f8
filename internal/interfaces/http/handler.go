package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thangld/vnmarket/internal/domain"
)

// serviceVersion is reported by the health endpoint.
const serviceVersion = "2.0.0"

// FundService is the fund-facing slice of the core.
type FundService interface {
	List(ctx context.Context) ([]domain.Instrument, error)
	Find(ctx context.Context, symbol string) *domain.FundInfo
	Latest(ctx context.Context, symbol string) *domain.PricePoint
	History(ctx context.Context, symbol, start, end string) []domain.PricePoint
}

// StockService is the equity-facing slice of the core.
type StockService interface {
	Find(ctx context.Context, symbol string) *domain.StockInfo
	Latest(ctx context.Context, symbol string) *domain.PricePoint
	History(ctx context.Context, symbol, start, end string) []domain.PricePoint
}

// IndexService is the index-facing slice of the core.
type IndexService interface {
	Latest(ctx context.Context, symbol string) *domain.PricePoint
	History(ctx context.Context, symbol, start, end string) []domain.PricePoint
}

// GoldService is the commodity-facing slice of the core.
type GoldService interface {
	Info() domain.SearchResult
	Latest(ctx context.Context) *domain.PricePoint
	History(ctx context.Context, start, end string) []domain.PricePoint
}

// Router covers the class-agnostic operations.
type Router interface {
	Search(ctx context.Context, query string) []domain.SearchResult
	HistoryAny(ctx context.Context, symbol, start, end string) []domain.PricePoint
	SearchSymbol(ctx context.Context, symbol string) (*domain.SearchResult, error)
}

type Handler struct {
	funds   FundService
	stocks  StockService
	indices IndexService
	gold    GoldService
	router  Router
	now     func() time.Time
}

func NewHandler(funds FundService, stocks StockService, indices IndexService, gold GoldService, router Router) *Handler {
	return &Handler{
		funds:   funds,
		stocks:  stocks,
		indices: indices,
		gold:    gold,
		router:  router,
		now:     time.Now,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type FundBasicInfo struct {
	Symbol     string `json:"symbol"`
	FundName   string `json:"fund_name"`
	AssetType  string `json:"asset_type"`
	DataSource string `json:"data_source"`
}

type FundListResponse struct {
	Funds []FundBasicInfo `json:"funds"`
	Total int             `json:"total"`
}

type FundSearchResponse struct {
	Symbol     string         `json:"symbol"`
	FundName   string         `json:"fund_name"`
	FundType   string         `json:"fund_type"`
	NavPerUnit domain.Decimal `json:"nav_per_unit"`
	Currency   string         `json:"currency"`
	DataSource string         `json:"data_source"`
}

type FundQuoteResponse struct {
	Symbol     string         `json:"symbol"`
	Nav        domain.Decimal `json:"nav"`
	Date       string         `json:"date"`
	Currency   string         `json:"currency"`
	DataSource string         `json:"data_source"`
}

type QuoteResponse struct {
	Symbol     string         `json:"symbol"`
	Close      domain.Decimal `json:"close"`
	Date       string         `json:"date"`
	Currency   string         `json:"currency"`
	DataSource string         `json:"data_source"`
}

type GoldQuoteResponse struct {
	Symbol     string          `json:"symbol"`
	Close      domain.Decimal  `json:"close"`
	Date       string          `json:"date"`
	BuyPrice   *domain.Decimal `json:"buy_price,omitempty"`
	SellPrice  *domain.Decimal `json:"sell_price,omitempty"`
	Currency   string          `json:"currency"`
	DataSource string          `json:"data_source"`
}

type StockSearchResponse struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Exchange    string `json:"exchange"`
	Currency    string `json:"currency"`
	DataSource  string `json:"data_source"`
}

type HistoryResponse struct {
	Symbol     string              `json:"symbol"`
	History    []domain.PricePoint `json:"history"`
	Currency   string              `json:"currency"`
	DataSource string              `json:"data_source"`
}

type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
	Total   int                   `json:"total"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "vn-market-service",
		Version: serviceVersion,
	})
}

func (h *Handler) GetFunds(c *gin.Context) {
	instruments, err := h.funds.List(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to list funds", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	funds := make([]FundBasicInfo, 0, len(instruments))
	for _, inst := range instruments {
		funds = append(funds, FundBasicInfo{
			Symbol:     inst.Symbol,
			FundName:   inst.Name,
			AssetType:  "MUTUAL_FUND",
			DataSource: domain.DataSource,
		})
	}
	c.JSON(http.StatusOK, FundListResponse{Funds: funds, Total: len(funds)})
}

func (h *Handler) SearchFund(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	info := h.funds.Find(c.Request.Context(), symbol)
	if info == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Fund %s not found", symbol)})
		return
	}

	c.JSON(http.StatusOK, FundSearchResponse{
		Symbol:     info.Symbol,
		FundName:   info.Name,
		FundType:   info.FundType,
		NavPerUnit: info.NavPerUnit,
		Currency:   "VND",
		DataSource: domain.DataSource,
	})
}

func (h *Handler) GetFundQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	quote := h.funds.Latest(c.Request.Context(), symbol)
	if quote == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Quote for %s not found", symbol)})
		return
	}

	c.JSON(http.StatusOK, FundQuoteResponse{
		Symbol:     symbol,
		Nav:        quote.Nav,
		Date:       quote.Date,
		Currency:   "VND",
		DataSource: domain.DataSource,
	})
}

func (h *Handler) GetFundHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	history := h.funds.History(c.Request.Context(), symbol, start, end)
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("No history found for %s", symbol)})
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(symbol, history))
}

func (h *Handler) SearchStock(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	info := h.stocks.Find(c.Request.Context(), symbol)
	if info == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Stock %s not found", symbol)})
		return
	}

	c.JSON(http.StatusOK, StockSearchResponse{
		Symbol:      info.Symbol,
		CompanyName: info.CompanyName,
		Exchange:    info.Exchange,
		Currency:    "VND",
		DataSource:  domain.DataSource,
	})
}

func (h *Handler) GetStockQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	quote := h.stocks.Latest(c.Request.Context(), symbol)
	if quote == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Quote for %s not found", symbol)})
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Symbol:     symbol,
		Close:      quote.Close,
		Date:       quote.Date,
		Currency:   "VND",
		DataSource: domain.DataSource,
	})
}

func (h *Handler) GetStockHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	history := h.stocks.History(c.Request.Context(), symbol, start, end)
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("No history found for %s", symbol)})
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(symbol, history))
}

func (h *Handler) GetIndexQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	quote := h.indices.Latest(c.Request.Context(), symbol)
	if quote == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Quote for index %s not found", symbol)})
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Symbol:     symbol,
		Close:      quote.Close,
		Date:       quote.Date,
		Currency:   "VND",
		DataSource: domain.DataSource,
	})
}

func (h *Handler) GetIndexHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	history := h.indices.History(c.Request.Context(), symbol, start, end)
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("No history found for index %s", symbol)})
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(symbol, history))
}

func (h *Handler) SearchGold(c *gin.Context) {
	info := h.gold.Info()
	c.JSON(http.StatusOK, info)
}

func (h *Handler) GetGoldQuote(c *gin.Context) {
	quote := h.gold.Latest(c.Request.Context())
	if quote == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Gold quote not found"})
		return
	}

	c.JSON(http.StatusOK, GoldQuoteResponse{
		Symbol:     "VN_GOLD",
		Close:      quote.Close,
		Date:       quote.Date,
		BuyPrice:   quote.BuyPrice,
		SellPrice:  quote.SellPrice,
		Currency:   "VND",
		DataSource: domain.DataSource,
	})
}

func (h *Handler) GetGoldHistory(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	history := h.gold.History(c.Request.Context(), start, end)
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No history found for VN_GOLD"})
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse("VN_GOLD", history))
}

func (h *Handler) SearchAssets(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter is required"})
		return
	}

	results := h.router.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, SearchResponse{Results: results, Total: len(results)})
}

func (h *Handler) GetHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	history := h.router.HistoryAny(c.Request.Context(), symbol, start, end)
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("No history found for %s", symbol)})
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(symbol, history))
}

func (h *Handler) SearchAsset(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	result, err := h.router.SearchSymbol(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Asset %s not found", symbol)})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Failed to resolve symbol", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// dateRange reads the optional start_date/end_date query parameters,
// applying the defaults (365 days back through today) and rejecting anything
// that is not a YYYY-MM-DD date. ok=false means a 400 was already written.
func (h *Handler) dateRange(c *gin.Context) (start, end string, ok bool) {
	now := h.now()

	end = c.Query("end_date")
	if end == "" {
		end = domain.FormatDate(now)
	}
	start = c.Query("start_date")
	if start == "" {
		start = domain.FormatDate(now.AddDate(0, 0, -365))
	}

	if _, err := domain.ParseDate(start); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date format. Use YYYY-MM-DD"})
		return "", "", false
	}
	if _, err := domain.ParseDate(end); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date format. Use YYYY-MM-DD"})
		return "", "", false
	}
	return start, end, true
}

func newHistoryResponse(symbol string, history []domain.PricePoint) HistoryResponse {
	return HistoryResponse{
		Symbol:     symbol,
		History:    history,
		Currency:   "VND",
		DataSource: domain.DataSource,
	}
}
