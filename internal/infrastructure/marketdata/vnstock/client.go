package vnstock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

const (
	defaultBaseURL  = "http://localhost:8000"
	fundListingPath = "/api/v1/funds/listing"
	navReportPath   = "/api/v1/funds/%d/nav-report"
	candlePath      = "/api/v1/quotes/%s/history"
	allSymbolsPath  = "/api/v1/listing/all-symbols"
	goldPath        = "/api/v1/gold/sjc"

	// The gateway proxies the VCI feed for stock and index candles.
	candleSource = "VCI"
)

// Client implements marketdata.Provider against the vnstock gateway, a small
// REST service wrapping the vnstock data feeds.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client with default settings.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a client pointed at a custom gateway URL.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// SetTimeout overrides the transport timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type fundListingResponse struct {
	Data []struct {
		FundCode      string `json:"fund_code"`
		ShortName     string `json:"short_name"`
		Name          string `json:"name"`
		FundIDFmarket int64  `json:"fund_id_fmarket"`
	} `json:"data"`
}

type navReportResponse struct {
	Data []struct {
		Date       string   `json:"date"`
		NavPerUnit *float64 `json:"nav_per_unit"`
	} `json:"data"`
}

type candleResponse struct {
	Data []struct {
		Time   string   `json:"time"`
		Open   *float64 `json:"open"`
		High   *float64 `json:"high"`
		Low    *float64 `json:"low"`
		Close  *float64 `json:"close"`
		Volume *float64 `json:"volume"`
	} `json:"data"`
}

type allSymbolsResponse struct {
	Data []struct {
		Symbol    string `json:"symbol"`
		OrganName string `json:"organ_name"`
	} `json:"data"`
}

type goldResponse struct {
	Data []struct {
		Date      string   `json:"date"`
		BuyPrice  *float64 `json:"buy_price"`
		SellPrice *float64 `json:"sell_price"`
	} `json:"data"`
}

// get performs a GET against the gateway and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
			return fmt.Errorf("gateway error: %s", errResp.Detail)
		}
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) FundListing(ctx context.Context) ([]marketdata.FundListing, error) {
	var resp fundListingResponse
	if err := c.get(ctx, fundListingPath, nil, &resp); err != nil {
		return nil, err
	}

	listings := make([]marketdata.FundListing, 0, len(resp.Data))
	for _, row := range resp.Data {
		listings = append(listings, marketdata.FundListing{
			FundCode:  row.FundCode,
			ShortName: row.ShortName,
			Name:      row.Name,
			FundID:    row.FundIDFmarket,
		})
	}
	return listings, nil
}

func (c *Client) FundNavReport(ctx context.Context, fundID int64) ([]marketdata.NavRecord, error) {
	var resp navReportResponse
	if err := c.get(ctx, fmt.Sprintf(navReportPath, fundID), nil, &resp); err != nil {
		return nil, err
	}

	records := make([]marketdata.NavRecord, 0, len(resp.Data))
	for _, row := range resp.Data {
		records = append(records, marketdata.NavRecord{
			Date:       row.Date,
			NavPerUnit: row.NavPerUnit,
		})
	}
	return records, nil
}

func (c *Client) CandleHistory(ctx context.Context, symbol, start, end string) ([]marketdata.CandleRecord, error) {
	params := url.Values{}
	params.Add("start", start)
	params.Add("end", end)
	params.Add("source", candleSource)

	var resp candleResponse
	if err := c.get(ctx, fmt.Sprintf(candlePath, url.PathEscape(symbol)), params, &resp); err != nil {
		return nil, err
	}

	records := make([]marketdata.CandleRecord, 0, len(resp.Data))
	for _, row := range resp.Data {
		records = append(records, marketdata.CandleRecord{
			Date:   row.Time,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	return records, nil
}

func (c *Client) StockListing(ctx context.Context) ([]marketdata.StockSymbol, error) {
	var resp allSymbolsResponse
	if err := c.get(ctx, allSymbolsPath, nil, &resp); err != nil {
		return nil, err
	}

	symbols := make([]marketdata.StockSymbol, 0, len(resp.Data))
	for _, row := range resp.Data {
		symbols = append(symbols, marketdata.StockSymbol{
			Symbol:    row.Symbol,
			OrganName: row.OrganName,
		})
	}
	return symbols, nil
}

func (c *Client) GoldPrice(ctx context.Context, date string) ([]marketdata.GoldRecord, error) {
	params := url.Values{}
	if date != "" {
		params.Add("date", date)
	}

	var resp goldResponse
	if err := c.get(ctx, goldPath, params, &resp); err != nil {
		return nil, err
	}

	records := make([]marketdata.GoldRecord, 0, len(resp.Data))
	for _, row := range resp.Data {
		records = append(records, marketdata.GoldRecord{
			Date:      row.Date,
			BuyPrice:  row.BuyPrice,
			SellPrice: row.SellPrice,
		})
	}
	return records, nil
}

// Compile-time check that Client implements the provider port.
var _ marketdata.Provider = (*Client)(nil)
