package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	xhttp "StockScope/pkg/http"
	applogger "StockScope/pkg/logger"
	"StockScope/pkg/util"
)

// Config holds the Yahoo Finance endpoints and client settings.
type Config struct {
	ChartURL  string
	QuoteURL  string
	CookieURL string
	Timeout   time.Duration
	UserAgent string
}

// Client implements MarketData against the public Yahoo Finance API.
type Client struct {
	cfg  Config
	http *xhttp.Client
	log  *applogger.Logger

	// quoteSummary needs a session cookie plus a matching crumb.
	mu    sync.Mutex
	crumb string
}

// New creates a Yahoo Finance MarketData provider.
func New(cfg Config, log *applogger.Logger) *Client {
	if log == nil {
		log = applogger.Nop()
	}
	cfg.ChartURL = strings.TrimRight(cfg.ChartURL, "/")
	cfg.QuoteURL = strings.TrimRight(cfg.QuoteURL, "/")
	return &Client{
		cfg: cfg,
		http: xhttp.NewClient(
			xhttp.WithTimeout(cfg.Timeout),
			xhttp.WithCookieJar(),
			xhttp.WithHeader("User-Agent", cfg.UserAgent),
			xhttp.WithHeader("Accept", "application/json"),
		),
		log: log.With(applogger.String("component", "yahoo")),
	}
}

func (c *Client) Name() string { return "yahoo" }

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) notFound() bool {
	return e != nil && strings.EqualFold(e.Code, "Not Found")
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// FetchDailyBars downloads OHLCV bars. An unknown symbol is reported by
// Yahoo as "Not Found" and yields an empty series.
func (c *Client) FetchDailyBars(ctx context.Context, symbol string, lookback drepo.Lookback, interval drepo.Interval) (models.PriceSeries, error) {
	series := models.PriceSeries{Symbol: symbol}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.cfg.ChartURL, url.PathEscape(symbol)),
		QueryParams: map[string][]string{
			"range":          {string(lookback)},
			"interval":       {string(interval)},
			"includePrePost": {"false"},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if !errors.As(err, &se) || json.Unmarshal(se.Body, &resp) != nil {
			return series, fmt.Errorf("yahoo chart %s: %w", symbol, err)
		}
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.notFound() {
			c.log.Debug("symbol not found", applogger.String("symbol", symbol))
			return series, nil
		}
		return series, fmt.Errorf("yahoo chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if err != nil {
		return series, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if len(resp.Chart.Result) == 0 {
		return series, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}
	quote := result.Indicators.Quote[0]
	offset := result.Meta.GMTOffset

	byDate := make(map[time.Time]models.Bar, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, okO := at(quote.Open, i)
		h, okH := at(quote.High, i)
		l, okL := at(quote.Low, i)
		cl, okC := at(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue // holidays and halted sessions come back as nulls
		}
		vol, _ := at(quote.Volume, i)
		day := exchangeDay(ts, offset)
		// A trailing live bar can repeat the last session; keep the latest.
		byDate[day] = models.Bar{Date: day, Open: o, High: h, Low: l, Close: cl, Volume: vol}
	}

	series.Bars = make([]models.Bar, 0, len(byDate))
	for _, b := range byDate {
		series.Bars = append(series.Bars, b)
	}
	sort.Slice(series.Bars, func(i, j int) bool { return series.Bars[i].Date.Before(series.Bars[j].Date) })
	return series, nil
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil || math.IsNaN(*values[i]) {
		return 0, false
	}
	return *values[i], true
}

// exchangeDay maps a bar timestamp to its calendar date on the exchange.
func exchangeDay(ts, gmtOffset int64) time.Time {
	return util.TruncateDay(time.Unix(ts+gmtOffset, 0))
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				LongName  *string   `json:"longName"`
				MarketCap *rawValue `json:"marketCap"`
			} `json:"price"`
			AssetProfile *struct {
				Industry *string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

// FetchCompanyInfo returns long name, industry and market cap. A missing
// field is reported as ErrMissingKey.
func (c *Client) FetchCompanyInfo(ctx context.Context, symbol string) (models.CompanyInfo, error) {
	resp, err := c.quoteSummary(ctx, symbol)
	if err != nil && xhttp.IsStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
		c.log.Info("crumb rejected, refreshing session", applogger.String("symbol", symbol))
		c.resetCrumb()
		resp, err = c.quoteSummary(ctx, symbol)
	}
	if err != nil {
		return models.CompanyInfo{}, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil {
		return models.CompanyInfo{}, fmt.Errorf("yahoo quote %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return models.CompanyInfo{}, fmt.Errorf("yahoo quote %s: empty result", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	if r.Price == nil || r.Price.LongName == nil {
		return models.CompanyInfo{}, fmt.Errorf("yahoo quote %s: longName: %w", symbol, drepo.ErrMissingKey)
	}
	if r.AssetProfile == nil || r.AssetProfile.Industry == nil {
		return models.CompanyInfo{}, fmt.Errorf("yahoo quote %s: industry: %w", symbol, drepo.ErrMissingKey)
	}
	if r.Price.MarketCap == nil || r.Price.MarketCap.Raw == nil {
		return models.CompanyInfo{}, fmt.Errorf("yahoo quote %s: marketCap: %w", symbol, drepo.ErrMissingKey)
	}

	return models.CompanyInfo{
		Name:      *r.Price.LongName,
		Industry:  *r.AssetProfile.Industry,
		MarketCap: int64(math.Round(*r.Price.MarketCap.Raw)),
	}, nil
}

func (c *Client) quoteSummary(ctx context.Context, symbol string) (quoteSummaryResponse, error) {
	var resp quoteSummaryResponse
	crumb, err := c.getCrumb(ctx)
	if err != nil {
		return resp, err
	}

	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v10/finance/quoteSummary/%s", c.cfg.QuoteURL, url.PathEscape(symbol)),
		QueryParams: map[string][]string{
			"modules": {"price,assetProfile"},
			"crumb":   {crumb},
		},
	}, &resp)
	if err != nil {
		// 404 carries a structured error body for unknown symbols.
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound && json.Unmarshal(se.Body, &resp) == nil && resp.QuoteSummary.Error != nil {
			return resp, nil
		}
		return resp, err
	}
	return resp, nil
}

// getCrumb primes the session cookie and fetches the crumb once per session.
func (c *Client) getCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	if c.cfg.CookieURL != "" {
		// The cookie endpoint answers 404 but still sets the session cookie.
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{Method: xhttp.MethodGet, URL: c.cfg.CookieURL}, nil)
		var se *xhttp.StatusError
		if err != nil && !errors.As(err, &se) {
			return "", fmt.Errorf("prime cookie: %w", err)
		}
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.cfg.QuoteURL + "/v1/test/getcrumb",
		Headers: map[string]string{"Accept": "text/plain"},
	}, &body)
	if err != nil {
		return "", fmt.Errorf("get crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", fmt.Errorf("get crumb: unexpected body %q", crumb)
	}
	c.crumb = crumb
	return crumb, nil
}

func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

var _ drepo.MarketData = (*Client)(nil)
