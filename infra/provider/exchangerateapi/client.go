package exchangerateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/shopspring/decimal"
)

const sourceName = "exchangerate-api"

// Client fetches rates from the exchangerate-api.com v6 endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// responseV6 is the v6 "latest" payload.
// See: https://www.exchangerate-api.com/docs/standard-requests
type responseV6 struct {
	Result             string             `json:"result"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	BaseCode           string             `json:"base_code"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

var _ exchange.Provider = (*Client)(nil)

// New creates a client from config.
func New(cfg *config.ExchangeRateApi, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:  cfg.ApiKey,
		baseURL: strings.TrimRight(cfg.ApiUrl, "/"),
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger.With("provider", sourceName),
	}
}

func (c *Client) Name() string { return sourceName }

// Latest fetches every rate for base. Any transport or API failure is
// reported as exchange.ErrRateUnavailable.
func (c *Client) Latest(ctx context.Context, base string) (*exchange.RateSet, error) {
	base = strings.ToUpper(base)
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", exchange.ErrRateUnavailable, err)
	}

	c.logger.Debug("Fetching exchange rates", "base", base)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Exchange rate request failed", "base", base, "error", err)
		return nil, fmt.Errorf("%w: %v", exchange.ErrRateUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Exchange rate API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: API returned status %d", exchange.ErrRateUnavailable, resp.StatusCode)
	}

	var apiResp responseV6
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", exchange.ErrRateUnavailable, err)
	}
	if apiResp.Result != "success" {
		return nil, fmt.Errorf("%w: API returned result=%s error=%s",
			exchange.ErrRateUnavailable, apiResp.Result, apiResp.ErrorType)
	}

	set := &exchange.RateSet{
		Base:      apiResp.BaseCode,
		Rates:     make(map[string]decimal.Decimal, len(apiResp.ConversionRates)),
		UpdatedAt: time.Unix(apiResp.TimeLastUpdateUnix, 0).UTC(),
		Source:    sourceName,
	}
	if set.Base == "" {
		set.Base = base
	}
	if apiResp.TimeLastUpdateUnix == 0 {
		set.UpdatedAt = time.Now().UTC()
	}
	for code, rate := range apiResp.ConversionRates {
		set.Rates[code] = decimal.NewFromFloat(rate)
	}
	c.logger.Info("Exchange rates fetched", "base", set.Base, "count", len(set.Rates))
	return set, nil
}
