package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/vantage/pkg/httputil"
	"github.com/wonny/vantage/pkg/logger"
)

const defaultBaseURL = "https://api.stlouisfed.org/fred"

// Client handles communication with the FRED (Federal Reserve Economic
// Data) observations API.
// ⭐ SSOT: FRED API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new FRED API client. The httputil client carries
// the retry policy and rate limiting; FRED allows 120 requests per
// minute per key so we stay well under it.
func NewClient(apiKey, baseURL string, hc *httputil.Client, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: hc,
		logger:     log,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// observationsResponse mirrors the FRED series/observations payload.
type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Observation is a single dated value from a FRED series.
type Observation struct {
	Date  time.Time
	Value float64
}

// Observations fetches up to limit most-recent observations for a
// series, newest first. Placeholder values ("." in the FRED API,
// meaning no data for that date) are skipped, so fewer than limit
// observations can come back.
func (c *Client) Observations(ctx context.Context, seriesID string, limit int) ([]Observation, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s/series/observations?%s", c.baseURL, q.Encode())

	resp, err := c.httpClient.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fred %s: %w", seriesID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fred %s: status %d: %s", seriesID, resp.StatusCode, string(body))
	}

	var parsed observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("fred %s: decode: %w", seriesID, err)
	}

	obs := make([]Observation, 0, len(parsed.Observations))
	for _, o := range parsed.Observations {
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"series": seriesID,
				"date":   o.Date,
				"value":  o.Value,
			}).Warn("Skipping unparsable observation")
			continue
		}
		d, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			continue
		}
		obs = append(obs, Observation{Date: d, Value: v})
	}
	return obs, nil
}

// Latest returns the most recent observation for a series.
func (c *Client) Latest(ctx context.Context, seriesID string) (*Observation, error) {
	obs, err := c.Observations(ctx, seriesID, 1)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("fred %s: no observations", seriesID)
	}
	return &obs[0], nil
}
