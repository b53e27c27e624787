package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
)

// SourceName tags ingredients ingested from Open Food Facts.
const SourceName = "openfoodfacts"

// Client is the Open Food Facts adapter. The API is keyless but asks for a
// descriptive User-Agent and modest request rates.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	log         *logger.Logger
}

// NewClient creates an Open Food Facts adapter. requestsPerMinute should stay
// within the project's published fair-use limit (100/min for search).
func NewClient(baseURL, userAgent string, requestsPerMinute int, log *logger.Logger) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 100
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: limiter,
		log:         log.With("adapter", SourceName),
	}
}

// Name implements domain.SourceAdapter.
func (c *Client) Name() string { return SourceName }

// searchResponse is the wire shape of /cgi/search.pl.
type searchResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

// productResponse is the wire shape of /api/v2/product/{barcode}.
type productResponse struct {
	Status  int      `json:"status"`
	Product *Product `json:"product"`
}

// Product is one Open Food Facts record. Nutriments keys are strings like
// "energy-kcal_100g"; values are per 100 g in grams unless the key says
// otherwise.
type Product struct {
	Code        string             `json:"code"`
	ProductName string             `json:"product_name"`
	Brands      string             `json:"brands,omitempty"`
	Categories  string             `json:"categories,omitempty"`
	Nutriments  map[string]float64 `json:"nutriments"`
	DataQuality float64            `json:"completeness,omitempty"`
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalFetch, err)
	}

	return resp, nil
}

// Search queries the community database by free text and returns up to limit
// raw records.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.ExternalRecord, error) {
	if limit <= 0 {
		limit = 5
	}

	endpoint := fmt.Sprintf("%s/cgi/search.pl", c.baseURL)
	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("search_simple", "1")
	params.Add("action", "process")
	params.Add("json", "1")
	params.Add("page_size", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("search returned non-200", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrExternalFetch, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Products) == 0 {
		c.log.Debug("no products found", "query", query)
		return nil, domain.ErrNoResults
	}

	records := make([]domain.ExternalRecord, 0, len(searchResp.Products))
	for i := range searchResp.Products {
		records = append(records, toRecord(&searchResp.Products[i]))
	}
	return records, nil
}

// FetchByID retrieves one product by barcode. Returns nil without error when
// the barcode is unknown.
func (c *Client) FetchByID(ctx context.Context, id string) (*domain.ExternalRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(id))

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrExternalFetch, resp.StatusCode, string(body))
	}

	var productResp productResponse
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if productResp.Status != 1 || productResp.Product == nil {
		return nil, nil
	}

	rec := toRecord(productResp.Product)
	return &rec, nil
}

func toRecord(p *Product) domain.ExternalRecord {
	return domain.ExternalRecord{
		ExternalID:  p.Code,
		Description: p.ProductName,
		Category:    firstCategory(p.Categories),
		Brand:       p.Brands,
		Barcode:     p.Code,
		Payload:     p,
	}
}
