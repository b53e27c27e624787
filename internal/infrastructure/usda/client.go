package usda

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

// SourceName tags ingredients ingested from FoodData Central.
const SourceName = "usda"

// Client is the USDA FoodData Central adapter: fetch plus normalize, no
// store access.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	log         *logger.Logger
}

// NewClient creates a USDA adapter. requestsPerHour should match the API
// key's quota (1000/hour for the free tier).
func NewClient(apiKey, baseURL string, requestsPerHour int, log *logger.Logger) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		log:         log.With("adapter", SourceName),
	}
}

// Name implements domain.SourceAdapter.
func (c *Client) Name() string { return SourceName }

// searchResponse is the wire shape of /v1/foods/search.
type searchResponse struct {
	Foods     []Food `json:"foods"`
	TotalHits int    `json:"totalHits"`
}

// Food is one FoodData Central record.
type Food struct {
	FdcID           int             `json:"fdcId"`
	Description     string          `json:"description"`
	DataType        string          `json:"dataType"`
	FoodCategory    string          `json:"foodCategory,omitempty"`
	BrandOwner      string          `json:"brandOwner,omitempty"`
	GtinUpc         string          `json:"gtinUpc,omitempty"`
	ServingSize     float64         `json:"servingSize,omitempty"`
	ServingSizeUnit string          `json:"servingSizeUnit,omitempty"`
	FoodNutrients   []FoodNutrient  `json:"foodNutrients"`
	LabelNutrients  *LabelNutrients `json:"labelNutrients,omitempty"`
}

// FoodNutrient is a single per-100-gram nutrient value.
type FoodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName,omitempty"`
	UnitName     string  `json:"unitName,omitempty"`
	Value        float64 `json:"value"`
}

// LabelNutrients carries per-serving label values on branded detail records.
type LabelNutrients struct {
	Calories      *LabelValue `json:"calories,omitempty"`
	Protein       *LabelValue `json:"protein,omitempty"`
	Fat           *LabelValue `json:"fat,omitempty"`
	SaturatedFat  *LabelValue `json:"saturatedFat,omitempty"`
	TransFat      *LabelValue `json:"transFat,omitempty"`
	Carbohydrates *LabelValue `json:"carbohydrates,omitempty"`
	Fiber         *LabelValue `json:"fiber,omitempty"`
	Sugars        *LabelValue `json:"sugars,omitempty"`
	Sodium        *LabelValue `json:"sodium,omitempty"`
	Potassium     *LabelValue `json:"potassium,omitempty"`
	Cholesterol   *LabelValue `json:"cholesterol,omitempty"`
	Calcium       *LabelValue `json:"calcium,omitempty"`
	Iron          *LabelValue `json:"iron,omitempty"`
}

// LabelValue wraps a single label nutrient amount.
type LabelValue struct {
	Value float64 `json:"value"`
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Platewise/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalFetch, err)
	}

	return resp, nil
}

// Search queries FoodData Central for the given free-text name and returns
// up to limit raw records.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.ExternalRecord, error) {
	if limit <= 0 {
		limit = 5
	}

	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Survey (FNDDS),Foundation,Branded")
	params.Add("pageSize", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.log.Warn("search request error", "attempt", attempt, "query", query, "error", err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.log.Warn("search returned non-200", "attempt", attempt, "status", resp.StatusCode)
			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrNoResults
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrExternalFetch, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if len(searchResp.Foods) == 0 {
			c.log.Debug("no foods found", "query", query)
			return nil, domain.ErrNoResults
		}

		records := make([]domain.ExternalRecord, 0, len(searchResp.Foods))
		for i := range searchResp.Foods {
			records = append(records, toRecord(&searchResp.Foods[i]))
		}
		return records, nil
	}

	return nil, lastErr
}

// FetchByID retrieves one food record by FDC identifier. Returns nil without
// error when the identifier is unknown.
func (c *Client) FetchByID(ctx context.Context, id string) (*domain.ExternalRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/food/%s", c.baseURL, id)
	params := url.Values{}
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

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

	var food Food
	if err := json.NewDecoder(resp.Body).Decode(&food); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rec := toRecord(&food)
	return &rec, nil
}

func toRecord(food *Food) domain.ExternalRecord {
	return domain.ExternalRecord{
		ExternalID:  strconv.Itoa(food.FdcID),
		Description: food.Description,
		Category:    food.FoodCategory,
		Brand:       food.BrandOwner,
		Barcode:     food.GtinUpc,
		Payload:     food,
	}
}
