package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"location-info-service/internal/models"
)

// GeoClient fetches country and city data plus currency rates from the
// geography provider.
type GeoClient interface {
	GetCountry(ctx context.Context, name string) (models.Country, error)
	GetCountryByAlpha2(ctx context.Context, alpha2Code string) (models.Country, error)
	GetCity(ctx context.Context, name string) (CityResult, error)
	GetCurrencyRates(ctx context.Context, base string) (models.CurrencyRates, error)
}

// CityResult is a provider city record. The country is referenced by name and
// alpha-2 code only; the service layer resolves it to a database row.
type CityResult struct {
	Name          string
	StateOrRegion string
	CountryName   string
	CountryAlpha2 string
	Latitude      float64
	Longitude     float64
}

type APILayerGeoClient struct {
	apiKey   string
	apiURL   string
	ratesURL string
	timeout  time.Duration
	client   *http.Client
}

func NewAPILayerGeoClient(apiKey, apiURL, ratesURL string, timeout time.Duration) (*APILayerGeoClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}

	return &APILayerGeoClient{
		apiKey:   apiKey,
		apiURL:   apiURL,
		ratesURL: ratesURL,
		timeout:  timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type geoCountryResponse struct {
	Name       string `json:"name"`
	Alpha2Code string `json:"alpha2code"`
	Alpha3Code string `json:"alpha3code"`
	Capital    string `json:"capital"`
	Region     string `json:"region"`
	Subregion  string `json:"subregion"`
	Population int64  `json:"population"`
	Location   struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Currencies []struct {
		Code string `json:"code"`
	} `json:"currencies"`
}

type geoCityResponse struct {
	Name          string `json:"name"`
	StateOrRegion string `json:"state_or_region"`
	Country       struct {
		Name       string `json:"name"`
		Alpha2Code string `json:"alpha2code"`
	} `json:"country"`
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// GetCountry returns provider data for the first country matching name.
// An empty result set maps to ErrNotFound, mirroring a provider 404.
func (c *APILayerGeoClient) GetCountry(ctx context.Context, name string) (models.Country, error) {
	endpoint := fmt.Sprintf("%s/country/name/%s", c.apiURL, url.PathEscape(name))

	var results []geoCountryResponse
	if err := c.get(ctx, "geo", endpoint, &results); err != nil {
		return models.Country{}, err
	}
	if len(results) == 0 {
		return models.Country{}, ErrNotFound
	}

	return mapCountry(results[0]), nil
}

// GetCountryByAlpha2 returns provider data for an ISO alpha-2 code.
func (c *APILayerGeoClient) GetCountryByAlpha2(ctx context.Context, alpha2Code string) (models.Country, error) {
	endpoint := fmt.Sprintf("%s/country/alpha/%s", c.apiURL, url.PathEscape(alpha2Code))

	var result geoCountryResponse
	if err := c.get(ctx, "geo", endpoint, &result); err != nil {
		return models.Country{}, err
	}
	if result.Name == "" {
		return models.Country{}, ErrNotFound
	}
	return mapCountry(result), nil
}

func mapCountry(r geoCountryResponse) models.Country {
	currencyCode := ""
	if len(r.Currencies) > 0 {
		currencyCode = r.Currencies[0].Code
	}

	return models.Country{
		Name:         r.Name,
		Alpha2Code:   r.Alpha2Code,
		Alpha3Code:   r.Alpha3Code,
		Capital:      r.Capital,
		Region:       r.Region,
		Subregion:    r.Subregion,
		Population:   r.Population,
		CurrencyCode: currencyCode,
		Latitude:     r.Location.Latitude,
		Longitude:    r.Location.Longitude,
	}
}

// GetCity returns provider data for the first city matching name.
func (c *APILayerGeoClient) GetCity(ctx context.Context, name string) (CityResult, error) {
	endpoint := fmt.Sprintf("%s/city/name/%s", c.apiURL, url.PathEscape(name))

	var results []geoCityResponse
	if err := c.get(ctx, "geo", endpoint, &results); err != nil {
		return CityResult{}, err
	}
	if len(results) == 0 {
		return CityResult{}, ErrNotFound
	}

	r := results[0]
	return CityResult{
		Name:          r.Name,
		StateOrRegion: r.StateOrRegion,
		CountryName:   r.Country.Name,
		CountryAlpha2: r.Country.Alpha2Code,
		Latitude:      r.Location.Latitude,
		Longitude:     r.Location.Longitude,
	}, nil
}

// GetCurrencyRates returns the latest rates for the base currency code.
func (c *APILayerGeoClient) GetCurrencyRates(ctx context.Context, base string) (models.CurrencyRates, error) {
	endpoint := fmt.Sprintf("%s/latest?base=%s", c.ratesURL, url.QueryEscape(base))

	var r ratesResponse
	if err := c.get(ctx, "rates", endpoint, &r); err != nil {
		return models.CurrencyRates{}, err
	}

	return models.CurrencyRates{
		Base:  r.Base,
		Date:  r.Date,
		Rates: r.Rates,
	}, nil
}

// get performs a single authenticated GET and decodes the JSON body into out.
// No retry policy; the caller sees the mapped sentinel error on failure.
func (c *APILayerGeoClient) get(ctx context.Context, provider, endpoint string, out interface{}) error {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "GET", endpoint, nil)
	if err != nil {
		recordUpstreamCall(provider, "error", time.Since(start))
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)

	corrID := extractCorrelationID(ctx)
	if corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		recordUpstreamCall(provider, "error", time.Since(start))
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	recordUpstreamCall(provider, statusLabel(resp.StatusCode), time.Since(start))

	if err := mapStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
