package localization

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GeoClient looks up the visitor's country. Implementations make at
// most one attempt per call; retries are not part of the contract.
type GeoClient interface {
	CountryCode(ctx context.Context) (string, error)
}

// HTTPGeoClient queries an ipapi-style geolocation endpoint returning
// a JSON document with a country_code field.
type HTTPGeoClient struct {
	URL    string
	Client *http.Client
}

func NewHTTPGeoClient(url string) *HTTPGeoClient {
	return &HTTPGeoClient{
		URL:    url,
		Client: &http.Client{Timeout: 3 * time.Second},
	}
}

func (g *HTTPGeoClient) CountryCode(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var body struct {
		CountryCode string `json:"country_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.CountryCode == "" {
		return "", fmt.Errorf("geolocation response missing country_code")
	}
	return body.CountryCode, nil
}
