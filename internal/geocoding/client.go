package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const baseURL = "https://us1.locationiq.com/v1/reverse"

// AddressUnknown is stored when the provider answers without a display name.
const AddressUnknown = "Unknown location"

// AddressUnresolved is stored when the lookup fails outright.
const AddressUnresolved = "Unresolved"

// Resolver converts coordinates into a human-readable address.
type Resolver interface {
	Resolve(ctx context.Context, lat, lng float64) (string, error)
}

// Client calls the LocationIQ reverse-geocoding API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a LocationIQ client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Resolve returns the display name for the coordinates.
func (c *Client) Resolve(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("locationiq returned status %d", resp.StatusCode)
	}

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.DisplayName == "" {
		return AddressUnknown, nil
	}
	return payload.DisplayName, nil
}
