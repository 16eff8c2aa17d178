package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"freight-desk/internal/core/httpclient"

	"github.com/shopspring/decimal"
)

// FxAdapter implements the FxRateProvider port against a frankfurter-style
// exchange rate HTTP API.
type FxAdapter struct {
	client  *http.Client
	baseURL string
}

// NewFxAdapter creates a new FxAdapter for the given rate API base URL.
func NewFxAdapter(baseURL string) *FxAdapter {
	return &FxAdapter{
		client:  httpclient.NewClient(5 * time.Second),
		baseURL: baseURL,
	}
}

// fxResponse is the wire format of the rate API.
type fxResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Rate fetches the current base→foreign rate.
func (a *FxAdapter) Rate(ctx context.Context, base, foreign string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/latest?from=%s&to=%s", a.baseURL, base, foreign)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("fx API returned status: %d", resp.StatusCode)
	}

	var body fxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	rate, ok := body.Rates[foreign]
	if !ok || rate <= 0 {
		return decimal.Zero, fmt.Errorf("fx API returned no rate for %s", foreign)
	}

	return decimal.NewFromFloat(rate), nil
}
