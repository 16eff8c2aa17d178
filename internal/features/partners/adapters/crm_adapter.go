package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"freight-desk/internal/core/config"
	"freight-desk/internal/core/httpclient"
	"freight-desk/internal/features/partners/domain"
)

// CRMAdapter implements the PartnerCatalog port against the office CRM
// backend's REST API.
type CRMAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the CRM connection details.
	config config.CRMConfig
}

// NewCRMAdapter creates a new instance of CRMAdapter.
func NewCRMAdapter(cfg config.CRMConfig) *CRMAdapter {
	return &CRMAdapter{
		client: httpclient.NewClient(10 * time.Second),
		config: cfg,
	}
}

// crmPartner is the CRM wire representation of a partner record.
type crmPartner struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Active  bool   `json:"active"`
}

// ListPartners fetches the partner catalog and maps it to domain entities.
// Inactive partners are filtered out; they must not receive suggestions.
func (a *CRMAdapter) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	url := fmt.Sprintf("%s/api/v1/partners", a.config.URL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crm API returned status: %d", resp.StatusCode)
	}

	var records []crmPartner
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	partners := make([]domain.Partner, 0, len(records))
	for _, record := range records {
		if !record.Active {
			continue
		}
		partners = append(partners, domain.Partner{
			ID:      record.ID,
			Name:    record.Name,
			Country: record.Country,
		})
	}
	return partners, nil
}

// HealthCheck verifies that the CRM API is reachable and credentials are valid.
func (a *CRMAdapter) HealthCheck() error {
	url := fmt.Sprintf("%s/api/v1/partners?per_page=1", a.config.URL)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

// authorize adds basic auth credentials to the request.
func (a *CRMAdapter) authorize(req *http.Request) {
	credentials := fmt.Sprintf("%s:%s", a.config.APIKey, a.config.APISecret)
	encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
	req.Header.Add("Authorization", "Basic "+encoded)
}
