package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"freight-desk/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCRMAdapter_ListPartners verifies mapping and filtering of CRM records.
func TestCRMAdapter_ListPartners(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/partners", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "AIR-ATLAS", "name": "Atlas Air Cargo", "country": "US", "active": true},
			{"id": "TRK-OLD", "name": "Retired Trucking", "country": "DE", "active": false}
		]`))
	}))
	defer ts.Close()

	adapter := NewCRMAdapter(config.CRMConfig{URL: ts.URL, APIKey: "key", APISecret: "secret"})

	partners, err := adapter.ListPartners(context.Background())

	require.NoError(t, err)
	require.Len(t, partners, 1, "inactive partners must be filtered out")
	assert.Equal(t, "AIR-ATLAS", partners[0].ID)
	assert.Equal(t, "Atlas Air Cargo", partners[0].Name)
	assert.Equal(t, "US", partners[0].Country)
}

// TestCRMAdapter_ListPartners_ServerError verifies non-200 handling.
func TestCRMAdapter_ListPartners_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	adapter := NewCRMAdapter(config.CRMConfig{URL: ts.URL})

	_, err := adapter.ListPartners(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm API returned status")
}

// TestCRMAdapter_HealthCheck verifies the health check round trip.
func TestCRMAdapter_HealthCheck(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	adapter := NewCRMAdapter(config.CRMConfig{URL: ts.URL})

	assert.NoError(t, adapter.HealthCheck())
}
