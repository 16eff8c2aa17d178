package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFxAdapter_Rate verifies fetching and decoding a rate.
func TestFxAdapter_Rate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"EUR","rates":{"USD":1.10}}`))
	}))
	defer server.Close()

	adapter := NewFxAdapter(server.URL)

	rate, err := adapter.Rate(context.Background(), "EUR", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(1.10)), "got %s", rate)
}

// TestFxAdapter_MissingRate verifies an error when the response lacks the
// requested currency.
func TestFxAdapter_MissingRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"EUR","rates":{"GBP":0.85}}`))
	}))
	defer server.Close()

	adapter := NewFxAdapter(server.URL)

	_, err := adapter.Rate(context.Background(), "EUR", "USD")

	assert.Error(t, err)
}

// TestFxAdapter_ServerError verifies non-200 responses surface as errors.
func TestFxAdapter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewFxAdapter(server.URL)

	_, err := adapter.Rate(context.Background(), "EUR", "USD")

	assert.Error(t, err)
}

// TestFxAdapter_NonPositiveRate verifies a zero rate is rejected rather than
// passed on to the extraction math.
func TestFxAdapter_NonPositiveRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"EUR","rates":{"USD":0}}`))
	}))
	defer server.Close()

	adapter := NewFxAdapter(server.URL)

	_, err := adapter.Rate(context.Background(), "EUR", "USD")

	assert.Error(t, err)
}
