package sideshift

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RequestQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quotes", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-sideshift-secret"))
		assert.Equal(t, "203.0.113.7", r.Header.Get("x-user-ip"))

		var body QuoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "eth", body.DepositCoin)
		assert.Equal(t, "ethereum", body.DepositNetwork)
		assert.Equal(t, "usdc", body.SettleCoin)
		assert.Equal(t, "1.5", body.DepositAmount)
		assert.Equal(t, "aff-1", body.AffiliateID)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "q-123",
			"depositCoin": "ETH",
			"settleCoin": "USDC",
			"depositNetwork": "ethereum",
			"settleNetwork": "ethereum",
			"depositAmount": "1.5",
			"settleAmount": "4776",
			"rate": "3184",
			"expiresAt": "2024-05-01T12:05:00Z"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "aff-1")
	ctx := ContextWithUserIP(context.Background(), "203.0.113.7")

	quote, err := client.RequestQuote(ctx, &QuoteRequest{
		DepositCoin:    "eth",
		DepositNetwork: "ethereum",
		SettleCoin:     "usdc",
		SettleNetwork:  "ethereum",
		DepositAmount:  "1.5",
	})
	require.NoError(t, err)
	assert.Equal(t, "q-123", quote.ID)
	assert.True(t, quote.SettleAmount.Equal(decimal.NewFromInt(4776)))
	require.NotNil(t, quote.ExpiresAt)
	assert.Equal(t, 2024, quote.ExpiresAt.Year())
}

func TestClient_ConfiguredUserIPIsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "198.51.100.1", r.Header.Get("x-user-ip"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", WithUserIP("198.51.100.1"))
	coins, err := client.GetCoins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, coins)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Amount too low"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "")
	_, err := client.CreateShift(context.Background(), &ShiftRequest{QuoteID: "q-1", ToAddress: "0xabc"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Amount too low", apiErr.Message)
}

func TestClient_GetShift(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/shifts/s-9", r.URL.Path)
		w.Write([]byte(`{"id":"s-9","status":"settled","settleHash":"0xfeed"}`))
	}))
	defer server.Close()

	shift, err := NewClient(server.URL, "key", "").GetShift(context.Background(), "s-9")
	require.NoError(t, err)
	assert.Equal(t, "settled", shift.Status)
	assert.Equal(t, "0xfeed", shift.SettleHash)
}

func TestClient_EmptyQuoteRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "key", "").RequestQuote(context.Background(), &QuoteRequest{})
	assert.Error(t, err)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_WithHTTPClient(t *testing.T) {
	var calls int
	httpClient := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		assert.Equal(t, "https://provider.test/api/v2/coins", r.URL.String())
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`[{"coin":"BTC","name":"Bitcoin","networks":["bitcoin"]}]`)),
			Request:    r,
		}, nil
	})}

	client := NewClient("https://provider.test/api/v2", "", "", WithHTTPClient(httpClient))
	coins, err := client.GetCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "BTC", coins[0].Coin)
	assert.Equal(t, 1, calls)
}
