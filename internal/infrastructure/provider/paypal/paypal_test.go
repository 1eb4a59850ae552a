package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/domain/provider"
)

func testProvider(baseURL string) *PayPalProvider {
	p := NewPayPalProvider("client-id", "client-secret", "sandbox", zap.NewNop())
	p.baseURL = baseURL
	return p
}

const completedOrderJSON = `{
	"id": "PAYPAL-ORDER-1",
	"status": "COMPLETED",
	"purchase_units": [{
		"amount": {"currency_code": "USD", "value": "29.00"},
		"payments": {
			"captures": [{
				"id": "CAPTURE-1",
				"status": "COMPLETED",
				"amount": {"currency_code": "USD", "value": "29.00"}
			}]
		}
	}]
}`

func tokenHandler(t *testing.T, w http.ResponseWriter, r *http.Request) {
	assert.Equal(t, "POST", r.Method)
	require.NoError(t, r.ParseForm())
	assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

	user, pass, ok := r.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "client-id", user)
	assert.Equal(t, "client-secret", pass)

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer"}`)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenHandler(t, w, r)

		case "/v2/checkout/orders":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "CAPTURE", body["intent"])

			units := body["purchase_units"].([]interface{})
			unit := units[0].(map[string]interface{})
			amount := unit["amount"].(map[string]interface{})
			// 2900 minor units render as major-unit decimal string.
			assert.Equal(t, "29.00", amount["value"])
			assert.Equal(t, "USD", amount["currency_code"])
			assert.Equal(t, "internal-order-id", unit["custom_id"])

			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":"PAYPAL-ORDER-1","status":"CREATED"}`)

		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	p := testProvider(server.URL)

	resp, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{
		OrderID:     "internal-order-id",
		AmountMinor: 2900,
		Currency:    "USD",
		Description: "UXAuditPro pro plan",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAYPAL-ORDER-1", resp.ProviderReference)
	assert.Equal(t, "PAYPAL-ORDER-1", resp.CheckoutParams["paypal_order_id"])
}

func TestConfirm_CapturesOrder(t *testing.T) {
	captureCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenHandler(t, w, r)

		case "/v2/checkout/orders/PAYPAL-ORDER-1/capture":
			captureCalls++
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, completedOrderJSON)

		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	p := testProvider(server.URL)

	confirmation, err := p.Confirm(context.Background(), &provider.ConfirmRequest{
		Payload: []byte(`{"id":"WH-1","event_type":"CHECKOUT.ORDER.APPROVED","resource":{"id":"PAYPAL-ORDER-1"}}`),
	})
	require.NoError(t, err)
	assert.True(t, confirmation.Verified)
	assert.Equal(t, "WH-1", confirmation.EventID)
	assert.Equal(t, "PAYPAL-ORDER-1", confirmation.ProviderReference)
	assert.Equal(t, int64(2900), confirmation.AmountMinor)
	assert.Equal(t, "USD", confirmation.Currency)
	assert.Equal(t, 1, captureCalls)
}

func TestConfirm_AlreadyCapturedFallsBackToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/oauth2/token":
			tokenHandler(t, w, r)

		case r.URL.Path == "/v2/checkout/orders/PAYPAL-ORDER-1/capture":
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"ORDER_ALREADY_CAPTURED"}]}`)

		case r.Method == "GET" && r.URL.Path == "/v2/checkout/orders/PAYPAL-ORDER-1":
			fmt.Fprint(w, completedOrderJSON)

		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	p := testProvider(server.URL)

	confirmation, err := p.Confirm(context.Background(), &provider.ConfirmRequest{
		Payload: []byte(`{"id":"WH-2","event_type":"CHECKOUT.ORDER.APPROVED","resource":{"id":"PAYPAL-ORDER-1"}}`),
	})
	require.NoError(t, err)
	assert.True(t, confirmation.Verified)
	assert.Equal(t, int64(2900), confirmation.AmountMinor)
}

func TestConfirm_NotCompleted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenHandler(t, w, r)
		case "/v2/checkout/orders/PAYPAL-ORDER-2/capture":
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":"PAYPAL-ORDER-2","status":"PENDING"}`)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	p := testProvider(server.URL)

	confirmation, err := p.Confirm(context.Background(), &provider.ConfirmRequest{
		Payload: []byte(`{"id":"WH-3","event_type":"CHECKOUT.ORDER.APPROVED","resource":{"id":"PAYPAL-ORDER-2"}}`),
	})
	require.NoError(t, err)
	assert.False(t, confirmation.Verified)
}

func TestConfirm_MalformedPayload(t *testing.T) {
	p := testProvider("http://unused.invalid")

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "not-json"},
		{"missing resource id", `{"id":"WH-4","event_type":"CHECKOUT.ORDER.APPROVED","resource":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmation, err := p.Confirm(context.Background(), &provider.ConfirmRequest{
				Payload: []byte(tt.payload),
			})
			require.NoError(t, err)
			assert.False(t, confirmation.Verified)
		})
	}
}
