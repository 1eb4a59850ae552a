package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/domain/provider"
)

const (
	paypalLiveBaseURL    = "https://api-m.paypal.com"
	paypalSandboxBaseURL = "https://api-m.sandbox.paypal.com"
)

// PayPalProvider implements the PaymentProvider interface against the PayPal
// Orders v2 API. Verification is a server-to-server capture call, not a
// signature check: the capture response is the authoritative payment state.
type PayPalProvider struct {
	clientID string
	secret   string
	baseURL  string
	client   *http.Client
	logger   *zap.Logger
}

// NewPayPalProvider creates a new PayPal provider. mode selects the live or
// sandbox API host.
func NewPayPalProvider(clientID, secret, mode string, logger *zap.Logger) *PayPalProvider {
	baseURL := paypalSandboxBaseURL
	if mode == "live" {
		baseURL = paypalLiveBaseURL
	}

	return &PayPalProvider{
		clientID: clientID,
		secret:   secret,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Name returns the provider name
func (p *PayPalProvider) Name() string {
	return provider.NamePayPal
}

// accessToken fetches an OAuth token with the client-credentials grant.
// POST /v1/oauth2/token
func (p *PayPalProvider) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(p.clientID + ":" + p.secret))
	httpReq.Header.Set("Authorization", "Basic "+auth)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	return result.AccessToken, nil
}

type amountPayload struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount   amountPayload `json:"amount"`
		Payments struct {
			Captures []struct {
				ID     string        `json:"id"`
				Status string        `json:"status"`
				Amount amountPayload `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder creates a PayPal checkout order.
// POST /v2/checkout/orders
func (p *PayPalProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.CreateOrderResponse, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		p.logger.Error("PayPalProvider: token request failed", zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "AUTH_ERROR",
			Message: "PayPal token request failed",
			Details: err.Error(),
		}
	}

	value := decimal.NewFromInt(req.AmountMinor).Shift(-2).StringFixed(2)
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": req.Currency,
					"value":         value,
				},
				"description": req.Description,
				"custom_id":   req.OrderID,
			},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		p.baseURL+"/v2/checkout/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Error("PayPalProvider: order creation request failed", zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "PayPal API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		p.logger.Error("PayPalProvider: order creation failed",
			zap.Int("status_code", resp.StatusCode))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "PayPal order creation failed",
			Details: string(respBody),
		}
	}

	var result orderResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	p.logger.Info("PayPalProvider: order created",
		zap.String("order_id", req.OrderID),
		zap.String("paypal_order_id", result.ID))

	return &provider.CreateOrderResponse{
		ProviderReference: result.ID,
		CheckoutParams: map[string]interface{}{
			"paypal_order_id": result.ID,
		},
	}, nil
}

type webhookPayload struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID string `json:"id"`
	} `json:"resource"`
}

// Confirm captures the referenced order server-side and trusts only the
// capture/status response. An already-captured order is re-read instead of
// failing, so duplicate deliveries still verify against real provider state.
func (p *PayPalProvider) Confirm(ctx context.Context, req *provider.ConfirmRequest) (*provider.Confirmation, error) {
	var payload webhookPayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return &provider.Confirmation{
			Verified: false,
			Reason:   "malformed webhook payload",
		}, nil
	}

	if payload.Resource.ID == "" {
		return &provider.Confirmation{
			Verified: false,
			EventID:  payload.ID,
			Reason:   "payload missing order id",
		}, nil
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		p.logger.Error("PayPalProvider: token request failed", zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "AUTH_ERROR",
			Message: "PayPal token request failed",
			Details: err.Error(),
		}
	}

	order, err := p.captureOrder(ctx, token, payload.Resource.ID)
	if err != nil {
		return nil, err
	}

	confirmation := &provider.Confirmation{
		EventID:           payload.ID,
		ProviderReference: order.ID,
	}
	if confirmation.EventID == "" {
		confirmation.EventID = payload.EventType + ":" + order.ID
	}

	if order.Status != "COMPLETED" {
		confirmation.Reason = "order not completed: " + order.Status
		return confirmation, nil
	}

	amount, currency, ok := capturedAmount(order)
	if !ok {
		confirmation.Reason = "order has no completed capture"
		return confirmation, nil
	}

	now := time.Now()
	confirmation.Verified = true
	confirmation.AmountMinor = amount
	confirmation.Currency = currency
	confirmation.PaidAt = &now

	return confirmation, nil
}

// captureOrder POSTs the capture; ORDER_ALREADY_CAPTURED falls back to a GET.
func (p *PayPalProvider) captureOrder(ctx context.Context, token, paypalOrderID string) (*orderResponse, error) {
	captureURL := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", p.baseURL, paypalOrderID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", captureURL, bytes.NewBufferString("{}"))
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Error("PayPalProvider: capture request failed", zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "PayPal API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		var result orderResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, &provider.ProviderError{
				Code:    "PARSE_ERROR",
				Message: "Failed to parse capture response",
				Details: err.Error(),
			}
		}
		return &result, nil

	case resp.StatusCode == http.StatusUnprocessableEntity &&
		bytes.Contains(respBody, []byte("ORDER_ALREADY_CAPTURED")):
		return p.getOrder(ctx, token, paypalOrderID)

	default:
		p.logger.Error("PayPalProvider: capture failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("paypal_order_id", paypalOrderID))
		return nil, &provider.ProviderError{
			Code:    "CAPTURE_ERROR",
			Message: "PayPal capture failed",
			Details: string(respBody),
		}
	}
}

// getOrder GETs current order state.
// GET /v2/checkout/orders/{id}
func (p *PayPalProvider) getOrder(ctx context.Context, token, paypalOrderID string) (*orderResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/v2/checkout/orders/%s", p.baseURL, paypalOrderID), nil)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "PayPal API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "PayPal order lookup failed",
			Details: string(respBody),
		}
	}

	var result orderResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse order response",
			Details: err.Error(),
		}
	}

	return &result, nil
}

func capturedAmount(order *orderResponse) (int64, string, bool) {
	for _, unit := range order.PurchaseUnits {
		for _, capture := range unit.Payments.Captures {
			if capture.Status != "COMPLETED" {
				continue
			}
			value, err := decimal.NewFromString(capture.Amount.Value)
			if err != nil {
				continue
			}
			return value.Shift(2).IntPart(), capture.Amount.CurrencyCode, true
		}
	}
	return 0, "", false
}
