package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/domain/provider"
)

const (
	razorpayAPIBaseURL = "https://api.razorpay.com"
	razorpayAPIVersion = "v1"
)

// RazorpayProvider implements the PaymentProvider interface against the
// Razorpay Orders API. Settlement currency is INR.
type RazorpayProvider struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	client        *http.Client
	logger        *zap.Logger
}

// NewRazorpayProvider creates a new Razorpay provider.
func NewRazorpayProvider(keyID, keySecret, webhookSecret string, logger *zap.Logger) *RazorpayProvider {
	return &RazorpayProvider{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       razorpayAPIBaseURL,
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}
}

// Name returns the provider name
func (r *RazorpayProvider) Name() string {
	return provider.NameRazorpay
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder creates a Razorpay order.
// POST /v1/orders
func (r *RazorpayProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.CreateOrderResponse, error) {
	body := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.OrderID,
		"notes": map[string]string{
			"plan":       req.Plan,
			"account_id": req.AccountID,
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

	url := fmt.Sprintf("%s/%s/orders", r.baseURL, razorpayAPIVersion)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}

	auth := base64.StdEncoding.EncodeToString([]byte(r.keyID + ":" + r.keySecret))
	httpReq.Header.Set("Authorization", "Basic "+auth)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		r.logger.Error("RazorpayProvider: order creation request failed", zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Razorpay API request failed",
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
		var errResp struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		r.logger.Error("RazorpayProvider: order creation failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("error_code", errResp.Error.Code))

		return nil, &provider.ProviderError{
			Code:    errResp.Error.Code,
			Message: errResp.Error.Description,
			Details: string(respBody),
		}
	}

	var result createOrderResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	r.logger.Info("RazorpayProvider: order created",
		zap.String("order_id", req.OrderID),
		zap.String("razorpay_order_id", result.ID))

	return &provider.CreateOrderResponse{
		ProviderReference: result.ID,
		CheckoutParams: map[string]interface{}{
			"key_id":            r.keyID,
			"razorpay_order_id": result.ID,
			"amount":            result.Amount,
			"currency":          result.Currency,
		},
	}, nil
}

type webhookPayload struct {
	Event     string `json:"event"`
	CreatedAt int64  `json:"created_at"`
	Payload   struct {
		Payment struct {
			Entity struct {
				ID       string `json:"id"`
				OrderID  string `json:"order_id"`
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
				Status   string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Confirm verifies the webhook body against the shared webhook secret.
// Razorpay signs the raw body with HMAC-SHA256 and sends the hex digest in
// X-Razorpay-Signature.
func (r *RazorpayProvider) Confirm(ctx context.Context, req *provider.ConfirmRequest) (*provider.Confirmation, error) {
	if !r.verifySignature(req.Payload, req.Signature) {
		r.logger.Warn("RazorpayProvider: webhook signature verification failed")
		return &provider.Confirmation{
			Verified: false,
			Reason:   "signature verification failed",
		}, nil
	}

	var payload webhookPayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return &provider.Confirmation{
			Verified: false,
			Reason:   "malformed webhook payload",
		}, nil
	}

	payment := payload.Payload.Payment.Entity
	eventID := payload.Event + ":" + payment.ID

	if payload.Event == "payment.failed" {
		return &provider.Confirmation{
			Verified:          false,
			Failed:            true,
			EventID:           eventID,
			ProviderReference: payment.OrderID,
			Reason:            "provider reported payment.failed",
		}, nil
	}

	if payload.Event != "payment.captured" {
		return &provider.Confirmation{
			Verified:          false,
			EventID:           eventID,
			ProviderReference: payment.OrderID,
			Reason:            "unhandled event " + payload.Event,
		}, nil
	}

	if payment.Status != "captured" {
		return &provider.Confirmation{
			Verified:          false,
			EventID:           eventID,
			ProviderReference: payment.OrderID,
			Reason:            "payment not captured: " + payment.Status,
		}, nil
	}

	var paidAt *time.Time
	if payload.CreatedAt > 0 {
		t := time.Unix(payload.CreatedAt, 0)
		paidAt = &t
	}

	return &provider.Confirmation{
		Verified:          true,
		EventID:           eventID,
		ProviderReference: payment.OrderID,
		AmountMinor:       payment.Amount,
		Currency:          payment.Currency,
		PaidAt:            paidAt,
	}, nil
}

func (r *RazorpayProvider) verifySignature(payload []byte, signature string) bool {
	if signature == "" || r.webhookSecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
