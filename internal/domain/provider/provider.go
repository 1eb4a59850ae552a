package provider

import (
	"context"
	"time"
)

// PaymentProvider is the uniform interface over heterogeneous checkout
// providers (Stripe, Razorpay, PayPal). One interface, N implementations,
// selected by configuration.
type PaymentProvider interface {
	// CreateOrder creates a provider-side payment intent/order for the
	// already-recorded ledger order.
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)

	// Confirm verifies an asynchronous confirmation payload. Verification is
	// cryptographic (signature check) or a server-to-server status/capture
	// call; a bare client assertion of success is never enough.
	Confirm(ctx context.Context, req *ConfirmRequest) (*Confirmation, error)

	// Name returns the provider identifier used in ledger rows and routes.
	Name() string
}

// CreateOrderRequest is a provider-agnostic order creation request.
type CreateOrderRequest struct {
	OrderID     string `json:"order_id"` // internal ledger order id
	AccountID   string `json:"account_id"`
	Plan        string `json:"plan"`
	AmountMinor int64  `json:"amount_minor"` // smallest currency unit
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// CreateOrderResponse carries the provider reference and whatever the client
// needs to enter the checkout flow.
type CreateOrderResponse struct {
	ProviderReference string                 `json:"provider_reference"`
	CheckoutParams    map[string]interface{} `json:"checkout_params,omitempty"`
}

// ConfirmRequest is a raw confirmation delivery: the payload body plus the
// provider-asserted signature header, if any.
type ConfirmRequest struct {
	Payload   []byte `json:"-"`
	Signature string `json:"-"`
}

// Confirmation is the verified view of a confirmation payload. Amount and
// currency are the provider-reported values and must match the ledger row
// exactly before any entitlement change.
type Confirmation struct {
	Verified          bool       `json:"verified"`
	EventID           string     `json:"event_id"`
	ProviderReference string     `json:"provider_reference"`
	AmountMinor       int64      `json:"amount_minor"`
	Currency          string     `json:"currency"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	// Failed is set on a signature-verified event in which the provider
	// explicitly reports the payment attempt as failed or expired. The order
	// should move to failed instead of waiting for the expiry sweep.
	Failed bool `json:"failed,omitempty"`
	// Reason explains a failed verification or an explicit failure; empty
	// when Verified.
	Reason string `json:"reason,omitempty"`
}

// Provider name constants.
const (
	NameStripe   = "stripe"
	NameRazorpay = "razorpay"
	NamePayPal   = "paypal"
)

// KnownName reports whether name identifies a supported provider.
func KnownName(name string) bool {
	switch name {
	case NameStripe, NameRazorpay, NamePayPal:
		return true
	}
	return false
}

// ProviderError carries a provider-level failure with a machine code.
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
