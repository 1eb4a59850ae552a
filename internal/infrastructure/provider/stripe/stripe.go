package stripe

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/domain/provider"
)

// StripeProvider implements the PaymentProvider interface using Stripe
// Checkout sessions in subscription mode.
type StripeProvider struct {
	secretKey     string
	webhookSecret string
	clientURL     string
	logger        *zap.Logger
}

// NewStripeProvider creates a new Stripe provider.
func NewStripeProvider(secretKey, webhookSecret, clientURL string, logger *zap.Logger) *StripeProvider {
	stripe.Key = secretKey

	return &StripeProvider{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		clientURL:     clientURL,
		logger:        logger,
	}
}

// Name returns the provider name
func (s *StripeProvider) Name() string {
	return provider.NameStripe
}

// CreateOrder opens a Checkout session for the plan. The internal ledger
// order id travels as the client reference so the webhook can be matched back.
func (s *StripeProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.CreateOrderResponse, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(req.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountMinor),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(req.OrderID),
		SuccessURL:        stripe.String(s.clientURL + "/dashboard"),
		CancelURL:         stripe.String(s.clientURL + "/pricing"),
	}
	params.Context = ctx

	session, err := checkoutsession.New(params)
	if err != nil {
		s.logger.Error("StripeProvider: checkout session creation failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Stripe checkout session creation failed",
			Details: err.Error(),
		}
	}

	s.logger.Info("StripeProvider: checkout session created",
		zap.String("order_id", req.OrderID),
		zap.String("session_id", session.ID))

	return &provider.CreateOrderResponse{
		ProviderReference: session.ID,
		CheckoutParams: map[string]interface{}{
			"checkout_url": session.URL,
			"session_id":   session.ID,
		},
	}, nil
}

// Confirm verifies the webhook signature and extracts the completed checkout
// session. A payload that does not pass ConstructEvent never verifies.
func (s *StripeProvider) Confirm(ctx context.Context, req *provider.ConfirmRequest) (*provider.Confirmation, error) {
	event, err := webhook.ConstructEventWithOptions(
		req.Payload,
		req.Signature,
		s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		s.logger.Warn("StripeProvider: webhook signature verification failed",
			zap.Error(err))
		return &provider.Confirmation{
			Verified: false,
			Reason:   "signature verification failed",
		}, nil
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		// Fall through to the paid-session checks below.
	case stripe.EventTypeCheckoutSessionExpired, stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return &provider.Confirmation{
				Verified: false,
				EventID:  event.ID,
				Reason:   "malformed checkout session payload",
			}, nil
		}
		return &provider.Confirmation{
			Verified:          false,
			Failed:            true,
			EventID:           event.ID,
			ProviderReference: session.ID,
			Reason:            "provider reported " + string(event.Type),
		}, nil
	default:
		return &provider.Confirmation{
			Verified: false,
			EventID:  event.ID,
			Reason:   "unhandled event type " + string(event.Type),
		}, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		s.logger.Error("StripeProvider: failed to parse checkout session",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return &provider.Confirmation{
			Verified: false,
			EventID:  event.ID,
			Reason:   "malformed checkout session payload",
		}, nil
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return &provider.Confirmation{
			Verified:          false,
			EventID:           event.ID,
			ProviderReference: session.ID,
			Reason:            "session not paid: " + string(session.PaymentStatus),
		}, nil
	}

	paidAt := time.Unix(event.Created, 0)

	return &provider.Confirmation{
		Verified:          true,
		EventID:           event.ID,
		ProviderReference: session.ID,
		AmountMinor:       session.AmountTotal,
		Currency:          strings.ToUpper(string(session.Currency)),
		PaidAt:            &paidAt,
	}, nil
}
