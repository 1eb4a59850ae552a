package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/config"
	"github.com/uxauditpro/backend/internal/domain/provider"
	paypalProvider "github.com/uxauditpro/backend/internal/infrastructure/provider/paypal"
	razorpayProvider "github.com/uxauditpro/backend/internal/infrastructure/provider/razorpay"
	stripeProvider "github.com/uxauditpro/backend/internal/infrastructure/provider/stripe"
)

// Factory creates payment providers based on the provider name.
type Factory struct {
	config *config.Config
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetProvider returns the payment provider registered under name.
func (f *Factory) GetProvider(name string) (provider.PaymentProvider, error) {
	switch name {
	case provider.NameStripe:
		return f.createStripeProvider()
	case provider.NameRazorpay:
		return f.createRazorpayProvider()
	case provider.NamePayPal:
		return f.createPayPalProvider()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

func (f *Factory) createStripeProvider() (provider.PaymentProvider, error) {
	cfg := f.config.Service.Stripe
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("Stripe secret key not configured")
	}

	return stripeProvider.NewStripeProvider(
		cfg.SecretKey,
		cfg.WebhookSecret,
		f.config.Service.ClientURL,
		f.logger,
	), nil
}

func (f *Factory) createRazorpayProvider() (provider.PaymentProvider, error) {
	cfg := f.config.Service.Razorpay
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("Razorpay keys not configured")
	}

	return razorpayProvider.NewRazorpayProvider(
		cfg.KeyID,
		cfg.KeySecret,
		cfg.WebhookSecret,
		f.logger,
	), nil
}

func (f *Factory) createPayPalProvider() (provider.PaymentProvider, error) {
	cfg := f.config.Service.PayPal
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("PayPal keys not configured")
	}

	return paypalProvider.NewPayPalProvider(
		cfg.ClientID,
		cfg.Secret,
		cfg.Mode,
		f.logger,
	), nil
}
