package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`

	Stripe   StripeConfig   `yaml:"stripe"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	PayPal   PayPalConfig   `yaml:"paypal"`

	// OrderExpiry is how long a pending order may wait for confirmation
	// before the sweep marks it expired.
	OrderExpiry time.Duration `yaml:"order_expiry"`
	// SweepInterval is how often the expiry sweep runs.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type RazorpayConfig struct {
	KeyID         string `yaml:"key_id"`
	KeySecret     string `yaml:"key_secret"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type PayPalConfig struct {
	ClientID string `yaml:"client_id"`
	Secret   string `yaml:"secret"`
	// Mode is live or sandbox.
	Mode string `yaml:"mode"`
}
