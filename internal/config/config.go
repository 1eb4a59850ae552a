package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	JWT      JWTConfig      `yaml:"jwt"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/uxaudit.yaml"
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyEnvOverrides()

	return &cfg, nil
}

// applyEnvOverrides lets secrets come from the environment instead of the
// config file, so the file can be committed without credentials.
func (c *Config) applyEnvOverrides() {
	overrides := map[string]*string{
		"JWT_SECRET":              &c.JWT.Secret,
		"DATABASE_PASSWORD":       &c.Database.Password,
		"REDIS_PASSWORD":          &c.Redis.Password,
		"STRIPE_SECRET_KEY":       &c.Service.Stripe.SecretKey,
		"STRIPE_WEBHOOK_SECRET":   &c.Service.Stripe.WebhookSecret,
		"RAZORPAY_KEY_ID":         &c.Service.Razorpay.KeyID,
		"RAZORPAY_KEY_SECRET":     &c.Service.Razorpay.KeySecret,
		"RAZORPAY_WEBHOOK_SECRET": &c.Service.Razorpay.WebhookSecret,
		"PAYPAL_CLIENT_ID":        &c.Service.PayPal.ClientID,
		"PAYPAL_SECRET":           &c.Service.PayPal.Secret,
	}

	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}
