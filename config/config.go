package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"PaymentIntake/internal/domain/catalog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	PgURL     string `env:"PG_URL,required,notEmpty"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	StripeSecretKey         string        `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	StripeWebhookSecret     string        `env:"STRIPE_WEBHOOK_SECRET,required,notEmpty"`
	StripeAPIURL            string        `env:"STRIPE_API_URL"`
	HTTPStripeClientTimeout time.Duration `env:"HTTP_STRIPE_CLIENT_TIMEOUT" envDefault:"20s"`

	// JSON object {selector: {amount, currency, name}}; empty keeps the built-in catalog.
	PriceCatalogJSON string          `env:"PRICE_CATALOG"`
	PriceCatalog     catalog.Catalog `env:"-"`

	SuccessURL string `env:"SUCCESS_URL" envDefault:"https://example.com/success"`
	CancelURL  string `env:"CANCEL_URL" envDefault:"https://example.com/cancel"`
	AppTag     string `env:"CHECKOUT_APP_TAG" envDefault:"stripe_checkout_starter"`

	// Order-change notifications are disabled when no brokers are set.
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrdersTopic string   `env:"KAFKA_ORDERS_TOPIC" envDefault:"orders.changes"`
}

func New(defaultCatalog catalog.Catalog) (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	c.PriceCatalog = defaultCatalog
	if c.PriceCatalogJSON != "" {
		c.PriceCatalog, err = catalog.Parse([]byte(c.PriceCatalogJSON))
		if err != nil {
			return Config{}, fmt.Errorf("PRICE_CATALOG: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) validate() error {
	if err := c.PriceCatalog.Validate(); err != nil {
		return fmt.Errorf("price catalog: %w", err)
	}
	if err := absoluteURL(c.SuccessURL); err != nil {
		return fmt.Errorf("SUCCESS_URL: %w", err)
	}
	if err := absoluteURL(c.CancelURL); err != nil {
		return fmt.Errorf("CANCEL_URL: %w", err)
	}
	if c.AppTag == "" {
		return errors.New("CHECKOUT_APP_TAG must not be empty")
	}
	return nil
}

func absoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q is not an absolute url", raw)
	}
	return nil
}
