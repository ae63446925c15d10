package payment

import (
	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/internal/config"
)

const (
	ProviderStripe = "stripe"
	ProviderStub   = "stub"
)

func NewProvider(cfg config.Payment) (Provider, error) {
	switch cfg.Provider {
	case ProviderStripe, "":
		return NewStripeProvider(cfg.SecretKey, cfg.WebhookSecret, cfg.BaseURL), nil
	case ProviderStub:
		return NewStubProvider(cfg.WebhookSecret, cfg.BaseURL), nil
	default:
		return nil, errors.Errorf("unknown payment provider: %s", cfg.Provider)
	}
}
