package payment

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProvider struct {
	api           *client.API
	webhookSecret string
	baseURL       string
}

func NewStripeProvider(secretKey, webhookSecret, baseURL string) *StripeProvider {
	return &StripeProvider{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
	}
}

func (p *StripeProvider) Name() string { return ProviderStripe }

func (p *StripeProvider) SignatureHeader() string { return "Stripe-Signature" }

func (p *StripeProvider) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.baseURL + req.SuccessPath),
		CancelURL:  stripe.String(p.baseURL + req.CancelPath),
	}
	params.Context = ctx

	for _, item := range req.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "create stripe checkout session")
	}

	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) ParseEvent(payload []byte, signature string) (*Event, error) {
	if p.webhookSecret == "" {
		return nil, ErrMissingSecret
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}

	out := &Event{
		ID:       ev.ID,
		Type:     string(ev.Type),
		Metadata: map[string]string{},
	}

	if ev.Type == stripe.EventTypeCheckoutSessionCompleted {
		var s stripe.CheckoutSession
		if err = json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, errors.Wrap(ErrMalformedEvent, err.Error())
		}
		out.SessionID = s.ID
		out.AmountTotal = s.AmountTotal
		if s.Metadata != nil {
			out.Metadata = s.Metadata
		}
	}

	return out, nil
}
