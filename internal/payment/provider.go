package payment

import (
	"context"

	"github.com/pkg/errors"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

var (
	ErrMissingSecret    = errors.New("webhook secret not configured")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMalformedEvent   = errors.New("malformed event")
)

// Event is a verified provider notification reduced to what the application consumes.
type Event struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	SessionID   string            `json:"sessionId"`
	AmountTotal int64             `json:"amountTotal"`
	Metadata    map[string]string `json:"metadata"`
}

type LineItem struct {
	Name       string
	UnitAmount int64 // cents
	Quantity   int64
}

type CheckoutRequest struct {
	Items         []LineItem
	Metadata      map[string]string
	CustomerEmail string
	SuccessPath   string
	CancelPath    string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type Provider interface {
	Name() string

	// SignatureHeader is the request header carrying the webhook signature.
	SignatureHeader() string

	CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)

	// ParseEvent verifies the signature over the raw payload and decodes the event.
	ParseEvent(payload []byte, signature string) (*Event, error)
}
