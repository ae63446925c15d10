package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StubProvider is a local stand-in for the hosted checkout.
// Webhooks are JSON encoded Events signed with X-Signature: hex(HMAC-SHA256(secret, body)).
type StubProvider struct {
	secret  string
	baseURL string
}

func NewStubProvider(secret, baseURL string) *StubProvider {
	return &StubProvider{secret: secret, baseURL: baseURL}
}

func (p *StubProvider) Name() string { return ProviderStub }

func (p *StubProvider) SignatureHeader() string { return "X-Signature" }

func (p *StubProvider) CreateCheckout(_ context.Context, req *CheckoutRequest) (*CheckoutSession, error) {
	id := "stub_" + uuid.NewString()
	return &CheckoutSession{
		ID:  id,
		URL: p.baseURL + "/pay/stub?session=" + url.QueryEscape(id) + "&return=" + url.QueryEscape(req.SuccessPath),
	}, nil
}

func (p *StubProvider) ParseEvent(payload []byte, signature string) (*Event, error) {
	if p.secret == "" {
		return nil, ErrMissingSecret
	}

	expected := Sign(p.secret, payload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, ErrInvalidSignature
	}

	ev := &Event{}
	if err := json.Unmarshal(payload, ev); err != nil {
		return nil, errors.Wrap(ErrMalformedEvent, err.Error())
	}
	if ev.Metadata == nil {
		ev.Metadata = map[string]string{}
	}
	return ev, nil
}

// Sign returns the stub signature for payload.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
