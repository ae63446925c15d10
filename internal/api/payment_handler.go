package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
	"github.com/yakoovad/golf-fundraiser/internal/service"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) StartRegistrationCheckout(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := model.RegistrationCheckout{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	res, err := h.checkout.StartRegistrationCheckout(e.Request().Context(), &req)
	if err != nil {
		l.Error("failed to start checkout", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, res)
}

func (h *Handler) StartSponsorshipCheckout(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := model.SponsorshipCheckout{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	res, err := h.checkout.StartSponsorshipCheckout(e.Request().Context(), &req)
	if err != nil {
		l.Error("failed to start sponsorship checkout", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, res)
}

// HandleWebhook verifies and applies a payment provider notification.
func (h *Handler) HandleWebhook(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	signature := e.Request().Header.Get(h.provider.SignatureHeader())
	if signature == "" {
		return h.transportError(e, service.NewError(service.ErrorCodeInvalidSignature, "No signature"))
	}

	payload, err := io.ReadAll(io.LimitReader(e.Request().Body, maxWebhookBody+1))
	if err != nil {
		l.Error("failed to read webhook body", zap.Error(err))
		return h.transportError(e, service.NewError(service.ErrorCodeInvalidBody, "invalid request body"))
	}
	if len(payload) > maxWebhookBody {
		l.Warn("webhook body too large", zap.Int("limit", maxWebhookBody))
		return h.transportError(e, service.NewError(service.ErrorCodePayloadTooLarge, "Payload too large"))
	}

	ev, err := h.provider.ParseEvent(payload, signature)
	switch {
	case errors.Is(err, payment.ErrMissingSecret):
		l.Error("webhook secret is not configured")
		return h.transportError(e, service.NewError(service.ErrorCodeWebhookNotConfigured, "Webhook secret not configured"))
	case errors.Is(err, payment.ErrMalformedEvent):
		l.Warn("malformed webhook event", zap.Error(err))
		return h.transportError(e, service.NewError(service.ErrorCodeInvalidBody, "Malformed event payload"))
	case err != nil:
		l.Warn("webhook verification failed", zap.String("provider", h.provider.Name()), zap.Error(err))
		return h.transportError(e, service.NewError(service.ErrorCodeInvalidSignature, "Invalid signature"))
	}

	if res := h.payment.HandleEvent(e.Request().Context(), ev); res != nil {
		l.Error("failed to handle payment event", zap.String("event_id", ev.ID), zap.Any("error", res))
		return h.transportError(e, res)
	}

	return e.JSON(http.StatusOK, map[string]bool{"received": true})
}
