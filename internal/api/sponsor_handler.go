package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

// GetSponsor responds with the user's sponsor or null.
func (h *Handler) GetSponsor(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	userID := e.QueryParam("userId")

	sponsor, err := h.sponsor.GetSponsor(e.Request().Context(), userID)
	if err != nil {
		l.Error("failed to get sponsor", zap.String("user_id", userID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, sponsor)
}

func (h *Handler) CreateSponsor(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := model.SponsorInput{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	sponsor, err := h.sponsor.CreateSponsor(e.Request().Context(), &req)
	if err != nil {
		l.Error("failed to create sponsor", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"sponsorId": sponsor.ID,
	})
}

func (h *Handler) UpdateSponsor(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := model.SponsorInput{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if _, err := h.sponsor.UpdateSponsor(e.Request().Context(), &req); err != nil {
		l.Error("failed to update sponsor", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListSponsors(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	sponsors, err := h.sponsor.ListSponsors(e.Request().Context())
	if err != nil {
		l.Error("failed to list sponsors", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, sponsors)
}
