package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

type userRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type editSpotRequest struct {
	UserID string `json:"userId" validate:"required"`
	SpotID string `json:"spotId" validate:"required"`
	model.SpotDetails
}

func (h *Handler) ListRegistrations(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	regs, err := h.registration.ListRegistrations(e.Request().Context())
	if err != nil {
		l.Error("failed to list registrations", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, regs)
}

func (h *Handler) UserSpots(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := userRequest{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	spots, err := h.registration.UserSpots(e.Request().Context(), req.UserID)
	if err != nil {
		l.Error("failed to get user spots", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, spots)
}

func (h *Handler) AllSpots(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	spots, err := h.registration.AllSpots(e.Request().Context())
	if err != nil {
		l.Error("failed to list spots", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, spots)
}

func (h *Handler) CheckSpots(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := userRequest{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	has, err := h.registration.HasSpots(e.Request().Context(), req.UserID)
	if err != nil {
		l.Error("failed to check spots", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]bool{"hasSpots": has})
}

func (h *Handler) EditSpot(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := editSpotRequest{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	spot, err := h.registration.EditSpot(e.Request().Context(), req.UserID, req.SpotID, &req.SpotDetails)
	if err != nil {
		l.Error("failed to edit spot", zap.String("spot_id", req.SpotID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, spot)
}
