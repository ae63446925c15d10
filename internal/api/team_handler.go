package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

type joinTeamRequest struct {
	TeamID string `json:"teamId" validate:"required"`
	SpotID string `json:"spotId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type removeSpotRequest struct {
	TeamID string `json:"teamId" validate:"required"`
	SpotID string `json:"spotId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// legacyTeamRequest is the combined PUT /teams body: join when spotId is set, settings otherwise.
type legacyTeamRequest struct {
	TeamID    string    `json:"teamId" validate:"required"`
	UserID    string    `json:"userId" validate:"required"`
	SpotID    string    `json:"spotId"`
	IsPrivate *bool     `json:"isPrivate"`
	Name      *string   `json:"name"`
	Whitelist *[]string `json:"whitelist"`
}

func (h *Handler) ListTeams(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teams, err := h.team.ListTeams(e.Request().Context())
	if err != nil {
		l.Error("failed to list teams", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) CreateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := model.NewTeam{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	team, err := h.team.CreateTeam(e.Request().Context(), &req)
	if err != nil {
		l.Error("failed to create team", zap.String("team_name", req.Name), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, team)
}

func (h *Handler) JoinTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := joinTeamRequest{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.joinTeam(e, req.TeamID, req.SpotID, req.UserID)
}

func (h *Handler) UpdateTeamSettings(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := model.TeamSettings{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return h.updateTeam(e, &req)
}

func (h *Handler) UpdateTeamLegacy(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := legacyTeamRequest{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if req.SpotID != "" {
		return h.joinTeam(e, req.TeamID, req.SpotID, req.UserID)
	}

	return h.updateTeam(e, &model.TeamSettings{
		TeamID:    req.TeamID,
		UserID:    req.UserID,
		IsPrivate: req.IsPrivate,
		Name:      req.Name,
		Whitelist: req.Whitelist,
	})
}

func (h *Handler) RemoveSpot(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := removeSpotRequest{}

	if err := decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	deleted, err := h.team.RemoveSpot(e.Request().Context(), req.TeamID, req.SpotID, req.UserID)
	if err != nil {
		l.Error("failed to remove spot",
			zap.String("team_id", req.TeamID),
			zap.String("spot_id", req.SpotID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]bool{
		"success":     true,
		"teamDeleted": deleted,
	})
}

func (h *Handler) joinTeam(e echo.Context, teamID, spotID, userID string) error {
	l := logger.FromContext(e.Request().Context())

	team, err := h.team.JoinTeam(e.Request().Context(), teamID, spotID, userID)
	if err != nil {
		l.Error("failed to join team",
			zap.String("team_id", teamID),
			zap.String("spot_id", spotID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) updateTeam(e echo.Context, settings *model.TeamSettings) error {
	l := logger.FromContext(e.Request().Context())

	team, err := h.team.UpdateTeam(e.Request().Context(), settings)
	if err != nil {
		l.Error("failed to update team", zap.String("team_id", settings.TeamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}
