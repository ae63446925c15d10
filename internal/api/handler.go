package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yakoovad/golf-fundraiser/internal/auth"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
	"github.com/yakoovad/golf-fundraiser/internal/service"
	"go.uber.org/zap"
)

// maxWebhookBody bounds the payload read from the payment provider.
const maxWebhookBody = 1 << 16

type Handler struct {
	team         *service.TeamService
	registration *service.RegistrationService
	sponsor      *service.SponsorService
	checkout     *service.CheckoutService
	payment      *service.PaymentService

	provider payment.Provider
	tokens   *auth.TokenManager

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithTeamService(team *service.TeamService) *Handler {
	h.team = team
	return h
}

func (h *Handler) WithRegistrationService(registration *service.RegistrationService) *Handler {
	h.registration = registration
	return h
}

func (h *Handler) WithSponsorService(sponsor *service.SponsorService) *Handler {
	h.sponsor = sponsor
	return h
}

func (h *Handler) WithCheckoutService(checkout *service.CheckoutService) *Handler {
	h.checkout = checkout
	return h
}

func (h *Handler) WithPaymentService(p *service.PaymentService) *Handler {
	h.payment = p
	return h
}

func (h *Handler) WithPaymentProvider(p payment.Provider) *Handler {
	h.provider = p
	return h
}

func (h *Handler) WithTokenManager(tokens *auth.TokenManager) *Handler {
	h.tokens = tokens
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api")

	if h.healthChecker != nil {
		api.GET("/health", h.healthChecker.HealthCheck())
	}

	api.GET("/sponsor", h.GetSponsor)
	api.POST("/sponsor", h.CreateSponsor)
	api.PUT("/sponsor", h.UpdateSponsor)

	admin := api.Group("/admin", AuthMiddleware(h.tokens, auth.TokenTypeUser, auth.TokenTypeAdmin))
	admin.GET("/sponsors", h.ListSponsors)

	api.GET("/teams", h.ListTeams)
	api.POST("/teams", h.CreateTeam)
	api.PUT("/teams", h.UpdateTeamLegacy)
	api.PATCH("/teams", h.RemoveSpot)
	api.PUT("/teams/join", h.JoinTeam)
	api.PUT("/teams/settings", h.UpdateTeamSettings)

	api.GET("/teams/registrations", h.ListRegistrations)
	api.POST("/teams/user-spots", h.UserSpots)
	api.GET("/teams/all-spots", h.AllSpots)
	api.POST("/teams/check-spots", h.CheckSpots)
	api.PUT("/teams/edit-spot", h.EditSpot)

	api.POST("/checkout", h.StartRegistrationCheckout)
	api.POST("/checkout/sponsorship", h.StartSponsorshipCheckout)

	api.POST("/webhook", h.HandleWebhook)
}

type errorResponse struct {
	Error string            `json:"error"`
	Code  service.ErrorCode `json:"code"`
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	return writeError(e, err)
}

func writeError(e echo.Context, err *service.Error) error {
	response := errorResponse{Error: err.Message, Code: err.Code}

	switch err.Code {
	case service.ErrorCodeInvalidBody, service.ErrorCodeInvalidSignature:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeDuplicateEmail, service.ErrorCodeSpotAlreadyAssigned, service.ErrorCodeTeamFull,
		service.ErrorCodeInsufficientSpots, service.ErrorCodeSpotNotOwned, service.ErrorCodeSpotNotInTeam,
		service.ErrorCodeSponsorExists:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	case service.ErrorCodeForbidden, service.ErrorCodeNotAuthorized:
		return e.JSON(http.StatusForbidden, response)
	case service.ErrorCodeTeamNotFound, service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodePayloadTooLarge:
		return e.JSON(http.StatusRequestEntityTooLarge, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
