package api

import (
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/golf-fundraiser/internal/auth"
	"github.com/yakoovad/golf-fundraiser/internal/service"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

const claimsKey = "claims"

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

// AuthMiddleware requires a Bearer token of one of the allowed types.
func AuthMiddleware(tokens *auth.TokenManager, allowed ...auth.TokenType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" || tokens == nil {
				return writeError(c, service.NewError(service.ErrorCodeUnauthorized, "Unauthorized"))
			}

			claims, ok := tokens.IsValidToken(token)
			if !ok {
				logger.FromContext(c.Request().Context()).Warn("rejected token")
				return writeError(c, service.NewError(service.ErrorCodeUnauthorized, "Unauthorized"))
			}

			if !slices.Contains(allowed, claims.Type) {
				return writeError(c, service.NewError(service.ErrorCodeForbidden, "Forbidden"))
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}
