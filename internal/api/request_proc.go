package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/internal/service"
)

type requestStep[T any] func(echo.Context, *T) error

// ProcessRequest runs steps over req in order and stops at the first failure.
func ProcessRequest[T any](e echo.Context, req *T, steps ...requestStep[T]) error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

func bindStep[T any](e echo.Context, req *T) error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}
	return nil
}

func validateStep[T any](e echo.Context, req *T) error {
	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

// decodeRequest binds and validates a JSON body. Every failure is INVALID_BODY.
func decodeRequest[T any](e echo.Context, req *T) *service.Error {
	err := ProcessRequest(e, req, bindStep[T], validateStep[T])
	if err == nil {
		return nil
	}

	var res *service.Error
	if errors.As(err, &res) {
		return res
	}
	return service.NewError(service.ErrorCodeInvalidBody, err.Error())
}
