package service

import "github.com/pkg/errors"

type ErrorCode string

const (
	ErrorCodeInvalidBody          ErrorCode = "INVALID_BODY"
	ErrorCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrorCodeNotAuthorized        ErrorCode = "NOT_AUTHORIZED"
	ErrorCodeTeamNotFound         ErrorCode = "TEAM_NOT_FOUND"
	ErrorCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrorCodeTeamFull             ErrorCode = "TEAM_FULL"
	ErrorCodeInsufficientSpots    ErrorCode = "INSUFFICIENT_SPOTS"
	ErrorCodeSpotNotOwned         ErrorCode = "SPOT_NOT_OWNED"
	ErrorCodeSpotAlreadyAssigned  ErrorCode = "SPOT_ALREADY_ASSIGNED"
	ErrorCodeSpotNotInTeam        ErrorCode = "SPOT_NOT_IN_TEAM"
	ErrorCodeDuplicateEmail       ErrorCode = "DUPLICATE_EMAIL"
	ErrorCodeSponsorExists        ErrorCode = "SPONSOR_EXISTS"
	ErrorCodeInvalidSignature     ErrorCode = "INVALID_SIGNATURE"
	ErrorCodeWebhookNotConfigured ErrorCode = "WEBHOOK_NOT_CONFIGURED"
	ErrorCodePayloadTooLarge      ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrorCodeUnspecified          ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// asError extracts the service error returned from a transaction callback.
// Anything else (begin/commit failures) becomes UNSPECIFIED.
func asError(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var res *Error
	if errors.As(err, &res) {
		return res
	}
	return NewError(ErrorCodeUnspecified, fallback)
}
