package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
	"github.com/yakoovad/golf-fundraiser/internal/service"
)

func signedEvent(t *testing.T, secret string, ev *payment.Event) (string, map[string]string) {
	t.Helper()
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	return string(payload), map[string]string{"X-Signature": payment.Sign(secret, payload)}
}

func TestHandler_Webhook(t *testing.T) {
	completed := &payment.Event{
		ID:          "evt_1",
		Type:        payment.EventCheckoutSessionCompleted,
		SessionID:   "cs_1",
		AmountTotal: 15000,
		Metadata: map[string]string{
			"userId":      "u1",
			"spots":       "1",
			"spotDetails": `[{"name":"Ann","email":"ann@example.com"}]`,
		},
	}

	tests := []struct {
		name          string
		secret        string
		request       func(t *testing.T) (string, map[string]string)
		setupMocks    func(*testEnv)
		expectedCode  int
		errorCode     service.ErrorCode
		expectedError string
	}{
		{
			name:   "missing signature",
			secret: testWebhookSecret,
			request: func(t *testing.T) (string, map[string]string) {
				body, _ := signedEvent(t, testWebhookSecret, completed)
				return body, nil
			},
			setupMocks:    func(env *testEnv) {},
			expectedCode:  http.StatusBadRequest,
			errorCode:     service.ErrorCodeInvalidSignature,
			expectedError: "No signature",
		},
		{
			name:   "secret not configured",
			secret: "",
			request: func(t *testing.T) (string, map[string]string) {
				return signedEvent(t, testWebhookSecret, completed)
			},
			setupMocks:    func(env *testEnv) {},
			expectedCode:  http.StatusInternalServerError,
			errorCode:     service.ErrorCodeWebhookNotConfigured,
			expectedError: "Webhook secret not configured",
		},
		{
			name:   "wrong signature",
			secret: testWebhookSecret,
			request: func(t *testing.T) (string, map[string]string) {
				return signedEvent(t, "another-secret", completed)
			},
			setupMocks:    func(env *testEnv) {},
			expectedCode:  http.StatusBadRequest,
			errorCode:     service.ErrorCodeInvalidSignature,
			expectedError: "Invalid signature",
		},
		{
			name:   "malformed event with valid signature",
			secret: testWebhookSecret,
			request: func(t *testing.T) (string, map[string]string) {
				payload := []byte(`{"id":`)
				return string(payload), map[string]string{"X-Signature": payment.Sign(testWebhookSecret, payload)}
			},
			setupMocks:    func(env *testEnv) {},
			expectedCode:  http.StatusBadRequest,
			errorCode:     service.ErrorCodeInvalidBody,
			expectedError: "Malformed event payload",
		},
		{
			name:   "body over limit",
			secret: testWebhookSecret,
			request: func(t *testing.T) (string, map[string]string) {
				payload := []byte(`{"id":"evt_big","type":"charge.refunded","sessionId":"` + strings.Repeat("x", maxWebhookBody) + `"}`)
				return string(payload), map[string]string{"X-Signature": payment.Sign(testWebhookSecret, payload)}
			},
			setupMocks:    func(env *testEnv) {},
			expectedCode:  http.StatusRequestEntityTooLarge,
			errorCode:     service.ErrorCodePayloadTooLarge,
			expectedError: "Payload too large",
		},
		{
			name:   "email already registered",
			secret: testWebhookSecret,
			request: func(t *testing.T) (string, map[string]string) {
				return signedEvent(t, testWebhookSecret, completed)
			},
			setupMocks: func(env *testEnv) {
				env.registrations.On("ExistsBySession", mock.Anything, "cs_1").Return(false, nil)
				env.registrations.On("FindExistingEmails", mock.Anything, []string{"ann@example.com"}).Return([]string{"ann@example.com"}, nil)
			},
			expectedCode:  http.StatusBadRequest,
			errorCode:     service.ErrorCodeDuplicateEmail,
			expectedError: "Email ann@example.com is already in use",
		},
		{
			name:   "registration recorded",
			secret: testWebhookSecret,
			request: func(t *testing.T) (string, map[string]string) {
				return signedEvent(t, testWebhookSecret, completed)
			},
			setupMocks: func(env *testEnv) {
				env.registrations.On("ExistsBySession", mock.Anything, "cs_1").Return(false, nil)
				env.registrations.On("FindExistingEmails", mock.Anything, []string{"ann@example.com"}).Return([]string{}, nil)
				env.registrations.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "unhandled event type",
			secret: testWebhookSecret,
			request: func(t *testing.T) (string, map[string]string) {
				return signedEvent(t, testWebhookSecret, &payment.Event{ID: "evt_2", Type: "charge.refunded"})
			},
			setupMocks:   func(env *testEnv) {},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.secret)
			tt.setupMocks(env)

			body, headers := tt.request(t)
			rec := env.do(http.MethodPost, "/api/webhook", body, headers)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.errorCode != "" {
				res := decodeError(t, rec)
				assert.Equal(t, tt.errorCode, res.Code)
				assert.Equal(t, tt.expectedError, res.Error)
			} else {
				assert.JSONEq(t, `{"received":true}`, rec.Body.String())
			}

			env.registrations.AssertExpectations(t)
		})
	}
}
