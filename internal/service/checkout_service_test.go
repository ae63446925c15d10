package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
)

func TestCheckoutService_StartRegistrationCheckout(t *testing.T) {
	twoSpots := func() *model.RegistrationCheckout {
		return &model.RegistrationCheckout{
			UserID:   "u1",
			Spots:    2,
			Donation: 175,
			SpotDetails: []*model.SpotDetails{
				{Name: "Ann", Email: "Ann@Example.com"},
				{Name: "Bo", Phone: "555", Email: "bo@example.com"},
			},
		}
	}

	tests := []struct {
		name          string
		req           func() *model.RegistrationCheckout
		setupMocks    func(*MockRegistrationRepository, *MockPaymentProvider)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			req:  twoSpots,
			setupMocks: func(rr *MockRegistrationRepository, pp *MockPaymentProvider) {
				rr.On("CountPaidSpots", mock.Anything, "u1").Return(2, nil)
				rr.On("FindExistingEmails", mock.Anything, []string{"ann@example.com", "bo@example.com"}).Return([]string{}, nil)
				pp.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(req *payment.CheckoutRequest) bool {
					var details []*model.SpotDetails
					if err := json.Unmarshal([]byte(req.Metadata["spotDetails"]), &details); err != nil {
						return false
					}
					return req.Metadata["userId"] == "u1" &&
						req.Metadata["spots"] == "2" &&
						len(details) == 2 && details[0].Email == "ann@example.com" &&
						req.Items[0].UnitAmount == 17500 && req.Items[0].Quantity == 2
				})).Return(&payment.CheckoutSession{ID: "cs_1", URL: "https://pay.test/cs_1"}, nil)
			},
		},
		{
			name: "donation below minimum",
			req: func() *model.RegistrationCheckout {
				req := twoSpots()
				req.Donation = 149
				return req
			},
			setupMocks:    func(rr *MockRegistrationRepository, pp *MockPaymentProvider) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name: "details do not match spots",
			req: func() *model.RegistrationCheckout {
				req := twoSpots()
				req.Spots = 3
				return req
			},
			setupMocks:    func(rr *MockRegistrationRepository, pp *MockPaymentProvider) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name: "over the per-user limit",
			req:  twoSpots,
			setupMocks: func(rr *MockRegistrationRepository, pp *MockPaymentProvider) {
				rr.On("CountPaidSpots", mock.Anything, "u1").Return(3, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name: "email already registered",
			req:  twoSpots,
			setupMocks: func(rr *MockRegistrationRepository, pp *MockPaymentProvider) {
				rr.On("CountPaidSpots", mock.Anything, "u1").Return(0, nil)
				rr.On("FindExistingEmails", mock.Anything, mock.Anything).Return([]string{"bo@example.com"}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeDuplicateEmail,
		},
		{
			name: "provider failure",
			req:  twoSpots,
			setupMocks: func(rr *MockRegistrationRepository, pp *MockPaymentProvider) {
				rr.On("CountPaidSpots", mock.Anything, "u1").Return(0, nil)
				rr.On("FindExistingEmails", mock.Anything, mock.Anything).Return([]string{}, nil)
				pp.On("CreateCheckout", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRegRepo := new(MockRegistrationRepository)
			mockProvider := new(MockPaymentProvider)
			tt.setupMocks(mockRegRepo, mockProvider)

			service := NewCheckoutService(mockProvider).WithRegistrationRepo(mockRegRepo)

			got, err := service.StartRegistrationCheckout(context.Background(), tt.req())

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, &model.CheckoutResult{SessionID: "cs_1", URL: "https://pay.test/cs_1"}, got)
			}

			mockRegRepo.AssertExpectations(t)
			mockProvider.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_StartSponsorshipCheckout(t *testing.T) {
	tests := []struct {
		name          string
		req           *model.SponsorshipCheckout
		setupMocks    func(*MockPaymentProvider)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "logo sign",
			req:  &model.SponsorshipCheckout{UserID: "u1", BusinessName: "Acme", Amount: 300, SignOption: "logo", LogoURL: "https://acme.test/l.png", SignText: "ignored"},
			setupMocks: func(pp *MockPaymentProvider) {
				pp.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(req *payment.CheckoutRequest) bool {
					_, hasText := req.Metadata["signText"]
					return req.Metadata["type"] == "sponsorship" &&
						req.Metadata["logoUrl"] == "https://acme.test/l.png" &&
						!hasText &&
						req.Items[0].UnitAmount == 30000
				})).Return(&payment.CheckoutSession{ID: "cs_2", URL: "https://pay.test/cs_2"}, nil)
			},
		},
		{
			name:          "amount below minimum",
			req:           &model.SponsorshipCheckout{UserID: "u1", BusinessName: "Acme", Amount: 100, SignOption: "text", SignText: "Hi"},
			setupMocks:    func(pp *MockPaymentProvider) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name:          "text sign without text",
			req:           &model.SponsorshipCheckout{UserID: "u1", BusinessName: "Acme", Amount: 200, SignOption: "both", LogoURL: "https://acme.test/l.png"},
			setupMocks:    func(pp *MockPaymentProvider) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name:          "unknown sign option",
			req:           &model.SponsorshipCheckout{UserID: "u1", BusinessName: "Acme", Amount: 200, SignOption: "banner"},
			setupMocks:    func(pp *MockPaymentProvider) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProvider := new(MockPaymentProvider)
			tt.setupMocks(mockProvider)

			service := NewCheckoutService(mockProvider).WithRegistrationRepo(new(MockRegistrationRepository))

			got, err := service.StartSponsorshipCheckout(context.Background(), tt.req)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "cs_2", got.SessionID)
			}

			mockProvider.AssertExpectations(t)
		})
	}
}
