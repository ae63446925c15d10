package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
)

func TestRegistrationService_ListRegistrations(t *testing.T) {
	createdAt := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mockRegRepo := new(MockRegistrationRepository)
	mockRegRepo.On("List", mock.Anything).Return([]*repository.Registration{{
		ID: "r1", UserID: "u1", Spots: 1, PaymentStatus: "completed", AmountCents: 15050,
		StripeSessionID: "cs_1", CreatedAt: createdAt,
		SpotDetails: []*repository.Spot{{ID: "s1", UserID: "u1", Name: "Ann", Email: "ann@example.com"}},
	}}, nil)

	service := NewRegistrationService(new(MockTransactor)).WithRegistrationRepo(mockRegRepo)

	got, err := service.ListRegistrations(context.Background())

	require.Nil(t, err)
	assert.Equal(t, []*model.Registration{{
		ID: "r1", UserID: "u1", Spots: 1, PaymentStatus: "completed", Amount: 150.5,
		StripeSessionID: "cs_1", CreatedAt: createdAt,
		SpotDetails: []*model.Spot{{ID: "s1", UserID: "u1", Name: "Ann", Email: "ann@example.com"}},
	}}, got)
	mockRegRepo.AssertExpectations(t)
}

func TestRegistrationService_HasSpots(t *testing.T) {
	tests := []struct {
		name          string
		userID        string
		setupMocks    func(*MockRegistrationRepository)
		expected      bool
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:   "has spots",
			userID: "u1",
			setupMocks: func(rr *MockRegistrationRepository) {
				rr.On("CountPaidSpots", mock.Anything, "u1").Return(3, nil)
			},
			expected: true,
		},
		{
			name:   "no spots",
			userID: "u1",
			setupMocks: func(rr *MockRegistrationRepository) {
				rr.On("CountPaidSpots", mock.Anything, "u1").Return(0, nil)
			},
		},
		{
			name:          "missing user",
			setupMocks:    func(rr *MockRegistrationRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
		{
			name:   "storage failure",
			userID: "u1",
			setupMocks: func(rr *MockRegistrationRepository) {
				rr.On("CountPaidSpots", mock.Anything, "u1").Return(0, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRegRepo := new(MockRegistrationRepository)
			tt.setupMocks(mockRegRepo)

			service := NewRegistrationService(new(MockTransactor)).WithRegistrationRepo(mockRegRepo)

			got, err := service.HasSpots(context.Background(), tt.userID)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				require.Nil(t, err)
			}
			assert.Equal(t, tt.expected, got)

			mockRegRepo.AssertExpectations(t)
		})
	}
}

func TestRegistrationService_UserSpots(t *testing.T) {
	mockRegRepo := new(MockRegistrationRepository)
	mockRegRepo.On("GetUserSpots", mock.Anything, "u1").Return([]*repository.Spot{
		{ID: "s1", UserID: "u1", Name: "Ann", Email: "ann@example.com"},
		{ID: "s2", UserID: "u1", Name: "Bo", Email: "bo@example.com"},
	}, nil)
	mockRegRepo.On("ListSpots", mock.Anything).Return([]*repository.Spot{}, nil)

	service := NewRegistrationService(new(MockTransactor)).WithRegistrationRepo(mockRegRepo)

	spots, err := service.UserSpots(context.Background(), "u1")
	require.Nil(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, "s2", spots[1].ID)

	all, err := service.AllSpots(context.Background())
	require.Nil(t, err)
	assert.Empty(t, all)

	_, err = service.UserSpots(context.Background(), "")
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeInvalidBody, err.Code)

	mockRegRepo.AssertExpectations(t)
}

func TestRegistrationService_EditSpot(t *testing.T) {
	owned := &repository.Spot{ID: "s1", RegistrationID: "r1", UserID: "u1", Name: "Ann", Email: "ann@example.com"}

	tests := []struct {
		name          string
		details       *model.SpotDetails
		setupMocks    func(*MockRegistrationRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:    "same email skips lookup",
			details: &model.SpotDetails{Name: "Ann B", Phone: "555", Email: "ANN@example.com"},
			setupMocks: func(rr *MockRegistrationRepository) {
				rr.On("GetOwnedSpot", mock.Anything, "u1", "s1").Return(owned, nil)
				rr.On("PatchSpot", mock.Anything, mock.MatchedBy(func(p *repository.SpotPatch) bool {
					return p.ID == "s1" && *p.Name == "Ann B" && *p.Email == "ann@example.com" && *p.Phone == "555"
				})).Return(&repository.Spot{ID: "s1", UserID: "u1", Name: "Ann B", Phone: "555", Email: "ann@example.com"}, nil)
			},
		},
		{
			name:    "new email checked",
			details: &model.SpotDetails{Name: "Ann", Email: "new@example.com"},
			setupMocks: func(rr *MockRegistrationRepository) {
				rr.On("GetOwnedSpot", mock.Anything, "u1", "s1").Return(owned, nil)
				rr.On("FindExistingEmails", mock.Anything, []string{"new@example.com"}).Return([]string{}, nil)
				rr.On("PatchSpot", mock.Anything, mock.Anything).Return(&repository.Spot{ID: "s1", Email: "new@example.com"}, nil)
			},
		},
		{
			name:    "email taken",
			details: &model.SpotDetails{Name: "Ann", Email: "bo@example.com"},
			setupMocks: func(rr *MockRegistrationRepository) {
				rr.On("GetOwnedSpot", mock.Anything, "u1", "s1").Return(owned, nil)
				rr.On("FindExistingEmails", mock.Anything, []string{"bo@example.com"}).Return([]string{"bo@example.com"}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeDuplicateEmail,
		},
		{
			name:    "not owned",
			details: &model.SpotDetails{Name: "Ann", Email: "ann@example.com"},
			setupMocks: func(rr *MockRegistrationRepository) {
				rr.On("GetOwnedSpot", mock.Anything, "u1", "s1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeSpotNotOwned,
		},
		{
			name:          "missing email",
			details:       &model.SpotDetails{Name: "Ann"},
			setupMocks:    func(rr *MockRegistrationRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRegRepo := new(MockRegistrationRepository)
			tt.setupMocks(mockRegRepo)

			service := NewRegistrationService(new(MockTransactor)).WithRegistrationRepo(mockRegRepo)

			got, err := service.EditSpot(context.Background(), "u1", "s1", tt.details)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "s1", got.ID)
			}

			mockRegRepo.AssertExpectations(t)
		})
	}
}
