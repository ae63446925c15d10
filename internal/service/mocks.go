package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *repository.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Get(ctx context.Context, id string) (*repository.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) GetForUpdate(ctx context.Context, id string) (*repository.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context) ([]*repository.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) Patch(ctx context.Context, patch *repository.TeamPatch) (*repository.Team, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamRepository) GetMembers(ctx context.Context, teamID string) ([]*repository.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) ListMembers(ctx context.Context) ([]*repository.TeamMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) AddMembers(ctx context.Context, teamID string, members []*repository.TeamMember) error {
	args := m.Called(ctx, teamID, members)
	return args.Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, spotID string) error {
	args := m.Called(ctx, teamID, spotID)
	return args.Error(0)
}

func (m *MockTeamRepository) CountMembers(ctx context.Context, teamID string) (int, error) {
	args := m.Called(ctx, teamID)
	return args.Int(0), args.Error(1)
}

func (m *MockTeamRepository) AssignedSpots(ctx context.Context, spotIDs []string) ([]string, error) {
	args := m.Called(ctx, spotIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Create(ctx context.Context, reg *repository.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepository) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrationRepository) FindExistingEmails(ctx context.Context, emails []string) ([]string, error) {
	args := m.Called(ctx, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRegistrationRepository) List(ctx context.Context) ([]*repository.Registration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) CountPaidSpots(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRegistrationRepository) GetOwnedSpot(ctx context.Context, userID, spotID string) (*repository.Spot, error) {
	args := m.Called(ctx, userID, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Spot), args.Error(1)
}

func (m *MockRegistrationRepository) GetUserSpots(ctx context.Context, userID string) ([]*repository.Spot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Spot), args.Error(1)
}

func (m *MockRegistrationRepository) ListSpots(ctx context.Context) ([]*repository.Spot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Spot), args.Error(1)
}

func (m *MockRegistrationRepository) PatchSpot(ctx context.Context, patch *repository.SpotPatch) (*repository.Spot, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Spot), args.Error(1)
}

type MockSponsorRepository struct {
	mock.Mock
}

func (m *MockSponsorRepository) Create(ctx context.Context, sponsor *repository.Sponsor) error {
	args := m.Called(ctx, sponsor)
	return args.Error(0)
}

func (m *MockSponsorRepository) GetByUser(ctx context.Context, userID string) (*repository.Sponsor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Sponsor), args.Error(1)
}

func (m *MockSponsorRepository) UpdateByUser(ctx context.Context, sponsor *repository.Sponsor) (*repository.Sponsor, error) {
	args := m.Called(ctx, sponsor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Sponsor), args.Error(1)
}

func (m *MockSponsorRepository) List(ctx context.Context) ([]*repository.Sponsor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Sponsor), args.Error(1)
}

type MockSponsorshipRepository struct {
	mock.Mock
}

func (m *MockSponsorshipRepository) Create(ctx context.Context, s *repository.Sponsorship) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSponsorshipRepository) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) Name() string {
	return "mock"
}

func (m *MockPaymentProvider) SignatureHeader() string {
	return "X-Signature"
}

func (m *MockPaymentProvider) CreateCheckout(ctx context.Context, req *payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) ParseEvent(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Event), args.Error(1)
}
