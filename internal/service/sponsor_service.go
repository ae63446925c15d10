package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

type SponsorService struct {
	sponsors repository.SponsorRepository

	newID func() string
}

func NewSponsorService() *SponsorService {
	return &SponsorService{
		newID: uuid.NewString,
	}
}

// GetSponsor returns the user's sponsor, or nil when the user has none.
func (s *SponsorService) GetSponsor(ctx context.Context, userID string) (*model.Sponsor, *Error) {
	l := logger.FromContext(ctx)

	if userID == "" {
		return nil, NewError(ErrorCodeInvalidBody, "User ID is required")
	}

	sponsor, err := s.sponsors.GetByUser(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	case err != nil:
		l.Error("failed to get sponsor", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to fetch sponsor")
	}

	return toModelSponsor(sponsor), nil
}

func (s *SponsorService) CreateSponsor(ctx context.Context, in *model.SponsorInput) (*model.Sponsor, *Error) {
	l := logger.FromContext(ctx).With(zap.String("user_id", in.UserID))
	l.Info("creating sponsor", zap.String("name", in.Name))

	if res := validateSponsor(in); res != nil {
		return nil, res
	}

	sponsor := &repository.Sponsor{
		ID:          s.newID(),
		UserID:      in.UserID,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Logo:        strings.TrimSpace(in.Logo),
		WebsiteLink: strings.TrimSpace(in.WebsiteLink),
	}

	err := s.sponsors.Create(ctx, sponsor)
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return nil, NewError(ErrorCodeSponsorExists, "User already has a sponsor")
	case err != nil:
		l.Error("failed to create sponsor", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to create sponsor")
	}

	return toModelSponsor(sponsor), nil
}

func (s *SponsorService) UpdateSponsor(ctx context.Context, in *model.SponsorInput) (*model.Sponsor, *Error) {
	l := logger.FromContext(ctx).With(zap.String("user_id", in.UserID))
	l.Info("updating sponsor")

	if res := validateSponsor(in); res != nil {
		return nil, res
	}

	updated, err := s.sponsors.UpdateByUser(ctx, &repository.Sponsor{
		UserID:      in.UserID,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Logo:        strings.TrimSpace(in.Logo),
		WebsiteLink: strings.TrimSpace(in.WebsiteLink),
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "Sponsor not found")
	case err != nil:
		l.Error("failed to update sponsor", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to update sponsor")
	}

	return toModelSponsor(updated), nil
}

func (s *SponsorService) ListSponsors(ctx context.Context) ([]*model.Sponsor, *Error) {
	l := logger.FromContext(ctx)

	sponsors, err := s.sponsors.List(ctx)
	if err != nil {
		l.Error("failed to list sponsors", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to fetch sponsors")
	}

	res := make([]*model.Sponsor, 0, len(sponsors))
	for _, sponsor := range sponsors {
		res = append(res, toModelSponsor(sponsor))
	}
	return res, nil
}

func (s *SponsorService) WithSponsorRepo(r repository.SponsorRepository) *SponsorService {
	s.sponsors = r
	return s
}

func (s *SponsorService) WithIDGenerator(fn func() string) *SponsorService {
	s.newID = fn
	return s
}

func validateSponsor(in *model.SponsorInput) *Error {
	if in.UserID == "" ||
		strings.TrimSpace(in.Name) == "" ||
		in.Price == 0 ||
		strings.TrimSpace(in.Logo) == "" ||
		strings.TrimSpace(in.WebsiteLink) == "" {
		return NewError(ErrorCodeInvalidBody, "All fields are required")
	}
	if in.Price < model.MinSponsorPrice {
		return NewError(ErrorCodeInvalidBody, "Price must be at least $200")
	}
	return nil
}

func toModelSponsor(s *repository.Sponsor) *model.Sponsor {
	return &model.Sponsor{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Price:       s.Price,
		Logo:        s.Logo,
		WebsiteLink: s.WebsiteLink,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
