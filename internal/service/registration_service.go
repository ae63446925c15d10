package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/internal/db"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

type RegistrationService struct {
	tx db.Transactor

	registrations repository.RegistrationRepository
}

func NewRegistrationService(tx db.Transactor) *RegistrationService {
	return &RegistrationService{
		tx: tx,
	}
}

func (r *RegistrationService) ListRegistrations(ctx context.Context) ([]*model.Registration, *Error) {
	l := logger.FromContext(ctx)

	regs, err := r.registrations.List(ctx)
	if err != nil {
		l.Error("failed to list registrations", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to fetch registrations")
	}

	res := make([]*model.Registration, 0, len(regs))
	for _, reg := range regs {
		res = append(res, toModelRegistration(reg))
	}
	return res, nil
}

// UserSpots lists the paid spots owned by the user.
func (r *RegistrationService) UserSpots(ctx context.Context, userID string) ([]*model.Spot, *Error) {
	l := logger.FromContext(ctx)

	if userID == "" {
		return nil, NewError(ErrorCodeInvalidBody, "User ID is required")
	}

	spots, err := r.registrations.GetUserSpots(ctx, userID)
	if err != nil {
		l.Error("failed to get user spots", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to fetch user spots")
	}

	return toModelSpots(spots), nil
}

func (r *RegistrationService) AllSpots(ctx context.Context) ([]*model.Spot, *Error) {
	l := logger.FromContext(ctx)

	spots, err := r.registrations.ListSpots(ctx)
	if err != nil {
		l.Error("failed to list spots", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to fetch spots")
	}

	return toModelSpots(spots), nil
}

func (r *RegistrationService) HasSpots(ctx context.Context, userID string) (bool, *Error) {
	l := logger.FromContext(ctx)

	if userID == "" {
		return false, NewError(ErrorCodeInvalidBody, "User ID is required")
	}

	paid, err := r.registrations.CountPaidSpots(ctx, userID)
	if err != nil {
		l.Error("failed to count paid spots", zap.String("user_id", userID), zap.Error(err))
		return false, NewError(ErrorCodeUnspecified, "Failed to check spots")
	}

	return paid > 0, nil
}

// EditSpot replaces the contact details of a spot the user owns.
func (r *RegistrationService) EditSpot(ctx context.Context, userID, spotID string, details *model.SpotDetails) (*model.Spot, *Error) {
	l := logger.FromContext(ctx).With(zap.String("spot_id", spotID))
	l.Info("editing spot", zap.String("user_id", userID))

	if userID == "" || spotID == "" || details == nil {
		return nil, NewError(ErrorCodeInvalidBody, "userId, spotId and spot details are required")
	}

	name := strings.TrimSpace(details.Name)
	phone := strings.TrimSpace(details.Phone)
	email := normalizeEmail(details.Email)
	if name == "" || email == "" {
		return nil, NewError(ErrorCodeInvalidBody, "Name and email are required")
	}

	var res *model.Spot

	err := r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		spot, err := r.registrations.GetOwnedSpot(txCtx, userID, spotID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeSpotNotOwned, "Spot not found or not owned by user")
		case err != nil:
			l.Error("failed to get spot", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get spot")
		}

		if email != spot.Email {
			taken, err := r.registrations.FindExistingEmails(txCtx, []string{email})
			if err != nil {
				l.Error("failed to check email", zap.Error(err))
				return NewError(ErrorCodeUnspecified, "failed to check email")
			}
			if len(taken) > 0 {
				return NewError(ErrorCodeDuplicateEmail, fmt.Sprintf("Email %s is already in use", email))
			}
		}

		updated, err := r.registrations.PatchSpot(txCtx, &repository.SpotPatch{
			ID:    spotID,
			Name:  &name,
			Phone: &phone,
			Email: &email,
		})
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return NewError(ErrorCodeDuplicateEmail, fmt.Sprintf("Email %s is already in use", email))
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeSpotNotOwned, "Spot not found or not owned by user")
		case err != nil:
			l.Error("failed to update spot", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "Failed to update spot")
		}

		res = toModelSpot(updated)
		return nil
	})
	if serviceErr := asError(err, "Failed to update spot"); serviceErr != nil {
		return nil, serviceErr
	}

	return res, nil
}

func (r *RegistrationService) WithRegistrationRepo(repo repository.RegistrationRepository) *RegistrationService {
	r.registrations = repo
	return r
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// firstDuplicate returns the first email that repeats within emails or appears in taken.
func firstDuplicate(emails, taken []string) (string, bool) {
	seen := make(map[string]struct{}, len(emails)+len(taken))
	for _, e := range taken {
		seen[normalizeEmail(e)] = struct{}{}
	}
	for _, e := range emails {
		if _, ok := seen[e]; ok {
			return e, true
		}
		seen[e] = struct{}{}
	}
	return "", false
}

func centsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

func toModelRegistration(reg *repository.Registration) *model.Registration {
	res := &model.Registration{
		ID:              reg.ID,
		UserID:          reg.UserID,
		Spots:           reg.Spots,
		SpotDetails:     toModelSpots(reg.SpotDetails),
		PaymentStatus:   reg.PaymentStatus,
		Amount:          centsToDollars(reg.AmountCents),
		CreatedAt:       reg.CreatedAt,
		StripeSessionID: reg.StripeSessionID,
	}
	return res
}

func toModelSpots(spots []*repository.Spot) []*model.Spot {
	res := make([]*model.Spot, 0, len(spots))
	for _, s := range spots {
		res = append(res, toModelSpot(s))
	}
	return res
}

func toModelSpot(s *repository.Spot) *model.Spot {
	return &model.Spot{
		ID:     s.ID,
		Name:   s.Name,
		Phone:  s.Phone,
		Email:  s.Email,
		UserID: s.UserID,
	}
}
