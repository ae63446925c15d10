package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

// CheckoutService starts hosted checkout sessions. Nothing is persisted here:
// records are created once the provider reports the payment as completed.
type CheckoutService struct {
	provider payment.Provider

	registrations repository.RegistrationRepository
}

func NewCheckoutService(provider payment.Provider) *CheckoutService {
	return &CheckoutService{
		provider: provider,
	}
}

func (c *CheckoutService) StartRegistrationCheckout(ctx context.Context, req *model.RegistrationCheckout) (*model.CheckoutResult, *Error) {
	l := logger.FromContext(ctx).With(zap.String("user_id", req.UserID))
	l.Info("starting registration checkout", zap.Int("spots", req.Spots))

	if req.UserID == "" {
		return nil, NewError(ErrorCodeInvalidBody, "User ID is required")
	}
	if req.Spots < 1 || req.Spots > model.MaxSpotsPerUser {
		return nil, NewError(ErrorCodeInvalidBody, fmt.Sprintf("Spots must be between 1 and %d", model.MaxSpotsPerUser))
	}
	if req.Donation < model.MinDonation {
		return nil, NewError(ErrorCodeInvalidBody, fmt.Sprintf("Donation must be at least $%d", model.MinDonation))
	}
	if len(req.SpotDetails) != req.Spots {
		return nil, NewError(ErrorCodeInvalidBody, "Spot details are required for every spot")
	}

	details := make([]*model.SpotDetails, 0, len(req.SpotDetails))
	emails := make([]string, 0, len(req.SpotDetails))
	for i, d := range req.SpotDetails {
		if d == nil || strings.TrimSpace(d.Name) == "" || normalizeEmail(d.Email) == "" {
			return nil, NewError(ErrorCodeInvalidBody, fmt.Sprintf("Name and email are required for spot %d", i+1))
		}
		details = append(details, &model.SpotDetails{
			Name:  strings.TrimSpace(d.Name),
			Phone: strings.TrimSpace(d.Phone),
			Email: normalizeEmail(d.Email),
		})
		emails = append(emails, normalizeEmail(d.Email))
	}

	paid, err := c.registrations.CountPaidSpots(ctx, req.UserID)
	if err != nil {
		l.Error("failed to count paid spots", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to initiate payment")
	}
	if paid+req.Spots > model.MaxSpotsPerUser {
		return nil, NewError(ErrorCodeInvalidBody, fmt.Sprintf(
			"Cannot add %d spot(s). You already have %d, and the maximum is %d.",
			req.Spots, paid, model.MaxSpotsPerUser,
		))
	}

	taken, err := c.registrations.FindExistingEmails(ctx, emails)
	if err != nil {
		l.Error("failed to check emails", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to initiate payment")
	}
	if email, ok := firstDuplicate(emails, taken); ok {
		return nil, NewError(ErrorCodeDuplicateEmail, fmt.Sprintf("Email %s is already in use", email))
	}

	encoded, err := json.Marshal(details)
	if err != nil {
		l.Error("failed to encode spot details", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to initiate payment")
	}

	session, err := c.provider.CreateCheckout(ctx, &payment.CheckoutRequest{
		Items: []payment.LineItem{{
			Name:       "Golf Outing Spot",
			UnitAmount: req.Donation * 100,
			Quantity:   int64(req.Spots),
		}},
		Metadata: map[string]string{
			"userId":      req.UserID,
			"spots":       strconv.Itoa(req.Spots),
			"spotDetails": string(encoded),
		},
		CustomerEmail: details[0].Email,
		SuccessPath:   "/register?success=true",
		CancelPath:    "/register?canceled=true",
	})
	if err != nil {
		l.Error("failed to create checkout session", zap.String("provider", c.provider.Name()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to initiate payment")
	}

	return &model.CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

func (c *CheckoutService) StartSponsorshipCheckout(ctx context.Context, req *model.SponsorshipCheckout) (*model.CheckoutResult, *Error) {
	l := logger.FromContext(ctx).With(zap.String("user_id", req.UserID))
	l.Info("starting sponsorship checkout", zap.Int64("amount", req.Amount))

	if req.UserID == "" || strings.TrimSpace(req.BusinessName) == "" {
		return nil, NewError(ErrorCodeInvalidBody, "User ID and business name are required")
	}
	if req.Amount < model.MinSponsorPrice {
		return nil, NewError(ErrorCodeInvalidBody, "Price must be at least $200")
	}

	metadata := map[string]string{
		"type":         metadataTypeSponsorship,
		"userId":       req.UserID,
		"businessName": strings.TrimSpace(req.BusinessName),
		"signOption":   req.SignOption,
	}
	switch req.SignOption {
	case model.SignOptionText:
		metadata["signText"] = req.SignText
	case model.SignOptionLogo:
		metadata["logoUrl"] = req.LogoURL
	case model.SignOptionBoth:
		metadata["signText"] = req.SignText
		metadata["logoUrl"] = req.LogoURL
	default:
		return nil, NewError(ErrorCodeInvalidBody, "signOption must be one of text, logo or both")
	}
	if _, ok := metadata["signText"]; ok && strings.TrimSpace(req.SignText) == "" {
		return nil, NewError(ErrorCodeInvalidBody, "Sign text is required")
	}
	if _, ok := metadata["logoUrl"]; ok && strings.TrimSpace(req.LogoURL) == "" {
		return nil, NewError(ErrorCodeInvalidBody, "Logo URL is required")
	}

	session, err := c.provider.CreateCheckout(ctx, &payment.CheckoutRequest{
		Items: []payment.LineItem{{
			Name:       "Golf Outing Sponsorship",
			UnitAmount: req.Amount * 100,
			Quantity:   1,
		}},
		Metadata:    metadata,
		SuccessPath: "/sponsor?success=true",
		CancelPath:  "/sponsor?canceled=true",
	})
	if err != nil {
		l.Error("failed to create checkout session", zap.String("provider", c.provider.Name()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "Failed to initiate payment")
	}

	return &model.CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

func (c *CheckoutService) WithRegistrationRepo(r repository.RegistrationRepository) *CheckoutService {
	c.registrations = r
	return c
}
