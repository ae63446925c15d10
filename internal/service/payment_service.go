package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/internal/db"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

const metadataTypeSponsorship = "sponsorship"

// errDuplicateDelivery rolls back the transaction of an event that was already recorded.
var errDuplicateDelivery = errors.New("checkout session already recorded")

// PaymentService records completed checkouts delivered by the payment provider.
type PaymentService struct {
	tx db.Transactor

	registrations repository.RegistrationRepository
	sponsorships  repository.SponsorshipRepository

	newID func() string
}

func NewPaymentService(tx db.Transactor) *PaymentService {
	return &PaymentService{
		tx:    tx,
		newID: uuid.NewString,
	}
}

// HandleEvent applies a verified event. Event types other than a completed
// checkout are acknowledged without side effects.
func (p *PaymentService) HandleEvent(ctx context.Context, ev *payment.Event) *Error {
	l := logger.FromContext(ctx).With(zap.String("event_id", ev.ID), zap.String("event_type", ev.Type))

	if ev.Type != payment.EventCheckoutSessionCompleted {
		l.Info("ignoring payment event")
		return nil
	}

	userID := strings.TrimSpace(ev.Metadata["userId"])
	if userID == "" {
		l.Warn("checkout completed without userId")
		return NewError(ErrorCodeInvalidBody, "Missing userId in metadata")
	}

	// Session ids are unique per stored checkout, so one is needed to tell redeliveries apart.
	if strings.TrimSpace(ev.SessionID) == "" {
		l.Warn("checkout completed without session id")
		return NewError(ErrorCodeInvalidBody, "Missing checkout session id")
	}

	if ev.Metadata["spots"] != "" {
		if res := p.recordRegistration(ctx, ev, userID); res != nil {
			return res
		}
	}

	if ev.Metadata["type"] == metadataTypeSponsorship {
		return p.recordSponsorship(ctx, ev, userID)
	}

	return nil
}

func (p *PaymentService) recordRegistration(ctx context.Context, ev *payment.Event, userID string) *Error {
	l := logger.FromContext(ctx).With(zap.String("session_id", ev.SessionID), zap.String("user_id", userID))

	spots, err := strconv.Atoi(ev.Metadata["spots"])
	if err != nil || spots < 1 || spots > model.MaxSpotsPerUser {
		return NewError(ErrorCodeInvalidBody, "Invalid spots count in metadata")
	}

	raw := ev.Metadata["spotDetails"]
	if raw == "" {
		raw = "[]"
	}
	var details []*model.SpotDetails
	if err = json.Unmarshal([]byte(raw), &details); err != nil {
		l.Warn("failed to decode spot details", zap.Error(err))
		return NewError(ErrorCodeInvalidBody, "Invalid spotDetails format")
	}
	if len(details) != spots {
		l.Warn("spot details do not match paid spots", zap.Int("spots", spots), zap.Int("details", len(details)))
		return NewError(ErrorCodeInvalidBody, fmt.Sprintf("Expected %d spot details, got %d", spots, len(details)))
	}

	reg := &repository.Registration{
		ID:              p.newID(),
		UserID:          userID,
		Spots:           spots,
		PaymentStatus:   model.PaymentStatusCompleted,
		AmountCents:     ev.AmountTotal,
		StripeSessionID: ev.SessionID,
		SpotDetails:     make([]*repository.Spot, 0, len(details)),
	}
	emails := make([]string, 0, len(details))
	for i, d := range details {
		if d == nil {
			return NewError(ErrorCodeInvalidBody, "Invalid spotDetails format")
		}
		email := normalizeEmail(d.Email)
		if email == "" {
			return NewError(ErrorCodeInvalidBody, fmt.Sprintf("Email is required for spot %d", i+1))
		}
		emails = append(emails, email)
		reg.SpotDetails = append(reg.SpotDetails, &repository.Spot{
			ID:       p.newID(),
			UserID:   userID,
			Position: i,
			Name:     strings.TrimSpace(d.Name),
			Phone:    strings.TrimSpace(d.Phone),
			Email:    email,
		})
	}

	err = p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := p.registrations.ExistsBySession(txCtx, ev.SessionID)
		if err != nil {
			l.Error("failed to check session", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "Failed to save registration")
		}
		if exists {
			return errDuplicateDelivery
		}

		taken, err := p.registrations.FindExistingEmails(txCtx, emails)
		if err != nil {
			l.Error("failed to check emails", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "Failed to save registration")
		}
		if email, ok := firstDuplicate(emails, taken); ok {
			return NewError(ErrorCodeDuplicateEmail, fmt.Sprintf("Email %s is already in use", email))
		}

		err = p.registrations.Create(txCtx, reg)
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return NewError(ErrorCodeDuplicateEmail, "One of the emails is already in use")
		case errors.Is(err, repository.ErrAlreadyExists):
			return errDuplicateDelivery
		case err != nil:
			l.Error("failed to create registration", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "Failed to save registration")
		}
		return nil
	})
	if errors.Is(err, errDuplicateDelivery) {
		l.Info("checkout session already recorded")
		return nil
	}
	if res := asError(err, "Failed to save registration"); res != nil {
		l.Warn("registration not recorded", zap.String("code", string(res.Code)), zap.String("reason", res.Message))
		return res
	}

	l.Info("registration recorded", zap.String("registration_id", reg.ID), zap.Int("spots", spots))

	return nil
}

func (p *PaymentService) recordSponsorship(ctx context.Context, ev *payment.Event, userID string) *Error {
	l := logger.FromContext(ctx).With(zap.String("session_id", ev.SessionID), zap.String("user_id", userID))

	s := &repository.Sponsorship{
		ID:              p.newID(),
		UserID:          userID,
		BusinessName:    strings.TrimSpace(ev.Metadata["businessName"]),
		AmountCents:     ev.AmountTotal,
		SignOption:      ev.Metadata["signOption"],
		StripeSessionID: ev.SessionID,
	}
	if s.BusinessName == "" {
		return NewError(ErrorCodeInvalidBody, "Missing businessName in metadata")
	}
	switch s.SignOption {
	case model.SignOptionText:
		s.SignText = ev.Metadata["signText"]
	case model.SignOptionLogo:
		s.LogoURL = ev.Metadata["logoUrl"]
	case model.SignOptionBoth:
		s.SignText = ev.Metadata["signText"]
		s.LogoURL = ev.Metadata["logoUrl"]
	}

	exists, err := p.sponsorships.ExistsBySession(ctx, ev.SessionID)
	if err != nil {
		l.Error("failed to check session", zap.Error(err))
		return NewError(ErrorCodeUnspecified, "Failed to save sponsorship")
	}
	if exists {
		l.Info("checkout session already recorded")
		return nil
	}

	err = p.sponsorships.Create(ctx, s)
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return NewError(ErrorCodeSponsorExists, "User already has a sponsorship")
	case err != nil:
		l.Error("failed to create sponsorship", zap.Error(err))
		return NewError(ErrorCodeUnspecified, "Failed to save sponsorship")
	}

	l.Info("sponsorship recorded", zap.String("sponsorship_id", s.ID))

	return nil
}

func (p *PaymentService) WithRegistrationRepo(r repository.RegistrationRepository) *PaymentService {
	p.registrations = r
	return p
}

func (p *PaymentService) WithSponsorshipRepo(r repository.SponsorshipRepository) *PaymentService {
	p.sponsorships = r
	return p
}

func (p *PaymentService) WithIDGenerator(fn func() string) *PaymentService {
	p.newID = fn
	return p
}
