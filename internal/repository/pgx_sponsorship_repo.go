package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/golf-fundraiser/internal/db"
)

type Sponsorship struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	BusinessName    string    `db:"business_name"`
	AmountCents     int64     `db:"amount_cents"`
	SignOption      string    `db:"sign_option"`
	SignText        string    `db:"sign_text"`
	LogoURL         string    `db:"logo_url"`
	StripeSessionID string    `db:"stripe_session_id"`
	CreatedAt       time.Time `db:"created_at"`
}

type SponsorshipRepository interface {
	Create(ctx context.Context, s *Sponsorship) error
	ExistsBySession(ctx context.Context, sessionID string) (bool, error)
}

type pgxSponsorshipRepository struct {
	pool *pgxpool.Pool
}

func NewPgxSponsorshipRepository(pool *pgxpool.Pool) SponsorshipRepository {
	return &pgxSponsorshipRepository{pool: pool}
}

func (p *pgxSponsorshipRepository) Create(ctx context.Context, s *Sponsorship) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("sponsorships", "id", "user_id", "business_name", "amount_cents", "sign_option", "sign_text", "logo_url", "stripe_session_id"),
		im.Values(
			psql.Arg(s.ID),
			psql.Arg(s.UserID),
			psql.Arg(s.BusinessName),
			psql.Arg(s.AmountCents),
			psql.Arg(s.SignOption),
			psql.Arg(s.SignText),
			psql.Arg(s.LogoURL),
			psql.Arg(s.StripeSessionID),
		),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	if err = e.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (p *pgxSponsorshipRepository) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id"),
		sm.From("sponsorships"),
		sm.Where(psql.Quote("stripe_session_id").EQ(psql.Arg(sessionID))),
		sm.Limit(1),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return false, err
	}

	var id string
	if err = e.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
