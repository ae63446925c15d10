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
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/golf-fundraiser/internal/db"
)

type Sponsor struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Name        string     `db:"name"`
	Price       float64    `db:"price"`
	Logo        string     `db:"logo"`
	WebsiteLink string     `db:"website_link"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

type SponsorRepository interface {
	Create(ctx context.Context, sponsor *Sponsor) error
	GetByUser(ctx context.Context, userID string) (*Sponsor, error)
	// UpdateByUser overwrites the editable fields of the user's sponsor.
	UpdateByUser(ctx context.Context, sponsor *Sponsor) (*Sponsor, error)
	List(ctx context.Context) ([]*Sponsor, error)
}

var sponsorColumns = []any{"id", "user_id", "name", "price", "logo", "website_link", "created_at", "updated_at"}

type pgxSponsorRepository struct {
	pool *pgxpool.Pool
}

func NewPgxSponsorRepository(pool *pgxpool.Pool) SponsorRepository {
	return &pgxSponsorRepository{pool: pool}
}

func (p *pgxSponsorRepository) Create(ctx context.Context, sponsor *Sponsor) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("sponsors", "id", "user_id", "name", "price", "logo", "website_link"),
		im.Values(
			psql.Arg(sponsor.ID),
			psql.Arg(sponsor.UserID),
			psql.Arg(sponsor.Name),
			psql.Arg(sponsor.Price),
			psql.Arg(sponsor.Logo),
			psql.Arg(sponsor.WebsiteLink),
		),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	if err = e.QueryRow(ctx, sql, args...).Scan(&sponsor.CreatedAt); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (p *pgxSponsorRepository) GetByUser(ctx context.Context, userID string) (*Sponsor, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(sponsorColumns...),
		sm.From("sponsors"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSponsor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (p *pgxSponsorRepository) UpdateByUser(ctx context.Context, sponsor *Sponsor) (*Sponsor, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("sponsors"),
		um.SetCol("name").ToArg(sponsor.Name),
		um.SetCol("price").ToArg(sponsor.Price),
		um.SetCol("logo").ToArg(sponsor.Logo),
		um.SetCol("website_link").ToArg(sponsor.WebsiteLink),
		um.SetCol("updated_at").ToArg(time.Now().UTC()),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(sponsor.UserID))),
		um.Returning(sponsorColumns...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSponsor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (p *pgxSponsorRepository) List(ctx context.Context) ([]*Sponsor, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(sponsorColumns...),
		sm.From("sponsors"),
		sm.OrderBy("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanSponsor)
}

func scanSponsor(row pgx.CollectableRow) (*Sponsor, error) {
	s := &Sponsor{}
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Price,
		&s.Logo,
		&s.WebsiteLink,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}
