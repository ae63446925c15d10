package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/golf-fundraiser/internal/db"
	"github.com/yakoovad/golf-fundraiser/internal/model"
)

type Registration struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Spots           int       `db:"spots"`
	PaymentStatus   string    `db:"payment_status"`
	AmountCents     int64     `db:"amount_cents"`
	StripeSessionID string    `db:"stripe_session_id"`
	CreatedAt       time.Time `db:"created_at"`

	SpotDetails []*Spot `db:"-"`
}

type Spot struct {
	ID             string `db:"spot_id"`
	RegistrationID string `db:"registration_id"`
	UserID         string `db:"user_id"`
	Position       int    `db:"position"`
	Name           string `db:"name"`
	Phone          string `db:"phone"`
	Email          string `db:"email"`
}

type SpotPatch struct {
	ID    string  `db:"spot_id"`
	Name  *string `db:"name"`
	Phone *string `db:"phone"`
	Email *string `db:"email"`
}

type RegistrationRepository interface {
	// Create inserts the registration and its spots. Call it inside a transaction.
	Create(ctx context.Context, reg *Registration) error
	ExistsBySession(ctx context.Context, sessionID string) (bool, error)
	FindExistingEmails(ctx context.Context, emails []string) ([]string, error)
	List(ctx context.Context) ([]*Registration, error)
	CountPaidSpots(ctx context.Context, userID string) (int, error)
	GetOwnedSpot(ctx context.Context, userID, spotID string) (*Spot, error)
	GetUserSpots(ctx context.Context, userID string) ([]*Spot, error)
	ListSpots(ctx context.Context) ([]*Spot, error)
	PatchSpot(ctx context.Context, patch *SpotPatch) (*Spot, error)
}

var spotColumns = []any{
	"spots.spot_id", "spots.registration_id", "spots.user_id", "spots.position",
	"spots.name", "spots.phone", "spots.email",
}

type pgxRegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &pgxRegistrationRepository{pool: pool}
}

func (p *pgxRegistrationRepository) Create(ctx context.Context, reg *Registration) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("registrations", "id", "user_id", "spots", "payment_status", "amount_cents", "stripe_session_id"),
		im.Values(
			psql.Arg(reg.ID),
			psql.Arg(reg.UserID),
			psql.Arg(reg.Spots),
			psql.Arg(reg.PaymentStatus),
			psql.Arg(reg.AmountCents),
			psql.Arg(reg.StripeSessionID),
		),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	if err = e.QueryRow(ctx, sql, args...).Scan(&reg.CreatedAt); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrAlreadyExists
		}
		return err
	}

	if len(reg.SpotDetails) == 0 {
		return nil
	}

	spots := psql.Insert(
		im.Into("spots", "spot_id", "registration_id", "user_id", "position", "name", "phone", "email"),
	)
	for i, spot := range reg.SpotDetails {
		spot.RegistrationID = reg.ID
		spot.UserID = reg.UserID
		spot.Position = i
		spots.Apply(im.Values(
			psql.Arg(spot.ID),
			psql.Arg(spot.RegistrationID),
			psql.Arg(spot.UserID),
			psql.Arg(spot.Position),
			psql.Arg(spot.Name),
			psql.Arg(spot.Phone),
			psql.Arg(spot.Email),
		))
	}

	sql, args, err = spots.Build(ctx)
	if err != nil {
		return err
	}

	if _, err = e.Exec(ctx, sql, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "idx_spots_email" {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (p *pgxRegistrationRepository) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id"),
		sm.From("registrations"),
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

// FindExistingEmails returns the subset of emails already attached to a spot.
func (p *pgxRegistrationRepository) FindExistingEmails(ctx context.Context, emails []string) ([]string, error) {
	if len(emails) == 0 {
		return []string{}, nil
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Distinct(),
		sm.Columns("email"),
		sm.From("spots"),
		sm.Where(psql.Quote("email").In(psql.Arg(toArgs(emails)...))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *pgxRegistrationRepository) List(ctx context.Context) ([]*Registration, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "user_id", "spots", "payment_status", "amount_cents", "stripe_session_id", "created_at"),
		sm.From("registrations"),
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

	regs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Registration, error) {
		reg := &Registration{SpotDetails: []*Spot{}}
		if err := row.Scan(
			&reg.ID,
			&reg.UserID,
			&reg.Spots,
			&reg.PaymentStatus,
			&reg.AmountCents,
			&reg.StripeSessionID,
			&reg.CreatedAt,
		); err != nil {
			return nil, err
		}
		return reg, nil
	})
	if err != nil {
		return nil, err
	}

	spots, err := p.ListSpots(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Registration, len(regs))
	for _, reg := range regs {
		byID[reg.ID] = reg
	}
	for _, spot := range spots {
		if reg, ok := byID[spot.RegistrationID]; ok {
			reg.SpotDetails = append(reg.SpotDetails, spot)
		}
	}

	return regs, nil
}

func (p *pgxRegistrationRepository) CountPaidSpots(ctx context.Context, userID string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("COALESCE(SUM(spots), 0)"),
		sm.From("registrations"),
		sm.Where(
			psql.Quote("user_id").EQ(psql.Arg(userID)).
				And(psql.Quote("payment_status").EQ(psql.Arg(model.PaymentStatusCompleted))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err = e.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return int(total), nil
}

// GetOwnedSpot finds a spot that belongs to a completed registration of userID.
func (p *pgxRegistrationRepository) GetOwnedSpot(ctx context.Context, userID, spotID string) (*Spot, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(spotColumns...),
		sm.From("spots"),
		sm.InnerJoin("registrations").On(psql.Quote("registrations", "id").EQ(psql.Quote("spots", "registration_id"))),
		sm.Where(
			psql.Quote("spots", "spot_id").EQ(psql.Arg(spotID)).
				And(psql.Quote("registrations", "user_id").EQ(psql.Arg(userID))).
				And(psql.Quote("registrations", "payment_status").EQ(psql.Arg(model.PaymentStatusCompleted))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	spot, err := pgx.CollectExactlyOneRow(rows, scanSpot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return spot, nil
}

func (p *pgxRegistrationRepository) GetUserSpots(ctx context.Context, userID string) ([]*Spot, error) {
	return p.querySpots(ctx,
		sm.InnerJoin("registrations").On(psql.Quote("registrations", "id").EQ(psql.Quote("spots", "registration_id"))),
		sm.Where(
			psql.Quote("registrations", "user_id").EQ(psql.Arg(userID)).
				And(psql.Quote("registrations", "payment_status").EQ(psql.Arg(model.PaymentStatusCompleted))),
		),
		sm.OrderBy("registrations.created_at"),
		sm.OrderBy("spots.position"),
	)
}

func (p *pgxRegistrationRepository) ListSpots(ctx context.Context) ([]*Spot, error) {
	return p.querySpots(ctx,
		sm.OrderBy("spots.registration_id"),
		sm.OrderBy("spots.position"),
	)
}

func (p *pgxRegistrationRepository) querySpots(ctx context.Context, mods ...bob.Mod[*dialect.SelectQuery]) ([]*Spot, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(spotColumns...),
		sm.From("spots"),
	)
	q.Apply(mods...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanSpot)
}

func (p *pgxRegistrationRepository) PatchSpot(ctx context.Context, patch *SpotPatch) (*Spot, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 3)
	if patch.Name != nil {
		sets = append(sets, um.SetCol("name").ToArg(*patch.Name))
	}
	if patch.Phone != nil {
		sets = append(sets, um.SetCol("phone").ToArg(*patch.Phone))
	}
	if patch.Email != nil {
		sets = append(sets, um.SetCol("email").ToArg(*patch.Email))
	}
	if len(sets) == 0 {
		return nil, errors.New("empty spot patch")
	}

	q := psql.Update(
		um.Table("spots"),
		um.Where(psql.Quote("spot_id").EQ(psql.Arg(patch.ID))),
		um.Returning(spotColumns...),
	)
	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	spot, err := pgx.CollectExactlyOneRow(rows, scanSpot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if constraint, ok := uniqueViolation(err); ok && constraint == "idx_spots_email" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return spot, nil
}

func scanSpot(row pgx.CollectableRow) (*Spot, error) {
	spot := &Spot{}
	if err := row.Scan(
		&spot.ID,
		&spot.RegistrationID,
		&spot.UserID,
		&spot.Position,
		&spot.Name,
		&spot.Phone,
		&spot.Email,
	); err != nil {
		return nil, err
	}
	return spot, nil
}
