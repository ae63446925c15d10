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
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/golf-fundraiser/internal/db"
)

type Team struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	IsPrivate bool       `db:"is_private"`
	CreatorID string     `db:"creator_id"`
	Whitelist []string   `db:"whitelist"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

type TeamPatch struct {
	ID        string    `db:"id"`
	Name      *string   `db:"name"`
	IsPrivate *bool     `db:"is_private"`
	Whitelist *[]string `db:"whitelist"`
}

type TeamMember struct {
	TeamID         string    `db:"team_id"`
	SpotID         string    `db:"spot_id"`
	RegistrationID string    `db:"registration_id"`
	AddedAt        time.Time `db:"added_at"`
}

type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	// GetForUpdate locks the team row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Team, error)
	List(ctx context.Context) ([]*Team, error)
	Patch(ctx context.Context, patch *TeamPatch) (*Team, error)
	Delete(ctx context.Context, id string) error

	GetMembers(ctx context.Context, teamID string) ([]*TeamMember, error)
	ListMembers(ctx context.Context) ([]*TeamMember, error)
	AddMembers(ctx context.Context, teamID string, members []*TeamMember) error
	RemoveMember(ctx context.Context, teamID, spotID string) error
	CountMembers(ctx context.Context, teamID string) (int, error)
	// AssignedSpots returns the spot ids from spotIDs that already sit on a team.
	AssignedSpots(ctx context.Context, spotIDs []string) ([]string, error)
}

var teamColumns = []any{"id", "name", "is_private", "creator_id", "whitelist", "created_at", "updated_at"}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

func (p *pgxTeamRepository) Create(ctx context.Context, team *Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if team.Whitelist == nil {
		team.Whitelist = []string{}
	}

	q := psql.Insert(
		im.Into("teams", "id", "name", "is_private", "creator_id", "whitelist"),
		im.Values(
			psql.Arg(team.ID),
			psql.Arg(team.Name),
			psql.Arg(team.IsPrivate),
			psql.Arg(team.CreatorID),
			psql.Arg(team.Whitelist),
		),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	if err = e.QueryRow(ctx, sql, args...).Scan(&team.CreatedAt); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (p *pgxTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	return p.get(ctx, id)
}

func (p *pgxTeamRepository) GetForUpdate(ctx context.Context, id string) (*Team, error) {
	return p.get(ctx, id, sm.ForUpdate("teams"))
}

func (p *pgxTeamRepository) get(ctx context.Context, id string, mods ...bob.Mod[*dialect.SelectQuery]) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
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

	team, err := pgx.CollectExactlyOneRow(rows, scanTeam)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (p *pgxTeamRepository) List(ctx context.Context) ([]*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.OrderBy("created_at"),
		sm.OrderBy("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanTeam)
}

func (p *pgxTeamRepository) Patch(ctx context.Context, patch *TeamPatch) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 4)
	if patch.Name != nil {
		sets = append(sets, um.SetCol("name").ToArg(*patch.Name))
	}
	if patch.IsPrivate != nil {
		sets = append(sets, um.SetCol("is_private").ToArg(*patch.IsPrivate))
	}
	if patch.Whitelist != nil {
		sets = append(sets, um.SetCol("whitelist").ToArg(*patch.Whitelist))
	}
	sets = append(sets, um.SetCol("updated_at").ToArg(time.Now().UTC()))

	q := psql.Update(
		um.Table("teams"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(teamColumns...),
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

	team, err := pgx.CollectExactlyOneRow(rows, scanTeam)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (p *pgxTeamRepository) Delete(ctx context.Context, id string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("teams"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *pgxTeamRepository) GetMembers(ctx context.Context, teamID string) ([]*TeamMember, error) {
	return p.queryMembers(ctx, sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))))
}

func (p *pgxTeamRepository) ListMembers(ctx context.Context) ([]*TeamMember, error) {
	return p.queryMembers(ctx)
}

func (p *pgxTeamRepository) queryMembers(ctx context.Context, mods ...bob.Mod[*dialect.SelectQuery]) ([]*TeamMember, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("team_id", "spot_id", "registration_id", "added_at"),
		sm.From("team_members"),
	)
	q.Apply(mods...)
	q.Apply(sm.OrderBy("added_at"), sm.OrderBy("spot_id"))

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*TeamMember, error) {
		m := &TeamMember{}
		if err := row.Scan(&m.TeamID, &m.SpotID, &m.RegistrationID, &m.AddedAt); err != nil {
			return nil, err
		}
		return m, nil
	})
}

// AddMembers inserts the members. A spot already on any team yields ErrAlreadyExists.
func (p *pgxTeamRepository) AddMembers(ctx context.Context, teamID string, members []*TeamMember) error {
	if len(members) == 0 {
		return nil
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("team_members", "team_id", "spot_id", "registration_id"),
	)
	for _, m := range members {
		m.TeamID = teamID
		q.Apply(im.Values(psql.Arg(teamID), psql.Arg(m.SpotID), psql.Arg(m.RegistrationID)))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	if _, err = e.Exec(ctx, sql, args...); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrAlreadyExists
		}
		if foreignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (p *pgxTeamRepository) RemoveMember(ctx context.Context, teamID, spotID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("team_members"),
		dm.Where(
			psql.Quote("team_id").EQ(psql.Arg(teamID)).
				And(psql.Quote("spot_id").EQ(psql.Arg(spotID))),
		))

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *pgxTeamRepository) CountMembers(ctx context.Context, teamID string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("COUNT(*)"),
		sm.From("team_members"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err = e.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

func (p *pgxTeamRepository) AssignedSpots(ctx context.Context, spotIDs []string) ([]string, error) {
	if len(spotIDs) == 0 {
		return []string{}, nil
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("spot_id"),
		sm.From("team_members"),
		sm.Where(psql.Quote("spot_id").In(psql.Arg(toArgs(spotIDs)...))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanTeam(row pgx.CollectableRow) (*Team, error) {
	t := &Team{}
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.IsPrivate,
		&t.CreatorID,
		&t.Whitelist,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if t.Whitelist == nil {
		t.Whitelist = []string{}
	}
	return t, nil
}
