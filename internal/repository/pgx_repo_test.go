package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yakoovad/golf-fundraiser/internal/db"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.Connect(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool, db.MigrateUp))

	return pool
}

func seedRegistration(t *testing.T, repo RegistrationRepository, id, userID, session string, emails ...string) *Registration {
	t.Helper()

	reg := &Registration{
		ID:              id,
		UserID:          userID,
		Spots:           len(emails),
		PaymentStatus:   "completed",
		AmountCents:     int64(len(emails)) * 15000,
		StripeSessionID: session,
	}
	for i, email := range emails {
		reg.SpotDetails = append(reg.SpotDetails, &Spot{
			ID:    id + "-spot-" + string(rune('a'+i)),
			Name:  "Player " + string(rune('A'+i)),
			Email: email,
		})
	}
	require.NoError(t, repo.Create(context.Background(), reg))
	return reg
}

func TestPgxRepositories(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	registrations := NewPgxRegistrationRepository(pool)
	teams := NewPgxTeamRepository(pool)
	sponsors := NewPgxSponsorRepository(pool)
	sponsorships := NewPgxSponsorshipRepository(pool)

	t.Run("registrations", func(t *testing.T) {
		reg := seedRegistration(t, registrations, "r1", "u1", "cs_1", "ann@example.com", "bo@example.com")

		exists, err := registrations.ExistsBySession(ctx, "cs_1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = registrations.ExistsBySession(ctx, "cs_missing")
		require.NoError(t, err)
		assert.False(t, exists)

		taken, err := registrations.FindExistingEmails(ctx, []string{"bo@example.com", "new@example.com"})
		require.NoError(t, err)
		assert.Equal(t, []string{"bo@example.com"}, taken)

		paid, err := registrations.CountPaidSpots(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, paid)

		spot, err := registrations.GetOwnedSpot(ctx, "u1", reg.SpotDetails[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "r1", spot.RegistrationID)

		_, err = registrations.GetOwnedSpot(ctx, "u2", reg.SpotDetails[0].ID)
		assert.ErrorIs(t, err, ErrNotFound)

		err = db.NewPgxTransactor(pool).WithinTransaction(ctx, func(txCtx context.Context) error {
			return registrations.Create(txCtx, &Registration{
				ID: "r-dup", UserID: "u2", Spots: 1, PaymentStatus: "completed", StripeSessionID: "cs_dup",
				SpotDetails: []*Spot{{ID: "dup-spot", Name: "Dup", Email: "ann@example.com"}},
			})
		})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		exists, err = registrations.ExistsBySession(ctx, "cs_dup")
		require.NoError(t, err)
		assert.False(t, exists)

		err = registrations.Create(ctx, &Registration{ID: "r-again", UserID: "u1", Spots: 1, PaymentStatus: "completed", StripeSessionID: "cs_1"})
		assert.ErrorIs(t, err, ErrAlreadyExists)

		list, err := registrations.List(ctx)
		require.NoError(t, err)
		var found *Registration
		for _, r := range list {
			if r.ID == "r1" {
				found = r
			}
		}
		require.NotNil(t, found)
		assert.Len(t, found.SpotDetails, 2)

		email := "bo@example.com"
		_, err = registrations.PatchSpot(ctx, &SpotPatch{ID: reg.SpotDetails[0].ID, Email: &email})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		name := "Ann B"
		patched, err := registrations.PatchSpot(ctx, &SpotPatch{ID: reg.SpotDetails[0].ID, Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Ann B", patched.Name)
		assert.Equal(t, "ann@example.com", patched.Email)
	})

	t.Run("teams", func(t *testing.T) {
		reg := seedRegistration(t, registrations, "r2", "u3", "cs_2", "c1@example.com", "c2@example.com")
		s1, s2 := reg.SpotDetails[0], reg.SpotDetails[1]

		team := &Team{ID: "t1", Name: "Eagles", CreatorID: "u3"}
		require.NoError(t, teams.Create(ctx, team))
		assert.Equal(t, []string{}, team.Whitelist)

		require.NoError(t, teams.AddMembers(ctx, "t1", []*TeamMember{{SpotID: s1.ID, RegistrationID: reg.ID}}))

		other := &Team{ID: "t2", Name: "Birdies", CreatorID: "u3"}
		require.NoError(t, teams.Create(ctx, other))
		err := teams.AddMembers(ctx, "t2", []*TeamMember{{SpotID: s1.ID, RegistrationID: reg.ID}})
		assert.ErrorIs(t, err, ErrAlreadyExists)

		assigned, err := teams.AssignedSpots(ctx, []string{s1.ID, s2.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{s1.ID}, assigned)

		err = db.NewPgxTransactor(pool).WithinTransaction(ctx, func(txCtx context.Context) error {
			locked, err := teams.GetForUpdate(txCtx, "t1")
			if err != nil {
				return err
			}
			assert.Equal(t, "Eagles", locked.Name)
			return teams.AddMembers(txCtx, "t1", []*TeamMember{{SpotID: s2.ID, RegistrationID: reg.ID}})
		})
		require.NoError(t, err)

		count, err := teams.CountMembers(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		private := true
		whitelist := []string{"friend@example.com"}
		patched, err := teams.Patch(ctx, &TeamPatch{ID: "t1", IsPrivate: &private, Whitelist: &whitelist})
		require.NoError(t, err)
		assert.True(t, patched.IsPrivate)
		assert.Equal(t, whitelist, patched.Whitelist)
		assert.NotNil(t, patched.UpdatedAt)

		_, err = teams.Patch(ctx, &TeamPatch{ID: "missing", IsPrivate: &private})
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, teams.RemoveMember(ctx, "t2", s1.ID), ErrNotFound)
		require.NoError(t, teams.RemoveMember(ctx, "t1", s1.ID))

		members, err := teams.GetMembers(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, s2.ID, members[0].SpotID)

		require.NoError(t, teams.Delete(ctx, "t1"))
		_, err = teams.Get(ctx, "t1")
		assert.ErrorIs(t, err, ErrNotFound)

		count, err = teams.CountMembers(ctx, "t1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("sponsors", func(t *testing.T) {
		sponsor := &Sponsor{ID: "sp1", UserID: "u1", Name: "Acme", Price: 200, Logo: "l.png", WebsiteLink: "https://acme.test"}
		require.NoError(t, sponsors.Create(ctx, sponsor))

		err := sponsors.Create(ctx, &Sponsor{ID: "sp2", UserID: "u1", Name: "Acme 2", Price: 300, Logo: "l.png", WebsiteLink: "https://acme.test"})
		assert.ErrorIs(t, err, ErrAlreadyExists)

		_, err = sponsors.GetByUser(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = sponsors.UpdateByUser(ctx, &Sponsor{UserID: "nobody", Name: "X", Price: 250})
		assert.ErrorIs(t, err, ErrNotFound)

		updated, err := sponsors.UpdateByUser(ctx, &Sponsor{UserID: "u1", Name: "Acme Corp", Price: 500, Logo: "l2.png", WebsiteLink: "https://acme.test"})
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", updated.Name)
		assert.NotNil(t, updated.UpdatedAt)

		list, err := sponsors.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("sponsorships", func(t *testing.T) {
		s := &Sponsorship{ID: "ss1", UserID: "u1", BusinessName: "Acme", AmountCents: 20000, SignOption: "text", SignText: "Go", StripeSessionID: "cs_s1"}
		require.NoError(t, sponsorships.Create(ctx, s))

		exists, err := sponsorships.ExistsBySession(ctx, "cs_s1")
		require.NoError(t, err)
		assert.True(t, exists)

		err = sponsorships.Create(ctx, &Sponsorship{ID: "ss2", UserID: "u1", BusinessName: "Acme", StripeSessionID: "cs_s2"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}
