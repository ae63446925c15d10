package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/internal/db"
	"github.com/yakoovad/golf-fundraiser/internal/model"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

// TeamService owns team membership. Every mutation locks the team row first, so
// capacity checks and the following insert cannot interleave with another request
// for the same team.
type TeamService struct {
	tx db.Transactor

	teams         repository.TeamRepository
	registrations repository.RegistrationRepository

	newID func() string
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx:    tx,
		newID: uuid.NewString,
	}
}

func (t *TeamService) ListTeams(ctx context.Context) ([]*model.Team, *Error) {
	l := logger.FromContext(ctx)

	teams, err := t.teams.List(ctx)
	if err != nil {
		l.Error("failed to list teams", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list teams")
	}

	members, err := t.teams.ListMembers(ctx)
	if err != nil {
		l.Error("failed to list team members", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list team members")
	}

	byTeam := make(map[string][]*repository.TeamMember, len(teams))
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m)
	}

	res := make([]*model.Team, 0, len(teams))
	for _, team := range teams {
		res = append(res, toModelTeam(team, byTeam[team.ID]))
	}

	return res, nil
}

// CreateTeam creates a team seeded with spots the creator paid for.
func (t *TeamService) CreateTeam(ctx context.Context, req *model.NewTeam) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating team", zap.String("team_name", req.Name), zap.String("creator_id", req.CreatorID))

	if strings.TrimSpace(req.Name) == "" || req.CreatorID == "" || len(req.InitialSpots) == 0 {
		return nil, NewError(ErrorCodeInvalidBody, "name, creatorId and at least one spot are required")
	}
	if hasDuplicates(req.InitialSpots) {
		return nil, NewError(ErrorCodeInvalidBody, "initialSpots must not repeat a spot")
	}
	if len(req.InitialSpots) > model.MaxTeamSize {
		return nil, NewError(ErrorCodeTeamFull, fmt.Sprintf("A team holds at most %d spots", model.MaxTeamSize))
	}

	var res *model.Team

	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		paid, err := t.registrations.CountPaidSpots(txCtx, req.CreatorID)
		if err != nil {
			l.Error("failed to count paid spots", zap.String("creator_id", req.CreatorID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to count paid spots")
		}
		if paid < len(req.InitialSpots) {
			l.Warn("not enough spots", zap.Int("paid", paid), zap.Int("requested", len(req.InitialSpots)))
			return NewError(ErrorCodeInsufficientSpots, "Not enough spots available")
		}

		members := make([]*repository.TeamMember, 0, len(req.InitialSpots))
		for _, spotID := range req.InitialSpots {
			spot, err := t.registrations.GetOwnedSpot(txCtx, req.CreatorID, spotID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return NewError(ErrorCodeSpotNotOwned, fmt.Sprintf("Spot %s not found or not owned by user", spotID))
			case err != nil:
				l.Error("failed to get spot", zap.String("spot_id", spotID), zap.Error(err))
				return NewError(ErrorCodeUnspecified, "failed to get spot")
			}
			members = append(members, &repository.TeamMember{
				SpotID:         spot.ID,
				RegistrationID: spot.RegistrationID,
			})
		}

		assigned, err := t.teams.AssignedSpots(txCtx, req.InitialSpots)
		if err != nil {
			l.Error("failed to check spot assignment", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to check spot assignment")
		}
		if len(assigned) > 0 {
			return NewError(ErrorCodeSpotAlreadyAssigned, fmt.Sprintf("Spot %s already assigned to a team", assigned[0]))
		}

		team := &repository.Team{
			ID:        t.newID(),
			Name:      strings.TrimSpace(req.Name),
			IsPrivate: req.IsPrivate,
			CreatorID: req.CreatorID,
			Whitelist: []string{},
		}
		if err = t.teams.Create(txCtx, team); err != nil {
			l.Error("failed to create team", zap.String("team_name", team.Name), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create team")
		}

		err = t.teams.AddMembers(txCtx, team.ID, members)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewError(ErrorCodeSpotAlreadyAssigned, "Spot already assigned to a team")
		case err != nil:
			l.Error("failed to add team members", zap.String("team_id", team.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to add team members")
		}

		res = toModelTeam(team, members)
		return nil
	})
	if serviceErr := asError(err, "failed to create team"); serviceErr != nil {
		return nil, serviceErr
	}

	l.Debug("team created", zap.String("team_id", res.ID))

	return res, nil
}

// JoinTeam adds one of the user's paid spots to a team.
func (t *TeamService) JoinTeam(ctx context.Context, teamID, spotID, userID string) (*model.Team, *Error) {
	l := logger.FromContext(ctx).With(zap.String("team_id", teamID), zap.String("spot_id", spotID))
	l.Info("adding spot to team", zap.String("user_id", userID))

	if teamID == "" || spotID == "" || userID == "" {
		return nil, NewError(ErrorCodeInvalidBody, "teamId, spotId and userId are required")
	}

	var res *model.Team

	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		team, err := t.teams.GetForUpdate(txCtx, teamID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeTeamNotFound, "Team not found")
		case err != nil:
			l.Error("failed to get team", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get team")
		}

		members, err := t.teams.GetMembers(txCtx, teamID)
		if err != nil {
			l.Error("failed to get team members", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get team members")
		}
		if len(members) >= model.MaxTeamSize {
			return NewError(ErrorCodeTeamFull, "Team is full")
		}

		spot, err := t.registrations.GetOwnedSpot(txCtx, userID, spotID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeSpotNotOwned, "Spot not found or not owned by user")
		case err != nil:
			l.Error("failed to get spot", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get spot")
		}

		assigned, err := t.teams.AssignedSpots(txCtx, []string{spotID})
		if err != nil {
			l.Error("failed to check spot assignment", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to check spot assignment")
		}
		if len(assigned) > 0 {
			return NewError(ErrorCodeSpotAlreadyAssigned, "Spot already assigned to a team")
		}

		if team.IsPrivate && !isWhitelisted(team.Whitelist, spot) {
			l.Warn("spot is not whitelisted for private team")
			return NewError(ErrorCodeNotAuthorized, "Not authorized to join private team")
		}

		member := &repository.TeamMember{SpotID: spot.ID, RegistrationID: spot.RegistrationID}
		err = t.teams.AddMembers(txCtx, teamID, []*repository.TeamMember{member})
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewError(ErrorCodeSpotAlreadyAssigned, "Spot already assigned to a team")
		case err != nil:
			l.Error("failed to add spot to team", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "Failed to add spot to team")
		}

		res = toModelTeam(team, append(members, member))
		return nil
	})
	if serviceErr := asError(err, "Failed to add spot to team"); serviceErr != nil {
		return nil, serviceErr
	}

	return res, nil
}

// RemoveSpot takes a spot off a team. The team is deleted when its last spot leaves.
func (t *TeamService) RemoveSpot(ctx context.Context, teamID, spotID, userID string) (bool, *Error) {
	l := logger.FromContext(ctx).With(zap.String("team_id", teamID), zap.String("spot_id", spotID))
	l.Info("removing spot from team", zap.String("user_id", userID))

	if teamID == "" || spotID == "" || userID == "" {
		return false, NewError(ErrorCodeInvalidBody, "teamId, spotId and userId are required")
	}

	deleted := false

	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		team, err := t.teams.GetForUpdate(txCtx, teamID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeTeamNotFound, "Team not found")
		case err != nil:
			l.Error("failed to get team", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get team")
		}

		if team.CreatorID != userID {
			return NewError(ErrorCodeForbidden, "Only the team creator can remove spots")
		}

		err = t.teams.RemoveMember(txCtx, teamID, spotID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeSpotNotInTeam, "Spot not found in team")
		case err != nil:
			l.Error("failed to remove spot", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "Failed to remove spot")
		}

		left, err := t.teams.CountMembers(txCtx, teamID)
		if err != nil {
			l.Error("failed to count team members", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to count team members")
		}
		if left > 0 {
			return nil
		}

		if err = t.teams.Delete(txCtx, teamID); err != nil {
			l.Error("failed to delete empty team", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to delete empty team")
		}
		deleted = true
		return nil
	})
	if serviceErr := asError(err, "Failed to remove spot"); serviceErr != nil {
		return false, serviceErr
	}

	if deleted {
		l.Info("deleted team as it has no members")
	}

	return deleted, nil
}

// UpdateTeam applies creator-only changes: privacy, name and whitelist.
func (t *TeamService) UpdateTeam(ctx context.Context, settings *model.TeamSettings) (*model.Team, *Error) {
	l := logger.FromContext(ctx).With(zap.String("team_id", settings.TeamID))
	l.Info("updating team", zap.String("user_id", settings.UserID))

	if settings.TeamID == "" || settings.UserID == "" {
		return nil, NewError(ErrorCodeInvalidBody, "teamId and userId are required")
	}
	if settings.Empty() {
		return nil, NewError(ErrorCodeInvalidBody, "Invalid request: provide isPrivate, name or whitelist")
	}
	if settings.Name != nil && strings.TrimSpace(*settings.Name) == "" {
		return nil, NewError(ErrorCodeInvalidBody, "Team name cannot be empty")
	}

	var res *model.Team

	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		team, err := t.teams.GetForUpdate(txCtx, settings.TeamID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeTeamNotFound, "Team not found")
		case err != nil:
			l.Error("failed to get team", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get team")
		}

		if team.CreatorID != settings.UserID {
			return NewError(ErrorCodeForbidden, "Only the creator can update the team")
		}

		patch := &repository.TeamPatch{
			ID:        settings.TeamID,
			IsPrivate: settings.IsPrivate,
		}
		if settings.Name != nil {
			name := strings.TrimSpace(*settings.Name)
			patch.Name = &name
		}
		if settings.Whitelist != nil {
			whitelist := normalizeWhitelist(*settings.Whitelist)
			patch.Whitelist = &whitelist
		}

		updated, err := t.teams.Patch(txCtx, patch)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeTeamNotFound, "Team not found")
		case err != nil:
			l.Error("failed to update team", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "Failed to update team")
		}

		members, err := t.teams.GetMembers(txCtx, settings.TeamID)
		if err != nil {
			l.Error("failed to get team members", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get team members")
		}

		res = toModelTeam(updated, members)
		return nil
	})
	if serviceErr := asError(err, "Failed to update team"); serviceErr != nil {
		return nil, serviceErr
	}

	return res, nil
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func (t *TeamService) WithRegistrationRepo(r repository.RegistrationRepository) *TeamService {
	t.registrations = r
	return t
}

func (t *TeamService) WithIDGenerator(fn func() string) *TeamService {
	t.newID = fn
	return t
}

// isWhitelisted matches whitelist entries against the spot's email or name, ignoring case.
func isWhitelisted(whitelist []string, spot *repository.Spot) bool {
	email := strings.ToLower(strings.TrimSpace(spot.Email))
	name := strings.ToLower(strings.TrimSpace(spot.Name))

	for _, entry := range whitelist {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e == "" {
			continue
		}
		if e == email || e == name {
			return true
		}
	}
	return false
}

func normalizeWhitelist(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	res := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key := strings.ToLower(entry)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, entry)
	}
	return res
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

func toModelTeam(team *repository.Team, members []*repository.TeamMember) *model.Team {
	res := &model.Team{
		ID:        team.ID,
		Name:      team.Name,
		IsPrivate: team.IsPrivate,
		CreatorID: team.CreatorID,
		Members:   make([]*model.TeamMember, 0, len(members)),
		Whitelist: team.Whitelist,
		CreatedAt: team.CreatedAt,
	}
	if res.Whitelist == nil {
		res.Whitelist = []string{}
	}
	for _, m := range members {
		res.Members = append(res.Members, &model.TeamMember{
			SpotID:         m.SpotID,
			RegistrationID: m.RegistrationID,
		})
	}
	return res
}
