package model

import "time"

const MaxTeamSize = 4

type Team struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	IsPrivate bool          `json:"isPrivate"`
	CreatorID string        `json:"creatorId"`
	Members   []*TeamMember `json:"members"`
	Whitelist []string      `json:"whitelist"`
	CreatedAt time.Time     `json:"createdAt"`
}

type TeamMember struct {
	SpotID         string `json:"spotId"`
	RegistrationID string `json:"registrationId"`
}

type NewTeam struct {
	Name         string   `json:"name" validate:"required"`
	IsPrivate    bool     `json:"isPrivate"`
	CreatorID    string   `json:"creatorId" validate:"required"`
	InitialSpots []string `json:"initialSpots" validate:"required,min=1,unique,dive,required"`
}

// TeamSettings carries the creator-only changes. Nil fields are left untouched.
type TeamSettings struct {
	TeamID    string    `json:"teamId" validate:"required"`
	UserID    string    `json:"userId" validate:"required"`
	IsPrivate *bool     `json:"isPrivate"`
	Name      *string   `json:"name" validate:"omitempty,min=1"`
	Whitelist *[]string `json:"whitelist"`
}

func (s *TeamSettings) Empty() bool {
	return s.IsPrivate == nil && s.Name == nil && s.Whitelist == nil
}
