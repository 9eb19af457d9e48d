package teams

import (
	"time"

	"github.com/google/uuid"
)

type PlayerRole string

const (
	RoleBatter       PlayerRole = "batter"
	RoleBowler       PlayerRole = "bowler"
	RoleAllRounder   PlayerRole = "all_rounder"
	RoleWicketKeeper PlayerRole = "wicket_keeper"
)

func (r PlayerRole) Valid() bool {
	switch r {
	case RoleBatter, RoleBowler, RoleAllRounder, RoleWicketKeeper:
		return true
	default:
		return false
	}
}

type Team struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ShortName   string     `json:"shortName"`
	HomeGround  *string    `json:"homeGround,omitempty"`
	OrganizerID *uuid.UUID `json:"organizerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

type Player struct {
	ID           uuid.UUID  `json:"id"`
	TeamID       *uuid.UUID `json:"teamId,omitempty"`
	UserID       *uuid.UUID `json:"userId,omitempty"`
	Name         string     `json:"name"`
	Role         PlayerRole `json:"role"`
	BattingStyle *string    `json:"battingStyle,omitempty"`
	BowlingStyle *string    `json:"bowlingStyle,omitempty"`
	JerseyNumber *int       `json:"jerseyNumber,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
}

func (t Team) IsDeleted() bool {
	return t.DeletedAt != nil
}

func (p Player) IsDeleted() bool {
	return p.DeletedAt != nil
}
