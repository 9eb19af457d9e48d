package matches

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSequenceTaken is returned when another delivery already holds the sequence number in that innings.
	ErrSequenceTaken = errors.New("ball sequence already used in innings")
	ErrBallMoved     = errors.New("ball cannot move to another innings")
)

type ExtraType string

const (
	ExtraNone    ExtraType = ""
	ExtraWide    ExtraType = "wide"
	ExtraNoBall  ExtraType = "no_ball"
	ExtraBye     ExtraType = "bye"
	ExtraLegBye  ExtraType = "leg_bye"
	ExtraPenalty ExtraType = "penalty"
)

type DismissalKind string

const (
	DismissalBowled      DismissalKind = "bowled"
	DismissalCaught      DismissalKind = "caught"
	DismissalLBW         DismissalKind = "lbw"
	DismissalStumped     DismissalKind = "stumped"
	DismissalHitWicket   DismissalKind = "hit_wicket"
	DismissalRunOut      DismissalKind = "run_out"
	DismissalRetiredHurt DismissalKind = "retired_hurt"
	DismissalObstructing DismissalKind = "obstructing_field"
)

func (d DismissalKind) Valid() bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalStumped,
		DismissalHitWicket, DismissalRunOut, DismissalRetiredHurt, DismissalObstructing:
		return true
	default:
		return false
	}
}

// CreditsBowler reports whether the bowler is credited with the wicket.
func (d DismissalKind) CreditsBowler() bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalStumped, DismissalHitWicket:
		return true
	default:
		return false
	}
}

// CountsAsOut is false only for retirements, which do not cost the side a wicket.
func (d DismissalKind) CountsAsOut() bool {
	return d.Valid() && d != DismissalRetiredHurt
}

type Ball struct {
	ID                uuid.UUID      `json:"id"`
	InningsID         uuid.UUID      `json:"inningsId"`
	MatchID           uuid.UUID      `json:"matchId"`
	Sequence          int            `json:"sequence"`
	Over              int            `json:"over"`
	BallInOver        int            `json:"ballInOver"`
	BatterID          uuid.UUID      `json:"batterId"`
	NonStrikerID      *uuid.UUID     `json:"nonStrikerId,omitempty"`
	BowlerID          uuid.UUID      `json:"bowlerId"`
	RunsOffBat        int            `json:"runsOffBat"`
	Extras            int            `json:"extras"`
	ExtraType         ExtraType      `json:"extraType,omitempty"`
	IsWicket          bool           `json:"isWicket"`
	DismissalKind     *DismissalKind `json:"dismissalKind,omitempty"`
	DismissedPlayerID *uuid.UUID     `json:"dismissedPlayerId,omitempty"`
	FielderID         *uuid.UUID     `json:"fielderId,omitempty"`
	Commentary        *string        `json:"commentary,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         *time.Time     `json:"deletedAt,omitempty"`
}

func (b Ball) IsDeleted() bool {
	return b.DeletedAt != nil
}

// IsLegal is false for wides and no-balls, which do not count towards the over.
func (b Ball) IsLegal() bool {
	return b.ExtraType != ExtraWide && b.ExtraType != ExtraNoBall
}

func (b Ball) TotalRuns() int {
	return b.RunsOffBat + b.Extras
}

// BowlerRuns are the runs charged to the bowler: bat runs plus wide and no-ball extras.
func (b Ball) BowlerRuns() int {
	switch b.ExtraType {
	case ExtraWide, ExtraNoBall:
		return b.RunsOffBat + b.Extras
	case ExtraBye, ExtraLegBye, ExtraPenalty:
		return b.RunsOffBat
	default:
		return b.RunsOffBat
	}
}

// FacedByBatter is false for wides only.
func (b Ball) FacedByBatter() bool {
	return b.ExtraType != ExtraWide
}

func (b Ball) Dismissal() (DismissalKind, bool) {
	if !b.IsWicket || b.DismissalKind == nil {
		return "", false
	}
	return *b.DismissalKind, true
}

func (b Ball) WicketForBowler() bool {
	kind, ok := b.Dismissal()
	return ok && kind.CreditsBowler()
}

func (b Ball) CostsWicket() bool {
	kind, ok := b.Dismissal()
	return ok && kind.CountsAsOut()
}
