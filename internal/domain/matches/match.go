package matches

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

type TossDecision string

const (
	TossBat  TossDecision = "bat"
	TossBowl TossDecision = "bowl"
)

const (
	DefaultOversLimit = 20
	DefaultMaxWickets = 10
)

type Tournament struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	OrganizerID uuid.UUID  `json:"organizerId"`
	OversLimit  int        `json:"oversLimit"`
	StartsOn    time.Time  `json:"startsOn"`
	EndsOn      *time.Time `json:"endsOn,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

type Match struct {
	ID            uuid.UUID     `json:"id"`
	TournamentID  *uuid.UUID    `json:"tournamentId,omitempty"`
	OrganizerID   *uuid.UUID    `json:"organizerId,omitempty"`
	HomeTeamID    uuid.UUID     `json:"homeTeamId"`
	AwayTeamID    uuid.UUID     `json:"awayTeamId"`
	Venue         string        `json:"venue"`
	ScheduledAt   time.Time     `json:"scheduledAt"`
	OversLimit    int           `json:"oversLimit"`
	MaxWickets    int           `json:"maxWickets"`
	Status        Status        `json:"status"`
	TossWinnerID  *uuid.UUID    `json:"tossWinnerId,omitempty"`
	TossDecision  *TossDecision `json:"tossDecision,omitempty"`
	WinnerTeamID  *uuid.UUID    `json:"winnerTeamId,omitempty"`
	ResultSummary *string       `json:"resultSummary,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	DeletedAt     *time.Time    `json:"deletedAt,omitempty"`
}

type Innings struct {
	ID            uuid.UUID `json:"id"`
	MatchID       uuid.UUID `json:"matchId"`
	Number        int       `json:"number"`
	BattingTeamID uuid.UUID `json:"battingTeamId"`
	BowlingTeamID uuid.UUID `json:"bowlingTeamId"`
	Runs          int       `json:"runs"`
	Wickets       int       `json:"wickets"`
	LegalBalls    int       `json:"legalBalls"`
	Extras        int       `json:"extras"`
	Target        *int      `json:"target,omitempty"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type FollowTarget string

const (
	FollowTeam   FollowTarget = "team"
	FollowPlayer FollowTarget = "player"
)

func (f FollowTarget) Valid() bool {
	return f == FollowTeam || f == FollowPlayer
}

type Follow struct {
	UserID     uuid.UUID    `json:"userId"`
	TargetType FollowTarget `json:"targetType"`
	TargetID   uuid.UUID    `json:"targetId"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Filter narrows match listings. Zero fields are ignored.
type Filter struct {
	Status       Status
	Statuses     []Status
	TeamID       *uuid.UUID
	TournamentID *uuid.UUID
	OrganizerID  *uuid.UUID
	TeamIDs      []uuid.UUID
	Limit        int
}

var transitions = map[Status][]Status{
	StatusScheduled: {StatusLive, StatusAbandoned},
	StatusLive:      {StatusCompleted, StatusAbandoned},
}

// CanTransition reports whether a match in its current status may move to next.
func (m Match) CanTransition(next Status) bool {
	for _, allowed := range transitions[m.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsCorrections reports whether stored deliveries may still be amended:
// the match is under way, or its result came from scoring and can be taken back.
func (m Match) AcceptsCorrections() bool {
	return m.Status == StatusLive || m.Status == StatusCompleted
}

func (m Match) IsFinished() bool {
	return m.Status == StatusCompleted || m.Status == StatusAbandoned
}

func (m Match) Involves(teamID uuid.UUID) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// Opponent returns the other side of the fixture.
func (m Match) Opponent(teamID uuid.UUID) uuid.UUID {
	if m.HomeTeamID == teamID {
		return m.AwayTeamID
	}
	return m.HomeTeamID
}

func (m Match) WithDefaults() Match {
	if m.OversLimit <= 0 {
		m.OversLimit = DefaultOversLimit
	}
	if m.MaxWickets <= 0 {
		m.MaxWickets = DefaultMaxWickets
	}
	if m.Status == "" {
		m.Status = StatusScheduled
	}
	return m
}
