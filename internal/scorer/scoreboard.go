package scorer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/scoring"
)

type InningsScore struct {
	ID              uuid.UUID               `json:"id"`
	Number          int                     `json:"number"`
	BattingTeamID   uuid.UUID               `json:"battingTeamId"`
	BattingTeam     string                  `json:"battingTeam"`
	BowlingTeamID   uuid.UUID               `json:"bowlingTeamId"`
	Runs            int                     `json:"runs"`
	Wickets         int                     `json:"wickets"`
	Overs           string                  `json:"overs"`
	LegalBalls      int                     `json:"legalBalls"`
	Extras          scoring.ExtrasBreakdown `json:"extras"`
	Target          int                     `json:"target,omitempty"`
	RunRate         float64                 `json:"runRate"`
	RequiredRunRate float64                 `json:"requiredRunRate,omitempty"`
	BallsRemaining  int                     `json:"ballsRemaining"`
	Completed       bool                    `json:"completed"`
	Batting         []scoring.BattingEntry  `json:"batting"`
	Bowling         []scoring.BowlingEntry  `json:"bowling"`
	FallOfWickets   []scoring.FallOfWicket  `json:"fallOfWickets"`
}

type WinProbability struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Scoreboard is the live view of a match, rebuilt from its deliveries.
type Scoreboard struct {
	MatchID        uuid.UUID       `json:"matchId"`
	Status         matches.Status  `json:"status"`
	HomeTeamID     uuid.UUID       `json:"homeTeamId"`
	AwayTeamID     uuid.UUID       `json:"awayTeamId"`
	Rules          scoring.Rules   `json:"rules"`
	Innings        []InningsScore  `json:"innings"`
	WinProbability WinProbability  `json:"winProbability"`
	Result         *scoring.Result `json:"result,omitempty"`
	ResultSummary  *string         `json:"resultSummary,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (s *Service) Scoreboard(ctx context.Context, matchID uuid.UUID) (Scoreboard, error) {
	snap, err := s.load(ctx, matchID)
	if err != nil {
		return Scoreboard{}, err
	}
	if len(snap.states) == 2 {
		result := scoring.DecideResult(snap.states[0], snap.states[1])
		if result.Decided() {
			snap.result = &result
		}
	}
	return snap.scoreboard(), nil
}

type snapshot struct {
	match     matches.Match
	rules     scoring.Rules
	innings   []matches.Innings
	balls     [][]matches.Ball
	states    []scoring.InningsState
	teamNames map[uuid.UUID]string
	result    *scoring.Result
}

func (s *Service) load(ctx context.Context, matchID uuid.UUID) (snapshot, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return snapshot{}, err
	}
	snap := snapshot{
		match:     m,
		rules:     scoring.RulesFor(m),
		teamNames: make(map[uuid.UUID]string, 2),
	}
	for _, id := range []uuid.UUID{m.HomeTeamID, m.AwayTeamID} {
		team, err := s.store.GetTeam(ctx, id)
		if err != nil {
			return snapshot{}, err
		}
		snap.teamNames[id] = team.Name
	}

	inningsList, err := s.store.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return snapshot{}, err
	}
	if len(inningsList) > 2 {
		return snapshot{}, errors.New("match has more than two innings")
	}
	for _, inn := range inningsList {
		balls, err := s.store.ListBallsByInnings(ctx, inn.ID)
		if err != nil {
			return snapshot{}, err
		}
		target := 0
		if inn.Number == 2 && len(snap.states) == 1 {
			target = scoring.TargetFor(snap.states[0])
		}
		live := scoring.SortedLive(balls)
		snap.innings = append(snap.innings, inn)
		snap.balls = append(snap.balls, live)
		snap.states = append(snap.states, scoring.Replay(snap.rules, target, live))
	}
	return snap, nil
}

// decided reports whether the replayed innings settle the match.
func (s snapshot) decided() bool {
	if len(s.states) != 2 {
		return false
	}
	return scoring.DecideResult(s.states[0], s.states[1]).Decided()
}

func (s snapshot) teamName(id uuid.UUID) string {
	if name, ok := s.teamNames[id]; ok {
		return name
	}
	return id.String()
}

func (s snapshot) scoreboard() Scoreboard {
	board := Scoreboard{
		MatchID:       s.match.ID,
		Status:        s.match.Status,
		HomeTeamID:    s.match.HomeTeamID,
		AwayTeamID:    s.match.AwayTeamID,
		Rules:         s.rules,
		Innings:       make([]InningsScore, 0, len(s.innings)),
		Result:        s.result,
		ResultSummary: s.match.ResultSummary,
		UpdatedAt:     s.match.UpdatedAt,
	}

	runsBy := make(map[uuid.UUID]int, 2)
	for i, inn := range s.innings {
		st := s.states[i]
		runsBy[inn.BattingTeamID] += st.Runs
		board.Innings = append(board.Innings, InningsScore{
			ID:              inn.ID,
			Number:          inn.Number,
			BattingTeamID:   inn.BattingTeamID,
			BattingTeam:     s.teamName(inn.BattingTeamID),
			BowlingTeamID:   inn.BowlingTeamID,
			Runs:            st.Runs,
			Wickets:         st.Wickets,
			Overs:           st.Overs(),
			LegalBalls:      st.LegalBalls,
			Extras:          st.Extras,
			Target:          st.Target,
			RunRate:         scoring.Round(st.RunRate()),
			RequiredRunRate: scoring.Round(st.RequiredRunRate()),
			BallsRemaining:  st.BallsRemaining(),
			Completed:       st.Complete(),
			Batting:         scoring.BuildBattingCard(s.balls[i]),
			Bowling:         scoring.BuildBowlingCard(s.balls[i]),
			FallOfWickets:   scoring.FallOfWickets(s.balls[i]),
		})
	}

	board.WinProbability = s.winProbability(runsBy)
	return board
}

// winProbability settles to 1/0 (or 0.5 each for a tie) once the match is
// completed; otherwise it is the runs ratio between the two sides.
func (s snapshot) winProbability(runsBy map[uuid.UUID]int) WinProbability {
	home, away := s.match.HomeTeamID, s.match.AwayTeamID
	if s.match.Status == matches.StatusCompleted {
		switch {
		case s.match.WinnerTeamID == nil:
			return WinProbability{Home: 0.5, Away: 0.5}
		case *s.match.WinnerTeamID == home:
			return WinProbability{Home: 1, Away: 0}
		default:
			return WinProbability{Home: 0, Away: 1}
		}
	}
	return WinProbability{
		Home: scoring.Round(scoring.WinProbability(runsBy[home], runsBy[away])),
		Away: scoring.Round(scoring.WinProbability(runsBy[away], runsBy[home])),
	}
}
