package scorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/scoring"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/events"
	"go.uber.org/zap"
)

var (
	ErrMatchNotLive      = errors.New("match is not live")
	ErrNothingToUndo     = errors.New("no deliveries to undo")
	ErrInvalidTransition = errors.New("invalid match status transition")
	ErrInvalidToss       = errors.New("invalid toss")
	ErrForeignInnings    = errors.New("innings belongs to another match")
)

// recordAttempts bounds how often RecordBall re-reads the innings after losing
// a sequence number to a concurrent delivery.
const recordAttempts = 3

type Store interface {
	GetMatch(ctx context.Context, id uuid.UUID) (matches.Match, error)
	UpdateMatch(ctx context.Context, m matches.Match) error
	GetTeam(ctx context.Context, id uuid.UUID) (teams.Team, error)
	CreateInnings(ctx context.Context, inn matches.Innings) error
	ListInningsByMatch(ctx context.Context, matchID uuid.UUID) ([]matches.Innings, error)
	UpdateInningsTotals(ctx context.Context, inn matches.Innings) error
	DeleteInnings(ctx context.Context, id uuid.UUID) error
	InsertBall(ctx context.Context, b matches.Ball) error
	ListBallsByInnings(ctx context.Context, inningsID uuid.UUID) ([]matches.Ball, error)
	SoftDeleteBall(ctx context.Context, id uuid.UUID, at time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type Toss struct {
	WinnerID uuid.UUID            `json:"winnerId"`
	Decision matches.TossDecision `json:"decision"`
}

// Service owns the live scoring flow. Innings totals and match results are
// only ever written by RebuildMatch.
type Service struct {
	store Store
	bus   Publisher
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, bus Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: store,
		bus:   bus,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) StartMatch(ctx context.Context, matchID uuid.UUID, toss Toss) (matches.Match, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return matches.Match{}, err
	}
	if !m.CanTransition(matches.StatusLive) {
		return matches.Match{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, m.Status, matches.StatusLive)
	}
	if !m.Involves(toss.WinnerID) {
		return matches.Match{}, fmt.Errorf("%w: toss winner is not playing", ErrInvalidToss)
	}

	batting := toss.WinnerID
	switch toss.Decision {
	case matches.TossBat:
	case matches.TossBowl:
		batting = m.Opponent(toss.WinnerID)
	default:
		return matches.Match{}, fmt.Errorf("%w: decision %q", ErrInvalidToss, toss.Decision)
	}

	now := s.now()
	first := matches.Innings{
		ID:            uuid.New(),
		MatchID:       m.ID,
		Number:        1,
		BattingTeamID: batting,
		BowlingTeamID: m.Opponent(batting),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateInnings(ctx, first); err != nil {
		return matches.Match{}, err
	}

	m = m.WithDefaults()
	m.Status = matches.StatusLive
	m.TossWinnerID = &toss.WinnerID
	decision := toss.Decision
	m.TossDecision = &decision
	m.UpdatedAt = now
	if err := s.store.UpdateMatch(ctx, m); err != nil {
		return matches.Match{}, err
	}

	s.publish(ctx, events.Event{Name: events.MatchStarted, MatchID: m.ID, Payload: m})
	return m, nil
}

// RecordBall stores the next delivery of the current innings. Sequence, over
// and ball numbers are assigned here; whatever the caller sent is overwritten.
func (s *Service) RecordBall(ctx context.Context, matchID uuid.UUID, b matches.Ball) (matches.Ball, error) {
	for attempt := 1; ; attempt++ {
		stored, err := s.insertNext(ctx, matchID, b)
		if errors.Is(err, matches.ErrSequenceTaken) && attempt < recordAttempts {
			s.log.Debug("ball sequence taken, re-reading innings",
				zap.String("match_id", matchID.String()),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return matches.Ball{}, err
		}
		if _, err := s.RebuildMatch(ctx, matchID); err != nil {
			return matches.Ball{}, fmt.Errorf("rebuild match: %w", err)
		}
		return stored, nil
	}
}

// insertNext places b after the deliveries it has just read. The sequence is
// taken from that same read, so a delivery inserted concurrently makes the
// insert fail with matches.ErrSequenceTaken instead of slipping past Check.
func (s *Service) insertNext(ctx context.Context, matchID uuid.UUID, b matches.Ball) (matches.Ball, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return matches.Ball{}, err
	}
	if m.Status != matches.StatusLive {
		return matches.Ball{}, ErrMatchNotLive
	}
	inningsList, err := s.store.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return matches.Ball{}, err
	}
	if len(inningsList) == 0 {
		return matches.Ball{}, ErrMatchNotLive
	}
	current := inningsList[len(inningsList)-1]

	if err := scoring.ValidateBall(b); err != nil {
		return matches.Ball{}, err
	}

	existing, err := s.store.ListBallsByInnings(ctx, current.ID)
	if err != nil {
		return matches.Ball{}, err
	}
	state := scoring.Replay(scoring.RulesFor(m), targetOf(current), existing)
	if err := state.Check(); err != nil {
		return matches.Ball{}, err
	}

	now := s.now()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.InningsID = current.ID
	b.MatchID = m.ID
	b.Sequence = nextSequence(existing)
	b.Over, b.BallInOver = state.NextDelivery()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.DeletedAt = nil

	if err := s.store.InsertBall(ctx, b); err != nil {
		return matches.Ball{}, err
	}
	return b, nil
}

// UndoLastBall tombstones the most recent delivery of the match. A match
// completed by that delivery goes back to live.
func (s *Service) UndoLastBall(ctx context.Context, matchID uuid.UUID) (matches.Ball, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return matches.Ball{}, err
	}
	if !m.AcceptsCorrections() {
		return matches.Ball{}, ErrMatchNotLive
	}
	inningsList, err := s.store.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return matches.Ball{}, err
	}

	for i := len(inningsList) - 1; i >= 0; i-- {
		balls, err := s.store.ListBallsByInnings(ctx, inningsList[i].ID)
		if err != nil {
			return matches.Ball{}, err
		}
		live := scoring.SortedLive(balls)
		if len(live) == 0 {
			continue
		}
		last := live[len(live)-1]
		if err := s.store.SoftDeleteBall(ctx, last.ID, s.now()); err != nil {
			return matches.Ball{}, err
		}
		if _, err := s.RebuildMatch(ctx, matchID); err != nil {
			return matches.Ball{}, fmt.Errorf("rebuild match: %w", err)
		}
		return last, nil
	}
	return matches.Ball{}, ErrNothingToUndo
}

func (s *Service) Abandon(ctx context.Context, matchID uuid.UUID) (matches.Match, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return matches.Match{}, err
	}
	if !m.CanTransition(matches.StatusAbandoned) {
		return matches.Match{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, m.Status, matches.StatusAbandoned)
	}
	m.Status = matches.StatusAbandoned
	m.WinnerTeamID = nil
	summary := "No result"
	m.ResultSummary = &summary
	m.UpdatedAt = s.now()
	if err := s.store.UpdateMatch(ctx, m); err != nil {
		return matches.Match{}, err
	}
	s.publish(ctx, events.Event{Name: events.MatchAbandoned, MatchID: m.ID, Payload: m})
	return m, nil
}

// RebuildMatch replays every innings from its deliveries and persists the
// derived totals, the second innings and the result.
func (s *Service) RebuildMatch(ctx context.Context, matchID uuid.UUID) (Scoreboard, error) {
	snap, err := s.load(ctx, matchID)
	if err != nil {
		return Scoreboard{}, err
	}
	now := s.now()

	for i := range snap.innings {
		updated, changed := withTotals(snap.innings[i], snap.states[i])
		if !changed {
			continue
		}
		updated.UpdatedAt = now
		if err := s.store.UpdateInningsTotals(ctx, updated); err != nil {
			return Scoreboard{}, err
		}
		snap.innings[i] = updated
	}

	reopened := false
	if snap.match.Status == matches.StatusCompleted && !snap.decided() {
		if err := s.reopen(ctx, &snap, now); err != nil {
			return Scoreboard{}, err
		}
		reopened = true
	}

	if snap.match.Status == matches.StatusLive {
		if err := s.adjustInnings(ctx, &snap, now); err != nil {
			return Scoreboard{}, err
		}
	}

	completed := false
	if len(snap.states) == 2 && snap.match.Status != matches.StatusAbandoned {
		result := scoring.DecideResult(snap.states[0], snap.states[1])
		if result.Decided() {
			changed, err := s.applyResult(ctx, &snap, result, now)
			if err != nil {
				return Scoreboard{}, err
			}
			completed = changed
		}
	}

	board := snap.scoreboard()
	s.publish(ctx, events.Event{Name: events.ScoreUpdated, MatchID: matchID, Payload: board})
	switch {
	case completed:
		s.log.Info("match completed",
			zap.String("match_id", matchID.String()),
			zap.Stringp("result", snap.match.ResultSummary),
		)
		s.publish(ctx, events.Event{Name: events.MatchCompleted, MatchID: matchID, Payload: snap.match})
	case reopened:
		s.log.Info("match reopened", zap.String("match_id", matchID.String()))
		s.publish(ctx, events.Event{Name: events.MatchReopened, MatchID: matchID, Payload: snap.match})
	}
	return board, nil
}

// reopen puts a completed match back to live once its deliveries no longer decide it.
func (s *Service) reopen(ctx context.Context, snap *snapshot, now time.Time) error {
	m := snap.match
	m.Status = matches.StatusLive
	m.WinnerTeamID = nil
	m.ResultSummary = nil
	m.UpdatedAt = now
	if err := s.store.UpdateMatch(ctx, m); err != nil {
		return err
	}
	snap.match = m
	snap.result = nil
	return nil
}

// adjustInnings opens the chase once the first innings is complete and drops
// an empty chase when an undo reopens the first innings.
func (s *Service) adjustInnings(ctx context.Context, snap *snapshot, now time.Time) error {
	if len(snap.innings) == 0 {
		return nil
	}
	first := snap.states[0]

	if first.Complete() && len(snap.innings) == 1 {
		target := scoring.TargetFor(first)
		chase := matches.Innings{
			ID:            uuid.New(),
			MatchID:       snap.match.ID,
			Number:        2,
			BattingTeamID: snap.innings[0].BowlingTeamID,
			BowlingTeamID: snap.innings[0].BattingTeamID,
			Target:        &target,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.store.CreateInnings(ctx, chase); err != nil {
			return err
		}
		snap.innings = append(snap.innings, chase)
		snap.balls = append(snap.balls, nil)
		snap.states = append(snap.states, scoring.NewInnings(snap.rules, target))
		return nil
	}

	if !first.Complete() && len(snap.innings) == 2 && snap.states[1].Deliveries == 0 {
		if err := s.store.DeleteInnings(ctx, snap.innings[1].ID); err != nil {
			return err
		}
		snap.innings = snap.innings[:1]
		snap.balls = snap.balls[:1]
		snap.states = snap.states[:1]
	}
	return nil
}

// applyResult records a decided result. It reports whether the match row changed.
func (s *Service) applyResult(ctx context.Context, snap *snapshot, result scoring.Result, now time.Time) (bool, error) {
	m := snap.match
	summary := result.Summary(snap.teamName(snap.innings[0].BattingTeamID), snap.teamName(snap.innings[1].BattingTeamID))
	var winner *uuid.UUID
	if result.Outcome == scoring.OutcomeWin {
		id := snap.innings[result.Winner-1].BattingTeamID
		winner = &id
	}

	if m.Status == matches.StatusCompleted && sameWinner(m.WinnerTeamID, winner) &&
		m.ResultSummary != nil && *m.ResultSummary == summary {
		snap.result = &result
		return false, nil
	}
	m.Status = matches.StatusCompleted
	m.WinnerTeamID = winner
	m.ResultSummary = &summary
	m.UpdatedAt = now
	if err := s.store.UpdateMatch(ctx, m); err != nil {
		return false, err
	}
	snap.match = m
	snap.result = &result
	return true, nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed",
			zap.String("event", e.Name),
			zap.String("match_id", e.MatchID.String()),
			zap.Error(err),
		)
	}
}

// withTotals copies the replayed totals onto the stored row and reports whether anything moved.
func withTotals(inn matches.Innings, st scoring.InningsState) (matches.Innings, bool) {
	changed := inn.Runs != st.Runs || inn.Wickets != st.Wickets || inn.LegalBalls != st.LegalBalls ||
		inn.Extras != st.Extras.Total() || inn.Completed != st.Complete() || targetOf(inn) != st.Target
	inn.Runs = st.Runs
	inn.Wickets = st.Wickets
	inn.LegalBalls = st.LegalBalls
	inn.Extras = st.Extras.Total()
	inn.Completed = st.Complete()
	inn.Target = nil
	if st.Target > 0 {
		target := st.Target
		inn.Target = &target
	}
	return inn, changed
}

// nextSequence follows the highest sequence in the innings, tombstones included.
func nextSequence(balls []matches.Ball) int {
	next := 1
	for _, b := range balls {
		if b.Sequence >= next {
			next = b.Sequence + 1
		}
	}
	return next
}

func targetOf(inn matches.Innings) int {
	if inn.Target == nil {
		return 0
	}
	return *inn.Target
}

func sameWinner(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
