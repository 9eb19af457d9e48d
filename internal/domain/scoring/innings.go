package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lutefd/cricket-api/internal/domain/matches"
)

var (
	ErrInningsComplete = errors.New("innings is complete")
	ErrInningsNotOpen  = errors.New("innings is not open")
)

type Rules struct {
	OversLimit int `json:"oversLimit"`
	MaxWickets int `json:"maxWickets"`
}

func RulesFor(m matches.Match) Rules {
	m = m.WithDefaults()
	return Rules{OversLimit: m.OversLimit, MaxWickets: m.MaxWickets}
}

func (r Rules) MaxBalls() int {
	return r.OversLimit * BallsPerOver
}

type ExtrasBreakdown struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"noBalls"`
	Byes    int `json:"byes"`
	LegByes int `json:"legByes"`
	Penalty int `json:"penalty"`
}

func (e ExtrasBreakdown) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes + e.Penalty
}

// InningsState is the running score of one innings, derived from its deliveries.
type InningsState struct {
	Rules      Rules           `json:"rules"`
	Target     int             `json:"target,omitempty"`
	Runs       int             `json:"runs"`
	Wickets    int             `json:"wickets"`
	LegalBalls int             `json:"legalBalls"`
	Deliveries int             `json:"deliveries"`
	Extras     ExtrasBreakdown `json:"extras"`
}

func NewInnings(rules Rules, target int) InningsState {
	return InningsState{Rules: rules, Target: target}
}

// Replay rebuilds an innings from its deliveries in sequence order, skipping deleted ones.
func Replay(rules Rules, target int, balls []matches.Ball) InningsState {
	state := NewInnings(rules, target)
	for _, b := range SortedLive(balls) {
		state = state.Apply(b)
	}
	return state
}

// ReplayChecked is Replay for deliveries that have not been vetted by the scorer:
// it fails with ErrInningsComplete as soon as a delivery follows the end of the innings.
func ReplayChecked(rules Rules, target int, balls []matches.Ball) (InningsState, error) {
	state := NewInnings(rules, target)
	for _, b := range SortedLive(balls) {
		if err := state.Check(); err != nil {
			return state, fmt.Errorf("%w: delivery %d follows the last ball", err, b.Sequence)
		}
		state = state.Apply(b)
	}
	return state, nil
}

// SortedLive returns the non-deleted balls ordered by sequence.
func SortedLive(balls []matches.Ball) []matches.Ball {
	out := make([]matches.Ball, 0, len(balls))
	for _, b := range balls {
		if b.IsDeleted() {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

func (s InningsState) Apply(b matches.Ball) InningsState {
	s.Deliveries++
	s.Runs += b.TotalRuns()
	if b.IsLegal() {
		s.LegalBalls++
	}
	switch b.ExtraType {
	case matches.ExtraWide:
		s.Extras.Wides += b.Extras
	case matches.ExtraNoBall:
		s.Extras.NoBalls += b.Extras
	case matches.ExtraBye:
		s.Extras.Byes += b.Extras
	case matches.ExtraLegBye:
		s.Extras.LegByes += b.Extras
	case matches.ExtraPenalty:
		s.Extras.Penalty += b.Extras
	}
	if b.CostsWicket() {
		s.Wickets++
	}
	return s
}

func (s InningsState) AllOut() bool {
	return s.Rules.MaxWickets > 0 && s.Wickets >= s.Rules.MaxWickets
}

func (s InningsState) OversComplete() bool {
	return s.Rules.OversLimit > 0 && s.LegalBalls >= s.Rules.MaxBalls()
}

func (s InningsState) TargetReached() bool {
	return s.Target > 0 && s.Runs >= s.Target
}

func (s InningsState) Complete() bool {
	return s.AllOut() || s.OversComplete() || s.TargetReached()
}

func (s InningsState) BallsRemaining() int {
	if s.Rules.OversLimit <= 0 {
		return 0
	}
	remaining := s.Rules.MaxBalls() - s.LegalBalls
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s InningsState) Overs() string {
	return FormatOvers(s.LegalBalls)
}

func (s InningsState) RunRate() float64 {
	return RunRate(s.Runs, s.LegalBalls)
}

func (s InningsState) RequiredRunRate() float64 {
	if s.Target <= 0 {
		return 0
	}
	return RequiredRunRate(s.Target, s.Runs, s.BallsRemaining())
}

// NextDelivery returns the zero-based over and one-based ball number of the next delivery.
// Wides and no-balls are re-bowled, so they keep the number of the delivery they replace.
func (s InningsState) NextDelivery() (over, ballInOver int) {
	return s.LegalBalls / BallsPerOver, s.LegalBalls%BallsPerOver + 1
}

// Check returns ErrInningsComplete when no further deliveries can be bowled.
func (s InningsState) Check() error {
	if s.Complete() {
		return ErrInningsComplete
	}
	return nil
}
