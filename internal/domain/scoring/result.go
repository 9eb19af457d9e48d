package scoring

import "fmt"

type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeWin     Outcome = "win"
	OutcomeTie     Outcome = "tie"
)

type MarginUnit string

const (
	MarginRuns    MarginUnit = "runs"
	MarginWickets MarginUnit = "wickets"
)

// Result of a two-innings limited-overs match. Winner is the batting order
// (1 or 2) of the winning side and is 0 unless Outcome is OutcomeWin.
type Result struct {
	Outcome    Outcome    `json:"outcome"`
	Winner     int        `json:"winner,omitempty"`
	Margin     int        `json:"margin,omitempty"`
	MarginUnit MarginUnit `json:"marginUnit,omitempty"`
}

func (r Result) Decided() bool {
	return r.Outcome != OutcomePending
}

func TargetFor(first InningsState) int {
	return first.Runs + 1
}

func DecideResult(first, second InningsState) Result {
	if !first.Complete() {
		return Result{Outcome: OutcomePending}
	}
	if second.TargetReached() {
		return Result{
			Outcome:    OutcomeWin,
			Winner:     2,
			Margin:     second.Rules.MaxWickets - second.Wickets,
			MarginUnit: MarginWickets,
		}
	}
	if !second.Complete() {
		return Result{Outcome: OutcomePending}
	}
	if second.Runs == first.Runs {
		return Result{Outcome: OutcomeTie}
	}
	return Result{
		Outcome:    OutcomeWin,
		Winner:     1,
		Margin:     first.Runs - second.Runs,
		MarginUnit: MarginRuns,
	}
}

// Summary renders a result line such as "Falcons won by 4 wickets".
func (r Result) Summary(firstName, secondName string) string {
	switch r.Outcome {
	case OutcomeTie:
		return "Match tied"
	case OutcomeWin:
		name := firstName
		if r.Winner == 2 {
			name = secondName
		}
		unit := string(r.MarginUnit)
		if r.Margin == 1 {
			unit = unit[:len(unit)-1]
		}
		return fmt.Sprintf("%s won by %d %s", name, r.Margin, unit)
	default:
		return "In progress"
	}
}
