package scoring

import "math"

func RunRate(runs, legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	return float64(runs) * BallsPerOver / float64(legalBalls)
}

func RequiredRunRate(target, runs, ballsRemaining int) float64 {
	if ballsRemaining <= 0 {
		return 0
	}
	needed := target - runs
	if needed <= 0 {
		return 0
	}
	return float64(needed) * BallsPerOver / float64(ballsRemaining)
}

// StrikeRate is runs per 100 balls faced.
func StrikeRate(runs, ballsFaced int) float64 {
	if ballsFaced <= 0 {
		return 0
	}
	return float64(runs) / float64(ballsFaced) * 100
}

// Economy is runs conceded per over bowled.
func Economy(runsConceded, legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	return float64(runsConceded) * BallsPerOver / float64(legalBalls)
}

func Average(runs, outs int) float64 {
	if outs <= 0 {
		return 0
	}
	return float64(runs) / float64(outs)
}

// WinProbability is a runs-ratio estimate of a side's chance against its opponent.
func WinProbability(runs, opponentRuns int) float64 {
	total := runs + opponentRuns
	if total <= 0 {
		return 0.5
	}
	return float64(runs) / float64(total)
}

func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
