package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const BallsPerOver = 6

var ErrInvalidOvers = errors.New("invalid overs notation")

// FormatOvers renders a legal ball count in over.ball notation, e.g. 27 -> "4.3".
func FormatOvers(legalBalls int) string {
	if legalBalls < 0 {
		legalBalls = 0
	}
	return fmt.Sprintf("%d.%d", legalBalls/BallsPerOver, legalBalls%BallsPerOver)
}

// ParseOvers is the inverse of FormatOvers. "4" is accepted as "4.0".
func ParseOvers(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidOvers)
	}
	whole, part, hasPart := strings.Cut(s, ".")
	overs, err := strconv.Atoi(whole)
	if err != nil || overs < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOvers, s)
	}
	balls := 0
	if hasPart {
		balls, err = strconv.Atoi(part)
		if err != nil || len(part) != 1 || balls < 0 || balls >= BallsPerOver {
			return 0, fmt.Errorf("%w: %q", ErrInvalidOvers, s)
		}
	}
	return overs*BallsPerOver + balls, nil
}

// OversDecimal returns true overs as a fraction, 27 balls -> 4.5.
func OversDecimal(legalBalls int) float64 {
	return float64(legalBalls) / BallsPerOver
}
