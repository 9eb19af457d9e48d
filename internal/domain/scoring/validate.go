package scoring

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

var ErrInvalidBall = errors.New("invalid ball")

const maxRunsOffBat = 7

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBall, fmt.Sprintf(format, args...))
}

// ValidateBall checks a delivery in isolation, before it is applied to an innings.
func ValidateBall(b matches.Ball) error {
	if b.BatterID == uuid.Nil {
		return invalid("batter is required")
	}
	if b.BowlerID == uuid.Nil {
		return invalid("bowler is required")
	}
	if b.BatterID == b.BowlerID {
		return invalid("batter and bowler must differ")
	}
	if b.RunsOffBat < 0 || b.RunsOffBat > maxRunsOffBat {
		return invalid("runs off bat must be between 0 and %d", maxRunsOffBat)
	}
	if b.Extras < 0 {
		return invalid("extras cannot be negative")
	}

	switch b.ExtraType {
	case matches.ExtraNone:
		if b.Extras != 0 {
			return invalid("extras require an extra type")
		}
	case matches.ExtraWide, matches.ExtraBye, matches.ExtraLegBye:
		if b.RunsOffBat != 0 {
			return invalid("%s cannot carry runs off the bat", b.ExtraType)
		}
		if b.Extras < 1 {
			return invalid("%s must carry at least one extra", b.ExtraType)
		}
	case matches.ExtraNoBall:
		if b.Extras < 1 {
			return invalid("no_ball must carry at least one extra")
		}
	case matches.ExtraPenalty:
		if b.Extras < 1 {
			return invalid("penalty must carry at least one extra")
		}
	default:
		return invalid("unknown extra type %q", b.ExtraType)
	}

	if !b.IsWicket {
		if b.DismissalKind != nil || b.DismissedPlayerID != nil {
			return invalid("dismissal details without a wicket")
		}
		return nil
	}
	if b.DismissalKind == nil || !b.DismissalKind.Valid() {
		return invalid("wicket requires a known dismissal kind")
	}
	if b.DismissedPlayerID == nil || *b.DismissedPlayerID == uuid.Nil {
		return invalid("wicket requires the dismissed player")
	}
	kind := *b.DismissalKind
	switch b.ExtraType {
	case matches.ExtraWide:
		if kind != matches.DismissalStumped && kind != matches.DismissalRunOut &&
			kind != matches.DismissalHitWicket && kind != matches.DismissalObstructing {
			return invalid("%s is not possible off a wide", kind)
		}
	case matches.ExtraNoBall:
		if kind != matches.DismissalRunOut && kind != matches.DismissalObstructing {
			return invalid("%s is not possible off a no-ball", kind)
		}
	}
	if kind.CreditsBowler() && *b.DismissedPlayerID != b.BatterID {
		return invalid("%s must dismiss the striker", kind)
	}
	return nil
}
