package playstats

import (
	"fmt"
	"math"
	"strings"

	"github.com/kestrelchess/kestrel/chess"
)

// Moves at or under this threshold were queued before it was the mover's
// turn.
const premoveThresholdMillis = 100

// The first two plies are book moves with no meaningful timing signal.
const timingScanStartPly = 2

const unknownMoveTime = "UNKNOWN"

type moveTimings struct {
	playerPremoves   int
	opponentPremoves int
	playerMillis     int64
	opponentMillis   int64
	playerMoves      int
	opponentMoves    int
}

func scanMoveTimings(g *chess.Game, userIsWhite bool) moveTimings {
	var mt moveTimings
	for idx, mv := range g.Moves() {
		if idx < timingScanStartPly {
			continue
		}
		elapsed, ok := mv.ElapsedMillis()
		if !ok {
			continue
		}
		if mv.IsWhitesMove() == userIsWhite {
			if elapsed <= premoveThresholdMillis {
				mt.playerPremoves++
			}
			mt.playerMoves++
			mt.playerMillis += elapsed
		} else {
			if elapsed <= premoveThresholdMillis {
				mt.opponentPremoves++
			}
			mt.opponentMoves++
			mt.opponentMillis += elapsed
		}
	}
	return mt
}

// avgMoveTime renders an average move time in seconds to one decimal place.
// The integer millisecond division before the conversion matches how the
// averages have always been displayed.
func avgMoveTime(totalMillis int64, numMoves int) string {
	if numMoves == 0 {
		return unknownMoveTime
	}
	seconds := float64(totalMillis/int64(numMoves)) / 1000.0
	return fmt.Sprintf("%.1fsec", math.Round(seconds*10)/10)
}

// Summary builds the end-of-game statistics text for a finished game: the
// performance rating for the game's variant, the series record against the
// opponent, and both sides' average move times and premove counts. ok is
// false when the game does not qualify for a summary: it must be a game the
// user was playing, with a resolved outcome, and at least one full move
// pair.
func (t *Tracker) Summary(conn Connector, g *chess.Game, userIsWhite bool) (string, bool) {
	if !g.IsInState(chess.PlayingState) || !g.Result().Resolved() || g.HalfMoveCount() <= 1 {
		return "", false
	}

	mt := scanMoveTimings(g, userIsWhite)

	opponentName := g.Header(chess.HeaderBlack)
	if !userIsWhite {
		opponentName = g.Header(chess.HeaderWhite)
	}

	var sb strings.Builder
	if rating, ok := t.PerformanceRating(conn, g.Variant()); ok {
		fmt.Fprintf(&sb, "Performance(%v): %d\n", g.Variant(), rating)
	}
	if vs := t.VsRecord(conn, opponentName); vs.GamesPlayed > 0 {
		fmt.Fprintf(&sb, "Series(%v): %.1f/%d\n", opponentName, vs.TotalScore, vs.GamesPlayed)
	}
	fmt.Fprintf(&sb, "Average Move Time(you/opponent): %v/%v\n",
		avgMoveTime(mt.playerMillis, mt.playerMoves),
		avgMoveTime(mt.opponentMillis, mt.opponentMoves))
	fmt.Fprintf(&sb, "Premoves(you/opp): %d/%d",
		mt.playerPremoves, mt.opponentPremoves)
	return sb.String(), true
}
