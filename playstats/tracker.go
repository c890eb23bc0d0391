// Package playstats tracks the outcomes of the user's games per connector
// and derives summary statistics from them: an estimated performance rating
// per variant, head-to-head records against named opponents, and move-timing
// breakdowns of individual games.
package playstats

import (
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/kestrelchess/kestrel/chess"
)

// Connector identifies a remote game server session. It is used only as a
// partition key; two values compare equal exactly when they are the same
// session.
type Connector interface {
	Shortname() string
}

// Score is a game outcome from the user's perspective.
type Score float64

const (
	ScoreLoss Score = 0.0
	ScoreDraw Score = 0.5
	ScoreWin  Score = 1.0
)

const (
	// Rating substituted when the opponent's rating header carries a
	// provisional marker instead of a settled number.
	provisionalRating = 1600
	// Fixed offset applied to the opponent's rating for wins and losses in
	// the performance estimate.
	ratingOffset = 400
	// A loss never contributes less than this to the estimate.
	lossRatingFloor = 100

	initialResultsCapacity = 20
)

// GameResult is one recorded outcome. Results are immutable once stored.
type GameResult struct {
	Score          Score
	Variant        chess.Variant
	OpponentName   string
	OpponentRating int
	RatingKnown    bool
}

// VsStats is the user's cumulative record against one opponent.
type VsStats struct {
	GamesPlayed int
	TotalScore  float64
}

// Tracker is the per-process store of recorded results plus the queries over
// it. One mutex covers the append path and every read scan; hosts may call
// it from multiple goroutines.
type Tracker struct {
	mu      sync.Mutex
	results map[Connector][]GameResult
}

func NewTracker() *Tracker {
	return &Tracker{results: make(map[Connector][]GameResult)}
}

func scoreForResult(result chess.Result, userIsWhite bool) (Score, bool) {
	switch result {
	case chess.ResultBlackWon:
		if userIsWhite {
			return ScoreLoss, true
		}
		return ScoreWin, true
	case chess.ResultWhiteWon:
		if userIsWhite {
			return ScoreWin, true
		}
		return ScoreLoss, true
	case chess.ResultDraw:
		return ScoreDraw, true
	}
	return 0, false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseRating interprets an Elo header. A provisional marker anywhere in the
// value substitutes the fixed provisional rating; a purely numeric value is
// taken as-is; anything else is unknown.
func parseRating(raw string) (int, bool) {
	if strings.Contains(raw, "E") {
		return provisionalRating, true
	}
	if isNumeric(raw) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// RecordGameEnd derives a result record from a finished game and appends it
// to the connector's history. Bughouse games are skipped (a bughouse score
// is not meaningful for a single player), as are games without a resolved
// outcome. Malformed rating headers degrade to an unknown rating silently.
func (t *Tracker) RecordGameEnd(conn Connector, g *chess.Game, userIsWhite bool) {
	variant := g.Variant()
	if variant == chess.VariantBughouse || variant == chess.VariantFischerRandomBughouse {
		return
	}
	score, ok := scoreForResult(g.Result(), userIsWhite)
	if !ok {
		return
	}
	res := GameResult{Score: score, Variant: variant}
	if userIsWhite {
		res.OpponentName = g.Header(chess.HeaderBlack)
		res.OpponentRating, res.RatingKnown = parseRating(g.Header(chess.HeaderBlackElo))
	} else {
		res.OpponentName = g.Header(chess.HeaderWhite)
		res.OpponentRating, res.RatingKnown = parseRating(g.Header(chess.HeaderWhiteElo))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	results, ok := t.results[conn]
	if !ok {
		results = make([]GameResult, 0, initialResultsCapacity)
	}
	t.results[conn] = append(results, res)
	log.Debug().Str("connector", conn.Shortname()).
		Str("opponent", res.OpponentName).
		Float64("score", float64(res.Score)).
		Msg("recorded game result")
}

// PerformanceRating estimates the user's strength at a variant from the
// recorded results against rated opponents on the given connector. A draw
// counts as the opponent's rating, a win as the rating plus a fixed offset,
// and a loss as the rating minus the offset, floored. The estimate is the
// truncated mean; ok is false when no recorded result qualifies.
func (t *Tracker) PerformanceRating(conn Connector, variant chess.Variant) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	qualifying := lo.Filter(t.results[conn], func(r GameResult, _ int) bool {
		return r.Variant == variant && r.RatingKnown
	})
	if len(qualifying) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range qualifying {
		switch r.Score {
		case ScoreDraw:
			total += r.OpponentRating
		case ScoreLoss:
			total += max(r.OpponentRating-ratingOffset, lossRatingFloor)
		default:
			total += r.OpponentRating + ratingOffset
		}
	}
	return total / len(qualifying), true
}

// VsRecord sums the user's record against the named opponent on the given
// connector. Name matching is case-insensitive. The zero value is returned
// when there are no games against the opponent.
func (t *Tracker) VsRecord(conn Connector, opponentName string) VsStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	var stats VsStats
	for _, r := range t.results[conn] {
		if strings.EqualFold(r.OpponentName, opponentName) {
			stats.GamesPlayed++
			stats.TotalScore += float64(r.Score)
		}
	}
	return stats
}
