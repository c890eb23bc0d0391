package playstats

import (
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/kestrelchess/kestrel/chess"
)

type testConn struct {
	name string
}

func (c *testConn) Shortname() string {
	return c.name
}

func finishedGame(result chess.Result, variant chess.Variant, white, black, whiteElo, blackElo string) *chess.Game {
	g := chess.NewGame()
	g.SetHeader(chess.HeaderWhite, white)
	g.SetHeader(chess.HeaderBlack, black)
	g.SetHeader(chess.HeaderWhiteElo, whiteElo)
	g.SetHeader(chess.HeaderBlackElo, blackElo)
	g.SetVariant(variant)
	g.SetResult(result)
	g.AddState(chess.PlayingState)
	return g
}

func (t *Tracker) storedResults(conn Connector) []GameResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.results[conn]
}

func TestScoreMapping(t *testing.T) {
	is := is.New(t)
	type tc struct {
		result      chess.Result
		userIsWhite bool
		recorded    bool
		score       Score
	}
	cases := []tc{
		{chess.ResultWhiteWon, true, true, ScoreWin},
		{chess.ResultWhiteWon, false, true, ScoreLoss},
		{chess.ResultBlackWon, true, true, ScoreLoss},
		{chess.ResultBlackWon, false, true, ScoreWin},
		{chess.ResultDraw, true, true, ScoreDraw},
		{chess.ResultDraw, false, true, ScoreDraw},
		{chess.ResultInProgress, true, false, 0},
		{chess.ResultAborted, true, false, 0},
		{chess.ResultAdjourned, false, false, 0},
		{chess.ResultUndetermined, false, false, 0},
	}
	for _, c := range cases {
		tr := NewTracker()
		conn := &testConn{"fics"}
		g := finishedGame(c.result, chess.VariantClassic, "You", "Them", "1500", "1600")
		tr.RecordGameEnd(conn, g, c.userIsWhite)
		results := tr.storedResults(conn)
		if !c.recorded {
			is.Equal(len(results), 0)
			continue
		}
		is.Equal(len(results), 1)
		is.Equal(results[0].Score, c.score)
		// Every stored score is a loss, draw, or win.
		is.True(results[0].Score == ScoreLoss || results[0].Score == ScoreDraw ||
			results[0].Score == ScoreWin)
	}
}

func TestBughouseNeverRecorded(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}
	for _, v := range []chess.Variant{chess.VariantBughouse, chess.VariantFischerRandomBughouse} {
		g := finishedGame(chess.ResultWhiteWon, v, "You", "Them", "1500", "1600")
		tr.RecordGameEnd(conn, g, true)
	}
	is.Equal(len(tr.storedResults(conn)), 0)
}

func TestOpponentIsOtherSide(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	g := finishedGame(chess.ResultDraw, chess.VariantClassic, "Alice", "Bob", "1400", "1700")
	tr.RecordGameEnd(conn, g, true)
	tr.RecordGameEnd(conn, g, false)

	results := tr.storedResults(conn)
	is.Equal(len(results), 2)
	is.Equal(results[0].OpponentName, "Bob")
	is.Equal(results[0].OpponentRating, 1700)
	is.Equal(results[1].OpponentName, "Alice")
	is.Equal(results[1].OpponentRating, 1400)
}

func TestRatingParsing(t *testing.T) {
	is := is.New(t)
	type tc struct {
		raw    string
		rating int
		known  bool
	}
	cases := []tc{
		{"1820", 1820, true},
		{"0", 0, true},
		{"1820E", 1600, true},
		{"E", 1600, true},
		{"++++E", 1600, true},
		{"", 0, false},
		{"----", 0, false},
		{"17a0", 0, false},
		{"-1500", 0, false},
	}
	for _, c := range cases {
		rating, known := parseRating(c.raw)
		is.Equal(known, c.known)
		if c.known {
			is.Equal(rating, c.rating)
		}
	}
}

func TestPerformanceRatingMean(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	// Win against 1500, draw against 1700: ((1500+400)+1700)/2 = 1800.
	tr.RecordGameEnd(conn, finishedGame(chess.ResultWhiteWon, chess.VariantClassic,
		"You", "A", "1500", "1500"), true)
	tr.RecordGameEnd(conn, finishedGame(chess.ResultDraw, chess.VariantClassic,
		"You", "B", "1500", "1700"), true)

	rating, ok := tr.PerformanceRating(conn, chess.VariantClassic)
	is.True(ok)
	is.Equal(rating, 1800)
}

func TestPerformanceRatingLossFloor(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	// A loss to a 300-rated opponent contributes max(300-400, 100) = 100.
	tr.RecordGameEnd(conn, finishedGame(chess.ResultBlackWon, chess.VariantClassic,
		"You", "A", "1500", "300"), true)

	rating, ok := tr.PerformanceRating(conn, chess.VariantClassic)
	is.True(ok)
	is.Equal(rating, 100)
}

func TestPerformanceRatingTruncatedMean(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	tr.RecordGameEnd(conn, finishedGame(chess.ResultWhiteWon, chess.VariantClassic,
		"You", "A", "1500", "1500"), true) // 1900
	tr.RecordGameEnd(conn, finishedGame(chess.ResultBlackWon, chess.VariantClassic,
		"You", "B", "1500", "1000"), true) // 600
	tr.RecordGameEnd(conn, finishedGame(chess.ResultDraw, chess.VariantClassic,
		"You", "C", "1500", "1601"), true) // 1601

	rating, ok := tr.PerformanceRating(conn, chess.VariantClassic)
	is.True(ok)
	is.Equal(rating, 1367) // 4101/3, truncated
}

func TestPerformanceRatingAbsent(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	_, ok := tr.PerformanceRating(conn, chess.VariantClassic)
	is.True(!ok)

	// Results for another variant do not qualify.
	tr.RecordGameEnd(conn, finishedGame(chess.ResultWhiteWon, chess.VariantAtomic,
		"You", "A", "1500", "1500"), true)
	_, ok = tr.PerformanceRating(conn, chess.VariantClassic)
	is.True(!ok)

	// Neither do results against opponents with unknown ratings.
	tr.RecordGameEnd(conn, finishedGame(chess.ResultWhiteWon, chess.VariantClassic,
		"You", "B", "1500", "----"), true)
	_, ok = tr.PerformanceRating(conn, chess.VariantClassic)
	is.True(!ok)
}

func TestVsRecordCaseInsensitive(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	tr.RecordGameEnd(conn, finishedGame(chess.ResultWhiteWon, chess.VariantClassic,
		"You", "Magnus", "1500", "1600"), true)
	tr.RecordGameEnd(conn, finishedGame(chess.ResultDraw, chess.VariantClassic,
		"You", "magnus", "1500", "1600"), true)

	stats := tr.VsRecord(conn, "MAGNUS")
	is.Equal(stats.GamesPlayed, 2)
	is.Equal(stats.TotalScore, 1.5)
}

func TestVsRecordZeroValue(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	stats := tr.VsRecord(conn, "nobody")
	is.Equal(stats.GamesPlayed, 0)
	is.Equal(stats.TotalScore, 0.0)
}

func TestConnectorPartitioning(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	fics := &testConn{"fics"}
	bics := &testConn{"bics"}

	tr.RecordGameEnd(fics, finishedGame(chess.ResultWhiteWon, chess.VariantClassic,
		"You", "A", "1500", "1500"), true)

	_, ok := tr.PerformanceRating(bics, chess.VariantClassic)
	is.True(!ok)
	is.Equal(tr.VsRecord(bics, "A").GamesPlayed, 0)

	rating, ok := tr.PerformanceRating(fics, chess.VariantClassic)
	is.True(ok)
	is.Equal(rating, 1900)
}

func TestConcurrentRecordAndQuery(t *testing.T) {
	is := is.New(t)
	tr := NewTracker()
	conn := &testConn{"fics"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.RecordGameEnd(conn, finishedGame(chess.ResultWhiteWon, chess.VariantClassic,
				"You", "A", "1500", "1500"), true)
		}()
		go func() {
			defer wg.Done()
			tr.PerformanceRating(conn, chess.VariantClassic)
			tr.VsRecord(conn, "A")
		}()
	}
	wg.Wait()
	is.Equal(tr.VsRecord(conn, "a").GamesPlayed, 20)
}
