package pgn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/kestrel/chess"
)

func TestParsePGN(t *testing.T) {
	g, err := ParsePGN("./testdata/vs_ossian.pgn")
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, "CDay", g.Header(chess.HeaderWhite))
	assert.Equal(t, "Ossian", g.Header(chess.HeaderBlack))
	assert.Equal(t, "1651", g.Header(chess.HeaderWhiteElo))
	assert.Equal(t, "1820E", g.Header(chess.HeaderBlackElo))
	assert.Equal(t, chess.VariantClassic, g.Variant())
	assert.Equal(t, chess.ResultWhiteWon, g.Result())
	assert.Equal(t, 10, g.HalfMoveCount())

	moves := g.Moves()
	assert.Equal(t, "e4", moves[0].SAN)
	assert.True(t, moves[0].IsWhitesMove())
	assert.Equal(t, "e5", moves[1].SAN)
	assert.False(t, moves[1].IsWhitesMove())
	assert.Equal(t, "O-O", moves[8].SAN)

	ms, ok := moves[0].ElapsedMillis()
	assert.True(t, ok)
	assert.Equal(t, int64(100), ms)
	ms, ok = moves[1].ElapsedMillis()
	assert.True(t, ok)
	assert.Equal(t, int64(2500), ms)
	ms, ok = moves[3].ElapsedMillis()
	assert.True(t, ok)
	assert.Equal(t, int64(3000), ms)
	ms, ok = moves[5].ElapsedMillis()
	assert.True(t, ok)
	assert.Equal(t, int64(4100), ms)
}

func TestParsePGNNoTimings(t *testing.T) {
	const data = `[White "a"]
[Black "b"]
[Result "1/2-1/2"]

1. d4 d5 2. c4 e6 1/2-1/2
`
	g, err := ParsePGNFromReader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4, g.HalfMoveCount())
	assert.Equal(t, chess.ResultDraw, g.Result())
	for _, mv := range g.Moves() {
		_, ok := mv.ElapsedMillis()
		assert.False(t, ok)
	}
}

func TestParsePGNResultHeaderFallback(t *testing.T) {
	// No termination marker; the Result tag decides.
	const data = `[White "a"]
[Black "b"]
[Result "0-1"]

1. f3 e5 2. g4 Qh4#
`
	g, err := ParsePGNFromReader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, chess.ResultBlackWon, g.Result())
	assert.Equal(t, "Qh4#", g.Moves()[3].SAN)
}

func TestParsePGNVariationsSkipped(t *testing.T) {
	const data = `[White "a"]
[Black "b"]
[Result "*"]

1. e4 (1. d4 d5 {[%emt 0:00:09]}) e5 2. Nf3 *
`
	g, err := ParsePGNFromReader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, g.HalfMoveCount())
	assert.Equal(t, "e5", g.Moves()[1].SAN)
	// The emt inside the variation must not attach to the mainline.
	_, ok := g.Moves()[0].ElapsedMillis()
	assert.False(t, ok)
}

func TestParsePGNVariantHeader(t *testing.T) {
	const data = `[White "a"]
[Black "b"]
[Variant "Bughouse"]
[Result "1-0"]

1. e4 e6 1-0
`
	g, err := ParsePGNFromReader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, chess.VariantBughouse, g.Variant())
}

func TestParsePGNLatin1(t *testing.T) {
	// "Torné" with a latin-1 é (0xE9), as a PGN exporter would write it.
	data := []byte("[White \"Torn\xe9\"]\n[Black \"b\"]\n[Result \"1-0\"]\n\n1. e4 d5 1-0\n")
	g, err := ParsePGNFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Torné", g.Header(chess.HeaderWhite))
}

func TestParsePGNEmtSecondsForm(t *testing.T) {
	const data = `[White "a"]
[Black "b"]
[Result "1-0"]

1. e4 {[%emt 1.5]} c5 {[%emt 0.1]} 1-0
`
	g, err := ParsePGNFromReader(strings.NewReader(data))
	require.NoError(t, err)
	ms, ok := g.Moves()[0].ElapsedMillis()
	assert.True(t, ok)
	assert.Equal(t, int64(1500), ms)
	ms, ok = g.Moves()[1].ElapsedMillis()
	assert.True(t, ok)
	assert.Equal(t, int64(100), ms)
}

func TestParsePGNGarbage(t *testing.T) {
	_, err := ParsePGNFromReader(strings.NewReader("this is & not ~ pgn"))
	assert.Error(t, err)
}

func TestParsePGNEmpty(t *testing.T) {
	_, err := ParsePGNFromReader(strings.NewReader(""))
	assert.Error(t, err)
}
