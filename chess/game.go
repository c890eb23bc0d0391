// Package chess holds a minimal read-oriented game model: headers, an
// ordered move list with timing samples, the game's variant and result, and
// a coarse state bitmask. It deliberately knows nothing about boards or move
// legality; it exists to be consumed by the statistics code and filled in by
// the PGN importer or a connector.
package chess

// State is a bitmask of coarse game states.
type State uint16

const (
	// PlayingState marks a game the user is (or was) actually playing, as
	// opposed to observing or examining.
	PlayingState State = 1 << iota
	ObservingState
	ExaminingState
	SetupState
	ActiveState
)

type Game struct {
	headers map[Header]string
	moves   []Move
	variant Variant
	result  Result
	state   State
}

func NewGame() *Game {
	return &Game{
		headers: make(map[Header]string),
		variant: VariantClassic,
	}
}

// Header returns the value for the given tag, or the empty string if the
// tag was never set.
func (g *Game) Header(h Header) string {
	return g.headers[h]
}

func (g *Game) SetHeader(h Header, value string) {
	g.headers[h] = value
}

func (g *Game) Variant() Variant {
	return g.variant
}

func (g *Game) SetVariant(v Variant) {
	g.variant = v
}

func (g *Game) Result() Result {
	return g.result
}

func (g *Game) SetResult(r Result) {
	g.result = r
}

func (g *Game) Moves() []Move {
	return g.moves
}

func (g *Game) AddMove(m Move) {
	g.moves = append(g.moves, m)
}

func (g *Game) HalfMoveCount() int {
	return len(g.moves)
}

func (g *Game) IsInState(s State) bool {
	return g.state&s != 0
}

func (g *Game) AddState(s State) {
	g.state |= s
}

func (g *Game) ClearState(s State) {
	g.state &^= s
}
