package chess

// TimeTaken is one timing sample attached to a move. A move may carry more
// than one sample (e.g. when a server resends clock info); consumers look at
// the first one.
type TimeTaken struct {
	Milliseconds int64
}

// Move is a single half-move. This package stores the SAN text verbatim; it
// does not validate legality or generate moves.
type Move struct {
	SAN       string
	White     bool
	TimeTaken []TimeTaken
}

func (m Move) IsWhitesMove() bool {
	return m.White
}

// ElapsedMillis returns the first timing sample's elapsed milliseconds, or
// false if the move carries no timing data.
func (m Move) ElapsedMillis() (int64, bool) {
	if len(m.TimeTaken) == 0 {
		return 0, false
	}
	return m.TimeTaken[0].Milliseconds, true
}
