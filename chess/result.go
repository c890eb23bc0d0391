package chess

// Result is the outcome of a game.
type Result uint8

const (
	ResultUndetermined Result = iota
	ResultInProgress
	ResultWhiteWon
	ResultBlackWon
	ResultDraw
	ResultAborted
	ResultAdjourned
)

func (r Result) String() string {
	switch r {
	case ResultInProgress:
		return "*"
	case ResultWhiteWon:
		return "1-0"
	case ResultBlackWon:
		return "0-1"
	case ResultDraw:
		return "1/2-1/2"
	case ResultAborted:
		return "aborted"
	case ResultAdjourned:
		return "adjourned"
	}
	return "?"
}

// Resolved reports whether the result is a decisive outcome or a draw.
func (r Result) Resolved() bool {
	return r == ResultWhiteWon || r == ResultBlackWon || r == ResultDraw
}

// ParseResult maps a PGN result token to a Result. Anything unrecognized
// is undetermined.
func ParseResult(token string) Result {
	switch token {
	case "1-0":
		return ResultWhiteWon
	case "0-1":
		return ResultBlackWon
	case "1/2-1/2":
		return ResultDraw
	case "*":
		return ResultInProgress
	}
	return ResultUndetermined
}
