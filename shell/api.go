package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kestrelchess/kestrel/chess"
	"github.com/kestrelchess/kestrel/chess/pgn"
)

const defaultLoadWorkers = 4

// resolvePGNPath tries the path as given, then under --pgn-directory.
func (sc *ShellController) resolvePGNPath(path string) string {
	if _, err := os.Stat(path); err == nil || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(sc.config.GetString("pgn-directory"), path)
}

// userSide determines which color the user played: an explicit white/black
// argument wins, otherwise the configured user name is matched against the
// game's player headers.
func (sc *ShellController) userSide(g *chess.Game, args []string) (bool, error) {
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "white":
			return true, nil
		case "black":
			return false, nil
		default:
			return false, fmt.Errorf("unrecognized side %q; use white or black", args[0])
		}
	}
	name := sc.config.GetString("user-name")
	if name != "" {
		if strings.EqualFold(g.Header(chess.HeaderWhite), name) {
			return true, nil
		}
		if strings.EqualFold(g.Header(chess.HeaderBlack), name) {
			return false, nil
		}
	}
	return false, errors.New("cannot tell which side you played; pass white or black, or set --user-name")
}

func gameDescription(g *chess.Game) string {
	white := g.Header(chess.HeaderWhite)
	black := g.Header(chess.HeaderBlack)
	whiteElo := g.Header(chess.HeaderWhiteElo)
	blackElo := g.Header(chess.HeaderBlackElo)
	if whiteElo == "" {
		whiteElo = "unrated"
	}
	if blackElo == "" {
		blackElo = "unrated"
	}
	return fmt.Sprintf("%v (%v) vs %v (%v), %v, %v, %d half-moves",
		white, whiteElo, black, blackElo, g.Variant(), g.Result(), g.HalfMoveCount())
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file.pgn>")
	}
	path := sc.resolvePGNPath(cmd.args[0])
	g, err := pgn.ParsePGN(path)
	if err != nil {
		return nil, err
	}
	// Games brought into the shell are the user's own games.
	g.AddState(chess.PlayingState)
	sc.curGame = g
	sc.curGameFile = path
	log.Debug().Str("file", path).Msg("loaded game")
	return msg("loaded " + filepath.Base(path) + ": " + gameDescription(g)), nil
}

// loadAll imports many PGN files concurrently and records each game whose
// players include the configured user name. Games that do not involve the
// user are skipped rather than failing the import.
func (sc *ShellController) loadAll(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: loadall [-workers n] <file.pgn>...")
	}
	if sc.config.GetString("user-name") == "" {
		return nil, errors.New("loadall needs --user-name to tell which side of each game is yours")
	}
	workers := defaultLoadWorkers
	if w, ok := cmd.options["workers"]; ok {
		n, err := strconv.Atoi(w)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad workers value %q", w)
		}
		workers = n
	}

	var mu sync.Mutex
	recorded, skipped := 0, 0

	var eg errgroup.Group
	eg.SetLimit(workers)
	for _, arg := range cmd.args {
		path := sc.resolvePGNPath(arg)
		eg.Go(func() error {
			g, err := pgn.ParsePGN(path)
			if err != nil {
				return fmt.Errorf("%v: %w", path, err)
			}
			g.AddState(chess.PlayingState)
			isWhite, err := sc.userSide(g, nil)
			if err != nil {
				log.Debug().Str("file", path).Msg("user not a player; skipping")
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			sc.tracker.RecordGameEnd(sc.curConn, g, isWhite)
			mu.Lock()
			recorded++
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("recorded %d game(s), skipped %d, on %v",
		recorded, skipped, sc.curConn.Shortname())), nil
}

func (sc *ShellController) record(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoCurrentGame
	}
	isWhite, err := sc.userSide(sc.curGame, cmd.args)
	if err != nil {
		return nil, err
	}
	if !sc.curGame.Result().Resolved() {
		return nil, fmt.Errorf("game has no resolved outcome (%v); nothing to record",
			sc.curGame.Result())
	}
	sc.tracker.RecordGameEnd(sc.curConn, sc.curGame, isWhite)
	opponent := sc.curGame.Header(chess.HeaderBlack)
	if !isWhite {
		opponent = sc.curGame.Header(chess.HeaderWhite)
	}
	return msg(fmt.Sprintf("recorded %v vs %v on %v",
		sc.curGame.Result(), opponent, sc.curConn.Shortname())), nil
}

func (sc *ShellController) summary(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoCurrentGame
	}
	isWhite, err := sc.userSide(sc.curGame, cmd.args)
	if err != nil {
		return nil, err
	}
	text, ok := sc.tracker.Summary(sc.curConn, sc.curGame, isWhite)
	if !ok {
		return msg("no statistics available for this game"), nil
	}
	return msg(text), nil
}

func (sc *ShellController) perf(cmd *shellcmd) (*Response, error) {
	var variant chess.Variant
	switch {
	case len(cmd.args) > 0:
		variant = chess.VariantFromName(cmd.args[0])
	case sc.curGame != nil:
		variant = sc.curGame.Variant()
	default:
		variant = chess.VariantClassic
	}
	rating, ok := sc.tracker.PerformanceRating(sc.curConn, variant)
	if !ok {
		return msg(fmt.Sprintf("no performance rating yet for %v on %v",
			variant, sc.curConn.Shortname())), nil
	}
	return msg(fmt.Sprintf("Performance(%v): %d", variant, rating)), nil
}

func (sc *ShellController) vs(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: vs <name>")
	}
	opponent := cmd.args[0]
	stats := sc.tracker.VsRecord(sc.curConn, opponent)
	if stats.GamesPlayed == 0 {
		return msg(fmt.Sprintf("no games recorded against %v on %v",
			opponent, sc.curConn.Shortname())), nil
	}
	return msg(fmt.Sprintf("Series(%v): %.1f/%d", opponent, stats.TotalScore,
		stats.GamesPlayed)), nil
}

func (sc *ShellController) connector(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		names := make([]string, 0, len(sc.connectors))
		for name := range sc.connectors {
			marker := ""
			if sc.connectors[name] == sc.curConn {
				marker = " (current)"
			}
			names = append(names, name+marker)
		}
		sort.Strings(names)
		return msg("connectors: " + strings.Join(names, ", ")), nil
	}
	sc.curConn = sc.connectorFor(cmd.args[0])
	return msg("recording against " + sc.curConn.Shortname()), nil
}

func (sc *ShellController) moveTimes(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoCurrentGame
	}
	var seconds []float64
	for _, mv := range sc.curGame.Moves() {
		if ms, ok := mv.ElapsedMillis(); ok {
			seconds = append(seconds, float64(ms)/1000.0)
		}
	}
	if len(seconds) == 0 {
		return nil, errors.New("game carries no timing data")
	}
	bins := 10
	if len(seconds) < bins {
		bins = len(seconds)
	}
	hist := histogram.Hist(bins, seconds)
	var sb strings.Builder
	sb.WriteString("move times (seconds):\n")
	if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
