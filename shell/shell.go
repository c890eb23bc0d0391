// Package shell implements the interactive console: it loads PGN games,
// records their outcomes into the statistics tracker, and answers queries
// about performance ratings, head-to-head series, and move timings.
package shell

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/kestrelchess/kestrel/chess"
	"github.com/kestrelchess/kestrel/config"
	"github.com/kestrelchess/kestrel/playstats"
)

var (
	errNoData            = errors.New("no data in command")
	errWrongOptionSyntax = errors.New("option missing a value")
	errNoCurrentGame     = errors.New("no loaded game; load one with `load <file.pgn>`")
	errExiting           = errors.New("exiting")
)

// icsConnector stands in for a live game-server session. Statistics are
// partitioned by pointer identity, so reusing the same connector for the
// same short name keeps one history per server.
type icsConnector struct {
	shortname string
}

func (c *icsConnector) Shortname() string {
	return c.shortname
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a command line into the command, positional args,
// and -option value pairs.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: map[string]string{}}
	pendingOption := ""
	for _, field := range fields[1:] {
		if pendingOption != "" {
			cmd.options[pendingOption] = field
			pendingOption = ""
			continue
		}
		if strings.HasPrefix(field, "-") {
			pendingOption = strings.TrimPrefix(field, "-")
			continue
		}
		cmd.args = append(cmd.args, field)
	}
	if pendingOption != "" {
		return nil, errWrongOptionSyntax
	}
	return cmd, nil
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func showMessage(message string, w io.Writer) {
	io.WriteString(w, message)
	io.WriteString(w, "\n")
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	tracker    *playstats.Tracker
	connectors map[string]*icsConnector
	curConn    *icsConnector

	curGame     *chess.Game
	curGameFile string
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mkestrel>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := &ShellController{
		l:          l,
		config:     cfg,
		tracker:    playstats.NewTracker(),
		connectors: map[string]*icsConnector{},
	}
	sc.curConn = sc.connectorFor(cfg.GetString("default-connector"))
	return sc
}

func (sc *ShellController) connectorFor(shortname string) *icsConnector {
	if conn, ok := sc.connectors[shortname]; ok {
		return conn
	}
	conn := &icsConnector{shortname: shortname}
	sc.connectors[shortname] = conn
	return conn
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye", "quit":
		return nil, errExiting
	case "help":
		return usage(), nil
	case "load":
		return sc.load(cmd)
	case "loadall":
		return sc.loadAll(cmd)
	case "record":
		return sc.record(cmd)
	case "summary":
		return sc.summary(cmd)
	case "perf":
		return sc.perf(cmd)
	case "vs":
		return sc.vs(cmd)
	case "connector":
		return sc.connector(cmd)
	case "movetimes":
		return sc.moveTimes(cmd)
	}
	return nil, errors.New("unrecognized command: " + cmd.cmd)
}

// Loop reads and executes commands until the user exits; it then signals
// the main goroutine to shut down.
func (sc *ShellController) Loop(sig chan os.Signal) {
readlineLoop:
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.handle(line)
		switch {
		case err == errExiting:
			break readlineLoop
		case err != nil:
			showMessage("error: "+err.Error(), sc.l.Stderr())
		case resp != nil:
			showMessage(resp.message, sc.l.Stdout())
		}
	}
	log.Debug().Msg("exiting readline loop")
	sig <- syscall.SIGINT
}

func (sc *ShellController) Cleanup() {
	if sc.l != nil {
		sc.l.Close()
	}
}

func usage() *Response {
	return msg(`commands:
load <file.pgn>                    - load a game; relative paths also try --pgn-directory
loadall [-workers n] <file.pgn>... - import many games and record each outcome
record [white|black]               - record the loaded game's outcome
summary [white|black]              - show the end-of-game statistics for the loaded game
perf [variant]                     - show the estimated performance rating
vs <name>                          - show your series record against a player
connector [name]                   - show or switch the connector results are kept under
movetimes                          - plot a histogram of the loaded game's move times
help                               - this text
exit                               - leave the shell`)
}
