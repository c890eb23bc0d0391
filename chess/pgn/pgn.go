// Package pgn implements a PGN importer. It parses the tag-pair section,
// the movetext, and [%emt ...] elapsed-move-time annotations into a
// chess.Game. Move legality is not checked; SAN tokens are stored verbatim.
package pgn

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/kestrelchess/kestrel/chess"
)

// A Token is a lexical element of a PGN file.
type Token uint8

const (
	UndefinedToken Token = iota
	TagPairToken
	CommentToken
	ResultToken
	MoveNumberToken
	NAGToken
	VariationStartToken
	VariationEndToken
	SANMoveToken
)

type pgndatum struct {
	token Token
	regex *regexp.Regexp
}

var pgnRegexes []pgndatum

const (
	TagPairRegex        = `^\[(?P<name>[A-Za-z0-9_]+)\s+"(?P<value>[^"]*)"\]`
	CommentRegex        = `^\{(?P<body>[^}]*)\}`
	ResultRegex         = `^(?P<result>1-0|0-1|1/2-1/2|\*)`
	MoveNumberRegex     = `^\d+\.(?:\.\.)?`
	NAGRegex            = `^\$\d+`
	VariationStartRegex = `^\(`
	VariationEndRegex   = `^\)`
	// Castles must come before piece moves so O-O-O is not split.
	SANMoveRegex = `^(?P<san>(?:O-O-O|O-O|[KQRBN][a-h]?[1-8]?x?[a-h][1-8]|[a-h](?:x[a-h])?[1-8](?:=[QRBN])?)[+#]?)`
)

// emt annotations appear either as h:mm:ss(.frac) or as plain seconds.
var emtClockRe = regexp.MustCompile(`\[%emt\s+(?:(\d+):)?(\d+):(\d+(?:\.\d+)?)\]`)
var emtSecondsRe = regexp.MustCompile(`\[%emt\s+(\d+(?:\.\d+)?)\]`)

func init() {
	pgnRegexes = []pgndatum{
		{CommentToken, regexp.MustCompile(CommentRegex)},
		{ResultToken, regexp.MustCompile(ResultRegex)},
		{MoveNumberToken, regexp.MustCompile(MoveNumberRegex)},
		{NAGToken, regexp.MustCompile(NAGRegex)},
		{VariationStartToken, regexp.MustCompile(VariationStartRegex)},
		{VariationEndToken, regexp.MustCompile(VariationEndRegex)},
		{SANMoveToken, regexp.MustCompile(SANMoveRegex)},
	}
}

var tagPairRe = regexp.MustCompile(TagPairRegex)

type parser struct {
	game           *chess.Game
	variationDepth int
	sawResultToken bool
}

func (p *parser) handleTagLine(line string) bool {
	match := tagPairRe.FindStringSubmatch(line)
	if match == nil {
		return false
	}
	p.game.SetHeader(chess.Header(match[1]), match[2])
	return true
}

// parseEmt converts the first [%emt ...] annotation in a comment body to
// milliseconds.
func parseEmt(body string) (int64, bool) {
	if m := emtClockRe.FindStringSubmatch(body); m != nil {
		var hours int64
		if m[1] != "" {
			hours, _ = strconv.ParseInt(m[1], 10, 64)
		}
		minutes, _ := strconv.ParseInt(m[2], 10, 64)
		seconds, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, false
		}
		total := float64(hours*3600+minutes*60) + seconds
		return int64(math.Round(total * 1000)), true
	}
	if m := emtSecondsRe.FindStringSubmatch(body); m != nil {
		seconds, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return int64(math.Round(seconds * 1000)), true
	}
	return 0, false
}

func (p *parser) handleToken(token Token, match []string) {
	if token == VariationStartToken {
		p.variationDepth++
		return
	}
	if token == VariationEndToken {
		if p.variationDepth > 0 {
			p.variationDepth--
		}
		return
	}
	// Everything inside a variation is an alternate line, not part of the
	// game as played.
	if p.variationDepth > 0 {
		return
	}
	switch token {
	case CommentToken:
		n := p.game.HalfMoveCount()
		if n == 0 {
			return
		}
		if ms, ok := parseEmt(match[1]); ok {
			moves := p.game.Moves()
			moves[n-1].TimeTaken = append(moves[n-1].TimeTaken,
				chess.TimeTaken{Milliseconds: ms})
		}
	case ResultToken:
		p.game.SetResult(chess.ParseResult(match[1]))
		p.sawResultToken = true
	case SANMoveToken:
		p.game.AddMove(chess.Move{
			SAN:   match[1],
			White: p.game.HalfMoveCount()%2 == 0,
		})
	case MoveNumberToken, NAGToken:
		// Move numbers are redundant with the ply count, and NAGs carry no
		// timing or outcome information.
	}
}

func (p *parser) parseMovetext(text string) error {
	for len(text) > 0 {
		text = strings.TrimLeft(text, " \t")
		if text == "" {
			break
		}
		matched := false
		for _, datum := range pgnRegexes {
			match := datum.regex.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			p.handleToken(datum.token, match)
			text = text[len(match[0]):]
			matched = true
			break
		}
		if !matched {
			return fmt.Errorf("unparseable movetext near %q", firstN(text, 20))
		}
	}
	return nil
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func (p *parser) finish() {
	if !p.sawResultToken {
		p.game.SetResult(chess.ParseResult(p.game.Header(chess.HeaderResult)))
	}
	p.game.SetVariant(chess.VariantFromName(p.game.Header(chess.HeaderVariant)))
}

// ParsePGNFromReader parses the first game in the stream. Input that is not
// valid UTF-8 is assumed to be latin-1, the PGN export encoding.
func ParsePGNFromReader(r io.Reader) (*chess.Game, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		log.Debug().Msg("input is not utf-8; decoding as latin-1")
		raw, err = io.ReadAll(transform.NewReader(bytes.NewReader(raw),
			charmap.ISO8859_1.NewDecoder()))
		if err != nil {
			return nil, err
		}
	}

	p := &parser{game: chess.NewGame()}
	var movetext strings.Builder
	inMovetext := false
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if !inMovetext {
			if trimmed == "" {
				continue
			}
			if p.handleTagLine(trimmed) {
				continue
			}
			inMovetext = true
		}
		// A blank line after movetext has started separates games; only the
		// first game is imported.
		if trimmed == "" && movetext.Len() > 0 {
			break
		}
		// Escape lines and rest-of-line comments are ignored.
		if strings.HasPrefix(trimmed, "%") {
			continue
		}
		if idx := strings.Index(trimmed, ";"); idx >= 0 {
			trimmed = strings.TrimSpace(trimmed[:idx])
		}
		movetext.WriteString(trimmed)
		movetext.WriteString(" ")
	}

	if err := p.parseMovetext(strings.TrimSpace(movetext.String())); err != nil {
		return nil, err
	}
	if p.game.HalfMoveCount() == 0 && p.game.Header(chess.HeaderEvent) == "" &&
		p.game.Header(chess.HeaderWhite) == "" {
		return nil, errors.New("no game found in input")
	}
	p.finish()
	log.Debug().Int("moves", p.game.HalfMoveCount()).
		Str("result", p.game.Result().String()).
		Msg("parsed pgn")
	return p.game, nil
}

// ParsePGN parses the first game in the named file.
func ParsePGN(filename string) (*chess.Game, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePGNFromReader(f)
}
