// Package gcgio implements a GCG parser: the plain-text turn-by-turn game
// log format, plus a phony-play check against a lexicon.
package gcgio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/crosswordlabs/wordcraft/move"
)

var (
	errDuplicateNames     = errors.New("two players with same nickname not supported")
	errPragmaPrecedeEvent = errors.New("non-note pragmata should appear before event lines")
	errEncodingWrongPlace = errors.New("encoding line must be first line in file if present")
	errPlayerNotSupported = errors.New("player number not supported")
)

// A Token is an event in a GCG file.
type Token uint8

const (
	UndefinedToken Token = iota
	PlayerToken
	TitleToken
	DescriptionToken
	IDToken
	Rack1Token
	Rack2Token
	EncodingToken
	MoveToken
	NoteToken
	LexiconToken
	PhonyTilesReturnedToken
	PassToken
	ChallengeBonusToken
	ExchangeToken
	EndRackPointsToken
	TimePenaltyToken
	LastRackPenaltyToken
)

// EventType classifies one Event, mirroring the GCG line it was parsed
// from.
type EventType int

const (
	EventUnknown EventType = iota
	EventTilePlacement
	EventPhonyTilesReturned
	EventPass
	EventChallengeBonus
	EventExchange
	EventEndRackPoints
	EventTimePenalty
	EventEndRackPenalty
)

// Event is one line of a GCG turn, with every field the family of regexes
// below can populate. Most fields only apply to a subset of EventTypes.
type Event struct {
	Type EventType

	Nickname string
	Rack     string

	Position    string
	Row, Col    int
	Vertical    bool
	PlayedTiles string
	Score       int
	Cumulative  int

	LostScore     int
	Bonus         int
	EndRackPoints int
	Exchanged     string

	Note string
}

// Turn is one or more events belonging to the same player's move.
type Turn struct {
	Events []*Event
}

// PlayerInfo is one #player pragma's nickname and real name.
type PlayerInfo struct {
	Nickname string
	RealName string
}

// History is a fully parsed GCG file.
type History struct {
	Title          string
	Description    string
	IDAuth         string
	UID            string
	Lexicon        string
	Players        []*PlayerInfo
	Turns          []*Turn
	LastKnownRacks []string
	OriginalGCG    string
}

type gcgdatum struct {
	token Token
	regex *regexp.Regexp
}

var GCGRegexes []gcgdatum

const (
	PlayerRegex             = `#player(?P<p_number>[1-2])\s+(?P<nick>\S+)\s+(?P<real_name>.+)`
	TitleRegex              = `#title\s*(?P<title>.*)`
	DescriptionRegex        = `#description\s*(?P<description>.*)`
	IDRegex                 = `#id\s*(?P<id_authority>\S+)\s+(?P<id>\S+)`
	Rack1Regex              = `#rack1 (?P<rack>\S+)`
	Rack2Regex              = `#rack2 (?P<rack>\S+)`
	MoveRegex               = `>(?P<nick>\S+):\s+(?P<rack>\S+)\s+(?P<pos>\w+)\s+(?P<play>[\w\\.]+)\s+\+(?P<score>\d+)\s+(?P<cumul>\d+)`
	NoteRegex               = `#note (?P<note>.+)`
	LexiconRegex            = `#lexicon (?P<lexicon>.+)`
	CharacterEncodingRegex  = `#character-encoding (?P<encoding>[[:graph:]]+)`
	PhonyTilesReturnedRegex = `>(?P<nick>\S+):\s+(?P<rack>\S+)\s+--\s+-(?P<lost_score>\d+)\s+(?P<cumul>\d+)`
	PassRegex               = `>(?P<nick>\S+):\s+(?P<rack>\S+)\s+-\s+\+0\s+(?P<cumul>\d+)`
	ChallengeBonusRegex     = `>(?P<nick>\S+):\s+(?P<rack>\S*)\s+\(challenge\)\s+\+(?P<bonus>\d+)\s+(?P<cumul>\d+)`
	ExchangeRegex           = `>(?P<nick>\S+):\s+(?P<rack>\S+)\s+-(?P<exchanged>\S+)\s+\+0\s+(?P<cumul>\d+)`
	EndRackPointsRegex      = `>(?P<nick>\S+):\s+\((?P<rack>\S+)\)\s+\+(?P<score>\d+)\s+(?P<cumul>-?\d+)`
	TimePenaltyRegex        = `>(?P<nick>\S+):\s+(?P<rack>\S*)\s+\(time\)\s+\-(?P<penalty>\d+)\s+(?P<cumul>-?\d+)`
	PtsLostForLastRackRegex = `>(?P<nick>\S+):\s+(?P<rack>\S+)\s+\((?P<rack2>\S+)\)\s+\-(?P<penalty>\d+)\s+(?P<cumul>-?\d+)`
)

var compiledEncodingRegexp *regexp.Regexp

type parser struct {
	lastToken Token
	history   *History
}

// init builds the regex table once. ChallengeBonusRegex is ordered before
// EndRackPointsRegex deliberately: a line like ">frentz:  (challenge) +5
// 534" matches both, and the more specific one must win.
func init() {
	compiledEncodingRegexp = regexp.MustCompile(CharacterEncodingRegex)

	GCGRegexes = []gcgdatum{
		{PlayerToken, regexp.MustCompile(PlayerRegex)},
		{TitleToken, regexp.MustCompile(TitleRegex)},
		{DescriptionToken, regexp.MustCompile(DescriptionRegex)},
		{IDToken, regexp.MustCompile(IDRegex)},
		{Rack1Token, regexp.MustCompile(Rack1Regex)},
		{Rack2Token, regexp.MustCompile(Rack2Regex)},
		{EncodingToken, compiledEncodingRegexp},
		{MoveToken, regexp.MustCompile(MoveRegex)},
		{NoteToken, regexp.MustCompile(NoteRegex)},
		{LexiconToken, regexp.MustCompile(LexiconRegex)},
		{PhonyTilesReturnedToken, regexp.MustCompile(PhonyTilesReturnedRegex)},
		{PassToken, regexp.MustCompile(PassRegex)},
		{ChallengeBonusToken, regexp.MustCompile(ChallengeBonusRegex)},
		{ExchangeToken, regexp.MustCompile(ExchangeRegex)},
		{EndRackPointsToken, regexp.MustCompile(EndRackPointsRegex)},
		{TimePenaltyToken, regexp.MustCompile(TimePenaltyRegex)},
		{LastRackPenaltyToken, regexp.MustCompile(PtsLostForLastRackRegex)},
	}
}

func matchToInt(str string) (int, error) {
	x, err := strconv.Atoi(str)
	if err != nil {
		return 0, err
	}
	return x, nil
}

func (p *parser) addEventOrPragma(token Token, match []string) error {
	switch token {
	case PlayerToken:
		if len(p.history.Turns) > 0 {
			return errPragmaPrecedeEvent
		}
		pn, err := strconv.Atoi(match[1])
		if err != nil {
			return err
		}
		if pn != 1 && pn != 2 {
			return errPlayerNotSupported
		}
		if pn == 2 && len(p.history.Players) > 0 && match[2] == p.history.Players[0].Nickname {
			return errDuplicateNames
		}
		p.history.Players = append(p.history.Players, &PlayerInfo{Nickname: match[2], RealName: match[3]})
		return nil

	case TitleToken:
		if len(p.history.Turns) > 0 {
			return errPragmaPrecedeEvent
		}
		p.history.Title = match[1]
		return nil

	case DescriptionToken:
		if len(p.history.Turns) > 0 {
			return errPragmaPrecedeEvent
		}
		p.history.Description = match[1]
		return nil

	case IDToken:
		if len(p.history.Turns) > 0 {
			return errPragmaPrecedeEvent
		}
		p.history.IDAuth = match[1]
		p.history.UID = match[2]
		return nil

	case Rack1Token:
		p.history.LastKnownRacks = []string{match[1]}
		return nil

	case Rack2Token:
		p.history.LastKnownRacks = append(p.history.LastKnownRacks, match[1])
		return nil

	case EncodingToken:
		return errEncodingWrongPlace

	case MoveToken:
		evt := &Event{Type: EventTilePlacement, Nickname: match[1], Rack: match[2], Position: match[3], PlayedTiles: match[4]}
		var err error
		if evt.Score, err = matchToInt(match[5]); err != nil {
			return err
		}
		if evt.Cumulative, err = matchToInt(match[6]); err != nil {
			return err
		}
		row, col, vertical, ok := move.FromBoardGameCoords(evt.Position)
		if !ok {
			return fmt.Errorf("unparseable board position %q", evt.Position)
		}
		evt.Row, evt.Col, evt.Vertical = row, col, vertical
		p.history.Turns = append(p.history.Turns, &Turn{Events: []*Event{evt}})
		return nil

	case NoteToken:
		lastTurn := p.history.Turns[len(p.history.Turns)-1]
		lastEvt := lastTurn.Events[len(lastTurn.Events)-1]
		lastEvt.Note += match[1]
		return nil

	case LexiconToken:
		if len(p.history.Turns) > 0 {
			return errPragmaPrecedeEvent
		}
		p.history.Lexicon = match[1]
		return nil

	case PhonyTilesReturnedToken:
		evt := &Event{Type: EventPhonyTilesReturned, Nickname: match[1], Rack: match[2]}
		var err error
		if evt.LostScore, err = matchToInt(match[3]); err != nil {
			return err
		}
		if evt.Cumulative, err = matchToInt(match[4]); err != nil {
			return err
		}
		lastTurn := p.history.Turns[len(p.history.Turns)-1]
		lastTurn.Events = append(lastTurn.Events, evt)
		return nil

	case TimePenaltyToken:
		evt := &Event{Type: EventTimePenalty, Nickname: match[1], Rack: match[2]}
		var err error
		if evt.LostScore, err = matchToInt(match[3]); err != nil {
			return err
		}
		if evt.Cumulative, err = matchToInt(match[4]); err != nil {
			return err
		}
		// A stand-alone turn: it can follow the wrong player (e.g. player 2
		// goes out, then a time penalty lands on player 1).
		p.history.Turns = append(p.history.Turns, &Turn{Events: []*Event{evt}})
		return nil

	case LastRackPenaltyToken:
		evt := &Event{Type: EventEndRackPenalty, Nickname: match[1], Rack: match[2]}
		if match[2] != match[3] {
			return fmt.Errorf("last rack penalty event malformed")
		}
		var err error
		if evt.LostScore, err = matchToInt(match[4]); err != nil {
			return err
		}
		if evt.Cumulative, err = matchToInt(match[5]); err != nil {
			return err
		}
		p.history.Turns = append(p.history.Turns, &Turn{Events: []*Event{evt}})
		return nil

	case PassToken:
		evt := &Event{Type: EventPass, Nickname: match[1], Rack: match[2]}
		var err error
		if evt.Cumulative, err = matchToInt(match[3]); err != nil {
			return err
		}
		p.history.Turns = append(p.history.Turns, &Turn{Events: []*Event{evt}})
		return nil

	case ChallengeBonusToken, EndRackPointsToken:
		evt := &Event{Nickname: match[1], Rack: match[2]}
		var err error
		if token == ChallengeBonusToken {
			evt.Type = EventChallengeBonus
			evt.Bonus, err = matchToInt(match[3])
		} else {
			evt.Type = EventEndRackPoints
			evt.EndRackPoints, err = matchToInt(match[3])
		}
		if err != nil {
			return err
		}
		if evt.Cumulative, err = matchToInt(match[4]); err != nil {
			return err
		}
		lastTurn := p.history.Turns[len(p.history.Turns)-1]
		lastTurn.Events = append(lastTurn.Events, evt)
		return nil

	case ExchangeToken:
		evt := &Event{Type: EventExchange, Nickname: match[1], Rack: match[2], Exchanged: match[3]}
		var err error
		if evt.Cumulative, err = matchToInt(match[4]); err != nil {
			return err
		}
		p.history.Turns = append(p.history.Turns, &Turn{Events: []*Event{evt}})
		return nil
	}
	return nil
}

func (p *parser) parseLine(line string) error {
	foundMatch := false
	for _, datum := range GCGRegexes {
		match := datum.regex.FindStringSubmatch(line)
		if match != nil {
			foundMatch = true
			if err := p.addEventOrPragma(datum.token, match); err != nil {
				return err
			}
			p.lastToken = datum.token
			break
		}
	}
	if !foundMatch {
		if p.lastToken == NoteToken && len(p.history.Turns) > 0 {
			lastTurn := p.history.Turns[len(p.history.Turns)-1]
			lastEvt := lastTurn.Events[len(lastTurn.Events)-1]
			lastEvt.Note += "\n" + line
			return nil
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}
		return fmt.Errorf("no match found for line %q", line)
	}
	return nil
}

// encodingOrFirstLine reads either the #character-encoding pragma or the
// file's plain first line, decoding from the GCG default of ISO-8859-1
// when no pragma is present (ported from encodingOrFirstLine).
func encodingOrFirstLine(reader io.Reader) (string, string, error) {
	const bufSize = 128
	buf := make([]byte, bufSize)
	n := 0
	for {
		if _, err := reader.Read(buf[n : n+1]); err != nil {
			return "", "", err
		}
		if buf[n] == 0xa || n == bufSize {
			firstLine := buf[:n]
			if match := compiledEncodingRegexp.FindStringSubmatch(string(firstLine)); match != nil {
				enc := strings.ToLower(match[1])
				if enc != "utf-8" && enc != "utf8" {
					return "", "", fmt.Errorf("unhandled character encoding %q", enc)
				}
				return "utf8", "", nil
			}
			decoder := charmap.ISO8859_1.NewDecoder()
			result, _, err := transform.Bytes(decoder, firstLine)
			if err != nil {
				return "", "", err
			}
			return "", string(result), nil
		}
		n++
	}
}

// ParseGCGFromReader parses a full GCG file.
func ParseGCGFromReader(reader io.Reader) (*History, error) {
	p := &parser{history: &History{}}

	enc, firstLine, err := encodingOrFirstLine(reader)
	if err != nil {
		return nil, err
	}

	var scanner *bufio.Scanner
	if enc != "utf8" {
		r := transform.NewReader(reader, charmap.ISO8859_1.NewDecoder())
		scanner = bufio.NewScanner(r)
	} else {
		scanner = bufio.NewScanner(reader)
	}

	var original strings.Builder
	if firstLine != "" {
		if err := p.parseLine(firstLine); err != nil {
			return nil, err
		}
		original.WriteString(firstLine)
		original.WriteByte('\n')
	}
	for scanner.Scan() {
		line := scanner.Text()
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
		original.WriteString(line)
		original.WriteByte('\n')
	}
	p.history.OriginalGCG = strings.TrimSpace(original.String())
	return p.history, nil
}

// ParseGCG parses a GCG file from disk.
func ParseGCG(filename string) (*History, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseGCGFromReader(f)
}
