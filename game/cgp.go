package game

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/crosswordlabs/wordcraft/tilemapping"
	"github.com/crosswordlabs/wordcraft/variant"
)

// ParseError reports a CGP parse failure with no partial state change,
// matching the spec's CGP-parse error family (§7 family 2): the caller's
// existing Game, if any, is left untouched.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

func parseErrorf(format string, args ...any) error {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// cgpOpcodes collects the optional trailing "opcode value;" pairs (spec §6
// CGP field 5), ported from the original's CGPOperations.
type cgpOpcodes struct {
	bingoBonus  int
	boardName   string
	gameVariant variant.Variant
	distName    string
	lexName     string
}

func defaultOpcodes() cgpOpcodes {
	return cgpOpcodes{
		bingoBonus:  50,
		boardName:   "CrosswordGame",
		gameVariant: variant.VarClassic,
	}
}

func parseOpcodes(fields []string) (cgpOpcodes, error) {
	ops := defaultOpcodes()
	for i := 0; i+1 < len(fields); i += 2 {
		opcode := fields[i]
		value := strings.TrimSuffix(fields[i+1], ";")
		switch opcode {
		case "bb":
			n, err := strconv.Atoi(value)
			if err != nil {
				return ops, parseErrorf("malformed bb opcode value %q", value)
			}
			ops.bingoBonus = n
		case "bdn":
			ops.boardName = value
		case "var":
			switch value {
			case string(variant.VarClassic), string(variant.VarWordSmog),
				string(variant.VarGmo), string(variant.VarClassicSuper), string(variant.VarWordSmogSuper):
				ops.gameVariant = variant.Variant(value)
			default:
				return ops, parseErrorf("unknown game variant %q", value)
			}
		case "ld":
			ops.distName = value
		case "lex":
			ops.lexName = value
		}
	}
	return ops, nil
}

// ParseCGP parses a compact game position string against already-resolved
// rules, returning a fully set-up Game (spec §6 CGP). The board, rack, and
// score fields are mandatory and positional; opcodes are optional and
// named, each terminated by a semicolon.
//
// rules must already reflect any "bdn"/"ld"/"lex" opcode the caller wants
// honored: this parser rejects an "ld" or "lex" opcode that names a
// distribution or lexicon other than the loaded one; "bdn" is parsed but
// not compared against anything. Unlike the original, it does not itself
// reload a distribution or lexicon mid-parse — that's the console layer's
// job, resolving names to objects before calling here.
func ParseCGP(rules *Rules, cgp string) (*Game, error) {
	fields := strings.Fields(cgp)
	if len(fields) < 4 {
		return nil, parseErrorf("expected at least 4 whitespace-separated CGP fields, got %d", len(fields))
	}
	boardField, rackField, scoreField, scorelessField := fields[0], fields[1], fields[2], fields[3]
	opcodes, err := parseOpcodes(fields[4:])
	if err != nil {
		return nil, err
	}
	if opcodes.lexName != "" && opcodes.lexName != rules.lexicon.Name() {
		return nil, parseErrorf("cgp lex opcode %q does not match loaded lexicon %q", opcodes.lexName, rules.lexicon.Name())
	}
	if opcodes.distName != "" && opcodes.distName != rules.dist.Name {
		return nil, parseErrorf("cgp ld opcode %q does not match loaded distribution %q", opcodes.distName, rules.dist.Name)
	}

	bag := tilemapping.NewBag(rules.dist, nil)
	g := &Game{
		rules: rules,
		uid:   uuid.New().String(),
		board: rules.NewBoard(),
		bag:   bag,
		players: [2]*Player{
			{Name: "player1", Rack: tilemapping.NewRack(rules.dist)},
			{Name: "player2", Rack: tilemapping.NewRack(rules.dist)},
		},
	}

	if err := loadBoardField(g, boardField); err != nil {
		return nil, err
	}
	if err := loadRackField(g, rackField); err != nil {
		return nil, err
	}
	if err := loadScoreField(g, scoreField); err != nil {
		return nil, err
	}

	scoreless, err := strconv.Atoi(scorelessField)
	if err != nil || scoreless < 0 {
		return nil, parseErrorf("malformed consecutive-scoreless-turns field %q", scorelessField)
	}
	g.scorelessTurns = scoreless
	g.onTurn = 0

	g.board.GenerateAllCrossSets(rules.graph, rules.dist)
	g.board.UpdateAllAnchors()

	if g.scorelessTurns >= MaxScorelessTurns {
		g.endReason = EndReasonConsecutiveZeros
	} else if g.bag.TilesRemaining() == 0 && (g.players[0].Rack.Empty() || g.players[1].Rack.Empty()) {
		g.endReason = EndReasonStandard
	} else {
		g.endReason = EndReasonNone
	}

	return g, nil
}

// loadBoardField places tiles from a run-length-encoded board string (15
// rows separated by '/') and draws each placed tile out of the bag, the
// same accounting the original's load_cgp performs inline.
func loadBoardField(g *Game, field string) error {
	rows := strings.Split(field, "/")
	dim := g.board.Dim()
	if len(rows) != dim {
		return parseErrorf("expected %d board rows, got %d", dim, len(rows))
	}
	tm := g.rules.dist.TileMapping()
	for r, row := range rows {
		col := 0
		digits := ""
		flushDigits := func() error {
			if digits == "" {
				return nil
			}
			n, err := strconv.Atoi(digits)
			if err != nil || n < 1 || col+n > dim {
				return parseErrorf("malformed run-length count %q in board row %d", digits, r)
			}
			col += n
			digits = ""
			return nil
		}
		for _, ch := range row {
			if unicode.IsDigit(ch) {
				digits += string(ch)
				continue
			}
			if err := flushDigits(); err != nil {
				return err
			}
			if col >= dim {
				return parseErrorf("board row %d overflows %d columns", r, dim)
			}
			ml, ok := tm.MachineLetterFromRune(unicode.ToUpper(ch))
			if !ok {
				return parseErrorf("unknown board letter %q in row %d", ch, r)
			}
			if unicode.IsLower(ch) {
				ml = tilemapping.Blanked(ml)
			}
			g.board.SetLetter(r, col, ml)
			// The bag physically holds the undesignated blank (0), never
			// the letter it was later designated to play as.
			bagTile := ml
			if unicode.IsLower(ch) {
				bagTile = 0
			}
			if err := g.bag.RemoveTiles([]tilemapping.MachineLetter{bagTile}); err != nil {
				return parseErrorf("board row %d: %v", r, err)
			}
			col++
		}
		if err := flushDigits(); err != nil {
			return err
		}
		if col != dim {
			return parseErrorf("board row %d covers %d columns, want %d", r, col, dim)
		}
	}
	placed := 0
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			if !g.board.IsEmpty(r, c) {
				placed++
			}
		}
	}
	g.board.SetTilesPlayed(placed)
	return nil
}

// loadRackField draws two racks' worth of tiles (each an uppercase-and-'?'
// string, either side of '/', either half possibly empty) from the bag.
func loadRackField(g *Game, field string) error {
	halves := strings.SplitN(field, "/", 2)
	tm := g.rules.dist.TileMapping()
	drawRack := func(s string, p *Player) error {
		for _, ch := range s {
			var ml tilemapping.MachineLetter
			if ch == '?' {
				ml = 0
			} else {
				var ok bool
				ml, ok = tm.MachineLetterFromRune(ch)
				if !ok {
					return parseErrorf("unknown rack letter %q", ch)
				}
			}
			if err := g.bag.RemoveTiles([]tilemapping.MachineLetter{ml}); err != nil {
				return fmt.Errorf("rack tile %q: %w", ch, err)
			}
			p.Rack.Add(ml)
		}
		return nil
	}
	if err := drawRack(halves[0], g.players[0]); err != nil {
		return err
	}
	if len(halves) == 2 {
		if err := drawRack(halves[1], g.players[1]); err != nil {
			return err
		}
	}
	return nil
}

func loadScoreField(g *Game, field string) error {
	halves := strings.SplitN(field, "/", 2)
	if len(halves) != 2 {
		return parseErrorf("expected two '/'-separated scores, got %q", field)
	}
	s0, err := strconv.Atoi(halves[0])
	if err != nil {
		return parseErrorf("malformed score %q", halves[0])
	}
	s1, err := strconv.Atoi(halves[1])
	if err != nil {
		return parseErrorf("malformed score %q", halves[1])
	}
	g.players[0].Score = s0
	g.players[1].Score = s1
	return nil
}

// Serialize renders g back to CGP text: board, racks, scores, consecutive
// scoreless turns, and the opcodes needed to round-trip rules that aren't
// implied by the board/rack/score fields alone (spec §8 round-trip law).
func (g *Game) Serialize() string {
	var sb strings.Builder
	tm := g.rules.dist.TileMapping()
	dim := g.board.Dim()

	for r := 0; r < dim; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empties := 0
		flush := func() {
			if empties > 0 {
				sb.WriteString(strconv.Itoa(empties))
				empties = 0
			}
		}
		for c := 0; c < dim; c++ {
			if g.board.IsEmpty(r, c) {
				empties++
				continue
			}
			flush()
			sb.WriteString(tm.Letter(g.board.Letter(r, c)))
		}
		flush()
	}

	sb.WriteByte(' ')
	for i, p := range g.players {
		if i > 0 {
			sb.WriteByte('/')
		}
		for _, ml := range p.Rack.TilesOn() {
			if ml == 0 {
				sb.WriteByte('?')
			} else {
				sb.WriteString(tm.Letter(ml))
			}
		}
	}

	fmt.Fprintf(&sb, " %d/%d %d", g.players[0].Score, g.players[1].Score, g.scorelessTurns)

	fmt.Fprintf(&sb, " bb %d; bdn %s; var %s; ld %s; lex %s;",
		g.rules.BingoBonus(), g.rules.BoardName(), g.rules.Variant(), g.rules.dist.Name, g.rules.lexicon.Name())

	return sb.String()
}
