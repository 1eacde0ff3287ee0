// Package console implements the line-oriented protocol: setoptions,
// position cgp, go {sim|infer|autoplay|static}, stop, and quit, each a
// single line in and one fact per line of plain-text output (spec §6
// Console protocol).
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/crosswordlabs/wordcraft/config"
	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/inference"
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/montecarlo"
	"github.com/crosswordlabs/wordcraft/move"
	"github.com/crosswordlabs/wordcraft/movegen"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// ErrQuit is returned by Dispatch for a "quit" line; the caller's REPL
// loop should stop reading on seeing it.
var ErrQuit = fmt.Errorf("quit")

// ErrorStatus is the per-command {type, code} record spec §7 requires
// every non-fatal error be surfaced through.
type ErrorStatus struct {
	Type string
	Code string
}

func (e *ErrorStatus) Error() string { return fmt.Sprintf("%s %s", e.Type, e.Code) }

func errStatus(typ, code string) *ErrorStatus { return &ErrorStatus{Type: typ, Code: code} }

// Error family names carried by an ErrorStatus. There are three; a fatal
// error is returned as a plain error rather than an ErrorStatus.
const (
	FamilyConfig = "config"
	FamilyCGP    = "cgp"
	FamilySearch = "search_status"
)

// Console holds one session's mutable position and configuration. It is
// safe for one REPL loop to drive; Dispatch is not safe to call
// concurrently with itself, but Stop may be called from another
// goroutine while a "go" command runs.
type Console struct {
	cfg *config.Config
	out io.Writer

	mu     sync.Mutex
	g      *game.Game
	rules  *game.Rules
	lv     *klv.KLV
	winPct *montecarlo.WinPct

	searchMu sync.Mutex
	cancel   context.CancelFunc
	running  bool
}

// New builds a Console that writes output to out and resolves defaults
// from cfg. Its position starts unset; position cgp must be given before
// go or it reports a config error.
func New(cfg *config.Config, out io.Writer) *Console {
	return &Console{cfg: cfg, out: out}
}

// SetPosition installs a ready game and its rules directly, bypassing CGP
// parsing — the seam tests (and a future "new game" verb) use to avoid
// needing a lexicon file on disk.
func (c *Console) SetPosition(g *game.Game, rules *game.Rules) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.g, c.rules = g, rules
}

// SetLeaves installs the leave valuator used by go sim/infer/static.
func (c *Console) SetLeaves(lv *klv.KLV) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lv = lv
}

// SetWinPct installs the win-percentage table go sim needs to score
// non-terminal simulated endpoints.
func (c *Console) SetWinPct(wp *montecarlo.WinPct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.winPct = wp
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Dispatch processes one input line. It returns ErrQuit on "quit", an
// *ErrorStatus for any recognized-but-invalid command, or a plain error
// only for conditions spec §7 calls fatal/programming-invariant.
func (c *Console) Dispatch(line string) error {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return errStatus(FamilyConfig, "unparseable_line")
	}
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case "setoptions":
		return c.cmdSetOptions(tokens[1:])
	case "position":
		return c.cmdPosition(tokens[1:])
	case "go":
		return c.cmdGo(tokens[1:])
	case "stop":
		return c.cmdStop()
	case "quit":
		return ErrQuit
	default:
		return errStatus(FamilyConfig, "unknown_command")
	}
}

func (c *Console) cmdSetOptions(args []string) error {
	if len(args) < 2 {
		return errStatus(FamilyConfig, "missing_value")
	}
	key, rest := args[0], args[1:]
	switch key {
	case "lexicon", "lex":
		c.cfg.Set(config.ConfigDefaultLexicon, strings.ToUpper(rest[0]))
		if len(rest) > 1 {
			c.cfg.Set(config.ConfigDefaultLetterDistribution, rest[1])
		}
	case "threads":
		n, err := strconv.Atoi(rest[0])
		if err != nil || n < 1 {
			return errStatus(FamilyConfig, "malformed_numeric_value")
		}
		c.cfg.Set(config.ConfigDefaultThreads, n)
	case "boardlayout":
		c.cfg.Set(config.ConfigDefaultBoardLayout, rest[0])
	default:
		return errStatus(FamilyConfig, "unknown_arg")
	}
	c.printf("setoptions ok\n")
	return nil
}

func (c *Console) cmdPosition(args []string) error {
	if len(args) < 2 || args[0] != "cgp" {
		return errStatus(FamilyConfig, "unknown_arg")
	}
	c.mu.Lock()
	rules := c.rules
	c.mu.Unlock()
	if rules == nil {
		return errStatus(FamilyConfig, "lexicon_not_loaded")
	}

	cgpStr := strings.Join(args[1:], " ")
	g, err := game.ParseCGP(rules, cgpStr)
	if err != nil {
		return errStatus(FamilyCGP, err.Error())
	}
	c.mu.Lock()
	c.g = g
	c.mu.Unlock()
	c.printf("position ok\n")
	return nil
}

func (c *Console) cmdStop() error {
	c.searchMu.Lock()
	cancel := c.cancel
	c.searchMu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

func (c *Console) snapshot() (*game.Game, *game.Rules, *klv.KLV, *montecarlo.WinPct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g, c.rules, c.lv, c.winPct
}

func (c *Console) cmdGo(args []string) error {
	if len(args) == 0 {
		return errStatus(FamilyConfig, "missing_value")
	}
	verb, rest := args[0], args[1:]

	g, rules, lv, winPct := c.snapshot()
	if g == nil || lv == nil {
		return errStatus(FamilyConfig, "position_not_loaded")
	}

	switch verb {
	case "static":
		return c.goStatic(g, rules, lv)
	case "sim":
		return c.goSim(g, lv, winPct, rest)
	case "infer":
		return c.goInfer(g, lv, rest)
	case "autoplay":
		// ported from autoplay.c, left unimplemented per spec's open
		// question: recognized but always refused.
		return errStatus(FamilySearch, "not_implemented")
	default:
		return errStatus(FamilyConfig, "unknown_arg")
	}
}

func (c *Console) goStatic(g *game.Game, rules *game.Rules, lv *klv.KLV) error {
	gen := movegen.New(g.Board(), rules.WordGraph(), lv, rules.LetterDistribution(), g.Bag())
	onTurn := g.OnTurnIndex()
	list := gen.Generate(g.Player(onTurn).Rack, g.Player(1-onTurn).Rack, true, move.RecordAll)
	list.Sort()

	dist := rules.LetterDistribution()
	for _, m := range list.Moves() {
		c.printf("move %s\n", describeMove(m, dist))
	}
	return nil
}

func (c *Console) goInfer(g *game.Game, lv *klv.KLV, args []string) error {
	if len(args) < 2 {
		return errStatus(FamilyConfig, "missing_value")
	}
	dist := g.Rules().LetterDistribution()
	tiles, err := dist.StringToLetters(args[0])
	if err != nil {
		return errStatus(FamilyConfig, "malformed_rack")
	}
	score, err := strconv.Atoi(args[1])
	if err != nil {
		return errStatus(FamilyConfig, "malformed_numeric_value")
	}
	margin := 0.0
	if len(args) > 2 {
		margin, err = strconv.ParseFloat(args[2], 64)
		if err != nil {
			return errStatus(FamilyConfig, "malformed_numeric_value")
		}
	}

	res, err := inference.Infer(g, lv, tiles, false, score, margin)
	if err != nil {
		return err
	}
	c.printf("inference_status %s\n", res.Status)
	c.printf("total_possible_draws %d\n", res.TotalPossibleDraws)
	for _, l := range res.Leaves {
		c.printf("leave %s ways=%d value=%.2f\n", tilesString(dist, l.Tiles), l.Ways, l.LeaveValue)
	}
	return nil
}

func (c *Console) goSim(g *game.Game, lv *klv.KLV, winPct *montecarlo.WinPct, args []string) error {
	if winPct == nil {
		return errStatus(FamilyConfig, "winpct_not_loaded")
	}
	cfg := montecarlo.Config{Plies: 2, Threads: c.cfg.GetInt(config.ConfigDefaultThreads), CheckInterval: 0}
	if err := parseSimArgs(&cfg, args); err != nil {
		return err
	}

	rules := g.Rules()
	gen := movegen.New(g.Board(), rules.WordGraph(), lv, rules.LetterDistribution(), g.Bag())
	onTurn := g.OnTurnIndex()
	list := gen.Generate(g.Player(onTurn).Rack, g.Player(1-onTurn).Rack, true, move.RecordAll)
	list.Sort()
	candidates := list.TopN(20)

	sim := montecarlo.NewSimulator(g.Clone(), lv, winPct, candidates, cfg)

	c.searchMu.Lock()
	if c.running {
		c.searchMu.Unlock()
		return errStatus(FamilySearch, "search_already_running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.running = true
	c.searchMu.Unlock()

	err := sim.Run(ctx)

	c.searchMu.Lock()
	c.running = false
	c.cancel = nil
	c.searchMu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("simulation run failed")
		return errStatus(FamilySearch, "internal_error")
	}

	dist := rules.LetterDistribution()
	for _, sp := range sim.Plays() {
		winStat := sp.WinPctStat()
		c.printf("info currmove %s winpct=%.4f equity=%.3f iterations=%d\n",
			describeMove(sp.Move(), dist), winStat.Mean(), sp.EquityStat().Mean(), winStat.Cardinality())
	}
	c.printf("sim_status %s\n", sim.Status())
	return nil
}

func parseSimArgs(cfg *montecarlo.Config, args []string) error {
	for i := 0; i+1 < len(args); i += 2 {
		key, val := args[i], args[i+1]
		var err error
		switch key {
		case "plies":
			cfg.Plies, err = strconv.Atoi(val)
		case "threads":
			cfg.Threads, err = strconv.Atoi(val)
		case "maxiterations":
			cfg.MaxIterations, err = strconv.Atoi(val)
		case "checkinterval":
			cfg.CheckInterval, err = strconv.Atoi(val)
		case "stop":
			switch val {
			case "95":
				cfg.Stop = montecarlo.Stop95
			case "98":
				cfg.Stop = montecarlo.Stop98
			case "99":
				cfg.Stop = montecarlo.Stop99
			case "none":
				cfg.Stop = montecarlo.StopNone
			default:
				return errStatus(FamilyConfig, "malformed_numeric_value")
			}
		default:
			return errStatus(FamilyConfig, "unknown_arg")
		}
		if err != nil {
			return errStatus(FamilyConfig, "malformed_numeric_value")
		}
	}
	return nil
}

// describeMove renders a move the way a human console line does: type,
// board position (if any), tiles, and equity.
func describeMove(m *move.Move, dist *tilemapping.LetterDistribution) string {
	switch m.Action() {
	case move.TypePass:
		return fmt.Sprintf("pass leave=%s equity=%.2f", tilesString(dist, m.Leave()), m.Equity())
	case move.TypeExchange:
		return fmt.Sprintf("exchange %s leave=%s equity=%.2f",
			tilesString(dist, m.Tiles()), tilesString(dist, m.Leave()), m.Equity())
	default:
		return fmt.Sprintf("%s %s score=%d equity=%.2f",
			m.BoardCoords(), tilesString(dist, m.Tiles()), m.Score(), m.Equity())
	}
}

func tilesString(dist *tilemapping.LetterDistribution, w tilemapping.MachineWord) string {
	var sb strings.Builder
	for _, ml := range w {
		if ml == tilemapping.PlayedThroughMarker {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(dist.LetterToString(ml))
	}
	return sb.String()
}

// RunInteractive drives the console from an interactive readline front
// end, printing output to out until EOF, an I/O error, or a quit line.
func (c *Console) RunInteractive(rl interface{ Readline() (string, error) }) error {
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if dispatchErr := c.Dispatch(line); dispatchErr != nil {
			if dispatchErr == ErrQuit {
				return nil
			}
			c.printf("error_status %v\n", dispatchErr)
		}
	}
}
