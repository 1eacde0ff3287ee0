package montecarlo

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/move"
	"github.com/crosswordlabs/wordcraft/movegen"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// cloneBudgetBytes estimates the memory footprint of one worker's
// game-clone plus its move-generation scratch space: generous enough that
// DefaultThreads stays conservative on small machines without needing an
// exact accounting.
const cloneBudgetBytes = 64 << 20

// DefaultThreads picks a worker count for a simulation run when the
// caller hasn't set one explicitly: the smaller of the machine's logical
// CPU count and how many per-thread game-clones available RAM can hold,
// floored at 1.
func DefaultThreads() int {
	byMemory := int(memory.TotalMemory() / cloneBudgetBytes)
	byCPU := runtime.NumCPU()
	threads := byCPU
	if byMemory < threads {
		threads = byMemory
	}
	if threads < 1 {
		threads = 1
	}
	return threads
}

// StopCondition selects the confidence level at which the stopping rule
// eliminates a challenger play, or StopNone to disable early stopping.
type StopCondition int

const (
	StopNone StopCondition = iota
	Stop95
	Stop98
	Stop99
)

func (s StopCondition) confidence() float64 {
	switch s {
	case Stop95:
		return 0.95
	case Stop98:
		return 0.98
	case Stop99:
		return 0.99
	default:
		return 0
	}
}

// StopStatus reports why a simulation run ended.
type StopStatus int

const (
	StatusRunning StopStatus = iota
	StatusMaxIterations
	StatusProbabilistic
	StatusUserInterrupt
)

func (s StopStatus) String() string {
	switch s {
	case StatusMaxIterations:
		return "MAX_ITERATIONS"
	case StatusProbabilistic:
		return "PROBABILISTIC"
	case StatusUserInterrupt:
		return "USER_INTERRUPT"
	default:
		return "RUNNING"
	}
}

// Config holds the parameters of one simulation run (spec §4.F contract).
type Config struct {
	Plies         int
	Threads       int
	MaxIterations int
	Stop          StopCondition
	CheckInterval int
	KnownOppRack  *tilemapping.Rack
}

// Simulator runs a multi-threaded Monte Carlo simulation of a set of
// candidate plays from a seed position, ranking them by simulated win
// percentage (spec §4.F, §5; ported from sim.c).
type Simulator struct {
	cfg Config

	seed   *game.Game
	lv     *klv.KLV
	winPct *WinPct

	plays []*SimmedPlay

	initialPlayer int
	initialSpread int

	iterations atomic.Int64
	halt       atomic.Bool
	status     StopStatus
}

// NewSimulator prepares a simulator over candidates, grounded on the
// original's prepare_simmer: it snapshots the seed position's player on
// turn and spread once, up front, since every iteration is scored relative
// to that fixed baseline.
func NewSimulator(seed *game.Game, lv *klv.KLV, winPct *WinPct, candidates []*move.Move, cfg Config) *Simulator {
	plays := make([]*SimmedPlay, len(candidates))
	for i, m := range candidates {
		plays[i] = NewSimmedPlay(m, cfg.Plies)
	}
	onTurn := seed.OnTurnIndex()
	return &Simulator{
		cfg:           cfg,
		seed:          seed,
		lv:            lv,
		winPct:        winPct,
		plays:         plays,
		initialPlayer: onTurn,
		initialSpread: seed.Player(onTurn).Score - seed.Player(1-onTurn).Score,
	}
}

// Plays returns the simmed plays in their original candidate order.
func (s *Simulator) Plays() []*SimmedPlay { return s.plays }

// Status reports why the most recent Run call returned.
func (s *Simulator) Status() StopStatus { return s.status }

// Iterations returns the number of completed iterations across all
// threads.
func (s *Simulator) Iterations() int64 { return s.iterations.Load() }

// Stop requests a clean halt; a running Run returns once its workers next
// poll the halt flag (spec §4.F cancellation, "external halt via
// thread-control").
func (s *Simulator) Stop() { s.halt.Store(true) }

// Run drives the worker pool until a stopping condition fires, the
// context is cancelled, or max iterations is reached (spec §4.F scheduling
// model). Each worker owns an independent game-clone and movegen.Generator;
// the shared state touched is limited to each SimmedPlay's own mutex, the
// atomic iteration counter, and the halt flag (spec §5).
func (s *Simulator) Run(ctx context.Context) error {
	if s.halt.Load() {
		// A prior Run already halted this simulator; calling again is a
		// no-op (spec §4.F: "the halt flag also makes it a no-op to call
		// simulate twice").
		return nil
	}
	s.status = StatusRunning

	threads := s.cfg.Threads
	if threads < 1 {
		threads = DefaultThreads()
	}

	workers := make([]*worker, threads)
	for i := range workers {
		workers[i] = newWorker(s, s.seed.Clone())
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		w := workers[i]
		g.Go(func() error {
			return w.run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if s.halt.Load() && s.status == StatusRunning {
		s.status = StatusUserInterrupt
	}
	log.Info().
		Int64("iterations", s.iterations.Load()).
		Str("status", s.status.String()).
		Msg("simulation halted")
	return nil
}

// worker is one simulation thread's private scratch state: its own
// game-clone and generator, neither of which is touched by any other
// worker (spec §5 "per-thread").
type worker struct {
	sim *Simulator
	gc  *game.Game
	gen *movegen.Generator
}

func newWorker(sim *Simulator, gc *game.Game) *worker {
	rules := gc.Rules()
	gen := movegen.New(gc.Board(), rules.WordGraph(), sim.lv, rules.LetterDistribution(), gc.Bag())
	return &worker{sim: sim, gc: gc, gen: gen}
}

func (w *worker) run(ctx context.Context) error {
	for {
		if w.sim.halt.Load() || ctx.Err() != nil {
			return nil
		}
		iter := w.sim.iterations.Add(1)
		if w.sim.cfg.MaxIterations > 0 && iter > int64(w.sim.cfg.MaxIterations) {
			w.sim.halt.Store(true)
			w.sim.status = StatusMaxIterations
			return nil
		}

		backup := w.gc.Backup()
		w.setRandomOppRack()

		for _, sp := range w.sim.plays {
			if sp.Ignored() {
				continue
			}
			if w.sim.halt.Load() {
				break
			}
			w.simOnePlay(sp)
		}

		w.gc.Restore(backup)

		if w.sim.cfg.CheckInterval > 0 && iter%int64(w.sim.cfg.CheckInterval) == 0 {
			if w.evaluateStoppingRule() {
				w.sim.halt.Store(true)
				w.sim.status = StatusProbabilistic
				return nil
			}
		}
	}
}

// setRandomOppRack throws the opponent's current rack tiles back into the
// bag, then redraws a fresh rack of the same size, holding fixed any
// letters from a known opponent rack (ported from set_random_rack:
// "throw in rack, shuffle, draw new tiles" — the shuffle is implicit here
// since Bag.Draw already selects uniformly at random).
func (w *worker) setRandomOppRack() {
	oppIdx := 1 - w.gc.OnTurnIndex()
	opp := w.gc.Player(oppIdx)
	n := opp.Rack.NumTiles()
	for _, ml := range opp.Rack.TilesOn() {
		w.gc.Bag().AddTile(ml)
	}
	opp.Rack.Set(nil)

	if known := w.sim.cfg.KnownOppRack; known != nil {
		for _, ml := range known.TilesOn() {
			if err := w.gc.Bag().RemoveTiles([]tilemapping.MachineLetter{ml}); err == nil {
				opp.Rack.Add(ml)
			}
		}
	}
	if remaining := n - opp.Rack.NumTiles(); remaining > 0 {
		for _, ml := range w.gc.Bag().DrawAtMost(remaining) {
			opp.Rack.Add(ml)
		}
	}
}

// simOnePlay applies one candidate, plays out the rest of the simulated
// game to the configured ply depth with top-equity moves, records the
// resulting stats on sp, and rolls the clone back to the state it had
// before this candidate was applied (spec §4.F step 4).
func (w *worker) simOnePlay(sp *SimmedPlay) {
	backup := w.gc.Backup()
	defer w.gc.Restore(backup)

	w.gc.PlayMove(sp.move)

	rules := w.gc.Rules()
	plyScores := make([]int, w.sim.cfg.Plies)
	plyBingos := make([]bool, w.sim.cfg.Plies)
	var leftover float64

	for ply := 0; ply < w.sim.cfg.Plies; ply++ {
		if w.gc.IsOver() || w.sim.halt.Load() {
			break
		}
		onTurn := w.gc.OnTurnIndex()
		mover := w.gc.Player(onTurn)
		oppRack := w.gc.Player(1 - onTurn).Rack

		list := w.gen.Generate(mover.Rack, oppRack, true, move.RecordBest)
		best := list.Best()
		if best == nil {
			break
		}

		w.gc.PlayMove(best)
		plyScores[ply] = best.Score()
		plyBingos[ply] = best.IsBingo()

		if ply == w.sim.cfg.Plies-2 || ply == w.sim.cfg.Plies-1 {
			leave := tilemapping.NewRack(rules.LetterDistribution())
			leave.Set(best.Leave())
			thisLeftover := w.sim.lv.LeaveValue(leave)
			if onTurn == w.sim.initialPlayer {
				leftover += thisLeftover
			} else {
				leftover -= thisLeftover
			}
		}
	}

	spread := w.gc.Player(w.sim.initialPlayer).Score - w.gc.Player(1-w.sim.initialPlayer).Score
	tilesUnseen := w.gc.TilesUnseen(w.sim.initialPlayer)
	winPct := w.computeWinPct(spread, leftover, tilesUnseen)

	sp.recordIteration(plyScores, plyBingos, float64(spread-w.sim.initialSpread), leftover, winPct)
}

// computeWinPct implements add_winpct_stat: an ended game uses the actual
// result; otherwise the table is looked up from the analyzing player's
// perspective, flipping for an even-ply sim (the opponent is on turn at
// the end).
func (w *worker) computeWinPct(spread int, leftover float64, tilesUnseen int) float64 {
	if w.gc.IsOver() {
		switch {
		case spread > 0:
			return 1.0
		case spread < 0:
			return 0.0
		default:
			return 0.5
		}
	}

	spreadPlusLeftover := spread + roundToNearestInt(leftover)
	pliesAreOdd := w.sim.cfg.Plies%2 != 0
	if !pliesAreOdd {
		spreadPlusLeftover = -spreadPlusLeftover
	}
	wpct := w.sim.winPct.Lookup(spreadPlusLeftover, tilesUnseen)
	if !pliesAreOdd {
		wpct = 1.0 - wpct
	}
	return wpct
}

func roundToNearestInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}

// evaluateStoppingRule implements the Welch two-sample Z-test stopping
// rule: sort by win-percentage mean descending, compare the top play
// against every non-ignored challenger, and mark a challenger ignored once
// its upper confidence bound falls below the top play's lower bound (spec
// §4.F "Stopping rule"). Runs on whichever worker lands on a check-interval
// boundary; concurrent callers are harmless since marking ignore is
// idempotent and mutex-guarded.
func (w *worker) evaluateStoppingRule() bool {
	confidence := w.sim.cfg.Stop.confidence()
	if confidence == 0 {
		return false
	}

	active := make([]*SimmedPlay, 0, len(w.sim.plays))
	for _, sp := range w.sim.plays {
		if !sp.Ignored() {
			active = append(active, sp)
		}
	}
	if len(active) <= 1 {
		return true
	}

	z := zValueFor(confidence)
	type snap struct {
		sp  *SimmedPlay
		win Stat
	}
	snaps := make([]snap, len(active))
	for i, sp := range active {
		win, _ := sp.snapshot()
		snaps[i] = snap{sp, win}
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].win.Mean() > snaps[j].win.Mean()
	})

	top := snaps[0]
	topLower := top.win.Mean() - top.win.StandardError(z)

	for _, s := range snaps[1:] {
		upper := s.win.Mean() + s.win.StandardError(z)
		if upper < topLower {
			s.sp.setIgnore()
		}
	}

	remaining := 0
	for _, sp := range w.sim.plays {
		if !sp.Ignored() {
			remaining++
		}
	}
	return remaining <= 1
}
