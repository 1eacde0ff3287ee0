package montecarlo

import (
	"sync"

	"github.com/crosswordlabs/wordcraft/move"
)

// SimmedPlay carries one candidate play through the simulation, plus its
// incrementally-updated statistics: win percentage, equity, leftover leave,
// main-move bingo rate, and per-ply score/bingo stats (spec §4.F).
type SimmedPlay struct {
	move *move.Move

	mu sync.Mutex

	winPct   Stat
	equity   Stat
	leftover Stat

	scorePerPly []Stat
	bingoPerPly []Stat

	// ignore is set once a play is eliminated by the stopping rule and never
	// cleared; readers may observe it without holding mu (spec §5: a stale
	// read is tolerated, writes are serialized under mu).
	ignore bool
}

// NewSimmedPlay wraps m for simulation over the given number of plies.
func NewSimmedPlay(m *move.Move, plies int) *SimmedPlay {
	return &SimmedPlay{
		move:        m,
		scorePerPly: make([]Stat, plies),
		bingoPerPly: make([]Stat, plies),
	}
}

func (sp *SimmedPlay) Move() *move.Move { return sp.move }

// Ignored reports whether the stopping rule has eliminated this play. Safe
// to call without holding sp's mutex.
func (sp *SimmedPlay) Ignored() bool { return sp.ignore }

// recordPly pushes one ply's score/bingo observation into the per-ply
// stats; mu must be held by the caller (see recordIteration).
func (sp *SimmedPlay) recordPly(ply, score int, bingo bool) {
	b := 0.0
	if bingo {
		b = 1.0
	}
	sp.scorePerPly[ply].Push(float64(score), 1)
	sp.bingoPerPly[ply].Push(b, 1)
}

// recordIteration locks sp's mutex once and pushes every statistic gathered
// from a single simulation iteration's playout of this candidate (spec §5:
// "a mutex guards its statistics... always on one play at a time").
func (sp *SimmedPlay) recordIteration(plyScores []int, plyBingos []bool, spreadDelta, leftover, winPct float64) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for i, s := range plyScores {
		sp.recordPly(i, s, plyBingos[i])
	}
	sp.equity.Push(spreadDelta+leftover, 1)
	sp.leftover.Push(leftover, 1)
	sp.winPct.Push(winPct, 1)
}

// snapshot copies out the current stats under lock, for the stopping rule
// to read a mutually consistent view (spec §5: thread 0 "takes each play's
// mutex in index order, snapshots the stats, releases, and computes").
func (sp *SimmedPlay) snapshot() (winPct, equity Stat) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.winPct, sp.equity
}

func (sp *SimmedPlay) setIgnore() {
	sp.mu.Lock()
	sp.ignore = true
	sp.mu.Unlock()
}

// WinPctStat and EquityStat expose read-only copies of the accumulated
// statistics, e.g. for console reporting once a simulation has halted.
func (sp *SimmedPlay) WinPctStat() Stat {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.winPct
}

func (sp *SimmedPlay) EquityStat() Stat {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.equity
}

func (sp *SimmedPlay) LeftoverStat() Stat {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.leftover
}
