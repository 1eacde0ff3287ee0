package game

import (
	"github.com/google/uuid"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/move"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// EndReason records why a game has ended, or that it hasn't.
type EndReason int

const (
	EndReasonNone EndReason = iota
	EndReasonStandard
	EndReasonConsecutiveZeros
)

// Player is one side's mutable per-game state.
type Player struct {
	Name  string
	Rack  *tilemapping.Rack
	Score int
}

// Game is a playable position: the board, bag, two players, whose turn it
// is, and end-of-game bookkeeping (spec §4.A).
type Game struct {
	rules *Rules
	uid   string

	board *board.GameBoard
	bag   *tilemapping.Bag

	players          [2]*Player
	onTurn           int
	scorelessTurns   int
	endReason        EndReason
}

// NewGame builds a fresh game from rules: an empty board, a full bag, and
// two empty-racked players drawn to full from the bag.
func NewGame(rules *Rules, bag *tilemapping.Bag, p0Name, p1Name string) *Game {
	g := &Game{
		rules: rules,
		uid:   uuid.New().String(),
		board: rules.NewBoard(),
		bag:   bag,
		players: [2]*Player{
			{Name: p0Name, Rack: tilemapping.NewRack(rules.dist)},
			{Name: p1Name, Rack: tilemapping.NewRack(rules.dist)},
		},
	}
	for _, p := range g.players {
		tiles := g.bag.DrawAtMost(RackSize)
		for _, t := range tiles {
			p.Rack.Add(t)
		}
	}
	g.board.UpdateAllAnchors()
	return g
}

// RackSize is the number of tiles a full rack holds.
const RackSize = 7

func (g *Game) Rules() *Rules                     { return g.rules }
func (g *Game) UID() string                       { return g.uid }
func (g *Game) Board() *board.GameBoard           { return g.board }
func (g *Game) Bag() *tilemapping.Bag             { return g.bag }
func (g *Game) Player(i int) *Player              { return g.players[i] }
func (g *Game) PlayerOnTurn() *Player             { return g.players[g.onTurn] }
func (g *Game) OpponentOfOnTurn() *Player         { return g.players[1-g.onTurn] }
func (g *Game) OnTurnIndex() int                  { return g.onTurn }
func (g *Game) ScorelessTurns() int                { return g.scorelessTurns }
func (g *Game) EndReason() EndReason               { return g.endReason }
func (g *Game) IsOver() bool                       { return g.endReason != EndReasonNone }

// SetPlayerOnTurn forces whose turn it is, used when loading a CGP position.
func (g *Game) SetPlayerOnTurn(i int) { g.onTurn = i }

// TilesUnseen is the number of tiles neither on the board nor on the
// analyzing player's own rack: bag tiles plus the opponent's rack, the
// quantity the win-percentage table indexes by (spec §4.F).
func (g *Game) TilesUnseen(analyzingPlayer int) int {
	return g.bag.TilesRemaining() + g.players[1-analyzingPlayer].Rack.NumTiles()
}

// PlayMove applies m as the player on turn's play, mutating the board, bag,
// racks, scores, turn, and end-of-game state (ported from play_move).
func (g *Game) PlayMove(m *move.Move) {
	cur := g.players[g.onTurn]
	switch m.Action() {
	case move.TypePlay:
		g.playOnBoard(m, cur)
		g.scorelessTurns = 0
		cur.Score += m.Score()
		tiles := g.bag.DrawAtMost(m.TilesPlayed())
		for _, t := range tiles {
			cur.Rack.Add(t)
		}
		if cur.Rack.Empty() {
			g.standardEndOfGame(cur)
		}
	case move.TypePass:
		g.scorelessTurns++
	case move.TypeExchange:
		g.executeExchange(m, cur)
		g.scorelessTurns++
	}

	if g.scorelessTurns == MaxScorelessTurns {
		for _, p := range g.players {
			p.Score -= p.Rack.ScoreOnRack()
		}
		g.endReason = EndReasonConsecutiveZeros
	}

	if g.endReason == EndReasonNone {
		g.onTurn = 1 - g.onTurn
	}
}

func (g *Game) playOnBoard(m *move.Move, cur *Player) {
	tiles := m.Tiles()
	placed := g.board.PlaceWord(tiles, 0, len(tiles)-1, m.RowStart(), m.ColStart(), dirOf(m))
	for _, rc := range placed {
		ml := g.board.Letter(rc[0], rc[1])
		if tilemapping.IsBlanked(ml) {
			// The rack holds an undesignated blank as machine letter 0,
			// regardless of which letter it was designated to play as.
			ml = 0
		}
		cur.Rack.Take(ml)
	}
	g.board.UpdateCrossSetsForPlacement(placed, g.rules.graph, g.rules.dist)
}

func (g *Game) executeExchange(m *move.Move, cur *Player) {
	tiles := m.Tiles()
	for _, t := range tiles {
		cur.Rack.Take(t)
	}
	drawn := g.bag.DrawAtMost(len(tiles))
	for _, t := range drawn {
		cur.Rack.Add(t)
	}
	for _, t := range tiles {
		g.bag.AddTile(t)
	}
}

func (g *Game) standardEndOfGame(cur *Player) {
	opp := g.players[1-g.onTurn]
	cur.Score += 2 * opp.Rack.ScoreOnRack()
	g.endReason = EndReasonStandard
}

func dirOf(m *move.Move) board.Direction {
	if m.Vertical() {
		return board.Vertical
	}
	return board.Horizontal
}

// Clone returns an independent game with the same rules (shared by
// reference, since rules are immutable) and an independent copy of every
// mutable field, for handing each simulator worker thread its own
// game-clone (spec §5: "per-thread game-clones are created in prepare").
func (g *Game) Clone() *Game {
	return &Game{
		rules: g.rules,
		uid:   g.uid,
		board: g.board.Clone(),
		bag:   g.bag.Copy(),
		players: [2]*Player{
			{Name: g.players[0].Name, Rack: g.players[0].Rack.Copy(), Score: g.players[0].Score},
			{Name: g.players[1].Name, Rack: g.players[1].Rack.Copy(), Score: g.players[1].Score},
		},
		onTurn:         g.onTurn,
		scorelessTurns: g.scorelessTurns,
		endReason:      g.endReason,
	}
}

// Snapshot is a full, independent copy of everything PlayMove can mutate:
// exactly one backup slot suffices since no more than one rollback is
// needed per simulation iteration (spec §4.F, §5).
type Snapshot struct {
	board          *board.Snapshot
	bag            *tilemapping.Bag
	p0Rack         *tilemapping.Rack
	p1Rack         *tilemapping.Rack
	p0Score        int
	p1Score        int
	onTurn         int
	scorelessTurns int
	endReason      EndReason
}

// Backup captures the full game state for a later Restore.
func (g *Game) Backup() *Snapshot {
	return &Snapshot{
		board:          g.board.Backup(),
		bag:            g.bag.Copy(),
		p0Rack:         g.players[0].Rack.Copy(),
		p1Rack:         g.players[1].Rack.Copy(),
		p0Score:        g.players[0].Score,
		p1Score:        g.players[1].Score,
		onTurn:         g.onTurn,
		scorelessTurns: g.scorelessTurns,
		endReason:      g.endReason,
	}
}

// Restore overwrites the game's mutable state with a prior Backup, without
// reallocating the game itself.
func (g *Game) Restore(s *Snapshot) {
	g.board.Restore(s.board)
	g.bag.CopyFrom(s.bag)
	g.players[0].Rack.CopyFrom(s.p0Rack)
	g.players[1].Rack.CopyFrom(s.p1Rack)
	g.players[0].Score = s.p0Score
	g.players[1].Score = s.p1Score
	g.onTurn = s.onTurn
	g.scorelessTurns = s.scorelessTurns
	g.endReason = s.endReason
}
