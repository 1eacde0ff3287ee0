package tilemapping

import (
	"errors"

	"lukechampine.com/frand"
)

// ErrEmptyBag is returned when a draw is attempted against an empty bag.
var ErrEmptyBag = errors.New("bag is empty")

// Bag is an array of machine letters sized to the distribution's total tile
// count, drawn from with a swap-to-end strategy so that "remove the last N"
// and "draw randomly" share one representation. Every Bag owns its own
// frand.RNG so that simulator worker threads can be seeded independently
// and deterministically (config seed + thread index) without contending on
// a shared generator.
type Bag struct {
	tiles []MachineLetter
	dist  *LetterDistribution
	rng   *frand.RNG
}

// NewBag creates a fresh, full, shuffled bag from dist using rng. Pass
// nil for rng to use the package's fast global CSPRNG.
func NewBag(dist *LetterDistribution, rng *frand.RNG) *Bag {
	b := &Bag{dist: dist, rng: rng}
	b.Refill()
	return b
}

func (b *Bag) shuffle() {
	if b.rng != nil {
		b.rng.Shuffle(len(b.tiles), func(i, j int) {
			b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
		})
		return
	}
	frand.Shuffle(len(b.tiles), func(i, j int) {
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	})
}

func (b *Bag) intn(n int) int {
	if n <= 0 {
		return 0
	}
	if b.rng != nil {
		return b.rng.Intn(n)
	}
	return frand.Intn(n)
}

// Refill resets the bag to its full, shuffled starting contents.
func (b *Bag) Refill() {
	b.tiles = b.tiles[:0]
	for ml := MachineLetter(0); int(ml) <= b.dist.Size(); ml++ {
		n := b.dist.Count(ml)
		for i := 0; i < n; i++ {
			b.tiles = append(b.tiles, ml)
		}
	}
	b.shuffle()
}

// TilesRemaining returns the number of tiles currently in the bag.
func (b *Bag) TilesRemaining() int {
	return len(b.tiles)
}

// Peek returns the bag's current contents without modifying it. Callers
// must not mutate the returned slice.
func (b *Bag) Peek() []MachineLetter {
	return b.tiles
}

// Draw removes n random tiles from the bag. It errors if fewer than n
// tiles remain; a correct implementation never drains a bag below zero
// (§7 family 3), so callers should check TilesRemaining first when that
// matters for game logic rather than relying on this error.
func (b *Bag) Draw(n int) ([]MachineLetter, error) {
	if n > len(b.tiles) {
		return nil, ErrEmptyBag
	}
	out := make([]MachineLetter, n)
	for i := 0; i < n; i++ {
		idx := b.intn(len(b.tiles))
		out[i] = b.tiles[idx]
		last := len(b.tiles) - 1
		b.tiles[idx] = b.tiles[last]
		b.tiles = b.tiles[:last]
	}
	return out, nil
}

// DrawAtMost draws up to n tiles, drawing fewer if the bag runs out.
func (b *Bag) DrawAtMost(n int) []MachineLetter {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	out, _ := b.Draw(n)
	return out
}

// Exchange draws len(tiles) fresh tiles and returns the given tiles to the
// bag at random positions, as if a player exchanged their rack.
func (b *Bag) Exchange(tiles []MachineLetter) ([]MachineLetter, error) {
	newTiles, err := b.Draw(len(tiles))
	if err != nil {
		return nil, err
	}
	for _, t := range tiles {
		b.AddTile(t)
	}
	return newTiles, nil
}

// AddTile inserts a single (always unmarked) tile back into the bag at a
// random position. Designated blanks must be unmarked by the caller before
// returning them to the bag.
func (b *Bag) AddTile(ml MachineLetter) {
	ml = Unblanked(ml)
	idx := b.intn(len(b.tiles) + 1)
	b.tiles = append(b.tiles, 0)
	copy(b.tiles[idx+1:], b.tiles[idx:len(b.tiles)-1])
	b.tiles[idx] = ml
}

// RemoveTiles removes a specific sequence of tiles from the bag (used when
// replaying a known, fixed opening from a CGP fixture). It returns an error
// if any requested tile isn't present, a programming-invariant violation
// that should never occur in a correct caller.
func (b *Bag) RemoveTiles(tiles []MachineLetter) error {
	for _, want := range tiles {
		found := false
		for i, have := range b.tiles {
			if have == want {
				last := len(b.tiles) - 1
				b.tiles[i] = b.tiles[last]
				b.tiles = b.tiles[:last]
				found = true
				break
			}
		}
		if !found {
			return errors.New("tile not found in bag")
		}
	}
	return nil
}

// Copy returns a copy of the bag with its own tile slice, sharing the
// distribution pointer and the RNG pointer with the original.
func (b *Bag) Copy() *Bag {
	return &Bag{
		tiles: append([]MachineLetter(nil), b.tiles...),
		dist:  b.dist,
		rng:   b.rng,
	}
}

// CopyFrom overwrites b's contents with other's tiles, without allocating
// a new backing array when capacity allows. This is the O(1)-amortized
// backup/restore primitive the game and simulator rely on.
func (b *Bag) CopyFrom(other *Bag) {
	b.tiles = append(b.tiles[:0], other.tiles...)
}
