package tilemapping

import (
	"testing"

	"github.com/matryer/is"
)

func TestBag(t *testing.T) {
	is := is.New(t)
	dist := EnglishDistribution()
	bag := NewBag(dist, nil)
	is.Equal(bag.TilesRemaining(), dist.TotalTiles())

	tileMap := make(map[MachineLetter]int)
	for bag.TilesRemaining() > 0 {
		tiles, err := bag.Draw(1)
		is.NoErr(err)
		tileMap[tiles[0]]++
	}
	for ml := MachineLetter(1); int(ml) <= dist.Size(); ml++ {
		is.Equal(tileMap[ml], dist.Count(ml))
	}
	_, err := bag.Draw(1)
	is.True(err != nil)
}

func TestDraw(t *testing.T) {
	is := is.New(t)
	dist := EnglishDistribution()
	bag := NewBag(dist, nil)

	letters, err := bag.Draw(7)
	is.NoErr(err)
	is.Equal(len(letters), 7)
	is.Equal(bag.TilesRemaining(), 93)
}

func TestDrawAtMost(t *testing.T) {
	is := is.New(t)
	dist := EnglishDistribution()
	bag := NewBag(dist, nil)

	for i := 0; i < 14; i++ {
		letters := bag.DrawAtMost(7)
		is.Equal(len(letters), 7)
	}
	is.Equal(bag.TilesRemaining(), 2)

	letters := bag.DrawAtMost(7)
	is.Equal(len(letters), 2)
	is.Equal(bag.TilesRemaining(), 0)

	letters = bag.DrawAtMost(7)
	is.Equal(len(letters), 0)
}

func TestExchange(t *testing.T) {
	is := is.New(t)
	dist := EnglishDistribution()
	bag := NewBag(dist, nil)

	letters, err := bag.Draw(7)
	is.NoErr(err)
	newLetters, err := bag.Exchange(letters[:5])
	is.NoErr(err)
	is.Equal(len(newLetters), 5)
	is.Equal(bag.TilesRemaining(), 93)
}

func TestCopyFrom(t *testing.T) {
	is := is.New(t)
	dist := EnglishDistribution()
	bag := NewBag(dist, nil)
	backup := bag.Copy()

	bag.Draw(20)
	is.Equal(bag.TilesRemaining(), 80)

	bag.CopyFrom(backup)
	is.Equal(bag.TilesRemaining(), 100)
}
