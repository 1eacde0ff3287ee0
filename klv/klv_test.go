package klv_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

func leave(dist *tilemapping.LetterDistribution, s string) tilemapping.MachineWord {
	mw, err := dist.StringToLetters(s)
	if err != nil {
		panic(err)
	}
	return mw
}

func TestLeaveValueExactMatch(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	entries := []klv.LeaveEntry{
		{Leave: leave(dist, "Q"), Value: -9.5},
		{Leave: leave(dist, "QI"), Value: 2.0},
		{Leave: leave(dist, "AEIOU"), Value: 3.25},
		{Leave: leave(dist, "S"), Value: 8.0},
	}
	lv := klv.Build("test", entries)

	r := tilemapping.NewRack(dist)
	q, _ := dist.TileMapping().MachineLetterFromRune('Q')
	r.Add(q)
	require.Equal(t, -9.5, lv.LeaveValue(r))

	r2 := tilemapping.NewRack(dist)
	s, _ := dist.TileMapping().MachineLetterFromRune('S')
	r2.Add(s)
	require.Equal(t, 8.0, lv.LeaveValue(r2))

	r3 := tilemapping.NewRack(dist)
	for _, r3letter := range leave(dist, "AEIOU") {
		r3.Add(r3letter)
	}
	require.Equal(t, 3.25, lv.LeaveValue(r3))
}

func TestLeaveValueEmptyRack(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	lv := klv.Build("test", []klv.LeaveEntry{{Leave: leave(dist, "Q"), Value: -9.5}})
	r := tilemapping.NewRack(dist)
	require.Zero(t, lv.LeaveValue(r))
}

func TestSaveLoadRoundTripsLeaveValues(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	entries := []klv.LeaveEntry{
		{Leave: leave(dist, "Q"), Value: -9.5},
		{Leave: leave(dist, "QI"), Value: 2.0},
		{Leave: leave(dist, "AEIOU"), Value: 3.25},
		{Leave: leave(dist, "S"), Value: 8.0},
	}
	lv := klv.Build("test", entries)

	var buf bytes.Buffer
	require.NoError(t, lv.Save(&buf))

	loaded, err := klv.Load(&buf, "test")
	require.NoError(t, err)

	r := tilemapping.NewRack(dist)
	q, _ := dist.TileMapping().MachineLetterFromRune('Q')
	r.Add(q)
	require.Equal(t, -9.5, loaded.LeaveValue(r))

	r2 := tilemapping.NewRack(dist)
	for _, l := range leave(dist, "AEIOU") {
		r2.Add(l)
	}
	require.Equal(t, 3.25, loaded.LeaveValue(r2))
}

func TestLeaveValueUnknownLeave(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	lv := klv.Build("test", []klv.LeaveEntry{{Leave: leave(dist, "Q"), Value: -9.5}})
	r := tilemapping.NewRack(dist)
	z, _ := dist.TileMapping().MachineLetterFromRune('Z')
	r.Add(z)
	require.Zero(t, lv.LeaveValue(r))
}
