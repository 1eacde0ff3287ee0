package gcgio

import (
	"fmt"
	"strings"

	"github.com/crosswordlabs/wordcraft/move"
)

// GameHistoryToGCG renders h back into GCG text.
func GameHistoryToGCG(h *History) (string, error) {
	var sb strings.Builder
	writeHeader(&sb, h)
	for _, turn := range h.Turns {
		if err := writeTurn(&sb, turn); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func writeHeader(sb *strings.Builder, h *History) {
	for _, p := range h.Players {
		fmt.Fprintf(sb, "#player%d %s %s\n", playerNumber(h, p), p.Nickname, p.RealName)
	}
	if h.Title != "" {
		fmt.Fprintf(sb, "#title %s\n", h.Title)
	}
	if h.Description != "" {
		fmt.Fprintf(sb, "#description %s\n", h.Description)
	}
	if h.IDAuth != "" || h.UID != "" {
		fmt.Fprintf(sb, "#id %s %s\n", h.IDAuth, h.UID)
	}
	if h.Lexicon != "" {
		fmt.Fprintf(sb, "#lexicon %s\n", h.Lexicon)
	}
}

func playerNumber(h *History, p *PlayerInfo) int {
	for i, q := range h.Players {
		if q == p {
			return i + 1
		}
	}
	return 0
}

func writeTurn(sb *strings.Builder, turn *Turn) error {
	for _, evt := range turn.Events {
		if err := writeEvent(sb, evt); err != nil {
			return err
		}
	}
	return nil
}

func writeEvent(sb *strings.Builder, evt *Event) error {
	switch evt.Type {
	case EventTilePlacement:
		pos := move.ToBoardGameCoords(evt.Row, evt.Col, evt.Vertical)
		fmt.Fprintf(sb, ">%s: %s %s %s +%d %d\n", evt.Nickname, evt.Rack, pos, evt.PlayedTiles, evt.Score, evt.Cumulative)
	case EventPass:
		fmt.Fprintf(sb, ">%s: %s - +0 %d\n", evt.Nickname, evt.Rack, evt.Cumulative)
	case EventExchange:
		fmt.Fprintf(sb, ">%s: %s -%s +0 %d\n", evt.Nickname, evt.Rack, evt.Exchanged, evt.Cumulative)
	case EventPhonyTilesReturned:
		fmt.Fprintf(sb, ">%s: %s -- -%d %d\n", evt.Nickname, evt.Rack, evt.LostScore, evt.Cumulative)
	case EventChallengeBonus:
		fmt.Fprintf(sb, ">%s: %s (challenge) +%d %d\n", evt.Nickname, evt.Rack, evt.Bonus, evt.Cumulative)
	case EventEndRackPoints:
		fmt.Fprintf(sb, ">%s: (%s) +%d %d\n", evt.Nickname, evt.Rack, evt.EndRackPoints, evt.Cumulative)
	case EventTimePenalty:
		fmt.Fprintf(sb, ">%s: %s (time) -%d %d\n", evt.Nickname, evt.Rack, evt.LostScore, evt.Cumulative)
	case EventEndRackPenalty:
		fmt.Fprintf(sb, ">%s: %s (%s) -%d %d\n", evt.Nickname, evt.Rack, evt.Rack, evt.LostScore, evt.Cumulative)
	default:
		return fmt.Errorf("unwritable event type %d", evt.Type)
	}
	if evt.Note != "" {
		fmt.Fprintf(sb, "#note %s\n", evt.Note)
	}
	return nil
}
