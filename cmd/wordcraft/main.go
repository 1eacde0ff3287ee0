// Command wordcraft runs the line-oriented analysis console: load a
// lexicon and letter distribution, then read setoptions/position/go/stop/
// quit lines from stdin until quit or EOF (spec §6 Console protocol).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/config"
	"github.com/crosswordlabs/wordcraft/console"
	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/montecarlo"
	"github.com/crosswordlabs/wordcraft/tilemapping"
	"github.com/crosswordlabs/wordcraft/variant"
)

func main() {
	var cfg config.Config
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	out := os.Stdout
	c := console.New(&cfg, out)

	rules, err := loadDefaultRules(&cfg)
	if err != nil {
		log.Warn().Err(err).Msg("no lexicon loaded at startup; use setoptions then position cgp")
	} else {
		c.SetPosition(game.NewGame(rules, tilemapping.NewBag(rules.LetterDistribution(), nil), "p1", "p2"), rules)
		if lv, err := loadDefaultLeaves(&cfg, rules); err != nil {
			log.Warn().Err(err).Msg("no leave values loaded at startup")
		} else {
			c.SetLeaves(lv)
		}
		if wp, err := loadDefaultWinPct(&cfg); err == nil {
			c.SetWinPct(wp)
		}
	}

	rl, err := readline.New("wordcraft> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "starting readline:", err)
		os.Exit(1)
	}
	defer rl.Close()

	if err := c.RunInteractive(rl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDefaultRules(cfg *config.Config) (*game.Rules, error) {
	lexName := cfg.GetString(config.ConfigDefaultLexicon)
	path := filepath.Join(cfg.GetString(config.ConfigLexiconPath), lexName+".kwg")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon %s: %w", path, err)
	}
	defer f.Close()

	g, err := kwg.Load(f, lexName)
	if err != nil {
		return nil, fmt.Errorf("loading kwg: %w", err)
	}

	dist := tilemapping.EnglishDistribution()
	return game.NewRules(cfg.GetString(config.ConfigDefaultBoardLayout), board.CrosswordGameBoard,
		dist, g, &kwg.Lexicon{KWG: g}, variant.VarClassic)
}

func loadDefaultLeaves(cfg *config.Config, rules *game.Rules) (*klv.KLV, error) {
	lexName := cfg.GetString(config.ConfigDefaultLexicon)
	path := filepath.Join(cfg.GetString(config.ConfigLexiconPath), lexName+".klv2")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening leaves %s: %w", path, err)
	}
	defer f.Close()
	return klv.Load(f, lexName)
}

func loadDefaultWinPct(cfg *config.Config) (*montecarlo.WinPct, error) {
	path := filepath.Join(cfg.GetString(config.ConfigDataPath), "winpct.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening win-percentage table %s: %w", path, err)
	}
	defer f.Close()
	return montecarlo.LoadWinPct(f)
}
