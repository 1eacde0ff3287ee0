package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crosswordlabs/wordcraft/config"
	"github.com/crosswordlabs/wordcraft/movegen"
)

func TestLoadAppliesDefaults(t *testing.T) {
	var cfg config.Config
	if err := cfg.Load(nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetString(config.ConfigDefaultLexicon) != "NWL20" {
		t.Fatalf("default lexicon = %q, want NWL20", cfg.GetString(config.ConfigDefaultLexicon))
	}
	if cfg.GetInt(config.ConfigDefaultThreads) != 4 {
		t.Fatalf("default threads = %d, want 4", cfg.GetInt(config.ConfigDefaultThreads))
	}
}

func TestSetOverridesLiveValue(t *testing.T) {
	var cfg config.Config
	if err := cfg.Load(nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Set(config.ConfigDefaultLexicon, "CSW21")
	if got := cfg.GetString(config.ConfigDefaultLexicon); got != "CSW21" {
		t.Fatalf("GetString after Set = %q, want CSW21", got)
	}
}

func TestFetchRemoteProfileRetriesAndWrites(t *testing.T) {
	attempts := 0
	fetch := func() ([]byte, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("transient failure")
		}
		return []byte("default-lexicon: CSW21\n"), nil
	}

	dest := t.TempDir() + "/config.yaml"
	if err := config.FetchRemoteProfile(fetch, dest); err != nil {
		t.Fatalf("FetchRemoteProfile: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2 (one failure then a success)", attempts)
	}
}

func TestFetchRemoteProfileGivesUpAfterExhaustingRetries(t *testing.T) {
	fetch := func() ([]byte, error) { return nil, errors.New("permanent failure") }
	dest := t.TempDir() + "/config.yaml"
	if err := config.FetchRemoteProfile(fetch, dest); err == nil {
		t.Fatalf("expected an error once retries are exhausted")
	}
}

func TestLoadPegProfileParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quackle.yaml")
	body := "values: [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	values, err := config.LoadPegProfile(path)
	if err != nil {
		t.Fatalf("LoadPegProfile: %v", err)
	}
	var want [movegen.PegTableLen]float64
	for i := range want {
		want[i] = float64(i + 1)
	}
	if values != want {
		t.Fatalf("values = %v, want %v", values, want)
	}
}

func TestLoadPegProfileMissingFileErrors(t *testing.T) {
	if _, err := config.LoadPegProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing profile file")
	}
}
