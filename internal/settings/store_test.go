package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"smartstitch/internal/stitcher"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	st, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return st
}

func TestOpenCreatesDefaultProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	st := openStore(t, path)

	if st.Current() != DefaultProfile {
		t.Fatalf("current = %q, want Default", st.Current())
	}
	if got := st.Names(); !reflect.DeepEqual(got, []string{DefaultProfile}) {
		t.Fatalf("names = %v", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	p, err := st.Get(DefaultProfile)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	cfg := stitcher.Settings{}
	if err := ApplyProfile(&cfg, p, nil); err != nil {
		t.Fatalf("ApplyProfile: %v", err)
	}
	if !reflect.DeepEqual(cfg, stitcher.DefaultSettings()) {
		t.Fatalf("default profile = %+v, want %+v", cfg, stitcher.DefaultSettings())
	}
}

func TestOpenRecreatesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("current_profile = [[[ nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	st := openStore(t, path)
	if got := st.Names(); !reflect.DeepEqual(got, []string{DefaultProfile}) {
		t.Fatalf("names = %v", got)
	}

	// the recreated file must load cleanly
	again := openStore(t, path)
	if again.Current() != DefaultProfile {
		t.Fatalf("current after reload = %q", again.Current())
	}
}

func TestOpenRepairsMissingDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `current_profile = "gone"

[profiles.webtoon]
split_height = 8000
width_mode = "max"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	st := openStore(t, path)

	if st.Current() != DefaultProfile {
		t.Fatalf("current = %q, want Default", st.Current())
	}
	if got := st.Names(); !reflect.DeepEqual(got, []string{DefaultProfile, "webtoon"}) {
		t.Fatalf("names = %v", got)
	}

	p, err := st.Get("webtoon")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	cfg := stitcher.DefaultSettings()
	if err := ApplyProfile(&cfg, p, nil); err != nil {
		t.Fatalf("ApplyProfile: %v", err)
	}
	if cfg.SplitHeight != 8000 || cfg.WidthMode != stitcher.WidthMatchMax || cfg.Sensitivity != 90 {
		t.Fatalf("partial profile applied as %+v", cfg)
	}
}

func TestStoreProfileLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	st := openStore(t, path)

	s := stitcher.DefaultSettings()
	s.SplitHeight = 3000
	s.Sensitivity = 0
	s.Fill = stitcher.FillWhite
	if err := st.Save("chapter 10", ProfileFromSettings(s)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Save("chapter 2", ProfileFromSettings(stitcher.DefaultSettings())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if st.Current() != "chapter 2" {
		t.Fatalf("current = %q, want last saved", st.Current())
	}
	if err := st.SetCurrent("chapter 10"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	reloaded := openStore(t, path)
	want := []string{DefaultProfile, "chapter 2", "chapter 10"}
	if got := reloaded.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	if reloaded.Current() != "chapter 10" {
		t.Fatalf("current after reload = %q", reloaded.Current())
	}
	p, err := reloaded.Get("chapter 10")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got := stitcher.DefaultSettings()
	if err := ApplyProfile(&got, p, nil); err != nil {
		t.Fatalf("ApplyProfile: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip = %+v, want %+v", got, s)
	}

	if err := reloaded.Delete(DefaultProfile); !errors.Is(err, ErrDeleteDefault) {
		t.Fatalf("delete Default err = %v", err)
	}
	if err := reloaded.Delete("missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("delete missing err = %v", err)
	}
	if err := reloaded.Delete("chapter 10"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if reloaded.Current() != DefaultProfile {
		t.Fatalf("current after deleting it = %q, want Default", reloaded.Current())
	}
	if err := reloaded.SetCurrent("chapter 10"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("SetCurrent deleted err = %v", err)
	}
}
