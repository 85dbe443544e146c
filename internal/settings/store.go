// Package settings resolves stitch settings from named profiles, the
// environment and command line flags.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/maruel/natural"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"smartstitch/internal/stitcher"
)

// DefaultProfile always exists and cannot be deleted.
const DefaultProfile = "Default"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrDeleteDefault   = errors.New("cannot delete the Default profile")
)

// FileConfig is the on-disk layout of the config file.
type FileConfig struct {
	CurrentProfile string             `toml:"current_profile"`
	Profiles       map[string]Profile `toml:"profiles"`
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		CurrentProfile: DefaultProfile,
		Profiles: map[string]Profile{
			DefaultProfile: ProfileFromSettings(stitcher.DefaultSettings()),
		},
	}
}

// DefaultConfigPath returns ~/.smartstitch/config.toml if the user home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".smartstitch", "config.toml")
	}
	return ""
}

// Store holds the profile file in memory and writes every change through
// to disk. It is safe for concurrent use.
type Store struct {
	path string
	log  zerolog.Logger

	mu  sync.Mutex
	cfg FileConfig
}

// Open loads the config file at path. A missing or unreadable file is
// replaced by a fresh one holding only the Default profile.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("no config path")
	}
	st := &Store{path: path, log: log}

	b, err := os.ReadFile(path)
	if err == nil {
		var fc FileConfig
		if err = toml.Unmarshal(b, &fc); err == nil {
			st.cfg = fc
			st.repair()
			return st, nil
		}
		log.Warn().Err(err).Str("path", path).Msg("config file is corrupt, recreating")
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("config file unreadable, recreating")
	}

	st.cfg = defaultFileConfig()
	if err := st.flush(); err != nil {
		return nil, err
	}
	return st, nil
}

// repair restores the Default profile and a valid current profile.
func (st *Store) repair() {
	if st.cfg.Profiles == nil {
		st.cfg.Profiles = map[string]Profile{}
	}
	if _, ok := st.cfg.Profiles[DefaultProfile]; !ok {
		st.cfg.Profiles[DefaultProfile] = ProfileFromSettings(stitcher.DefaultSettings())
	}
	if _, ok := st.cfg.Profiles[st.cfg.CurrentProfile]; !ok {
		st.cfg.CurrentProfile = DefaultProfile
	}
}

// Path is the file the store writes to.
func (st *Store) Path() string { return st.path }

// Names lists the stored profiles in natural order.
func (st *Store) Names() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	names := make([]string, 0, len(st.cfg.Profiles))
	for name := range st.cfg.Profiles {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// Current returns the name of the selected profile.
func (st *Store) Current() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cfg.CurrentProfile
}

// Get returns the named profile.
func (st *Store) Get(name string) (Profile, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.cfg.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, nil
}

// Save stores p under name and makes it the current profile.
func (st *Store) Save(name string, p Profile) error {
	if name == "" {
		return errors.New("profile name is required")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cfg.Profiles[name] = p
	st.cfg.CurrentProfile = name
	return st.flush()
}

// Delete removes a profile. Deleting the current profile selects Default.
func (st *Store) Delete(name string) error {
	if name == DefaultProfile {
		return ErrDeleteDefault
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.cfg.Profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	delete(st.cfg.Profiles, name)
	if st.cfg.CurrentProfile == name {
		st.cfg.CurrentProfile = DefaultProfile
	}
	return st.flush()
}

// SetCurrent selects an existing profile.
func (st *Store) SetCurrent(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.cfg.Profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	st.cfg.CurrentProfile = name
	return st.flush()
}

// flush writes the config through a temp file in the same directory.
func (st *Store) flush() error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(st.cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), st.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	st.log.Debug().Str("path", st.path).Str("current", st.cfg.CurrentProfile).Msg("config saved")
	return nil
}
