package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ActionShell is the only action type with an execution strategy
const ActionShell = "shell"

// DefaultProfile is selected when no profile is named on the command line
const DefaultProfile = "general"

// EncoderAssignment links a continuous controller to one action
type EncoderAssignment struct {
	Action string `yaml:"action" toml:"action"`
}

// ButtonAssignment links a note to a press and a release action.
// Either may be empty, which means nothing happens on that transition.
type ButtonAssignment struct {
	DownAction string `yaml:"down_action" toml:"down_action"`
	UpAction   string `yaml:"up_action" toml:"up_action"`
}

// Profile is one complete set of assignments
type Profile struct {
	Encoders map[uint8]EncoderAssignment
	Buttons  map[uint8]ButtonAssignment

	// Unreachable holds keys outside 0-127. No event can carry them, so
	// they are dropped from the maps and only reported.
	Unreachable []string
}

// Empty reports whether the profile maps nothing at all
func (p Profile) Empty() bool {
	return len(p.Encoders) == 0 && len(p.Buttons) == 0
}

// Action is a named side effect. Cmd may hold a single {} placeholder
// that receives the scaled controller value.
type Action struct {
	Type string `yaml:"type" toml:"type"`
	Cmd  string `yaml:"cmd" toml:"cmd"`
}

// Config is the loaded document. It is never modified after Load.
type Config struct {
	Path       string
	MidiDevice string
	Profiles   map[string]Profile
	Actions    map[string]Action
}

// document mirrors the file layout. Keys of encoders/buttons are kept as
// strings here because TOML table keys always are.
type document struct {
	MidiDevice string                     `yaml:"midi_device" toml:"midi_device"`
	Profiles   map[string]profileDocument `yaml:"profiles" toml:"profiles"`
	Actions    map[string]Action          `yaml:"actions" toml:"actions"`
}

type profileDocument struct {
	Encoders map[string]EncoderAssignment `yaml:"encoders" toml:"encoders"`
	Buttons  map[string]ButtonAssignment  `yaml:"buttons" toml:"buttons"`
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midiauto"), nil
}

// DefaultPath returns the full path to config.yaml
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LegacyPath returns the single-file location used by older installs
func LegacyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pymidautorc"), nil
}

// FindPath returns the first config file that exists, checking
// config.yaml, config.toml and the legacy rc file in that order.
// When none exists the default path is returned so Load reports it.
func FindPath() (string, error) {
	def, err := DefaultPath()
	if err != nil {
		return "", err
	}
	candidates := []string{def, filepath.Join(filepath.Dir(def), "config.toml")}
	if legacy, err := LegacyPath(); err == nil {
		candidates = append(candidates, legacy)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return def, nil
}

// Load reads and validates the document at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigError{Path: path, Err: ErrNotFound}
		}
		return nil, &ConfigError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes data. The format follows the extension of path: .toml is
// TOML, everything else is YAML.
func Parse(path string, data []byte) (*Config, error) {
	var doc document
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
		}
	}

	if len(doc.Actions) == 0 {
		return nil, &ConfigError{Path: path, Err: ErrNoActions}
	}

	cfg := &Config{
		Path:       path,
		MidiDevice: doc.MidiDevice,
		Profiles:   make(map[string]Profile, len(doc.Profiles)),
		Actions:    doc.Actions,
	}
	for name, pd := range doc.Profiles {
		p, err := pd.build()
		if err != nil {
			return nil, &ConfigError{Path: path, Profile: name, Err: err}
		}
		cfg.Profiles[name] = p
	}
	return cfg, nil
}

func (pd profileDocument) build() (Profile, error) {
	p := Profile{
		Encoders: make(map[uint8]EncoderAssignment, len(pd.Encoders)),
		Buttons:  make(map[uint8]ButtonAssignment, len(pd.Buttons)),
	}
	for key, a := range pd.Encoders {
		id, ok, err := parseID(key)
		if err != nil {
			return Profile{}, err
		}
		if !ok {
			p.Unreachable = append(p.Unreachable, fmt.Sprintf("encoder %s: control id out of range 0-127", key))
			continue
		}
		p.Encoders[id] = a
	}
	for key, a := range pd.Buttons {
		id, ok, err := parseID(key)
		if err != nil {
			return Profile{}, err
		}
		if !ok {
			p.Unreachable = append(p.Unreachable, fmt.Sprintf("button %s: note id out of range 0-127", key))
			continue
		}
		p.Buttons[id] = a
	}
	sort.Strings(p.Unreachable)
	return p, nil
}

// parseID accepts any integer literal YAML would, such as 60, 0x3C or
// 0o74. ok is false for integers no MIDI message can carry.
func parseID(key string) (id uint8, ok bool, err error) {
	n, err := strconv.ParseInt(strings.TrimSpace(key), 0, 16)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: control id %q is not an integer", ErrMalformed, key)
	}
	if n < 0 || n > 127 {
		return 0, false, nil
	}
	return uint8(n), true, nil
}

// SelectProfile returns the named profile. It must exist and map at
// least one encoder or button.
func (c *Config) SelectProfile(name string) (Profile, error) {
	if len(c.Profiles) == 0 {
		return Profile{}, &ConfigError{Path: c.Path, Profile: name, Err: ErrNoProfiles}
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, &ConfigError{Path: c.Path, Profile: name, Err: ErrProfileNotFound}
	}
	if p.Empty() {
		return Profile{}, &ConfigError{Path: c.Path, Profile: name, Err: ErrEmptyProfile}
	}
	return p, nil
}

// Device returns the configured MIDI input name
func (c *Config) Device() (string, error) {
	if c.MidiDevice == "" {
		return "", &ConfigError{Path: c.Path, Err: ErrNoDevice}
	}
	return c.MidiDevice, nil
}

// Dangling lists assignments in p that name an action missing from the
// action table. The result is sorted so it reads the same on every run.
func (c *Config) Dangling(p Profile) []string {
	var out []string
	check := func(kind string, id uint8, field, name string) {
		if name == "" {
			return
		}
		if _, ok := c.Actions[name]; !ok {
			out = append(out, fmt.Sprintf("%s %d %s: unknown action %q", kind, id, field, name))
		}
	}
	for id, a := range p.Encoders {
		check("encoder", id, "action", a.Action)
	}
	for id, a := range p.Buttons {
		check("button", id, "down_action", a.DownAction)
		check("button", id, "up_action", a.UpAction)
	}
	sort.Strings(out)
	return out
}

// Warnings lists everything in p that loads but can never fire: keys
// outside the MIDI range and assignments naming unknown actions.
func (c *Config) Warnings(p Profile) []string {
	out := append([]string(nil), p.Unreachable...)
	return append(out, c.Dangling(p)...)
}
