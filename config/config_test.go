package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
midi_device: "X-Touch Mini"
profiles:
  general:
    encoders:
      1: {action: volume}
    buttons:
      60: {down_action: a1}
      61: {down_action: mute, up_action: unmute}
  empty: {}
actions:
  a1: {type: shell, cmd: "echo hi"}
  volume: {type: shell, cmd: "amixer set Master {}%"}
  mute: {type: shell, cmd: "amixer set Master mute"}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MidiDevice != "X-Touch Mini" {
		t.Errorf("expected device 'X-Touch Mini', got %q", cfg.MidiDevice)
	}
	if len(cfg.Actions) != 3 {
		t.Errorf("expected 3 actions, got %d", len(cfg.Actions))
	}

	p, err := cfg.SelectProfile("general")
	if err != nil {
		t.Fatalf("SelectProfile: %v", err)
	}
	if got := p.Encoders[1].Action; got != "volume" {
		t.Errorf("expected encoder 1 -> volume, got %q", got)
	}
	if got := p.Buttons[60]; got.DownAction != "a1" || got.UpAction != "" {
		t.Errorf("unexpected button 60 assignment: %+v", got)
	}
	if got := p.Buttons[61].UpAction; got != "unmute" {
		t.Errorf("expected button 61 up -> unmute, got %q", got)
	}
	if got := cfg.Actions["volume"]; got.Type != ActionShell || got.Cmd != "amixer set Master {}%" {
		t.Errorf("unexpected volume action: %+v", got)
	}
}

func TestLoadTOML(t *testing.T) {
	const doc = `
midi_device = "nanoKONTROL2"

[profiles.general.encoders.7]
action = "volume"

[profiles.general.buttons.41]
down_action = "play"

[actions.volume]
type = "shell"
cmd = "pactl set-sink-volume 0 {}%"

[actions.play]
type = "shell"
cmd = "playerctl play-pause"
`
	cfg, err := Load(writeFile(t, "config.toml", doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, err := cfg.SelectProfile(DefaultProfile)
	if err != nil {
		t.Fatalf("SelectProfile: %v", err)
	}
	if got := p.Encoders[7].Action; got != "volume" {
		t.Errorf("expected encoder 7 -> volume, got %q", got)
	}
	if got := p.Buttons[41].DownAction; got != "play" {
		t.Errorf("expected button 41 down -> play, got %q", got)
	}
	if dev, err := cfg.Device(); err != nil || dev != "nanoKONTROL2" {
		t.Errorf("Device() = %q, %v", dev, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"malformed yaml", "config.yaml", "profiles: [unclosed", ErrMalformed},
		{"malformed toml", "config.toml", "profiles = = 1", ErrMalformed},
		{"no actions", "config.yaml", "midi_device: X\nprofiles:\n  general:\n    buttons:\n      1: {down_action: a}\n", ErrNoActions},
		{"empty actions", "config.yaml", "actions: {}\n", ErrNoActions},
		{"empty file", "config.yaml", "", ErrNoActions},
		{"bad control id", "config.yaml", "profiles:\n  general:\n    buttons:\n      knob: {down_action: a}\nactions:\n  a: {type: shell, cmd: x}\n", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSelectProfileErrors(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := cfg.SelectProfile("studio"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := cfg.SelectProfile("empty"); !errors.Is(err, ErrEmptyProfile) {
		t.Errorf("expected ErrEmptyProfile, got %v", err)
	}

	noProfiles, err := Parse("config.yaml", []byte("actions:\n  a: {type: shell, cmd: x}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := noProfiles.SelectProfile(DefaultProfile); !errors.Is(err, ErrNoProfiles) {
		t.Errorf("expected ErrNoProfiles, got %v", err)
	}
	if _, err := noProfiles.Device(); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
}

func TestDangling(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := cfg.SelectProfile("general")
	if err != nil {
		t.Fatalf("SelectProfile: %v", err)
	}

	got := cfg.Dangling(p)
	if len(got) != 1 {
		t.Fatalf("expected 1 dangling reference, got %v", got)
	}
	if want := `button 61 up_action: unknown action "unmute"`; got[0] != want {
		t.Errorf("expected %q, got %q", want, got[0])
	}
}

func TestIntegerKeyForms(t *testing.T) {
	cfg, err := Parse("config.yaml", []byte(`
profiles:
  general:
    encoders:
      0x3C: {action: a}
      200: {action: a}
      99999999999: {action: a}
    buttons:
      0o17: {down_action: a}
      -1: {down_action: a}
actions:
  a: {type: shell, cmd: x}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, err := cfg.SelectProfile("general")
	if err != nil {
		t.Fatalf("SelectProfile: %v", err)
	}

	if p.Encoders[60].Action != "a" {
		t.Errorf("expected 0x3C to load as encoder 60, got %+v", p.Encoders)
	}
	if p.Buttons[15].DownAction != "a" {
		t.Errorf("expected 0o17 to load as button 15, got %+v", p.Buttons)
	}
	if len(p.Encoders) != 1 || len(p.Buttons) != 1 {
		t.Errorf("expected out-of-range keys to be dropped, got %+v", p)
	}

	want := []string{
		"button -1: note id out of range 0-127",
		"encoder 200: control id out of range 0-127",
		"encoder 99999999999: control id out of range 0-127",
	}
	got := cfg.Warnings(p)
	if len(got) != len(want) {
		t.Fatalf("expected %d warnings, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("warning %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Path: "/tmp/c.yaml", Profile: "general", Err: ErrProfileNotFound}
	if want := `/tmp/c.yaml: profile "general": no profile defined`; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestFindPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := FindPath()
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if want := filepath.Join(home, ".config", "midiauto", "config.yaml"); path != want {
		t.Errorf("expected default %q, got %q", want, path)
	}

	legacy := filepath.Join(home, ".pymidautorc")
	if err := os.WriteFile(legacy, []byte(sampleYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if path, _ := FindPath(); path != legacy {
		t.Errorf("expected legacy %q, got %q", legacy, path)
	}
}
