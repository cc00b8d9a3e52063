package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-midiauto/action"
	"go-midiauto/config"
	"go-midiauto/debug"
	"go-midiauto/dispatch"
	"go-midiauto/midi"
	"go-midiauto/theme"
	"go-midiauto/tui"
)

type options struct {
	discover   bool
	debug      bool
	log        bool
	profile    string
	configPath string
	device     string
	palette    string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "midiauto: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("midiauto", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.discover, "discover", false, "Try to find connected midi devices")
	fs.BoolVar(&opts.debug, "debug", false, "Watch events from configured midi device")
	fs.StringVar(&opts.profile, "profile", config.DefaultProfile, "Profile to activate")
	fs.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/midiauto/config.yaml)")
	fs.StringVar(&opts.device, "device", "", "MIDI input to open instead of midi_device")
	fs.BoolVar(&opts.log, "log", false, "Write a debug log to ~/.config/midiauto/debug.log")
	fs.StringVar(&opts.palette, "palette", "", "GIMP palette (.gpl) for the debug monitor")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if opts.log {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(stderr, "midiauto: debug log disabled: %v\n", err)
		}
		defer debug.Disable()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.discover {
		discover(ctx, midi.ListInputs, stdout, stderr)
		return nil
	}

	s, err := setup(opts, stderr)
	if err != nil {
		return err
	}

	in, err := midi.Open(ctx, s.device)
	if err != nil {
		return err
	}
	defer in.Close()
	debug.Log("midi", "connected to %s", s.device)

	if opts.debug {
		return monitor(ctx, in, s.device, opts.palette, stdout)
	}

	exec := action.NewExecutor(action.ProcessLauncher{}, action.WithErrorHandler(func(act config.Action, err error) {
		fmt.Fprintf(stderr, "midiauto: %q: %v\n", act.Cmd, err)
	}))
	engine := dispatch.New(s.profile, s.cfg.Actions, exec)

	err = engine.Run(ctx, in)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// setupResult is everything resolved from the config before a device is opened
type setupResult struct {
	cfg     *config.Config
	profile config.Profile
	device  string
}

// setup loads the config and resolves the profile and device name. Any
// failure here happens before a device is touched.
func setup(opts options, stderr io.Writer) (setupResult, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.FindPath(); err != nil {
			return setupResult{}, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return setupResult{}, err
	}

	profile, err := cfg.SelectProfile(opts.profile)
	if err != nil {
		return setupResult{}, err
	}
	for _, w := range cfg.Warnings(profile) {
		fmt.Fprintf(stderr, "midiauto: warning: profile %q: %s\n", opts.profile, w)
	}

	device := opts.device
	if device == "" {
		if device, err = cfg.Device(); err != nil {
			return setupResult{}, err
		}
	}

	debug.Log("config", "loaded %s, profile %s, %d encoders, %d buttons, %d actions",
		path, opts.profile, len(profile.Encoders), len(profile.Buttons), len(cfg.Actions))
	return setupResult{cfg: cfg, profile: profile, device: device}, nil
}

// discover prints every input device, one per line
func discover(ctx context.Context, list func(context.Context) ([]string, error), stdout, stderr io.Writer) {
	names, err := list(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "midiauto: %v\n", err)
		return
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
}

// monitor runs the debug loop: the bubbletea monitor on a terminal,
// plain line output otherwise
func monitor(ctx context.Context, in *midi.Input, device, palettePath string, stdout io.Writer) error {
	f, ok := stdout.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return tui.PlainLoop(ctx, in, stdout)
	}

	palette := theme.Plasma()
	if palettePath != "" {
		p, err := theme.LoadGPL(palettePath)
		if err != nil {
			return err
		}
		palette = p
	}

	m := tui.NewMonitor(ctx, in, device, theme.New(palette))
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(stdout)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if mon, ok := final.(tui.Monitor); ok {
		return mon.Err()
	}
	return nil
}
