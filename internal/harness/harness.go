// Package harness turns command-line flags and the saved configuration into
// a ready toolkit and driver options. Every entry point parses the same
// flags through it.
package harness

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"messagebox-test/internal/backend/native"
	"messagebox-test/internal/backend/scripted"
	"messagebox-test/internal/backend/terminal"
	"messagebox-test/internal/backend/win32"
	"messagebox-test/internal/config"
	"messagebox-test/internal/core"
	"messagebox-test/internal/driver"
	"messagebox-test/internal/logger"
	"messagebox-test/internal/sound"
	"messagebox-test/internal/toolkit"
)

// Backend names accepted by --backend.
const (
	BackendAuto     = "auto"
	BackendFyne     = "fyne"
	BackendNative   = "native"
	BackendTerminal = "terminal"
	BackendWin32    = "win32"
	BackendScripted = "scripted"
)

var backendNames = []string{BackendAuto, BackendFyne, BackendNative, BackendTerminal, BackendWin32, BackendScripted}

// ErrUnknownBackend is returned for a --backend value outside backendNames.
var ErrUnknownBackend = errors.New("unknown backend")

// State is the resolved configuration of one run.
type State struct {
	Config *config.Config
	Log    *logger.Logger

	Backend string
	Script  []scripted.Step
	Title   string
	Width   int
	Height  int
	Seed    uint64
	Sound   bool
}

// Parse reads args (without the program name). Flags override values from
// the configuration file; --save-config writes the merged result back.
// Usage errors are printed to stderr and returned.
func Parse(name string, args []string, stderr io.Writer) (*State, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	backend := fs.String("backend", "", "Dialog backend: "+strings.Join(backendNames, ", ")+".")
	geometry := fs.String("geometry", "", "Parent window size as WIDTHxHEIGHT.")
	title := fs.String("title", core.DefaultWindowTitle, "Parent window title.")
	seed := fs.Uint64("seed", 0, "Color scheme seed; 0 picks one from the clock.")
	script := fs.String("script", "", "Scripted backend answers, e.g. 0,2,1,fail,closed.")
	withSound := fs.Bool("sound", false, "Play a tone when a dialog opens.")
	verbose := fs.Bool("verbose", false, "Log debug messages.")
	logFile := fs.String("log-file", "", "Log file path.")
	noLogFile := fs.Bool("no-log-file", false, "Only log to stdout.")
	configPath := fs.String("config", "", "Configuration file path.")
	saveConfig := fs.Bool("save-config", false, "Save the effective settings to the configuration file.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["backend"] {
		cfg.Backend = *backend
	}
	if set["geometry"] {
		cfg.Geometry = *geometry
	}
	if set["seed"] {
		cfg.Seed = *seed
	}
	if set["sound"] {
		cfg.Sound = *withSound
	}
	if set["verbose"] {
		cfg.Verbose = *verbose
	}
	if set["log-file"] {
		cfg.LogFile = *logFile
	}
	if *noLogFile {
		cfg.LogFile = "-"
	}

	s := &State{
		Config:  cfg,
		Backend: strings.ToLower(strings.TrimSpace(cfg.Backend)),
		Title:   *title,
		Seed:    cfg.Seed,
		Sound:   cfg.Sound,
	}
	if s.Backend == "" {
		s.Backend = BackendAuto
	}
	if !validBackend(s.Backend) {
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, s.Backend)
	}
	if s.Width, s.Height, err = ParseGeometry(cfg.Geometry); err != nil {
		return nil, err
	}
	if *script != "" {
		if s.Script, err = scripted.ParseScript(*script); err != nil {
			return nil, err
		}
	}

	if *saveConfig {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("save configuration: %w", err)
		}
	}

	s.Log = logger.New(cfg)
	if *saveConfig {
		s.Log.Logf("Configuration saved to %s", cfg.ConfigPath())
	}
	return s, nil
}

func validBackend(name string) bool {
	for _, n := range backendNames {
		if n == name {
			return true
		}
	}
	return false
}

// ParseGeometry parses WIDTHxHEIGHT. An empty string yields the default
// window size.
func ParseGeometry(geometry string) (int, int, error) {
	geometry = strings.TrimSpace(geometry)
	if geometry == "" {
		return core.DefaultWindowWidth, core.DefaultWindowHeight, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(geometry), "x")
	if !ok {
		return 0, 0, fmt.Errorf("geometry %q: want WIDTHxHEIGHT", geometry)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("geometry %q: bad width", geometry)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("geometry %q: bad height", geometry)
	}
	return width, height, nil
}

// Environment describes what the process can display on.
type Environment struct {
	GOOS     string
	Getenv   func(string) string
	Terminal bool // stdin and stdout are terminals
	GUI      bool // the Fyne backend is compiled in
}

// CurrentEnvironment inspects the running process.
func CurrentEnvironment(gui bool) Environment {
	return Environment{
		GOOS:     runtime.GOOS,
		Getenv:   os.Getenv,
		Terminal: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
		GUI:      gui,
	}
}

// Detect picks a backend for "auto": Fyne when it is built in and a display
// is available, then MessageBoxW on Windows, then the terminal. Native
// dialogs come last because they have no windows to take key presses.
func Detect(env Environment) string {
	display := true
	if env.GOOS != "windows" && env.GOOS != "darwin" {
		display = env.Getenv("DISPLAY") != "" || env.Getenv("WAYLAND_DISPLAY") != ""
	}
	switch {
	case display && env.GUI:
		return BackendFyne
	case env.GOOS == "windows":
		return BackendWin32
	case env.Terminal:
		return BackendTerminal
	}
	return BackendNative
}

// NewBackend builds the selected backend. gui constructs the Fyne backend
// and is nil in builds without it.
func (s *State) NewBackend(env Environment, gui func() toolkit.Backend) (toolkit.Backend, error) {
	name := s.Backend
	if name == BackendAuto {
		name = Detect(env)
		s.Log.Debugf("Auto-selected the %s backend", name)
	}
	switch name {
	case BackendFyne:
		if gui == nil {
			return nil, fmt.Errorf("fyne backend: %w", toolkit.ErrUnsupported)
		}
		return gui(), nil
	case BackendNative:
		return native.New(s.Log), nil
	case BackendTerminal:
		// tcell owns the tty from here on; console lines would land on top of
		// the dialog, so only the log file keeps them.
		if path := s.Log.Path(); path != "" {
			s.Log.Logf("Terminal backend selected, logging to %s only", path)
		}
		s.Log.SetOutput(io.Discard)
		return terminal.New(s.Log), nil
	case BackendWin32:
		return win32.New(s.Log, native.New(s.Log)), nil
	case BackendScripted:
		return scripted.New(s.Script...), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, name)
}

// Toolkit wraps backend with signal handling and, with --sound, audio cues.
func (s *State) Toolkit(backend toolkit.Backend) *toolkit.Toolkit {
	opts := toolkit.Options{HandleSignals: true}
	if s.Sound {
		opts.Chime = sound.New(s.Log)
	}
	return toolkit.New(backend, s.Log, opts)
}

// Rand returns the color scheme generator. Seed 0 draws a seed from the
// clock and logs it so the run can be repeated.
func (s *State) Rand() *rand.Rand {
	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		s.Log.Debugf("Color scheme seed: %d", seed)
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DriverOptions returns the options for driver.Run.
func (s *State) DriverOptions() driver.Options {
	return driver.Options{
		WindowTitle:  s.Title,
		WindowWidth:  s.Width,
		WindowHeight: s.Height,
		Rand:         s.Rand(),
	}
}

// Run drives the whole exercise on backend and returns the exit code.
func (s *State) Run(ctx context.Context, backend toolkit.Backend) int {
	s.Log.Logf("Starting %s (%s backend)", core.AppName, backend.Name())
	return driver.Run(ctx, s.Toolkit(backend), s.Log, s.DriverOptions())
}
