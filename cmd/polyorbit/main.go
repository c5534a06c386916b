package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/san-kum/polyorbit/internal/audio"
	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/gui"
	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/tui"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	theme      string
	noAudio    bool
	withAudio  bool

	cfg    *config.Config
	logger hclog.Logger
)

// main registers the polyorbit commands and runs the window when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:               "polyorbit [settings]",
		Short:             "orbital sequencer: planets and moons that play notes as they cross the centre line",
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: setup,
		RunE:              runGUI,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "polyorbit.yaml", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "data directory for stored runs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "colour theme (classic, ember, mono)")
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "run without sound")

	guiCmd := &cobra.Command{
		Use:   "gui [settings]",
		Short: "open the orbit window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&noAudio, "no-audio", false, "run without sound")

	tuiCmd := &cobra.Command{
		Use:   "tui [settings]",
		Short: "run the orbits in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
	tuiCmd.Flags().BoolVar(&withAudio, "audio", false, "play sound from the terminal view")

	rootCmd.AddCommand(guiCmd, tuiCmd)
	rootCmd.AddCommand(simulateCmd(), scenarioCmd(), sweepCmd(), snapshotCmd())
	rootCmd.AddCommand(listCmd(), plotCmd())
	rootCmd.AddCommand(generateCmd(), presetsCmd(), inspectCmd(), scalesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config file and applies the persistent flags that were
// set explicitly.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.LoadOrDefault(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		c.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("theme") {
		c.Window.Theme = theme
	}
	cfg = c
	logger = newLogger(os.Stderr)
	return nil
}

func newLogger(w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "polyorbit",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: w,
	})
}

func settingsPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Settings
}

// openAudio starts the output device. Any failure leaves the session silent.
func openAudio(enabled bool, log hclog.Logger) (*audio.Engine, session.AudioBackend) {
	if !enabled || !cfg.Audio.Enabled {
		return nil, session.Discard
	}
	engine := audio.NewEngine(cfg.Audio, log)
	if err := engine.Start(); err != nil {
		log.Warn("audio unavailable, running silent", "error", err)
		return nil, session.Discard
	}
	return engine, audio.NewBackend(engine, log)
}

// openSession loads the settings file into a new session. A missing file
// starts an empty system that is created on the first commit.
func openSession(path string, backend session.AudioBackend, log hclog.Logger) (*session.Session, error) {
	c := *cfg
	c.Settings = path
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sess := session.New(session.Options{
		Config:  &c,
		Backend: backend,
		Logger:  log,
		Rand:    rand.New(rand.NewSource(seed)),
	})
	if err := sess.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Info("settings file not found, starting with an empty system", "path", path)
	}
	return sess, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	engine, backend := openAudio(!noAudio, logger)
	if engine != nil {
		defer engine.Stop()
	}
	sess, err := openSession(settingsPath(args), backend, logger)
	if err != nil {
		return err
	}
	app := gui.New(gui.Options{
		Config:  cfg,
		Session: sess,
		Engine:  engine,
		Logger:  logger,
	})
	return app.Run()
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the view; logs go to a file
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}
	logPath := filepath.Join(cfg.DataDir, "polyorbit.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	log := newLogger(f)

	engine, backend := openAudio(withAudio, log)
	if engine != nil {
		defer engine.Stop()
	}
	sess, err := openSession(settingsPath(args), backend, log)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Config:  cfg,
		Session: sess,
		Engine:  engine,
		Logger:  log,
	})
}
