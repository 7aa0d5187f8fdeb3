// Command offtimer powers off the machine after a delay or at a clock time.
//
// Usage:
//
//	offtimer [flags]
//
// Flags:
//
//	-timer int          Power off in this many minutes
//	-at string          Power off at this clock time (HH:MM, rolls to tomorrow if passed)
//	-interactive        Start an interactive shell instead of a one-shot countdown
//	-config string      Configuration file path (YAML)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-dry-run            Log instead of powering off
//	-event-log string   Append the CBOR event trace to this file
//	-history string     Record cycles in this SQLite database
//	-version            Print the version and exit
//
// Examples:
//
//	# Power off in 30 minutes, Ctrl-C cancels
//	offtimer -timer 30
//
//	# Power off at 23:15 without actually shutting down
//	offtimer -at 23:15 -dry-run
//
//	# Interactive shell with history
//	offtimer -interactive -history ~/.offtimer/history.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/offtimer/offtimer-go/cmd/offtimer/interactive"
	"github.com/offtimer/offtimer-go/pkg/config"
	"github.com/offtimer/offtimer-go/pkg/schedule"
	"github.com/offtimer/offtimer-go/pkg/version"
)

// Flags holds the command-line settings.
type Flags struct {
	ConfigFile  string
	Minutes     int
	At          string
	Interactive bool
	LogLevel    string
	DryRun      bool
	EventLog    string
	HistoryDB   string
	Version     bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.IntVar(&flags.Minutes, "timer", 0, "Power off in this many minutes")
	flag.StringVar(&flags.At, "at", "", "Power off at this clock time (HH:MM)")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Start an interactive shell")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.DryRun, "dry-run", false, "Log instead of powering off")
	flag.StringVar(&flags.EventLog, "event-log", "", "Append the CBOR event trace to this file")
	flag.StringVar(&flags.HistoryDB, "history", "", "Record cycles in this SQLite database")
	flag.BoolVar(&flags.Version, "version", false, "Print the version and exit")
}

func main() {
	flag.Parse()

	if flags.Version {
		fmt.Printf("offtimer %s\n", version.Current)
		return
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyFlags(&cfg, flags, set)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := setupLogging(cfg.LogLevel, os.Stderr)

	a, err := newApp(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	if flags.Interactive {
		code := runInteractive(a, cfg)
		a.Close()
		os.Exit(code)
	}

	intent, err := intentFromFlags(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "offtimer: %v\n", err)
		flag.Usage()
		a.Close()
		os.Exit(2)
	}

	code := runCountdown(a.sched, intent, os.Stdout, signalChannel())
	a.Close()
	os.Exit(code)
}

// applyFlags overrides cfg with flags that were given explicitly.
func applyFlags(cfg *config.Config, f Flags, set map[string]bool) {
	if set["log-level"] {
		cfg.LogLevel = f.LogLevel
	}
	if set["dry-run"] {
		cfg.PowerOff.DryRun = f.DryRun
	}
	if set["event-log"] {
		cfg.EventLog = f.EventLog
	}
	if set["history"] {
		cfg.HistoryDB = f.HistoryDB
	}
}

// intentFromFlags builds the one-shot intent; exactly one of -timer and -at
// must be given.
func intentFromFlags(f Flags) (schedule.Intent, error) {
	switch {
	case f.Minutes != 0 && f.At != "":
		return schedule.Intent{}, fmt.Errorf("use either -timer or -at, not both")
	case f.At != "":
		at, err := schedule.ParseClockTime(f.At)
		if err != nil {
			return schedule.Intent{}, err
		}
		return schedule.Intent{Mode: schedule.ModeScheduled, At: at}, nil
	case f.Minutes != 0:
		intent := schedule.TimerIntent(f.Minutes)
		return intent, intent.Validate()
	default:
		return schedule.Intent{}, fmt.Errorf("one of -timer, -at or -interactive is required")
	}
}

func setupLogging(level string, w *os.File) *slog.Logger {
	log.SetFlags(log.Ltime)

	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func signalChannel() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}

func runInteractive(a *app, cfg config.Config) int {
	sh, err := interactive.New(a.sched, a.store, cfg.DefaultMinutes)
	if err != nil {
		log.Printf("Failed to create interactive shell: %v", err)
		return 1
	}
	// Route log output through readline so it does not garble the prompt.
	log.SetOutput(sh.Stdout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sh.Run(ctx, cancel)

	select {
	case sig := <-signalChannel():
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	if a.sched.Cancel() {
		log.Println("Pending power-off cancelled")
	}
	return 0
}
