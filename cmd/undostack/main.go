// Package main is the entry point for undostack, a line-oriented text
// scratchpad that records every edit in an undo history.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dshills/undostack/internal/config"
	"github.com/dshills/undostack/internal/history"
	"github.com/dshills/undostack/internal/notify"
	"github.com/dshills/undostack/internal/textedit"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, showHelp, showVersion, err := loadConfig(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if showHelp {
		return 0
	}
	if showVersion {
		fmt.Fprintf(stdout, "undostack %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	logger, err := config.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	notifier := notify.New()
	defer notifier.Close()
	notifier.Subscribe(func(c notify.Change) {
		logger.Debug("history changed", "kind", c.Kind, "transaction", c.Name)
	})

	opts := append(cfg.HistoryOptions(),
		history.WithLogger(logger),
		history.WithNotifier(notifier),
		history.WithSource("scratchpad"),
	)
	s := newSession(textedit.NewDocument(""), history.New(opts...), stdout)

	if err := s.run(stdin); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order.
func loadConfig(args []string, stderr io.Writer) (cfg config.Config, showHelp, showVersion bool, err error) {
	var (
		configPath      string
		maxUnits        int
		minTransactions int
		logLevel        string
	)

	flagSet := pflag.NewFlagSet("undostack", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a TOML or YAML configuration file")
	flagSet.IntVar(&maxUnits, "max-units", history.DefaultMaxUnits, "unit budget before old transactions are dropped")
	flagSet.IntVar(&minTransactions, "min-transactions", history.DefaultMinTransactions, "transactions always kept regardless of size")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flagSet.BoolVar(&showVersion, "version", false, "show version information")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = func() { printHelp(flagSet, stderr) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return cfg, true, false, nil
		}
		return cfg, false, false, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stderr)
		return cfg, true, false, nil
	}
	if showVersion {
		return cfg, false, true, nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return cfg, false, false, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err = config.LoadFile(configPath)
	if err != nil {
		return cfg, false, false, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, false, false, err
	}
	if flagSet.Changed("max-units") {
		cfg.History.MaxUnits = maxUnits
	}
	if flagSet.Changed("min-transactions") {
		cfg.History.MinTransactions = minTransactions
	}
	if flagSet.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	return cfg, false, false, cfg.Validate()
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `undostack - text scratchpad with undo history

Reads one command per line from standard input:

  type TEXT           append TEXT at the end of the document
  insert OFF TEXT     insert TEXT at byte offset OFF
  delete START END    delete bytes [START, END)
  backspace [N]       delete N bytes before the end (default 1)
  begin [NAME]        close the current transaction
  name NAME           rename the current transaction
  undo | redo         step through the history
  undo-current        roll back the open transaction
  history             list transactions
  show                print the document
  clear               forget all history
  retain MAX MIN      change the retention policy
  stats               print history counters
  quit                exit

TEXT may be a Go quoted string, e.g. "a\n".

Usage: undostack [options]

Options:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
