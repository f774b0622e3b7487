// Command calc is a terminal keypad for the calculator. Each input line is a
// whitespace separated sequence of key labels; the display is printed after
// every line.
//
//	$ echo "7 + 5 =" | calc
//	12
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		keys     = flag.String("keys", "", "Key labels to press instead of reading stdin")
		layout   = flag.Bool("layout", false, "Print the keypad and exit")
		logLevel = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calc: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if *layout {
		printLayout(os.Stdout)
		return
	}

	src := newLineSource(os.Stdin)
	if *keys != "" {
		src = newLineSource(strings.NewReader(*keys))
	}

	if err := run(src, os.Stdout, logger); err != nil {
		logger.Error("calc failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
