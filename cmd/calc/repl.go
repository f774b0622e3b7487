package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
)

func newLineSource(r io.Reader) *bufio.Scanner {
	return bufio.NewScanner(r)
}

// run feeds every line from src into one calculator and writes the display
// after each line.
func run(src *bufio.Scanner, out io.Writer, logger *zap.Logger) error {
	calc := calculator.New(logger)

	for src.Scan() {
		line := strings.TrimSpace(src.Text())
		if line == "" {
			continue
		}

		_, ignored := calc.Run(splitKeys(line)...)
		for _, label := range ignored {
			logger.Warn("unknown key", zap.String("label", label))
		}

		if _, err := fmt.Fprintln(out, calc.CurrentState().Display()); err != nil {
			return fmt.Errorf("write display: %w", err)
		}
	}

	if err := src.Err(); err != nil {
		return fmt.Errorf("read keys: %w", err)
	}
	return nil
}

// splitKeys splits a line into key labels. "+/-" and "AC" are single keys.
func splitKeys(line string) []string {
	var keys []string
	for _, field := range strings.Fields(line) {
		switch field {
		case "AC", "+/-":
			keys = append(keys, field)
			continue
		}

		// Runs of digits such as "12.5" are typed one key at a time.
		for _, r := range field {
			keys = append(keys, string(r))
		}
	}
	return keys
}

func printLayout(out io.Writer) {
	for _, row := range calculator.Layout {
		for i, label := range row {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprintf(out, "[%3s]", strings.TrimSpace(label))
		}
		fmt.Fprintln(out)
	}
}
