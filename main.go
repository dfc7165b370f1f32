// Package main implements the main entry point for the chip tune note extractor
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/chipripper/internal/cli"
	"github.com/retroenv/chipripper/internal/config"
	"github.com/retroenv/chipripper/internal/extract"
	"github.com/retroenv/chipripper/internal/options"
	"github.com/retroenv/chipripper/internal/reduce"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, extraction, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger, opts)

	extraction.Code, err = os.ReadFile(opts.Input)
	if err != nil {
		logger.Fatal(err.Error())
	}

	result, err := extract.New(logger).Run(ctx, extraction)
	if err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Extraction failed", log.Err(err))
		os.Exit(1)
	}

	if err := writeEvents(opts, result.Events); err != nil {
		logger.Fatal(err.Error())
	}

	logger.Info("Extraction finished",
		log.Int("ticks", result.Ticks),
		log.Int("rows", result.Rows),
		log.Int("events", len(result.Events)))
}

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("chipripper", log.String("version", buildinfo.Version(version, commit, date)))
}

func writeEvents(opts options.Program, events []reduce.NoteEvent) error {
	var sb strings.Builder
	for _, event := range events {
		sb.WriteString(event.String())
		sb.WriteByte('\n')
	}

	if opts.Output == "" {
		fmt.Print(sb.String())
		return nil
	}
	if err := os.WriteFile(opts.Output, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
