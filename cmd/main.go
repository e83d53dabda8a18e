package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/TFMV/surrealmeter"
	"github.com/TFMV/surrealmeter/config"
	"github.com/docopt/docopt-go"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const usage = `SurrealMeter.

Usage:
  surrealmeter analyze [--config=<file>] [--export=<dir>] [--dry-run] [-v] [-D <property>]...
  surrealmeter profile <language> [--config=<file>] [--out=<dir>] [-v] [-D <property>]...
  surrealmeter -h | --help
  surrealmeter --version

Options:
  -h --help         Show this screen.
  --version         Show version.
  --config=<file>   Settings file (yaml, json or toml).
  --export=<dir>    Write the generic issue JSON and the measures CSV into dir.
  --dry-run         Print the report summary without storing it.
  --out=<dir>       Directory the profile is written to [default: .].
  -D <property>     Set a property, as key=value.
  -v                Verbose logging.
`

const version = "surrealmeter 0.1.0"

func optString(opts docopt.Opts, key string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return ""
}

func optStrings(opts docopt.Opts, key string) []string {
	if v, ok := opts[key].([]string); ok {
		return v
	}
	return nil
}

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	verbose, _ := opts.Bool("-v")
	logger, err := surrealmeter.NewLogger(verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	settings, err := surrealmeter.LoadSettings(optString(opts, "--config"), optStrings(opts, "-D"))
	if err != nil {
		logger.Fatal("Failed to load settings", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if profile, _ := opts.Bool("profile"); profile {
		path, err := surrealmeter.WriteProfile(afero.NewOsFs(), settings, optString(opts, "<language>"), optString(opts, "--out"), logger)
		if err != nil {
			logger.Fatal("Failed to write profile", zap.Error(err))
		}
		fmt.Printf("Profile written to %s\n", path)
		return
	}

	if dir := optString(opts, "--export"); dir != "" {
		settings.Set(config.KeyExportDir, dir)
	}

	if dryRun, _ := opts.Bool("--dry-run"); dryRun {
		report, err := surrealmeter.New(settings, nil, afero.NewOsFs(), logger).GetAnalysis(ctx)
		if err != nil {
			logger.Fatal("Failed to analyze project", zap.Error(err))
		}
		fmt.Println(report.PrettyPrint())
		return
	}

	analyzer, err := surrealmeter.NewAnalyzer(settings, logger)
	if err != nil {
		logger.Fatal("Failed to create analyzer", zap.Error(err))
	}
	defer func() {
		if err := analyzer.Close(); err != nil {
			logger.Warn("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := analyzer.Initialize(ctx); err != nil {
		logger.Fatal("Failed to initialize analyzer", zap.Error(err))
	}

	report, err := analyzer.Analyze(ctx)
	if err != nil {
		logger.Fatal("Failed to analyze project", zap.Error(err))
	}
	fmt.Println(report.PrettyPrint())
	fmt.Println("Code analysis completed successfully!")
}
