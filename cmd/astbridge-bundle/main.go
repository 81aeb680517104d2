package main

import (
	"fmt"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/astbridge/pkg/bundler"
	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/oracle"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const usage = `astbridge-bundle - collects encoded Go syntax trees into a SQLITE bundle

Each named file is encoded and stored with its tree, construct counts and
round-trip outcome, or with the error that stopped it from encoding.

Usage:
  astbridge-bundle --bundle FILE [options] FILE...

Options:
`

func main() {
	var showHelp, showVersion, migrate, verbose bool
	var bundleFile, configFile string

	// Set up custom usage function.
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		pflag.PrintDefaults()
	}

	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.BoolVar(&showVersion, "version", false, "Show version")
	pflag.BoolVar(&migrate, "migrate", false, "Perform database migration")
	pflag.StringVar(&bundleFile, "bundle", "", "Bundle file path (required)")
	pflag.StringVar(&configFile, "config", "", "YAML configuration file")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Log each file as it is bundled")

	pflag.Parse()

	if showHelp {
		pflag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("astbridge-bundle version %s\n", Version)
		os.Exit(0)
	}

	// Bundle file is mandatory.
	if bundleFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --bundle flag is required\n")
		pflag.Usage()
		os.Exit(1)
	}

	logger := common.NewLogger(os.Stderr, verbose)

	config, err := common.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Check if the bundle file exists.
	_, err = os.Stat(bundleFile)
	fileExists := err == nil

	b, err := bundler.NewBundler(bundleFile, oracle.NewGo(config))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create bundler: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	upToDate, err := b.CheckMigration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to check migration status: %v\n", err)
		os.Exit(1)
	}

	if !upToDate {
		// A fresh database is migrated straight away; an existing one only
		// with --migrate.
		if fileExists && !migrate {
			fmt.Fprintf(os.Stderr, "Error: database schema is not up to date. Use --migrate to update.\n")
			os.Exit(1)
		}
		if err := b.Migrate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to migrate database: %v\n", err)
			os.Exit(1)
		}
		logger.Info("database migrated", "bundle", bundleFile, "fresh", !fileExists)
	}

	encoded, failed := 0, 0
	for _, inputFile := range pflag.Args() {
		source, err := common.ReadInput(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", inputFile, err)
			os.Exit(1)
		}
		ok, err := b.AddFile(inputFile, string(source))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to bundle %s: %v\n", inputFile, err)
			os.Exit(1)
		}
		if ok {
			encoded++
		} else {
			failed++
			logger.Warn("file did not encode", "file", inputFile)
		}
		logger.Debug("bundled", "file", inputFile, "ok", ok)
	}

	if !b.OK() {
		b.ReportErrors(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "Bundled %d files (%d did not encode).\n", encoded+failed, failed)
}
