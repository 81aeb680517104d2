package main

import (
	"fmt"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/encoder"
	"github.com/spicery/astbridge/pkg/oracle"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const usage = `astbridge-parse - encode Go source as a JSON syntax tree

This tool reads Go source text and writes exactly one JSON line:
{"ok":true,"ast":...} on success or {"ok":false,"error":...} on failure.
Sources without a package clause are parsed as declaration or statement
lists, the way gofmt accepts fragments. It always exits 0 once the input
has been read.

Usage:
  astbridge-parse [options]

Options:
`

func main() {
	var showHelp, showVersion, verbose, noFragments bool
	var inputFile, outputFile, configFile string

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		pflag.PrintDefaults()
	}

	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.BoolVar(&showVersion, "version", false, "Show version")
	pflag.StringVarP(&inputFile, "input", "i", "", "Input file (defaults to stdin)")
	pflag.StringVarP(&outputFile, "output", "o", "", "Output file (defaults to stdout)")
	pflag.StringVar(&configFile, "config", "", "YAML configuration file")
	pflag.BoolVar(&noFragments, "no-fragments", false, "Require a complete file with a package clause")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	pflag.Parse()

	if showHelp {
		pflag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("astbridge-parse version %s\n", Version)
		os.Exit(0)
	}

	// Reject any positional arguments.
	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Error: Unexpected positional arguments. Use --input and --output flags instead.\n\n")
		pflag.Usage()
		os.Exit(1)
	}

	logger := common.NewLogger(os.Stderr, verbose)

	config, err := common.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if pflag.CommandLine.Changed("no-fragments") {
		config.NoFragments = noFragments
	}

	output, err := common.OpenOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer output.Close()

	var env common.Envelope
	source, err := common.ReadInput(inputFile)
	if err != nil {
		logger.Error("reading input", "error", err)
		env = common.Failure(err)
	} else {
		logger.Debug("encoding", "bytes", len(source), "fragments", !config.NoFragments)
		env = encoder.New(oracle.NewGo(config)).Encode(string(source))
	}
	if !env.OK {
		logger.Warn("encoding failed", "type", env.Error.Type, "msg", env.Error.Msg)
	}

	if err := common.WriteEnvelope(output, env); err != nil {
		logger.Error("writing output", "error", err)
	}
}
