package main

import (
	"fmt"
	"os"

	pflag "github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/decoder"
	"github.com/spicery/astbridge/pkg/oracle"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const usage = `astbridge-unparse - turn a JSON syntax tree back into Go source

This tool reads a tree document as written by astbridge-parse (the value of
its "ast" key) and writes exactly one JSON line:
{"ok":true,"source":...} on success or {"ok":false,"error":...} on failure.
It always exits 0 once the input has been read.

Usage:
  astbridge-unparse [options]

Options:
`

func main() {
	var showHelp, showVersion, verbose, allowComments, useTabs bool
	var inputFile, outputFile, configFile string
	var tabWidth int

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		pflag.PrintDefaults()
	}

	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.BoolVar(&showVersion, "version", false, "Show version")
	pflag.StringVarP(&inputFile, "input", "i", "", "Input file (defaults to stdin)")
	pflag.StringVarP(&outputFile, "output", "o", "", "Output file (defaults to stdout)")
	pflag.StringVar(&configFile, "config", "", "YAML configuration file")
	pflag.BoolVar(&allowComments, "jsonc", false, "Accept comments and trailing commas in the input")
	pflag.IntVar(&tabWidth, "tab-width", common.DefaultTabWidth, "Tab width for printed source")
	pflag.BoolVar(&useTabs, "use-tabs", false, "Pad alignment with tabs instead of spaces")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	pflag.Parse()

	if showHelp {
		pflag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("astbridge-unparse version %s\n", Version)
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
	if pflag.CommandLine.Changed("tab-width") {
		config.TabWidth = tabWidth
	}
	if pflag.CommandLine.Changed("use-tabs") {
		config.UseTabs = useTabs
	}

	output, err := common.OpenOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer output.Close()

	var env common.Envelope
	data, err := common.ReadInput(inputFile)
	if err != nil {
		logger.Error("reading input", "error", err)
		env = common.Failure(err)
	} else {
		if allowComments {
			data = jsonc.ToJSON(data)
		}
		logger.Debug("decoding", "bytes", len(data))
		env = decoder.New(oracle.NewGo(config)).DecodeJSON(data)
	}
	if !env.OK {
		logger.Warn("decoding failed", "type", env.Error.Type, "msg", env.Error.Msg)
	}

	if err := common.WriteEnvelope(output, env); err != nil {
		logger.Error("writing output", "error", err)
	}
}
