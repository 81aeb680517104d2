package main

import (
	"fmt"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/astbridge/pkg/checker"
	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/oracle"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const usage = `astbridge-roundtrip - check that Go sources survive encode and decode

Each source is encoded, decoded back to text and encoded again. The two
trees must match, positions aside. Sources are the files named on the
command line, or stdin when there are none. Failures are reported on
stderr and the exit status is non-zero if any source fails.

Usage:
  astbridge-roundtrip [options] [FILE...]

Options:
`

func main() {
	var showHelp, showVersion, verbose, noFragments bool
	var configFile string

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		pflag.PrintDefaults()
	}

	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.BoolVar(&showVersion, "version", false, "Show version")
	pflag.StringVar(&configFile, "config", "", "YAML configuration file")
	pflag.BoolVar(&noFragments, "no-fragments", false, "Require complete files with a package clause")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Log each source as it is checked")

	pflag.Parse()

	if showHelp {
		pflag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("astbridge-roundtrip version %s\n", Version)
		os.Exit(0)
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

	c := checker.NewChecker(oracle.NewGo(config))

	inputs := pflag.Args()
	if len(inputs) == 0 {
		inputs = []string{""}
	}
	for _, inputFile := range inputs {
		name := inputFile
		if name == "" {
			name = "<stdin>"
		}
		source, err := common.ReadInput(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", name, err)
			os.Exit(1)
		}
		result := c.Check(name, string(source))
		logger.Debug("checked", "source", name, "ok", result.OK(), "diffs", len(result.Diffs))
	}

	if !c.OK() {
		c.ReportErrors(os.Stderr)
		os.Exit(1)
	}
	logger.Info("round trip succeeded", "sources", len(inputs))
}
