package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/astbridge/pkg/common"
)

// Version is injected at build time via ldflags.
var Version = "dev"

func main() {
	// Define command line flags.
	var format = pflag.StringP("format", "f", "", "Output format (JSON, YAML, ASCIITREE, DOT, PRETTY, CBOR, MSGPACK)")
	var indent = pflag.Int("indent", 0, "Indentation level for display purposes")
	var trim = pflag.Int("trim", 0, "Trim names for display purposes")
	var noSpans = pflag.Bool("no-spans", false, "Suppress span information in output")
	var inputFile = pflag.StringP("input", "i", "", "Input file (defaults to stdin)")
	var outputFile = pflag.StringP("output", "o", "", "Output file (defaults to stdout)")
	var configFile = pflag.String("config", "", "YAML configuration file")
	var verbose = pflag.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	var version = pflag.Bool("version", false, "Print version and exit")
	var help = pflag.BoolP("help", "h", false, "Print help message and exit")

	// Custom usage message.
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nConverts a syntax tree from JSON format to various output formats.\n")
		fmt.Fprintf(os.Stderr, "Reads an astbridge-parse result or a bare tree and writes the converted tree.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	// Handle version flag.
	if *version {
		fmt.Printf("astbridge-convert-tree version %s\n", Version)
		os.Exit(0)
	}

	// Handle help flag.
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := common.NewLogger(os.Stderr, *verbose)

	config, err := common.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	options := config.PrintOptions
	if pflag.CommandLine.Changed("format") {
		options.Format = *format
	}
	if pflag.CommandLine.Changed("indent") {
		options.Indent = *indent
	}
	if pflag.CommandLine.Changed("trim") {
		options.TrimTokenOnOutput = *trim
	}
	if *noSpans {
		options.IncludeSpans = false
	}

	data, err := common.ReadInput(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	tree, err := readTree(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading JSON input: %v\n", err)
		os.Exit(1)
	}

	// Select the appropriate print function based on format.
	printFunc, err := common.PickPrintFunc(options.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("converting", "root", tree.Kind, "format", options.Format)

	output, err := common.OpenOutput(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer output.Close()

	// Print the tree in the selected format.
	if err := printFunc(tree, strings.Repeat(" ", options.Indent), output, &options); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

// readTree accepts either a whole encoder envelope or a bare tree.
func readTree(data []byte) (*common.Node, error) {
	doc, err := common.ParseValue(data)
	if err != nil {
		return nil, err
	}
	if m, ok := doc.(map[string]any); ok {
		if ok, _ := m["ok"].(bool); !ok {
			if info, isMap := m["error"].(map[string]any); isMap {
				return nil, fmt.Errorf("input is a failure: %v: %v", info["type"], info["msg"])
			}
		}
		if ast, present := m["ast"]; present {
			doc = ast
		}
	}
	tree, ok := common.AsNode(doc)
	if !ok {
		return nil, errors.New(common.MsgInvalidFormat)
	}
	return tree, nil
}
