// Command jsondelta prints the JSON Patch that turns one JSON file into another.
//
//	jsondelta [flags] ORIGINAL.json UPDATED.json
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/agentflare-ai/jsondelta"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jsondelta", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: jsondelta [flags] ORIGINAL.json UPDATED.json")
		fs.PrintDefaults()
	}

	var (
		configPath     = fs.String("config", "", "ini file with a [diff] section")
		ignoreRemovals = fs.Bool("ignore-removals", false, "never emit remove operations")
		optimize       = fs.Bool("optimize", false, "collapse equal remove/add pairs into moves")
		noArrayDiff    = fs.Bool("no-array-diff", false, "replace changed arrays as a whole")
		maxLcs         = fs.Int("max-lcs", jsondelta.DefaultMaxArraySizeForLcs, "longest array aligned with LCS")
		positional     = fs.Bool("positional", true, "compare arrays longer than -max-lcs index by index")
		compact        = fs.Bool("compact", false, "print the patch on a single line")
		stats          = fs.Bool("stats", false, "print an operation summary to stderr")
		verbose        = fs.Bool("v", false, "log diff decisions to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	cfg := jsondelta.DefaultConfig()
	if *configPath != "" {
		loaded, err := jsondelta.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, "jsondelta:", err)
			return 1
		}
		cfg = loaded
	}

	// flags given on the command line win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ignore-removals":
			cfg.IgnoreRemovals = *ignoreRemovals
		case "optimize":
			cfg.OptimizePatch = *optimize
		case "no-array-diff":
			cfg.UseArrayDiffAlgorithm = !*noArrayDiff
		case "max-lcs":
			cfg.MaxArraySizeForLcs = *maxLcs
		case "positional":
			cfg.UsePositionalArrayPatching = *positional
		case "compact":
			cfg.FormatOutput = !*compact
		}
	})
	if *verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	original, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "jsondelta:", err)
		return 1
	}
	updated, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(stderr, "jsondelta:", err)
		return 1
	}

	patch, err := jsondelta.DiffJSON(original, updated, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "jsondelta:", err)
		return 1
	}

	out, err := jsondelta.Format(patch, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "jsondelta:", err)
		return 1
	}
	stdout.Write(out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(stdout)
	}

	if *stats {
		fmt.Fprintln(stderr, patch.Stats())
	}
	return 0
}
