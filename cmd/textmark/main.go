// Package main is the entry point for the textmark viewer.
//
// It loads a rule file, annotates a text file, and either dumps the
// computed segments or renders the annotated run tree in the terminal.
// With -watch, edits to the rule file reload the rules and re-render.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/textmark/internal/config"
	"github.com/dshills/textmark/internal/rebuild"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Options holds the parsed command line.
type Options struct {
	RulesPath string
	Dump      bool
	Watch     bool
	FilePath  string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	text, err := readInput(opts.FilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading input: %v\n", err)
		return 1
	}

	ruleSet, err := loadRules(opts.RulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer ruleSet.Close()
	reportProblems(ruleSet)

	host := newSurface(text)
	r := rebuild.New(host, ruleSet.Matcher(), rebuild.WithLogger(log.Printf))
	snap := r.Flush()

	if opts.Dump {
		dumpSnapshot(os.Stdout, snap)
		return 0
	}

	if err := runViewer(host, r, opts); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (Options, error) {
	var opts Options
	var showVersion bool

	flag.StringVar(&opts.RulesPath, "rules", "", "Path to a TOML or JSON rule file")
	flag.StringVar(&opts.RulesPath, "r", "", "Path to a TOML or JSON rule file (shorthand)")
	flag.BoolVar(&opts.Dump, "dump", false, "Print segments to stdout instead of rendering")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload rules and re-render when the rule file changes")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("textmark %s (%s)\n", version, commit)
		os.Exit(0)
	}
	if opts.Watch && opts.RulesPath == "" {
		return opts, errors.New("-watch requires -rules")
	}
	opts.FilePath = flag.Arg(0)
	return opts, nil
}

// readInput reads the named file, or stdin when path is empty.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return strings.TrimRight(string(data), "\n"), err
	}
	data, err := os.ReadFile(path)
	return strings.TrimRight(string(data), "\n"), err
}

// loadRules dispatches on the rule file extension. An empty path
// yields an empty set.
func loadRules(path string) (*config.RuleSet, error) {
	if path == "" {
		return &config.RuleSet{}, nil
	}
	if filepath.Ext(path) == ".json" {
		return config.LoadJSON(path)
	}
	return config.LoadTOML(path)
}

func reportProblems(rs *config.RuleSet) {
	for _, p := range rs.Problems {
		fmt.Fprintf(os.Stderr, "Warning: skipped %v\n", p)
	}
}

// dumpSnapshot prints segments in a stable, diff-friendly layout.
func dumpSnapshot(w io.Writer, snap *rebuild.Snapshot) {
	fmt.Fprintf(w, "text: %q\n", snap.Text)
	for _, seg := range snap.Segments {
		fmt.Fprintf(w, "[%d,%d) %q\n", seg.Start, seg.End, snap.Text[seg.Start:seg.End])
		for _, ann := range seg.Annotations {
			fmt.Fprintf(w, "  %s", ann.Annotation.ID)
			if ann.Annotation.Message != "" {
				fmt.Fprintf(w, " message=%q", ann.Annotation.Message)
			}
			if ann.Annotation.Description != "" {
				fmt.Fprintf(w, " description=%q", ann.Annotation.Description)
			}
			if len(ann.Annotation.CodePoints) > 0 {
				fmt.Fprintf(w, " codepoints=%s", strings.Join(ann.Annotation.CodePoints, ","))
			}
			fmt.Fprintln(w)
		}
	}
}
