// Command regex2c compiles a regular expression (or, with -m, one pattern
// per input file) into a standalone C recognizer: parse -> Thompson NFA ->
// subset-construction DFA -> partition-refinement minimization -> emitted
// switch-based C source, mirroring the original regex2c.c driver's stage
// order exactly.
package main

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/markbates/safe"
	"github.com/pkg/errors"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"regex2c/ast"
	"regex2c/automaton"
	"regex2c/config"
	"regex2c/emit"
	"regex2c/input"
	"regex2c/parser"
	"regex2c/regdef"
)

const version = "1.0.0"

type options struct {
	Debug  bool
	Output string
	Multi  bool
	Defs   goflags.StringSlice
}

func parseFlags() (*options, []string) {
	opts := &options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("Compiles a regular expression into a standalone C recognizer.")

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&opts.Defs, "def", "", nil,
			"named regular definition NAME=REGEX, usable as {NAME} in later patterns and definitions (repeatable)",
			goflags.StringSliceOptions),
		flagSet.BoolVarP(&opts.Multi, "multi", "m", false,
			"treat each input file as a separate pattern, unioned into one recognizer with distinct end tags"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "output file for the generated C source (default stdout)"),
		flagSet.BoolVarP(&opts.Debug, "debug", "d", false, "dump the AST, NFA, DFA and minimized DFA to stderr"),
		flagSet.CallbackVarP(printVersion, "version", "v", "display regex2c version"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("could not parse flags: %s\n", err)
	}

	if opts.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	automaton.SetDebug(opts.Debug)

	return opts, flagSet.Args()
}

func printVersion() {
	gologger.Info().Msgf("regex2c version %s", version)
	os.Exit(0)
}

func main() {
	os.Exit(runCLI())
}

// runCLI is the entry point's body, factored out so cli_test.go can invoke
// it in-process via testscript.RunMain — gologger.Fatal calls within it
// still terminate the process immediately on error, exactly as they would
// from main itself.
func runCLI() int {
	opts, files := parseFlags()

	// Generated source is buffered in memory and only written to the real
	// destination once the whole pipeline has succeeded, so a rejected
	// pattern never leaves a truncated or empty file behind (spec.md §7:
	// "No partial output is written on failure").
	var buf bytes.Buffer
	err := safe.Run(func() {
		if err := run(opts, files, &buf); err != nil {
			gologger.Fatal().Msgf("%s", err)
		}
	})
	if err != nil {
		gologger.Fatal().Msgf("internal error: %s", err)
	}

	out := io.Writer(os.Stdout)
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			gologger.Fatal().Msgf("cannot create output file %q: %s", opts.Output, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := io.Copy(out, &buf); err != nil {
		gologger.Fatal().Msgf("writing output: %s", err)
	}
	return 0
}

// run drives the parse -> build -> determinize -> minimize -> emit
// pipeline. A panic escaping any stage is an invariant violation (spec
// kind 4, "should be unreachable") and is left to safe.Run in runCLI to
// convert into a diagnostic rather than an unrecovered stack trace.
func run(opts *options, files []string, out io.Writer) error {
	defs, err := loadDefinitions(opts.Defs)
	if err != nil {
		return errors.Wrap(err, "loading --def definitions")
	}

	var nfa *automaton.Automaton
	if opts.Multi {
		nfa, err = buildMulti(files, defs, opts.Debug)
	} else {
		nfa, err = buildSingle(files, defs, opts.Debug)
	}
	if err != nil {
		return err
	}

	if opts.Debug {
		gologger.Debug().Msgf("nfa:")
		nfa.Print(os.Stderr)
	}

	dfa := automaton.Determinize(nfa)
	if opts.Debug {
		gologger.Debug().Msgf("dfa:")
		dfa.Print(os.Stderr)
	}

	min := automaton.Minimize(dfa)
	if opts.Debug {
		gologger.Debug().Msgf("minimized dfa:")
		min.Print(os.Stderr)
	}

	cfg := config.Load()
	flags := emit.Decl(0)
	if cfg.AllStatic {
		flags = emit.DeclAllStatic
	}
	names := emit.Names{
		Parser: cfg.ParserName,
		Next:   cfg.NextName,
		Accept: cfg.AcceptName,
		Reject: cfg.RejectName,
	}
	return emit.WriteC(out, min, names, flags)
}

// buildSingle parses one pattern spread across all input files, concatenated
// in argument order (regex2c.c's original multi-file behavior for its
// single-pattern front end): FILE arguments are one logical input stream,
// not one pattern each.
func buildSingle(files []string, defs *regdef.Registry, debug bool) (*automaton.Automaton, error) {
	readers, err := input.OpenAll(files, os.Stdin)
	if err != nil {
		return nil, err
	}
	src := input.Concat(readers)
	root, err := parser.Parse(src, defs)
	if err != nil {
		return nil, errors.Wrap(err, "parsing pattern")
	}
	if debug {
		gologger.Debug().Msgf("ast:")
		ast.Print(os.Stderr, &root)
	}
	return automaton.Build(&root), nil
}

// buildMulti parses each input file as its own pattern and unions them,
// one end tag per file in argument order, realizing the ast_list ->
// automaton front end documented but unused in the original source.
func buildMulti(files []string, defs *regdef.Registry, debug bool) (*automaton.Automaton, error) {
	readers, err := input.OpenAll(files, os.Stdin)
	if err != nil {
		return nil, err
	}
	roots := make([]ast.Node, len(readers))
	for i, r := range readers {
		root, err := parser.Parse(input.NewReader(r), defs)
		r.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "parsing pattern #%d", i)
		}
		if debug {
			gologger.Debug().Msgf("ast #%d:", i)
			ast.Print(os.Stderr, &root)
		}
		roots[i] = root
	}
	return automaton.BuildList(roots), nil
}

// loadDefinitions parses --def NAME=REGEX entries in order, registering
// each by name before parsing the next so that a later definition can
// reference an earlier one via {NAME}; cycle detection is seeded per
// definition exactly as parser.ParseDefinition expects.
func loadDefinitions(raw []string) (*regdef.Registry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	defs := regdef.NewRegistry()
	for _, entry := range raw {
		name, pattern, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, errors.Errorf("malformed --def %q, want NAME=REGEX", entry)
		}
		src := input.NewReader(strings.NewReader(pattern))
		root, err := parser.ParseDefinition(src, defs, name, map[string]bool{name: true})
		if err != nil {
			return nil, errors.Wrapf(err, "definition %q", name)
		}
		defs.Define(name, root)
	}
	return defs, nil
}
