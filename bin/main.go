package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/quetzal-lang/quetzal/config"
	"github.com/quetzal-lang/quetzal/core"
	"github.com/quetzal-lang/quetzal/highlight"
	"github.com/quetzal-lang/quetzal/modules"
)

const version = "0.1.0"

const helpMessage = `quetzal runs programs written in the Quetzal teaching language.

Usage:
  quetzal [flags] <file>    run a program
  quetzal [flags]           start the shell, or run a program piped on stdin
`

var debugTokens = flag.Bool("debug-tokens", false, "print tokens")
var debugAst = flag.Bool("debug-ast", false, "print AST")
var trace = flag.Bool("trace", false, "log every executed statement to stderr")
var highlightOnly = flag.Bool("highlight", false, "print the file with syntax highlighting instead of running it")
var basic = flag.Bool("basic", false, "use the basic line editor in the shell")
var configPath = flag.String("config", "", "path to a YAML config file")
var showVersion = flag.Bool("version", false, "print the version and exit")

var errorColor = color.New(color.FgRed)
var warnColor = color.New(color.FgYellow)

func main() {
	flag.Usage = func() {
		fmt.Print(helpMessage)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if *trace {
		cfg.Trace = true
	}
	if *basic {
		cfg.BasicShell = true
	}

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	color.NoColor = !cfg.ColorEnabled(tty)

	logger := newLogger(cfg)
	args := flag.Args()

	switch {
	case *highlightOnly:
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "-highlight needs a file")
			os.Exit(1)
		}
		highlightFile(args[0], cfg)
	case len(args) > 0:
		runFile(args[0], cfg, logger)
	case term.IsTerminal(int(os.Stdin.Fd())):
		repl(cfg, logger)
	default:
		runStdin(cfg, logger)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Trace {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func highlightFile(path string, cfg *config.Config) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	out := colorable.NewColorableStdout()
	if err := highlight.Source(out, string(content), cfg.Style, !color.NoColor); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func runFile(path string, cfg *config.Config, logger *slog.Logger) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	if !runProgram(string(content), cfg, logger) {
		os.Exit(1)
	}
}

func runStdin(cfg *config.Config, logger *slog.Logger) {
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	if !runProgram(string(content), cfg, logger) {
		os.Exit(1)
	}
}

// runProgram runs source against a fresh environment and reports whether
// it finished without error.
func runProgram(source string, cfg *config.Config, logger *slog.Logger) bool {
	registry := modules.NewRegistry(cfg.FileRoot)
	interp := core.NewInterpreter(core.Options{
		Builtins: registry,
		Output:   os.Stdout,
		Logger:   logger,
	})
	return execute(source, core.NewEnvironment(), interp, cfg)
}

// execute lexes, parses and evaluates source. Output is streamed as the
// program runs; Ctrl-C cancels the program.
func execute(source string, env *core.Environment, interp *core.Interpreter, cfg *config.Config) bool {
	tokenizer := core.NewTokenizer(source)
	tokenizer.FoldLiterals = cfg.FoldLiterals
	tokens := tokenizer.Tokenize()

	for _, diag := range tokenizer.Diagnostics() {
		warnColor.Fprintln(os.Stderr, diag.Error())
	}

	if *debugTokens {
		for _, tok := range tokens {
			fmt.Printf("%s %s\n", tok.Pos, tok)
		}
	}

	ast, err := core.ParseTokens(tokens)
	if err != nil {
		errorColor.Fprintln(os.Stderr, err.Error())
		return false
	}

	if *debugAst {
		for _, node := range ast {
			fmt.Println(node)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := interp.Evaluate(ctx, ast, env); err != nil {
		errorColor.Fprintln(os.Stderr, err.Error())
		return false
	}
	return true
}
