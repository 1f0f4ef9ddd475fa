package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	chzyer "github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/reeflective/readline"

	"github.com/quetzal-lang/quetzal/config"
	"github.com/quetzal-lang/quetzal/core"
	"github.com/quetzal-lang/quetzal/highlight"
	"github.com/quetzal-lang/quetzal/modules"
)

type lineReader interface {
	Readline() (string, error)
	// SetContinuation switches to the secondary prompt while a block is
	// being typed.
	SetContinuation(bool)
	Close() error
}

type shellReader struct {
	rl         *readline.Shell
	continuing bool
}

func newShellReader(cfg *config.Config) *shellReader {
	r := &shellReader{rl: readline.NewShell()}
	r.rl.Prompt.Primary(func() string {
		if r.continuing {
			return cfg.ContinuationPrompt
		}
		return cfg.Prompt
	})
	if !color.NoColor {
		r.rl.SyntaxHighlighter = highlight.Line
	}
	if cfg.HistoryFile != "" {
		r.rl.History.AddFromFile("quetzal history", cfg.HistoryFile)
	}
	return r
}

func (r *shellReader) Readline() (string, error) { return r.rl.Readline() }
func (r *shellReader) SetContinuation(on bool)  { r.continuing = on }
func (r *shellReader) Close() error              { return nil }

type basicReader struct {
	rl  *chzyer.Instance
	cfg *config.Config
}

func newBasicReader(cfg *config.Config) (*basicReader, error) {
	rl, err := chzyer.NewEx(&chzyer.Config{
		Prompt:      cfg.Prompt,
		HistoryFile: cfg.HistoryFile,
	})
	if err != nil {
		return nil, err
	}
	return &basicReader{rl: rl, cfg: cfg}, nil
}

func (r *basicReader) Readline() (string, error) { return r.rl.Readline() }
func (r *basicReader) Close() error              { return r.rl.Close() }

func (r *basicReader) SetContinuation(on bool) {
	if on {
		r.rl.SetPrompt(r.cfg.ContinuationPrompt)
	} else {
		r.rl.SetPrompt(r.cfg.Prompt)
	}
}

func newLineReader(cfg *config.Config) (lineReader, error) {
	if cfg.BasicShell {
		return newBasicReader(cfg)
	}
	return newShellReader(cfg), nil
}

// opensBlock reports whether line starts a construct whose body follows on
// later lines.
func opensBlock(line string) bool {
	tokens := core.Tokenize(line)
	for len(tokens) > 0 && tokens[0].Kind == core.INDENT {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].Kind == core.DEDENT {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return false
	}

	switch tokens[0].Kind {
	case core.IF, core.ELSE_IF, core.ELSE, core.FOR, core.WHILE, core.DO:
		return true
	}
	return tokens[len(tokens)-1].Kind == core.THEN
}

// repl reads programs from the terminal. A line that opens a block is
// buffered with the lines after it until an empty line is entered. All
// programs in a session share one environment.
func repl(cfg *config.Config, logger *slog.Logger) {
	rl, err := newLineReader(cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer rl.Close()

	registry := modules.NewRegistry(cfg.FileRoot)
	env := core.NewEnvironment()
	interp := core.NewInterpreter(core.Options{
		Builtins: registry,
		Output:   os.Stdout,
		Logger:   logger,
	})

	fmt.Printf("Quetzal %s. Type 'exit' to leave.\n", version)

	buffer := []string{}
	for {
		rl.SetContinuation(len(buffer) > 0)
		text, err := rl.Readline()

		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Println(err)
			break
		}

		if len(buffer) > 0 {
			if strings.TrimSpace(text) != "" {
				buffer = append(buffer, text)
				continue
			}
			source := strings.Join(buffer, "\n")
			buffer = buffer[:0]
			execute(source, env, interp, cfg)
			continue
		}

		switch strings.ToLower(strings.TrimSpace(text)) {
		case "":
			continue
		case "exit":
			return
		case ":builtins":
			fmt.Println(strings.Join(registry.Names(), " "))
			continue
		case ":vars":
			for _, name := range env.Names() {
				v, _ := env.Get(name)
				fmt.Printf("%s %s = %s\n", v.Type(), name, v)
			}
			continue
		case ":reset":
			env = core.NewEnvironment()
			continue
		}

		if opensBlock(text) {
			buffer = append(buffer, text)
			continue
		}
		execute(text, env, interp, cfg)
	}
}
