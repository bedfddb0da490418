package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-multierror"
	"github.com/mcncl/poxo/internal/analyzer"
	"github.com/mcncl/poxo/internal/config"
	"github.com/mcncl/poxo/internal/console"
	"github.com/mcncl/poxo/internal/converter"
	"github.com/mcncl/poxo/internal/emitter"
	"github.com/mcncl/poxo/internal/errors"
	"github.com/mcncl/poxo/internal/formatter"
	"github.com/mcncl/poxo/internal/genfs"
	"github.com/mcncl/poxo/internal/inflect"
	"github.com/mcncl/poxo/internal/models"
	"github.com/mcncl/poxo/internal/parser"
)

// CLI defines the command-line interface
type CLI struct {
	Input          []string `help:"Path to an input JSON file. Repeat for batch mode. Reads stdin when omitted." short:"i" sep:"none"`
	Output         string   `help:"Output file, or output directory in batch mode. Writes to stdout when omitted." short:"o" type:"path"`
	Target         string   `help:"Target language (csharp, go)." short:"t"`
	RootName       string   `help:"Name for the root class." short:"r"`
	Namespace      string   `help:"C# namespace." short:"n"`
	Package        string   `help:"Go package name." short:"p"`
	FloatType      string   `help:"C# type used for non-integral numbers." name:"float-type"`
	Fields         bool     `help:"Emit C# fields instead of auto-properties."`
	NoJSONProperty bool     `help:"Do not emit [JsonProperty] attributes." name:"no-json-property"`
	Order          string   `help:"Class order (lifo, discovery)."`
	Collisions     string   `help:"Class name collision policy (rename, allow, error)."`
	Config         string   `help:"Path to a config file. Defaults to the nearest .poxo.yml." short:"c" type:"path"`
	Format         bool     `help:"Format Go output with gofmt and goimports." short:"f" default:"true" negatable:""`
	Verify         bool     `help:"Check that generated files in the output directory are up to date instead of writing them."`
	Debug          bool     `help:"Enable debug logging." short:"d"`
	Version        bool     `help:"Show version information." short:"v"`
	Interactive    bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Version information
const (
	Version = "0.1.0"
)

// app holds the streams the command reads from and writes to.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// stdinIsTerminal reports whether stdin is an interactive terminal.
	stdinIsTerminal func() bool
}

func main() {
	var cli CLI
	k := kong.Must(&cli,
		kong.Name("poxo"),
		kong.Description("A tool to convert JSON to C# classes or Go structs"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		cli.Interactive = true
	}

	_, err := k.Parse(os.Args[1:])
	k.FatalIfErrorf(err)

	if cli.Version {
		fmt.Printf("poxo version %s\n", Version)
		return
	}

	a := &app{
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
		stdinIsTerminal: stdinIsTerminal,
	}
	if err := a.run(context.Background(), &cli); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: poxo --help\n")
		os.Exit(1)
	}
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// loadConfig resolves the config file and applies the flags on top of it.
func loadConfig(cli *CLI) (*config.Config, error) {
	path := cli.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	return config.LoadConfigWithCLI(path, config.Overrides{
		Target:         cli.Target,
		RootName:       cli.RootName,
		Namespace:      cli.Namespace,
		Package:        cli.Package,
		FloatType:      cli.FloatType,
		Order:          cli.Order,
		Collisions:     cli.Collisions,
		Fields:         cli.Fields,
		NoJSONProperty: cli.NoJSONProperty,
		NoFormat:       !cli.Format,
		Debug:          cli.Debug,
	})
}

// generator converts JSON text into formatted source for one target.
type generator struct {
	target    emitter.Target
	convert   converter.ConvertFunc
	formatter *formatter.Formatter
	format    bool
	log       console.Logger
}

func newGenerator(cfg *config.Config, log console.Logger) (*generator, error) {
	conv, err := cfg.Conversion()
	if err != nil {
		return nil, err
	}
	order, err := analyzer.ParseOrder(cfg.Inference.Order)
	if err != nil {
		return nil, errors.NewConfigError("invalid inference order", err)
	}
	collisions, err := analyzer.ParseCollisionPolicy(cfg.Inference.Collisions)
	if err != nil {
		return nil, errors.NewConfigError("invalid collision policy", err)
	}

	opts := converter.Options{
		VarNameConversion: conv,
		Indentation:       cfg.Indentation,
		RootName:          cfg.RootName,
		Singularizer:      inflect.NewEnglish(cfg.Inference.Singulars),
		Order:             order,
		Collisions:        collisions,
		Inspect: func(classes []models.ClassModel) {
			log.Debug("extracted %d class(es)", len(classes))
			log.Dump("classes", classes)
		},
	}

	target := cfg.TargetValue()
	fn, err := converter.ForTarget(target, opts, cfg.CSharpOptions(), cfg.GoOptions())
	if err != nil {
		return nil, err
	}
	return &generator{
		target:    target,
		convert:   fn,
		formatter: formatter.NewFormatter(),
		format:    cfg.Formatting.Enabled,
		log:       log,
	}, nil
}

// generate converts text. source names the input in log messages.
func (g *generator) generate(source, text string) (string, error) {
	code, err := converter.Convert(text, g.convert)
	if err != nil {
		if errors.IsParseFailure(err) {
			g.log.Error(fmt.Sprintf("%s: %v", source, err))
		}
		return "", err
	}

	if g.format {
		code, err = g.formatter.FormatFor(g.target, code)
		if err != nil {
			return "", errors.NewFormatError("failed to format generated code", err)
		}
	}
	return code, nil
}

// run executes the main program logic
func (a *app) run(ctx context.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	log := console.New(a.stderr, cfg.Dev.Debug)
	log.Debug("target %s, root %s", cfg.TargetValue(), cfg.EffectiveRootName())

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}

	if len(cli.Input) > 1 || cli.Verify {
		return a.runBatch(ctx, cli, gen, log)
	}

	source, text, err := a.readInput(cli)
	if err != nil {
		return err
	}
	code, err := gen.generate(source, text)
	if err != nil {
		return err
	}
	return a.writeOutput(cli.Output, code, gen.target, log)
}

// runBatch converts every input into its own file below the output
// directory, then writes or verifies the whole set.
func (a *app) runBatch(ctx context.Context, cli *CLI, gen *generator, log console.Logger) error {
	if len(cli.Input) == 0 {
		return errors.NewInputError("batch mode needs at least one input file", errors.ErrNoInput)
	}
	dir := cli.Output
	if dir == "" {
		dir = "."
	}

	files := genfs.New()
	var result *multierror.Error
	for _, input := range cli.Input {
		text, err := parser.ReadFile(input)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		code, err := gen.generate(input, text)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", input, err))
			continue
		}
		file := genfs.File{RelativePath: outputName(input, gen.target), Data: []byte(code)}
		if err := files.Add(input, file); err != nil {
			result = multierror.Append(result, errors.NewOutputError("conflicting output files", err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		if len(result.Errors) == 1 {
			return result.Errors[0]
		}
		return errors.NewInputError(fmt.Sprintf("%d of %d inputs failed", len(result.Errors), len(cli.Input)), err)
	}

	if cli.Verify {
		if err := files.Verify(ctx, dir); err != nil {
			return err
		}
		log.Info(fmt.Sprintf("%d generated file(s) in %s are up to date", files.Len(), dir))
		return nil
	}

	if err := files.Write(ctx, dir); err != nil {
		return err
	}
	log.Info(fmt.Sprintf("wrote %d file(s) to %s", files.Len(), dir))
	return nil
}

// outputName maps an input path to the name of its generated file.
func outputName(input string, target emitter.Target) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + target.Extension()
}

// readInput reads JSON text from the first input file or stdin.
func (a *app) readInput(cli *CLI) (string, string, error) {
	if len(cli.Input) == 1 {
		text, err := parser.ReadFile(cli.Input[0])
		return cli.Input[0], text, err
	}

	if a.stdinIsTerminal != nil && a.stdinIsTerminal() {
		if cli.Interactive {
			text, err := a.readInteractiveInput()
			return "stdin", text, err
		}
		return "", "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return "stdin", string(data), nil
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF).
func (a *app) readInteractiveInput() (string, error) {
	fmt.Fprintln(a.stderr, "poxo interactive mode")
	fmt.Fprintln(a.stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(a.stdin)
	var jsonBuilder strings.Builder
	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	if strings.TrimSpace(jsonBuilder.String()) == "" {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	fmt.Fprintln(a.stderr, "\nProcessing JSON...")
	return jsonBuilder.String(), nil
}

// writeOutput writes code to a file or stdout
func (a *app) writeOutput(path, code string, target emitter.Target, log console.Logger) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		log.Info(fmt.Sprintf("generated %s code written to %s", target, path))
		return nil
	}

	if _, err := fmt.Fprintln(a.stdout, strings.TrimRight(code, "\n")); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
