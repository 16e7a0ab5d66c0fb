package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/joshuadavidthomas/djtagspecs"
	"github.com/joshuadavidthomas/djtagspecs/catalog"
	"github.com/joshuadavidthomas/djtagspecs/composer"
	"github.com/joshuadavidthomas/djtagspecs/generator"
	"github.com/joshuadavidthomas/djtagspecs/internal/mcpserver"
	"github.com/joshuadavidthomas/djtagspecs/validator"
)

var (
	errColor     = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("djtagspecs v%s\n", djtagspecs.Version())
	case "help", "-h", "--help":
		printUsage()
	case "validate":
		if err := handleValidate(os.Args[2:]); err != nil {
			_, _ = errColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "resolve":
		if err := handleResolve(os.Args[2:]); err != nil {
			_, _ = errColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "dump":
		if err := handleDump(os.Args[2:]); err != nil {
			_, _ = errColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "generate":
		if err := handleGenerate(os.Args[2:]); err != nil {
			_, _ = errColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(os.Args[2:]); err != nil {
			_, _ = errColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// validateFlags contains flags for the validate command
type validateFlags struct {
	noResolve  bool
	noWarnings bool
	format     string
}

func setupValidateFlags() (*flag.FlagSet, *validateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &validateFlags{}

	fs.BoolVar(&flags.noResolve, "no-resolve", false, "validate the single document without resolving its extends chain")
	fs.BoolVar(&flags.noWarnings, "no-warnings", false, "suppress warning messages (only show violations)")
	fs.StringVar(&flags.format, "format", "text", "report format: text, json, or yaml")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: djtagspecs validate [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Validate a TagSpec document against its structural invariants.\n")
		_, _ = fmt.Fprintf(output, "By default the extends chain is resolved and the composed document is checked.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs validate tagspecs.toml\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs validate --no-resolve django.yaml\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs validate --format json tagspecs.toml\n")
	}

	return fs, flags
}

// findingReport is one validation finding in machine-readable reports.
type findingReport struct {
	Path    string `json:"path"              yaml:"path"`
	Message string `json:"message"           yaml:"message"`
	Code    string `json:"code,omitempty"    yaml:"code,omitempty"`
	Field   string `json:"field,omitempty"   yaml:"field,omitempty"`
}

// validateReport is the machine-readable validate output.
type validateReport struct {
	Valid      bool            `json:"valid"                yaml:"valid"`
	Sources    []string        `json:"sources,omitempty"    yaml:"sources,omitempty"`
	Violations []findingReport `json:"violations,omitempty" yaml:"violations,omitempty"`
	Warnings   []findingReport `json:"warnings,omitempty"   yaml:"warnings,omitempty"`
}

func handleValidate(args []string) error {
	fs, flags := setupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path")
	}

	specPath := fs.Arg(0)

	var result *validator.Result
	var sources []string
	if flags.noResolve {
		spec, err := catalog.New().Parse(specPath)
		if err != nil {
			return err
		}
		result = validator.New(validator.WithWarnings(!flags.noWarnings)).Validate(spec)
	} else {
		composed, err := composer.Compose(specPath)
		if err != nil {
			return err
		}
		result = composed.Validation
		sources = composed.Sources
	}

	switch flags.format {
	case "text":
		printValidateText(specPath, result, sources, flags.noWarnings)
	case "json", "yaml":
		report := buildValidateReport(result, sources, flags.noWarnings)
		rendered, err := renderReport(report, flags.format)
		if err != nil {
			return err
		}
		fmt.Print(string(rendered))
	default:
		return fmt.Errorf("unknown report format %q", flags.format)
	}

	return result.Err()
}

func printValidateText(specPath string, result *validator.Result, sources []string, noWarnings bool) {
	fmt.Printf("Specification: %s\n", specPath)
	if len(sources) > 1 {
		fmt.Printf("Composed from %d documents\n", len(sources))
	}
	fmt.Println()

	if len(result.Violations) > 0 {
		_, _ = errColor.Printf("Violations (%d):\n", result.ViolationCount)
		for _, v := range result.Violations {
			fmt.Printf("  %s\n", v.String())
		}
		fmt.Println()
	}
	if !noWarnings && len(result.Warnings) > 0 {
		_, _ = warnColor.Printf("Warnings (%d):\n", result.WarningCount)
		for _, w := range result.Warnings {
			fmt.Printf("  %s\n", w.String())
		}
		fmt.Println()
	}

	if result.Valid {
		_, _ = successColor.Println("Document is valid.")
	} else {
		_, _ = errColor.Println("Document is invalid.")
	}
}

func buildValidateReport(result *validator.Result, sources []string, noWarnings bool) validateReport {
	report := validateReport{Valid: result.Valid, Sources: sources}
	for _, v := range result.Violations {
		report.Violations = append(report.Violations, findingReport{
			Path: v.Path, Message: v.Message, Code: v.Code, Field: v.Field,
		})
	}
	if !noWarnings {
		for _, w := range result.Warnings {
			report.Warnings = append(report.Warnings, findingReport{
				Path: w.Path, Message: w.Message, Code: w.Code, Field: w.Field,
			})
		}
	}
	return report
}

func renderReport(report any, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// resolveFlags contains flags for the resolve command
type resolveFlags struct {
	format     string
	output     string
	parallel   bool
	noValidate bool
}

func setupResolveFlags() (*flag.FlagSet, *resolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &resolveFlags{}

	fs.StringVar(&flags.format, "format", "toml", "output format: toml, json, or yaml")
	fs.StringVar(&flags.output, "o", "", "write the composed document to a file instead of stdout")
	fs.BoolVar(&flags.parallel, "parallel", false, "load sibling extends references concurrently")
	fs.BoolVar(&flags.noValidate, "no-validate", false, "skip validating the composed document")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: djtagspecs resolve [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Resolve a document's extends chain and print the composed document.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs resolve tagspecs.toml\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs resolve --format yaml -o composed.yaml tagspecs.toml\n")
	}

	return fs, flags
}

func handleResolve(args []string) error {
	fs, flags := setupResolveFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("resolve command requires exactly one file path")
	}

	format, err := catalog.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	result, err := composer.Compose(fs.Arg(0),
		composer.WithValidation(!flags.noValidate),
		composer.WithParallel(flags.parallel),
	)
	if err != nil {
		return err
	}

	if result.Validation != nil && !result.Validation.Valid {
		_, _ = warnColor.Fprintf(os.Stderr, "Composed document has %d validation violations; run 'djtagspecs validate' for details.\n",
			result.Validation.ViolationCount)
	}

	rendered, err := catalog.Marshal(result.Spec, format)
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, rendered, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flags.output, err)
		}
		_, _ = successColor.Printf("Wrote composed document to %s (%d sources)\n", flags.output, len(result.Sources))
		return nil
	}
	fmt.Print(string(rendered))
	return nil
}

// dumpFlags contains flags for the dump command
type dumpFlags struct {
	format string
}

func setupDumpFlags() (*flag.FlagSet, *dumpFlags) {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	flags := &dumpFlags{}

	fs.StringVar(&flags.format, "format", "toml", "output format: toml, json, or yaml")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: djtagspecs dump [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Parse a single document, apply defaults, and print its canonical form\n")
		_, _ = fmt.Fprintf(output, "without resolving the extends chain.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs dump tagspecs.toml\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs dump --format json tagspecs.yaml\n")
	}

	return fs, flags
}

func handleDump(args []string) error {
	fs, flags := setupDumpFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("dump command requires exactly one file path")
	}

	format, err := catalog.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	spec, err := catalog.New().Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	rendered, err := catalog.Marshal(spec, format)
	if err != nil {
		return err
	}
	fmt.Print(string(rendered))
	return nil
}

// generateFlags contains flags for the generate command
type generateFlags struct {
	packageName string
	output      string
	noResolve   bool
}

func setupGenerateFlags() (*flag.FlagSet, *generateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &generateFlags{}

	fs.StringVar(&flags.packageName, "package", generator.DefaultPackageName, "package clause of the generated file")
	fs.StringVar(&flags.output, "o", "", "write generated Go source to a file instead of stdout")
	fs.BoolVar(&flags.noResolve, "no-resolve", false, "generate from the single document without resolving its extends chain")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: djtagspecs generate [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Generate Go tag-name constants from a composed TagSpec document.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs generate tagspecs.toml\n")
		_, _ = fmt.Fprintf(output, "  djtagspecs generate --package djangotags -o tags_gen.go tagspecs.toml\n")
	}

	return fs, flags
}

func handleGenerate(args []string) error {
	fs, flags := setupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one file path")
	}

	var spec *catalog.TagSpec
	if flags.noResolve {
		parsed, err := catalog.New().Parse(fs.Arg(0))
		if err != nil {
			return err
		}
		spec = parsed
	} else {
		result, err := composer.Compose(fs.Arg(0))
		if err != nil {
			return err
		}
		if result.Validation != nil && result.Validation.Err() != nil {
			return fmt.Errorf("cannot generate from invalid document: %w", result.Validation.Err())
		}
		spec = result.Spec
	}

	g := generator.New(generator.WithPackageName(flags.packageName))
	if flags.output != "" {
		if err := g.GenerateFile(spec, flags.output); err != nil {
			return err
		}
		_, _ = successColor.Printf("Wrote generated constants to %s\n", flags.output)
		return nil
	}

	src, err := g.Generate(spec)
	if err != nil {
		return err
	}
	fmt.Print(string(src))
	return nil
}

func handleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: djtagspecs mcp\n\n")
		_, _ = fmt.Fprintf(output, "Run the MCP server over stdio, exposing parse, compose, and validate tools.\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	return mcpserver.Run(context.Background())
}

func printUsage() {
	fmt.Println(`djtagspecs - TagSpec catalog tools

Usage:
  djtagspecs <command> [options]

Commands:
  validate    Validate a TagSpec document against its structural invariants
  resolve     Resolve an extends chain and print the composed document
  dump        Print a single document's canonical form without resolution
  generate    Generate Go tag-name constants from a composed document
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  djtagspecs validate tagspecs.toml
  djtagspecs validate --no-resolve --format json django.yaml
  djtagspecs resolve --format yaml -o composed.yaml tagspecs.toml
  djtagspecs dump --format json tagspecs.toml
  djtagspecs generate --package djangotags -o tags_gen.go tagspecs.toml

Run 'djtagspecs <command> --help' for more information on a command.`)
}
