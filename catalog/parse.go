package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/joshuadavidthomas/djtagspecs/tserrors"
)

// Parser reads and normalizes single TagSpec documents. It does not resolve
// extends chains; that is the composer package's job.
type Parser struct {
	// DefaultVersion is assigned to documents that do not declare a
	// version. Empty means the latest known TagSpec version.
	DefaultVersion string
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// Parse reads a TagSpec document from a file, inferring the format from the
// file extension, and normalizes it.
func (p *Parser) Parse(path string) (*TagSpec, error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return nil, &tserrors.ParseError{
			Path:    path,
			Message: "cannot infer tagspec format from file extension",
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &tserrors.ParseError{Path: path, Message: "cannot read document", Cause: err}
	}

	spec, err := p.ParseBytes(data, format)
	if err != nil {
		return nil, annotatePath(err, path)
	}
	p.log().Debug("parsed tagspec document",
		"path", path, "format", string(format), "libraries", len(spec.Libraries))
	return spec, nil
}

// ParseBytes decodes and normalizes a TagSpec document held in memory.
func (p *Parser) ParseBytes(data []byte, format Format) (*TagSpec, error) {
	raw, err := format.Decode(data)
	if err != nil {
		return nil, err
	}
	dec := &Decoder{DefaultVersion: p.DefaultVersion}
	return dec.Decode(raw)
}

// ParseReader decodes and normalizes a TagSpec document from a reader.
func (p *Parser) ParseReader(r io.Reader, format Format) (*TagSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &tserrors.ParseError{Message: "cannot read document", Cause: err}
	}
	return p.ParseBytes(data, format)
}

// annotatePath stamps the source path onto structured errors that support it.
func annotatePath(err error, path string) error {
	switch e := err.(type) { //nolint:errorlint // decode errors are returned unwrapped
	case *tserrors.ParseError:
		if e.Path == "" {
			e.Path = path
		}
	case *tserrors.UnknownVersionError:
		if e.Path == "" {
			e.Path = path
		}
	}
	return err
}

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	// Format for reader/bytes input; inferred from the path for file input
	format Format

	defaultVersion string
	logger         Logger
}

// WithFilePath sets a file as the input source. The format is inferred from
// the file extension.
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		if path == "" {
			return fmt.Errorf("file path cannot be empty")
		}
		cfg.filePath = &path
		return nil
	}
}

// WithBytes sets in-memory bytes as the input source.
// Combine with WithFormat; the default is TOML.
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithReader sets a reader as the input source.
// Combine with WithFormat; the default is TOML.
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithFormat sets the document format for bytes or reader input.
func WithFormat(format Format) Option {
	return func(cfg *parseConfig) error {
		if format == FormatUnknown {
			return fmt.Errorf("format cannot be unknown")
		}
		cfg.format = format
		return nil
	}
}

// WithDefaultVersion sets the TagSpec version assigned to documents that do
// not declare one.
func WithDefaultVersion(version string) Option {
	return func(cfg *parseConfig) error {
		if _, ok := ParseSpecVersion(version); !ok {
			return fmt.Errorf("unknown default version %q", version)
		}
		cfg.defaultVersion = version
		return nil
	}
}

// WithLogger sets the structured logger for debug output.
func WithLogger(logger Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = logger
		return nil
	}
}

// ParseWithOptions parses a TagSpec document using functional options.
//
// Example:
//
//	spec, err := catalog.ParseWithOptions(
//	    catalog.WithFilePath("catalog.toml"),
//	    catalog.WithDefaultVersion("0.1.0"),
//	)
func ParseWithOptions(opts ...Option) (*TagSpec, error) {
	cfg := parseConfig{format: FormatTOML}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("catalog: invalid options: %w", err)
		}
	}

	sources := 0
	for _, set := range []bool{cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("catalog: invalid options: exactly one input source must be set, got %d", sources)
	}

	p := &Parser{
		DefaultVersion: cfg.defaultVersion,
		Logger:         cfg.logger,
	}

	switch {
	case cfg.filePath != nil:
		return p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		return p.ParseReader(cfg.reader, cfg.format)
	default:
		return p.ParseBytes(cfg.bytes, cfg.format)
	}
}
