// Package data wraps raw VASP output in quantities that read their data
// lazily and refine it into results, text and images.
//
// A quantity is either built from raw data in memory or from a Source. File
// sources are acquired on every access and released afterwards, so a quantity
// never keeps a file open between calls.
package data

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/validation"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/domain/ports"
	"github.com/jrbp/p4vasp/infrastructure/rawfile"
	"github.com/jrbp/p4vasp/log"
)

// Quantity is implemented by every data wrapper.
type Quantity interface {
	// Kind is the type name used in representations, e.g. "Dos".
	Kind() string
	// Name is the lower case name used in messages and file names, e.g. "dos".
	Name() string
	String() string
	Repr() string
	Print() error
	Fprint(w io.Writer) error
}

// FetchFunc reads the raw data of a quantity from an open file.
type FetchFunc[R entities.Raw] func(ctx context.Context, f ports.RawFile) (*R, error)

// FormatFunc summarizes raw data as text.
type FormatFunc[R entities.Raw] func(raw *R) (string, error)

// Accessors describe how a quantity is read and summarized.
type Accessors[R entities.Raw] struct {
	Kind   string
	Fetch  FetchFunc[R]
	Format FormatFunc[R]
}

// baseConfig holds configuration shared by all quantities.
type baseConfig struct {
	opener    ports.FileOpener
	validator ports.RawValidator
	logger    *slog.Logger
	minimum   entities.RawVersion
}

func defaultBaseConfig() baseConfig {
	return baseConfig{
		opener:    rawfile.Opener{},
		validator: validation.NewRawValidator(),
		logger:    log.New(),
		minimum:   entities.MinimalVersion,
	}
}

// Option configures a quantity.
type Option func(*baseConfig)

// WithOpener sets how file sources are opened.
func WithOpener(opener ports.FileOpener) Option {
	return func(c *baseConfig) {
		c.opener = opener
	}
}

// WithMinimalVersion sets the oldest VASP version accepted.
func WithMinimalVersion(v entities.RawVersion) Option {
	return func(c *baseConfig) {
		c.minimum = v
	}
}

// WithValidator sets the validator run on raw data; nil disables validation.
func WithValidator(v ports.RawValidator) Option {
	return func(c *baseConfig) {
		c.validator = v
	}
}

// WithLogger sets the logger for file acquisition events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *baseConfig) {
		c.logger = logger
	}
}

// Base implements the data access shared by all quantities.
type Base[R entities.Raw] struct {
	accessors Accessors[R]
	raw       *R
	source    *Source
	config    baseConfig
}

// NewBase wraps raw data held in memory.
func NewBase[R entities.Raw](accessors Accessors[R], raw *R, opts ...Option) *Base[R] {
	return &Base[R]{accessors: accessors, raw: raw, config: newBaseConfig(opts)}
}

// FromFile wraps raw data read from source. Nothing is opened until the data is accessed.
func FromFile[R entities.Raw](accessors Accessors[R], source Source, opts ...Option) *Base[R] {
	return &Base[R]{accessors: accessors, source: &source, config: newBaseConfig(opts)}
}

func newBaseConfig(opts []Option) baseConfig {
	cfg := defaultBaseConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Kind implements Quantity.
func (b *Base[R]) Kind() string {
	return b.accessors.Kind
}

// Name implements Quantity.
func (b *Base[R]) Name() string {
	return strings.ToLower(b.accessors.Kind)
}

// Source returns the file source, false for in-memory data.
func (b *Base[R]) Source() (Source, bool) {
	if b.source == nil {
		return Source{}, false
	}
	return *b.source, true
}

// Dir returns the directory of the file source, "." for in-memory data.
func (b *Base[R]) Dir() string {
	if b.source == nil {
		return "."
	}
	return b.source.Dir()
}

// RawData returns the raw data after checking that it is present, recent
// enough and structurally valid.
func (b *Base[R]) RawData(ctx context.Context) (*R, error) {
	raw, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		source := ""
		if b.source != nil {
			source = b.source.String()
		}
		return nil, &errors.NoDataError{Quantity: b.Name(), Source: source}
	}
	if v := (*raw).RawVersion(); v.Less(b.config.minimum) {
		return nil, &errors.OutdatedVersionError{Quantity: b.Name(), Version: v, Minimum: b.config.minimum}
	}
	if b.config.validator != nil {
		result, err := b.config.validator.Validate(raw)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, &errors.InvalidDataError{Quantity: b.Name(), Fields: result.Errors}
		}
	}
	return raw, nil
}

func (b *Base[R]) load(ctx context.Context) (*R, error) {
	if b.source == nil {
		return b.raw, nil
	}

	var raw *R
	err := b.source.access(ctx, b.config, func(f ports.RawFile) error {
		var err error
		raw, err = b.accessors.Fetch(ctx, f)
		return err
	})
	return raw, err
}

// Summary returns the textual summary of the raw data.
func (b *Base[R]) Summary(ctx context.Context) (string, error) {
	raw, err := b.RawData(ctx)
	if err != nil {
		return "", err
	}
	return b.accessors.Format(raw)
}

// String implements fmt.Stringer. Errors are reported in place of the summary.
func (b *Base[R]) String() string {
	s, err := b.Summary(context.Background())
	if err != nil {
		return fmt.Sprintf("%s: %v", b.Name(), err)
	}
	return s
}

// Print writes the summary to standard output.
func (b *Base[R]) Print() error {
	return b.Fprint(os.Stdout)
}

// Fprint writes the summary followed by a newline to w.
func (b *Base[R]) Fprint(w io.Writer) error {
	s, err := b.Summary(context.Background())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// Refine reads the raw data of b and passes it to fn together with opts.
// opts reaches fn untouched; errors of either step are returned unchanged.
func Refine[R entities.Raw, T any](ctx context.Context, b *Base[R], fn func(raw *R, opts config.Options) (T, error), opts config.Options) (T, error) {
	raw, err := b.RawData(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(raw, opts)
}
