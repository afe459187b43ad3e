// Package calculation gives access to the input and output of one VASP
// calculation directory.
package calculation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/data"
	"github.com/jrbp/p4vasp/application/refinement"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/log"
	"github.com/spf13/afero"
)

// calculationConfig holds configuration for a Calculation.
type calculationConfig struct {
	fs       afero.Fs
	logger   *slog.Logger
	dataOpts []data.Option
}

func defaultCalculationConfig() calculationConfig {
	return calculationConfig{
		fs:     afero.NewOsFs(),
		logger: log.New(),
	}
}

// Option configures a Calculation.
type Option func(*calculationConfig)

// WithFs sets the filesystem input files are read from and written to.
func WithFs(fs afero.Fs) Option {
	return func(c *calculationConfig) {
		c.fs = fs
	}
}

// WithLogger sets the logger of the calculation and its quantities.
func WithLogger(logger *slog.Logger) Option {
	return func(c *calculationConfig) {
		c.logger = logger
	}
}

// WithDataOptions configures every quantity of the calculation.
func WithDataOptions(opts ...data.Option) Option {
	return func(c *calculationConfig) {
		c.dataOpts = append(c.dataOpts, opts...)
	}
}

// Calculation bundles the quantities and input files of a calculation directory.
type Calculation struct {
	Dos        *data.Dos
	Band       *data.Band
	Cell       *data.Cell
	Projectors *data.Projectors

	path       string
	config     calculationConfig
	definition *refinement.Definition
	quantities map[string]data.Quantity
}

// FromPath sets up the calculation in path. A leading ~ is expanded and the
// path made absolute; nothing is read until a quantity is accessed.
func FromPath(path string, opts ...Option) (*Calculation, error) {
	cfg := defaultCalculationConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	abs, err := resolvePath(path)
	if err != nil {
		return nil, &errors.FileError{Op: "resolve", Path: path, Err: err}
	}

	dataOpts := append([]data.Option{data.WithLogger(cfg.logger)}, cfg.dataOpts...)
	source := data.FilePath(abs)
	calc := &Calculation{
		Dos:        data.DosFromFile(source, dataOpts...),
		Band:       data.BandFromFile(source, dataOpts...),
		Cell:       data.CellFromFile(source, dataOpts...),
		Projectors: data.ProjectorsFromFile(source, dataOpts...),
		path:       abs,
		config:     cfg,
		definition: refinement.NewDefinition(),
		quantities: make(map[string]data.Quantity),
	}

	for _, q := range []data.Quantity{calc.Dos, calc.Band, calc.Cell, calc.Projectors} {
		if err := refinement.Register(calc.definition, q); err != nil {
			return nil, err
		}
		calc.quantities[q.Name()] = q
	}

	cfg.logger.Debug("calculation set up", "path", abs, "quantities", len(calc.quantities))
	return calc, nil
}

func resolvePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// Path returns the absolute path of the calculation, a directory or its output file.
func (c *Calculation) Path() string {
	return c.path
}

// Dir returns the directory holding the input files. It is Path unless Path
// names the output file itself.
func (c *Calculation) Dir() string {
	if info, err := os.Stat(c.path); err == nil && info.Mode().IsRegular() {
		return filepath.Dir(c.path)
	}
	return c.path
}

// Quantity returns the quantity with the given name, e.g. "dos".
func (c *Calculation) Quantity(name string) (data.Quantity, bool) {
	q, ok := c.quantities[name]
	return q, ok
}

// Quantities lists the quantities and their refinements.
func (c *Calculation) Quantities() []refinement.QuantityInfo {
	return c.definition.Quantities()
}

// Doc returns the documentation of a refinement.
func (c *Calculation) Doc(quantity, name string) (string, bool) {
	return c.definition.Doc(quantity, name)
}

// Refine runs the named refinement of a quantity, e.g. ("dos", "read").
func (c *Calculation) Refine(ctx context.Context, quantity, name string, opts config.Options) (any, error) {
	handler, ok := c.definition.Handler(quantity, name)
	if !ok {
		if _, known := c.quantities[quantity]; !known {
			return nil, &errors.RefinementError{Quantity: quantity, Err: fmt.Errorf("unknown quantity")}
		}
		return nil, &errors.RefinementError{Quantity: quantity, Refinement: name, Err: fmt.Errorf("unknown refinement")}
	}
	return handler(ctx, opts)
}

// INCAR returns the INCAR file of the calculation.
func (c *Calculation) INCAR() *InputFile {
	return newInputFile(c.config.fs, c.Dir(), INCAR)
}

// KPOINTS returns the KPOINTS file of the calculation.
func (c *Calculation) KPOINTS() *InputFile {
	return newInputFile(c.config.fs, c.Dir(), KPOINTS)
}

// POSCAR returns the POSCAR file of the calculation.
func (c *Calculation) POSCAR() *InputFile {
	return newInputFile(c.config.fs, c.Dir(), POSCAR)
}

// SetINCAR replaces the INCAR file with the text form of content.
func (c *Calculation) SetINCAR(content fmt.Stringer) error {
	return c.INCAR().Write(content.String())
}

// SetKPOINTS replaces the KPOINTS file with the text form of content.
func (c *Calculation) SetKPOINTS(content fmt.Stringer) error {
	return c.KPOINTS().Write(content.String())
}

// SetPOSCAR replaces the POSCAR file with the text form of content.
func (c *Calculation) SetPOSCAR(content fmt.Stringer) error {
	return c.POSCAR().Write(content.String())
}
