package main

import (
	"fmt"
	"log/slog"

	"github.com/jrbp/p4vasp"
	"github.com/jrbp/p4vasp/application/calculation"
	"github.com/jrbp/p4vasp/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	config *Config
	logger *slog.Logger
	zap    *zap.Logger
	calc   *calculation.Calculation
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "p4vasp",
		Short: "Inspect the output of a VASP calculation",
		Long: `p4vasp reads the output file of a VASP calculation and refines it into
results, text and images.

Usage examples:

1. List the quantities and their refinements:

	p4vasp list

2. Read the projected density of states of a calculation:

	p4vasp refine dos read selection="Sr, Ti(d)" --path ~/calc

3. Plot the band structure:

	p4vasp image band -o bands.png
`,
		Version:           p4vasp.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("path", "p", DefaultPath, "Directory of the calculation or path of its output file")
	flags.String("log-level", DefaultLogLevel, "Minimum log level: debug, info, warn or error")
	flags.String("log-mode", DefaultLogMode, "Log format: development, production or nop")

	root.AddCommand(
		a.listCommand(),
		a.printCommand(),
		a.reprCommand(),
		a.refineCommand(),
		a.imageCommand(),
		a.schemaCommand(),
		a.importCommand(),
		a.exportCommand(),
		versionCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a.config = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.zap, err = log.NewZapLogger(cfg.LogMode, level)
	if err != nil {
		return err
	}
	a.logger = log.New(log.WithLogger(a.zap), log.WithLevel(level))

	a.calc, err = calculation.FromPath(cfg.Path, calculation.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("failed to set up calculation: %w", err)
	}
	a.logger.Debug("configuration loaded", "path", a.calc.Path(), "log_mode", cfg.LogMode)
	return nil
}
