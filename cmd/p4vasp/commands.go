package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jrbp/p4vasp"
	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/data"
	"github.com/jrbp/p4vasp/application/schema"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/infrastructure/parser"
	"github.com/jrbp/p4vasp/infrastructure/rawfile"
	"github.com/spf13/cobra"
)

func (a *app) quantity(name string) (data.Quantity, error) {
	q, ok := a.calc.Quantity(name)
	if !ok {
		return nil, &errors.RefinementError{Quantity: name, Err: fmt.Errorf("unknown quantity")}
	}
	return q, nil
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quantities and their refinements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, q := range a.calc.Quantities() {
				fmt.Fprintf(out, "%s: %s\n", q.Name, q.Description)
				for _, r := range q.Refinements {
					fmt.Fprintf(out, "    %-10s %s\n", r.Name, r.Description)
				}
			}
			return nil
		},
	}
}

func (a *app) printCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print <quantity>",
		Short: "Print a summary of a quantity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.quantity(args[0])
			if err != nil {
				return err
			}
			return q.Fprint(cmd.OutOrStdout())
		},
	}
}

func (a *app) reprCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repr <quantity>",
		Short: "Print the representation of a quantity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.quantity(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q.Repr())
			return nil
		},
	}
}

func (a *app) refineCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "refine <quantity> <refinement> [key=value...]",
		Short: "Run a refinement and print its result",
		Long: `Run a refinement of a quantity. Trailing key=value pairs are passed to the
refinement as options, e.g.

	p4vasp refine dos read selection="O(p)"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.ParseArgs(args[2:])
			if err != nil {
				return err
			}
			result, err := a.calc.Refine(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return cmd
}

func (a *app) imageCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "image <quantity> [key=value...]",
		Short: "Write the plot of a quantity to an image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.ParseArgs(args[1:])
			if err != nil {
				return err
			}
			if output != "" {
				opts[data.FilenameOption] = output
			}
			result, err := a.calc.Refine(cmd.Context(), args[0], "to_image", opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Image file, .png or .jpg (default <quantity>.png next to the output file)")
	return cmd
}

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [quantity]",
		Short: "Print the JSON schema of the raw data of a quantity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := schema.NewRawRegistry()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(registry.List(), "\n"))
				return nil
			}
			s, ok := registry.GetSchema(args[0])
			if !ok {
				return &errors.SchemaError{Type: args[0], Err: errors.ErrNotFound}
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func (a *app) importCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import <dump.yaml>",
		Short: "Create an output file from a YAML dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, err := os.ReadFile(args[0])
			if err != nil {
				return &errors.FileError{Op: "read", Path: args[0], Err: err}
			}
			if output == "" {
				output = a.calc.Path()
			}

			f, err := rawfile.Create(cmd.Context(), output)
			if err != nil {
				return err
			}

			n, err := parser.Import(cmd.Context(), f.Store(), parser.NewYamlDumpParser(), dump)
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = &errors.FileError{Op: "close", Path: f.Path(), Err: closeErr}
			}
			if err != nil {
				return err
			}
			a.logger.Info("imported dump", "datasets", n, "file", f.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d datasets to %s\n", n, f.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default the calculation path)")
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	var output, prefix string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the datasets of the output file as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := rawfile.Open(cmd.Context(), a.calc.Path())
			if err != nil {
				return err
			}
			defer f.Close()

			dump, err := parser.Export(cmd.Context(), f.Store(), parser.NewYamlDumpParser(), prefix)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(dump)
				return err
			}
			if err := os.WriteFile(output, dump, 0o644); err != nil {
				return &errors.FileError{Op: "write", Path: output, Err: err}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Dump file (default standard output)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only export datasets whose path starts with prefix")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no calculation
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "p4vasp %s (VASP >= %s)\n", p4vasp.Version, entities.MinimalVersion)
		},
	}
}
