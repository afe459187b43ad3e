// Command p4vasp inspects the output of a VASP calculation.
package main

import (
	"fmt"
	"os"

	"github.com/jrbp/p4vasp/domain/errors"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.ToErrorDetail(err))
		os.Exit(1)
	}
}
