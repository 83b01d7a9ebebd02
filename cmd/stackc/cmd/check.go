package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/errors"
	"github.com/cwbudde/stackc/internal/pipeline"
	"github.com/spf13/cobra"
)

var checkVerbose bool

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a program fixture without lowering it",
	Long: `Run the type registry builder and the stack type checker over a YAML
program fixture and report any errors, without lowering to IR.

Examples:
  stackc check program.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: checkFile,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "verbose output")
}

func checkFile(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	prog, err := ast.DecodeProgram(content)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	if checkVerbose {
		fmt.Fprintf(os.Stderr, "Checking %s...\n", filename)
	}

	result := pipeline.Check(prog, source, filename)
	if len(result.Errors) != 0 {
		printErrors(result.Errors)
		return fmt.Errorf("type checking failed with %d error(s)", len(result.Errors))
	}

	fmt.Printf("%s: ok\n", filename)
	return nil
}

func printErrors(errs []*errors.CompilerError) {
	fmt.Fprint(os.Stderr, errors.FormatErrors(errs, true))
	fmt.Fprintln(os.Stderr)
}
