package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	lowerOutputFile string
	lowerVerbose    bool
)

var lowerCmd = &cobra.Command{
	Use:   "lower [file]",
	Short: "Check and lower a program fixture to LLVM textual IR",
	Long: `Run the full pipeline — type registry, stack type checker, then
structured-to-SSA lowering — over a YAML program fixture and write the
resulting LLVM textual IR.

Examples:
  # Lower a program to stdout
  stackc lower program.yaml

  # Lower to a specific .ll file
  stackc lower program.yaml -o program.ll`,
	Args: cobra.ExactArgs(1),
	RunE: lowerFile,
}

func init() {
	rootCmd.AddCommand(lowerCmd)
	lowerCmd.Flags().StringVarP(&lowerOutputFile, "output", "o", "", "output file (default: stdout)")
	lowerCmd.Flags().BoolVarP(&lowerVerbose, "verbose", "v", false, "verbose output")
}

func lowerFile(_ *cobra.Command, args []string) error {
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

	if lowerVerbose {
		fmt.Fprintf(os.Stderr, "Lowering %s...\n", filename)
	}

	module, errs := pipeline.Lower(prog, source, filename)
	if len(errs) != 0 {
		printErrors(errs)
		return fmt.Errorf("compilation failed with %d error(s)", len(errs))
	}

	text := module.Render()

	if lowerOutputFile == "" {
		fmt.Print(text)
		return nil
	}

	outFile := lowerOutputFile
	if err := os.WriteFile(outFile, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}
	if lowerVerbose {
		fmt.Fprintf(os.Stderr, "IR written to %s (%d bytes)\n", outFile, len(text))
	} else {
		fmt.Printf("Lowered %s -> %s\n", filename, outFile)
	}
	return nil
}
