package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "stackc",
	Short: "Ahead-of-time compiler for a stack-oriented, concatenative language",
	Long: `stackc compiles a stack-oriented, concatenative program to LLVM textual
IR through three stages:

  1. Type Registry Builder  — collects every declared and implemented
     function signature into a read-only table.
  2. Stack Type Checker     — walks each function body as a sequence of
     stack-effect operations, resolving generics per call site.
  3. Structured-to-SSA      — lowers the structurally typed body into
     basic blocks and phi nodes, emitted as LLVM textual IR.

The surface syntax parser is out of scope: stackc accepts its input as a
YAML program fixture (see "stackc check -h" and "stackc lower -h").`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
