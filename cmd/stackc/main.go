// Command stackc is the ahead-of-time compiler CLI for the stack-oriented
// language this module implements: it drives the type registry builder,
// the stack type checker, and the structured-to-SSA lowering stage over a
// YAML program fixture (see internal/ast.DecodeProgram).
package main

import (
	"os"

	"github.com/cwbudde/stackc/cmd/stackc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
