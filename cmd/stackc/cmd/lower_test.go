package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLowerFileWritesIRToFile(t *testing.T) {
	path := writeFixture(t, addFixture)
	outPath := filepath.Join(t.TempDir(), "program.ll")

	lowerOutputFile = outPath
	defer func() { lowerOutputFile = "" }()

	if err := lowerFile(lowerCmd, []string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected IR output file to exist: %v", err)
	}
	if !strings.Contains(string(out), "define private i32 @add") {
		t.Errorf("expected a definition for add, got:\n%s", out)
	}
}

func TestLowerFileRejectsUntypeableProgram(t *testing.T) {
	path := writeFixture(t, badFixture)
	if err := lowerFile(lowerCmd, []string{path}); err == nil {
		t.Fatal("expected an error for an untypeable program")
	}
}
