package ir

import (
	"fmt"
	"strings"
)

// VerificationError reports a structural defect in an emitted function —
// a stand-in for LLVMVerifyFunction, since this package never links
// against the real LLVM verifier (spec.md §4.4 step 6).
type VerificationError struct {
	Function string
	Reason   string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("IR verification failed for function %q: %s", e.Function, e.Reason)
}

// Verify checks every basic block ends in exactly one terminator and that
// every phi node's incoming-block set equals the block's actual
// predecessor set, reconstructed from the branch instructions that target
// it. A declaration (no body) always verifies trivially.
func Verify(f *Function) error {
	if !f.HasBody {
		return nil
	}

	preds := make(map[string][]string)
	for _, b := range f.Blocks {
		for _, target := range b.branchTargets() {
			preds[target] = append(preds[target], b.Label)
		}
	}

	for _, b := range f.Blocks {
		if !b.terminated() {
			return &VerificationError{Function: f.Name, Reason: fmt.Sprintf("block %q has no terminator", b.Label)}
		}
		for _, in := range b.instrs[:len(b.instrs)-1] {
			if p, ok := in.(plainInstr); ok && (strings.HasPrefix(p.text, "ret ") || strings.HasPrefix(p.text, "br ")) {
				return &VerificationError{Function: f.Name, Reason: fmt.Sprintf("block %q has a terminator before its last instruction", b.Label)}
			}
		}

		want := preds[b.Label]
		for _, phi := range b.phis() {
			if len(phi.incoming) != len(want) {
				return &VerificationError{
					Function: f.Name,
					Reason: fmt.Sprintf("phi %s in block %q has %d incoming edge(s), block has %d predecessor(s)",
						phi.result, b.Label, len(phi.incoming), len(want)),
				}
			}
			if !sameBlockSet(phi.incoming, want) {
				return &VerificationError{
					Function: f.Name,
					Reason:   fmt.Sprintf("phi %s in block %q has incoming blocks that do not match its predecessors", phi.result, b.Label),
				}
			}
		}
	}
	return nil
}

func sameBlockSet(incoming []phiIncoming, preds []string) bool {
	seen := make(map[string]int, len(preds))
	for _, p := range preds {
		seen[p]++
	}
	for _, in := range incoming {
		if seen[in.Block.Label] == 0 {
			return false
		}
		seen[in.Block.Label]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
