package ir

import (
	"fmt"
	"strings"
)

// instr is one rendered line inside a basic block. phiInstr is mutable
// (its incoming list grows after creation, e.g. a while loop's back-edge);
// every other instruction is a fixed string decided at emit time.
type instr interface {
	render() string
}

type plainInstr struct{ text string }

func (i plainInstr) render() string { return i.text }

// phiIncoming is one (value, predecessor block) pair of a phi node.
type phiIncoming struct {
	Value Value
	Block *Block
}

type phiInstr struct {
	result   string
	irType   string
	incoming []phiIncoming
}

func (p *phiInstr) addIncoming(v Value, b *Block) {
	p.incoming = append(p.incoming, phiIncoming{Value: v, Block: b})
}

func (p *phiInstr) render() string {
	parts := make([]string, len(p.incoming))
	for i, in := range p.incoming {
		parts[i] = fmt.Sprintf("[ %s, %%%s ]", in.Value.Text, in.Block.Label)
	}
	return fmt.Sprintf("%s = phi %s %s", p.result, p.irType, strings.Join(parts, ", "))
}

// Block is one basic block: a label and its ordered instructions, the last
// of which must be a terminator (br/ret) once the block is finished.
type Block struct {
	Label  string
	instrs []instr
}

func (b *Block) append(i instr) { b.instrs = append(b.instrs, i) }

// terminated reports whether the block's last instruction is a
// terminator (ret/br); used by the verifier.
func (b *Block) terminated() bool {
	if len(b.instrs) == 0 {
		return false
	}
	last, ok := b.instrs[len(b.instrs)-1].(plainInstr)
	if !ok {
		return false
	}
	return strings.HasPrefix(last.text, "ret ") || strings.HasPrefix(last.text, "br ")
}

func (b *Block) render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", b.Label)
	for _, i := range b.instrs {
		fmt.Fprintf(&sb, "  %s\n", i.render())
	}
	return sb.String()
}

// branchTargets returns the labels this block's terminator branches to, if
// any — used by the verifier to reconstruct the predecessor graph.
func (b *Block) branchTargets() []string {
	if len(b.instrs) == 0 {
		return nil
	}
	last, ok := b.instrs[len(b.instrs)-1].(plainInstr)
	if !ok {
		return nil
	}
	text := last.text
	switch {
	case strings.HasPrefix(text, "br label %"):
		return []string{strings.TrimPrefix(text, "br label %")}
	case strings.HasPrefix(text, "br i1"):
		// br i1 %cond, label %a, label %b
		fields := strings.Split(text, "label %")
		if len(fields) != 3 {
			return nil
		}
		a := strings.TrimSuffix(strings.TrimSpace(fields[1]), ",")
		b := strings.TrimSpace(fields[2])
		return []string{a, b}
	default:
		return nil
	}
}

func (b *Block) phis() []*phiInstr {
	var out []*phiInstr
	for _, i := range b.instrs {
		if p, ok := i.(*phiInstr); ok {
			out = append(out, p)
		}
	}
	return out
}
