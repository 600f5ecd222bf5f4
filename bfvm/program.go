package bfvm

import (
	"fmt"
	"strings"
)

// Program is an immutable instruction sequence. Optimization passes
// consume one Program and produce a new one, they never mutate in
// place.
type Program struct {
	Name string
	Code []Instr
}

// Verify checks the jump pairing contract: every JumpZero has exactly
// one matching JumpNotZero, targets point at each other, and pairs
// nest without crossing. It runs once after construction; passes and
// backends rely on it without re-checking.
func (p *Program) Verify() error {
	var stack []int
	for i, in := range p.Code {
		switch in.Op {

		case OpInvalid:
			return fmt.Errorf("%s: instruction %d: invalid opcode", p.Name, i)

		case OpJumpZero:
			stack = append(stack, i)

		case OpJumpNotZero:
			if len(stack) == 0 {
				return fmt.Errorf("%s: instruction %d: %s without an opening jump", p.Name, i, in.Op)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if p.Code[open].Target != i {
				return fmt.Errorf("%s: instruction %d: opening jump at %d targets %d, want %d",
					p.Name, i, open, p.Code[open].Target, i)
			}
			if in.Target != open {
				return fmt.Errorf("%s: instruction %d: targets %d, want %d",
					p.Name, i, in.Target, open)
			}

		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("%s: instruction %d: unclosed jump", p.Name, stack[len(stack)-1])
	}
	return nil
}

// Listing renders the program one instruction per line, with indices.
func (p *Program) Listing() string {
	var b strings.Builder
	for i, in := range p.Code {
		fmt.Fprintf(&b, "%4d  %s\n", i, in)
	}
	return b.String()
}
