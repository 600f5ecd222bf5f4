package bflang

import "github.com/reusee/bf/bfvm"

// passes run in order. Loop rewriting goes first so the dead code pass
// sees MulAdd and Clear forms; coalescing runs last over whatever
// survives.
var passes = []func([]bfvm.Instr) []bfvm.Instr{
	rewriteLoops,
	eliminateDead,
	coalesce,
}

// Optimize applies the pass pipeline and returns a new program. The
// input is left untouched.
func Optimize(prog *bfvm.Program) *bfvm.Program {
	code := prog.Code
	for _, pass := range passes {
		code = pass(code)
	}
	return &bfvm.Program{
		Name: prog.Name,
		Code: code,
	}
}

// repairJumps rewrites jump targets after a pass has shifted
// instruction indices. Pairs nest without crossing, so a stack walk
// recovers the partners.
func repairJumps(code []bfvm.Instr) {
	var stack []int
	for i := range code {
		switch code[i].Op {
		case bfvm.OpJumpZero:
			stack = append(stack, i)
		case bfvm.OpJumpNotZero:
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			code[i].Target = j
			code[j].Target = i
		}
	}
}
