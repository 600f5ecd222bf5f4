package bflang

import (
	"slices"

	"github.com/reusee/bf/bfvm"
)

// rewriteLoops replaces recognizable loop bodies with their closed
// forms: single-step movement loops become scans, and balanced
// decrement-and-distribute loops become MulAdd runs followed by a
// Clear. Unrecognized loops are kept; nested loops inside them get
// their own chance when the walk reaches them.
func rewriteLoops(code []bfvm.Instr) []bfvm.Instr {
	out := make([]bfvm.Instr, 0, len(code))
	i := 0
	for i < len(code) {
		in := code[i]
		if in.Op == bfvm.OpJumpZero {
			body := code[i+1 : in.Target]
			if rep, ok := scanLoop(body); ok {
				out = append(out, rep)
				i = in.Target + 1
				continue
			}
			if rep, ok := moveLoop(body); ok {
				out = append(out, rep...)
				i = in.Target + 1
				continue
			}
		}
		out = append(out, in)
		i++
	}
	repairJumps(out)
	return out
}

// scanLoop matches a body that only moves the cursor one cell per
// iteration.
func scanLoop(body []bfvm.Instr) (bfvm.Instr, bool) {
	if len(body) != 1 || body[0].Op != bfvm.OpPtrAdd {
		return bfvm.Instr{}, false
	}
	switch body[0].Off {
	case 1:
		return bfvm.Instr{Op: bfvm.OpScanRight}, true
	case -1:
		return bfvm.Instr{Op: bfvm.OpScanLeft}, true
	}
	return bfvm.Instr{}, false
}

// moveLoop matches a body of movement and value updates whose cursor
// returns to the loop cell and whose net effect on that cell is a
// single decrement per iteration. Such a loop runs the cell down to
// zero, adding cell*delta into each touched neighbor. Cells the body
// touches with a zero net delta still get a MulAdd, with factor zero,
// so the rewrite touches the same tape addresses the loop would.
func moveLoop(body []bfvm.Instr) ([]bfvm.Instr, bool) {
	ptr := 0
	deltas := make(map[int]int)
	for _, in := range body {
		switch in.Op {
		case bfvm.OpPtrAdd:
			ptr += in.Off
		case bfvm.OpValAdd:
			deltas[ptr+in.Off] += int(in.Val)
		case bfvm.OpValSub:
			deltas[ptr+in.Off] -= int(in.Val)
		case bfvm.OpBulkAdd:
			for _, d := range in.Cells {
				deltas[ptr+d.Off] += int(d.Val)
			}
		default:
			return nil, false
		}
	}
	if ptr != 0 {
		return nil, false
	}
	if (deltas[0]+1)%256 != 0 {
		return nil, false
	}

	offs := make([]int, 0, len(deltas))
	for off := range deltas {
		if off != 0 {
			offs = append(offs, off)
		}
	}
	slices.Sort(offs)

	out := make([]bfvm.Instr, 0, len(offs)+1)
	for _, off := range offs {
		out = append(out, bfvm.Instr{
			Op:  bfvm.OpMulAdd,
			Off: off,
			Val: byte(deltas[off]),
		})
	}
	out = append(out, bfvm.Instr{Op: bfvm.OpClear})
	return out, true
}
