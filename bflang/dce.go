package bflang

import "github.com/reusee/bf/bfvm"

// zeroState tracks what the pass knows about the cursor cell.
type zeroState uint8

const (
	// zeroKnown: the cursor cell is provably zero here.
	zeroKnown zeroState = iota
	// zeroUnknown: no claim.
	zeroUnknown
)

// eliminateDead walks the code once, threading the zero state: the
// tape starts all zero, a loop exit proves the cell is zero, and any
// write through offset zero or cursor movement gives the knowledge up.
// While the cell is known zero, loops can never be entered and
// clears, scans and MulAdds are no-ops, so they go. Adjacent value
// updates and cursor moves fold on the way through.
func eliminateDead(code []bfvm.Instr) []bfvm.Instr {
	out := make([]bfvm.Instr, 0, len(code))
	state := zeroKnown
	var stack []int
	i := 0
	for i < len(code) {
		in := code[i]
		switch in.Op {

		case bfvm.OpJumpZero:
			if state == zeroKnown {
				i = in.Target + 1
				continue
			}
			stack = append(stack, len(out))
			out = append(out, in)

		case bfvm.OpJumpNotZero:
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			in.Target = j
			out = append(out, in)
			out[j].Target = len(out) - 1
			state = zeroKnown

		case bfvm.OpClear:
			if in.Off == 0 {
				if state != zeroKnown {
					out = append(out, in)
					state = zeroKnown
				}
			} else {
				out = append(out, in)
			}

		case bfvm.OpMulAdd:
			if state != zeroKnown {
				out = append(out, in)
			}

		case bfvm.OpScanLeft, bfvm.OpScanRight:
			if state != zeroKnown {
				out = append(out, in)
				state = zeroKnown
			}

		case bfvm.OpPtrAdd:
			if n := len(out); n > 0 && out[n-1].Op == bfvm.OpPtrAdd {
				out[n-1].Off += in.Off
			} else {
				out = append(out, in)
			}
			if in.Off != 0 {
				state = zeroUnknown
			}

		case bfvm.OpValAdd, bfvm.OpValSub:
			out = foldValue(out, in)
			if in.Off == 0 {
				state = zeroUnknown
			}

		case bfvm.OpInput:
			out = append(out, in)
			state = zeroUnknown

		case bfvm.OpOutput:
			out = append(out, in)

		case bfvm.OpBulkAdd:
			out = append(out, in)
			for _, d := range in.Cells {
				if d.Off == 0 {
					state = zeroUnknown
					break
				}
			}

		case bfvm.OpBulkClear:
			out = append(out, in)
			for _, off := range in.Offs {
				if off == 0 {
					state = zeroKnown
					break
				}
			}

		default:
			out = append(out, in)

		}
		i++
	}
	return dropPtrZero(out)
}

// foldValue merges a value update into the previous instruction when
// both address the same cell. Unlike the lowering fold, a same-kind
// merge that wraps to zero drops the instruction: by this point scan
// rewriting is done and a dead update buys nothing.
func foldValue(out []bfvm.Instr, in bfvm.Instr) []bfvm.Instr {
	opposite := bfvm.OpValSub
	if in.Op == bfvm.OpValSub {
		opposite = bfvm.OpValAdd
	}

	if n := len(out); n > 0 {
		last := &out[n-1]
		switch {

		case last.Op == in.Op && last.Off == in.Off:
			last.Val += in.Val
			if last.Val == 0 {
				return out[:n-1]
			}
			return out

		case last.Op == opposite && last.Off == in.Off:
			switch {
			case last.Val > in.Val:
				last.Val -= in.Val
			case last.Val == in.Val:
				return out[:n-1]
			default:
				last.Op = in.Op
				last.Val = in.Val - last.Val
			}
			return out

		}
	}

	return append(out, in)
}

// dropPtrZero removes cursor moves that folded to nothing. Removing
// instructions shifts indices, so jump targets get rebuilt.
func dropPtrZero(code []bfvm.Instr) []bfvm.Instr {
	out := make([]bfvm.Instr, 0, len(code))
	for _, in := range code {
		if in.Op == bfvm.OpPtrAdd && in.Off == 0 {
			continue
		}
		out = append(out, in)
	}
	repairJumps(out)
	return out
}
