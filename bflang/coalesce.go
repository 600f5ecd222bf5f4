package bflang

import "github.com/reusee/bf/bfvm"

// coalesce batches straight-line cell updates. Cursor moves sink past
// value updates into their offsets, then adjacent updates merge into
// bulk instructions. Zero-net updates vanish here: equivalence is
// judged on runs that stay on the tape.
//
// A vanished run can leave two mergeable runs adjacent, so batching
// repeats until the code stops shrinking.
func coalesce(code []bfvm.Instr) []bfvm.Instr {
	out := sinkMoves(code)
	for {
		next := batch(out)
		if len(next) == len(out) {
			out = next
			break
		}
		out = next
	}
	repairJumps(out)
	return out
}

// sinkMoves delays cursor movement. A pending displacement absorbs
// PtrAdds and shifts the offsets of value updates and clears flowing
// past; it materializes as one PtrAdd before anything that reads the
// cursor: MulAdd, scans, I/O and jumps.
func sinkMoves(code []bfvm.Instr) []bfvm.Instr {
	out := make([]bfvm.Instr, 0, len(code))
	pending := 0
	flush := func() {
		if pending != 0 {
			out = append(out, bfvm.Instr{
				Op:  bfvm.OpPtrAdd,
				Off: pending,
			})
			pending = 0
		}
	}
	for _, in := range code {
		switch in.Op {

		case bfvm.OpPtrAdd:
			pending += in.Off

		case bfvm.OpValAdd, bfvm.OpValSub, bfvm.OpClear:
			in.Off += pending
			out = append(out, in)

		case bfvm.OpBulkAdd:
			if pending != 0 {
				cells := make([]bfvm.Delta, len(in.Cells))
				for i, d := range in.Cells {
					d.Off += pending
					cells[i] = d
				}
				in.Cells = cells
			}
			out = append(out, in)

		case bfvm.OpBulkClear:
			if pending != 0 {
				offs := make([]int, len(in.Offs))
				for i, off := range in.Offs {
					offs[i] = off + pending
				}
				in.Offs = offs
			}
			out = append(out, in)

		default:
			flush()
			out = append(out, in)

		}
	}
	flush()
	return out
}

func isAddLike(op bfvm.Op) bool {
	return op == bfvm.OpValAdd || op == bfvm.OpValSub || op == bfvm.OpBulkAdd
}

func isClearLike(op bfvm.Op) bool {
	return op == bfvm.OpClear || op == bfvm.OpBulkClear
}

// batch merges maximal runs of value updates into one BulkAdd and
// maximal runs of clears into one BulkClear. Single instructions pass
// through.
func batch(code []bfvm.Instr) []bfvm.Instr {
	out := make([]bfvm.Instr, 0, len(code))
	i := 0
	for i < len(code) {
		switch {

		case isAddLike(code[i].Op):
			j := i
			for j < len(code) && isAddLike(code[j].Op) {
				j++
			}
			if j-i >= 2 {
				out = appendAddRun(out, code[i:j])
				i = j
				continue
			}

		case isClearLike(code[i].Op):
			j := i
			for j < len(code) && isClearLike(code[j].Op) {
				j++
			}
			if j-i >= 2 {
				out = appendClearRun(out, code[i:j])
				i = j
				continue
			}

		}
		out = append(out, code[i])
		i++
	}
	return out
}

// appendAddRun sums the run per offset, first touch first, and emits
// the smallest form that holds the result.
func appendAddRun(out []bfvm.Instr, run []bfvm.Instr) []bfvm.Instr {
	var order []int
	sums := make(map[int]int)
	add := func(off int, n int) {
		if _, ok := sums[off]; !ok {
			order = append(order, off)
		}
		sums[off] += n
	}
	for _, in := range run {
		switch in.Op {
		case bfvm.OpValAdd:
			add(in.Off, int(in.Val))
		case bfvm.OpValSub:
			add(in.Off, -int(in.Val))
		case bfvm.OpBulkAdd:
			for _, d := range in.Cells {
				add(d.Off, int(d.Val))
			}
		}
	}

	var cells []bfvm.Delta
	for _, off := range order {
		if v := byte(sums[off]); v != 0 {
			cells = append(cells, bfvm.Delta{Off: off, Val: v})
		}
	}
	switch len(cells) {
	case 0:
		return out
	case 1:
		return append(out, bfvm.Instr{
			Op:  bfvm.OpValAdd,
			Off: cells[0].Off,
			Val: cells[0].Val,
		})
	}
	return append(out, bfvm.Instr{
		Op:    bfvm.OpBulkAdd,
		Cells: cells,
	})
}

// appendClearRun dedups the cleared offsets, first touch first.
func appendClearRun(out []bfvm.Instr, run []bfvm.Instr) []bfvm.Instr {
	var offs []int
	seen := make(map[int]bool)
	add := func(off int) {
		if !seen[off] {
			seen[off] = true
			offs = append(offs, off)
		}
	}
	for _, in := range run {
		switch in.Op {
		case bfvm.OpClear:
			add(in.Off)
		case bfvm.OpBulkClear:
			for _, off := range in.Offs {
				add(off)
			}
		}
	}
	if len(offs) == 1 {
		return append(out, bfvm.Instr{
			Op:  bfvm.OpClear,
			Off: offs[0],
		})
	}
	return append(out, bfvm.Instr{
		Op:   bfvm.OpBulkClear,
		Offs: offs,
	})
}
