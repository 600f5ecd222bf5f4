package bfvm

import (
	"fmt"
	"strings"
)

// Op tags one IR instruction.
type Op uint8

const (
	OpInvalid Op = iota

	OpPtrAdd
	OpValAdd
	OpValSub
	OpOutput
	OpInput
	OpJumpZero
	OpJumpNotZero
	OpClear
	OpMulAdd
	OpScanLeft
	OpScanRight
	OpBulkAdd
	OpBulkClear
)

var opNames = [...]string{
	OpInvalid:     "Invalid",
	OpPtrAdd:      "PtrAdd",
	OpValAdd:      "ValAdd",
	OpValSub:      "ValSub",
	OpOutput:      "Output",
	OpInput:       "Input",
	OpJumpZero:    "JumpZero",
	OpJumpNotZero: "JumpNotZero",
	OpClear:       "Clear",
	OpMulAdd:      "MulAdd",
	OpScanLeft:    "ScanLeft",
	OpScanRight:   "ScanRight",
	OpBulkAdd:     "BulkAdd",
	OpBulkClear:   "BulkClear",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Delta is one cell update carried by a BulkAdd.
type Delta struct {
	Off int
	Val byte
}

// Instr is one IR instruction. Off holds the cell offset (for PtrAdd,
// the cursor displacement), Val the byte amount or factor, Target the
// index of the matching jump, Cells and Offs the batched operands of
// the bulk forms.
type Instr struct {
	Op     Op
	Off    int
	Val    byte
	Target int
	Cells  []Delta
	Offs   []int
}

func (i Instr) String() string {
	switch i.Op {

	case OpPtrAdd:
		return fmt.Sprintf("PtrAdd %d", i.Off)

	case OpValAdd, OpValSub, OpMulAdd:
		return fmt.Sprintf("%s %d %d", i.Op, i.Off, i.Val)

	case OpClear:
		return fmt.Sprintf("Clear %d", i.Off)

	case OpJumpZero, OpJumpNotZero:
		return fmt.Sprintf("%s -> %d", i.Op, i.Target)

	case OpBulkAdd:
		var b strings.Builder
		b.WriteString("BulkAdd")
		for _, d := range i.Cells {
			fmt.Fprintf(&b, " %d:%d", d.Off, d.Val)
		}
		return b.String()

	case OpBulkClear:
		var b strings.Builder
		b.WriteString("BulkClear")
		for _, off := range i.Offs {
			fmt.Fprintf(&b, " %d", off)
		}
		return b.String()

	}
	return i.Op.String()
}
