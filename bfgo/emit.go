package bfgo

import (
	"bufio"
	"fmt"
	"io"

	"github.com/reusee/bf/bfvm"
)

// Emit writes the program as a standalone Go source file. The emitted
// program allocates the same tape, runs the same instruction effects
// in source form, and needs nothing beyond the standard library. Tape
// faults surface as index panics where the interpreter would return a
// fault error.
func Emit(w io.Writer, prog *bfvm.Program) error {
	var needOut, needIn, needScanLeft, needScanRight bool
	for _, in := range prog.Code {
		switch in.Op {
		case bfvm.OpOutput:
			needOut = true
		case bfvm.OpInput:
			needIn = true
		case bfvm.OpScanLeft:
			needScanLeft = true
		case bfvm.OpScanRight:
			needScanRight = true
		}
	}

	e := &emitter{w: bufio.NewWriter(w)}

	e.line("// Code generated by bfc. DO NOT EDIT.")
	e.blank()
	e.line("package main")

	if needIn || needOut {
		e.blank()
		if needIn {
			e.line("import (")
			e.indent++
			e.line(`"io"`)
			e.line(`"os"`)
			e.indent--
			e.line(")")
		} else {
			e.line(`import "os"`)
		}
	}

	if needOut {
		e.blank()
		e.line("func outByte(b byte) {")
		e.indent++
		e.line("if _, err := os.Stdout.Write([]byte{b}); err != nil {")
		e.indent++
		e.line("panic(err)")
		e.indent--
		e.line("}")
		e.indent--
		e.line("}")
	}

	if needIn {
		e.blank()
		e.line("func inByte(p *byte) {")
		e.indent++
		e.line("var buf [1]byte")
		e.line("if _, err := io.ReadFull(os.Stdin, buf[:]); err == nil {")
		e.indent++
		e.line("*p = buf[0]")
		e.indent--
		e.line("}")
		e.indent--
		e.line("}")
	}

	if needScanLeft {
		e.blank()
		e.line("func scanLeft(tape []byte, ptr uint) uint {")
		e.indent++
		e.line("_ = tape[ptr]")
		e.line("for tape[ptr] != 0 {")
		e.indent++
		e.line("if ptr == 0 {")
		e.indent++
		e.line("return ^uint(0)")
		e.indent--
		e.line("}")
		e.line("ptr--")
		e.indent--
		e.line("}")
		e.line("return ptr")
		e.indent--
		e.line("}")
	}

	if needScanRight {
		e.blank()
		e.line("func scanRight(tape []byte, ptr uint) uint {")
		e.indent++
		e.line("_ = tape[ptr:]")
		e.line("for ptr < uint(len(tape)) && tape[ptr] != 0 {")
		e.indent++
		e.line("ptr++")
		e.indent--
		e.line("}")
		e.line("return ptr")
		e.indent--
		e.line("}")
	}

	e.blank()
	e.line("func main() {")
	e.indent++
	e.line("tape := make([]byte, %d)", bfvm.TapeSize)
	e.line("ptr := uint(0)")
	for _, in := range prog.Code {
		e.instr(in)
	}
	e.line("_, _ = tape, ptr")
	e.indent--
	e.line("}")

	return e.done()
}

type emitter struct {
	w      *bufio.Writer
	indent int
	err    error
}

func (e *emitter) line(format string, args ...any) {
	if e.err != nil {
		return
	}
	for range e.indent {
		if e.err = e.w.WriteByte('\t'); e.err != nil {
			return
		}
	}
	if _, e.err = fmt.Fprintf(e.w, format, args...); e.err != nil {
		return
	}
	e.err = e.w.WriteByte('\n')
}

func (e *emitter) blank() {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte('\n')
}

func (e *emitter) done() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// cell renders a tape access at an offset from the cursor. Negative
// offsets render as a subtraction; the unsigned wrap makes the access
// panic when it would leave the tape.
func cell(off int) string {
	switch {
	case off > 0:
		return fmt.Sprintf("tape[ptr+%d]", off)
	case off < 0:
		return fmt.Sprintf("tape[ptr-%d]", -off)
	}
	return "tape[ptr]"
}

func (e *emitter) instr(in bfvm.Instr) {
	switch in.Op {

	case bfvm.OpPtrAdd:
		if in.Off > 0 {
			e.line("ptr += %d", in.Off)
		} else if in.Off < 0 {
			e.line("ptr -= %d", -in.Off)
		}

	case bfvm.OpValAdd:
		e.line("%s += %d", cell(in.Off), in.Val)

	case bfvm.OpValSub:
		e.line("%s -= %d", cell(in.Off), in.Val)

	case bfvm.OpOutput:
		e.line("outByte(tape[ptr])")

	case bfvm.OpInput:
		e.line("inByte(&tape[ptr])")

	case bfvm.OpJumpZero:
		e.line("for tape[ptr] != 0 {")
		e.indent++

	case bfvm.OpJumpNotZero:
		e.indent--
		e.line("}")

	case bfvm.OpClear:
		e.line("%s = 0", cell(in.Off))

	case bfvm.OpMulAdd:
		e.line("if tape[ptr] != 0 {")
		e.indent++
		if in.Val == 1 {
			e.line("%s += tape[ptr]", cell(in.Off))
		} else {
			e.line("%s += tape[ptr] * %d", cell(in.Off), in.Val)
		}
		e.indent--
		e.line("}")

	case bfvm.OpScanLeft:
		e.line("ptr = scanLeft(tape, ptr)")

	case bfvm.OpScanRight:
		e.line("ptr = scanRight(tape, ptr)")

	case bfvm.OpBulkAdd:
		for _, d := range in.Cells {
			e.line("%s += %d", cell(d.Off), d.Val)
		}

	case bfvm.OpBulkClear:
		for _, off := range in.Offs {
			e.line("%s = 0", cell(off))
		}

	default:
		if e.err == nil {
			e.err = fmt.Errorf("cannot emit %s", in.Op)
		}

	}
}
