package bfvm

import (
	"io"
)

// TapeSize is the cell count of a freshly allocated tape.
const TapeSize = 30000

// VM executes one Program over one tape. The tape and cursor belong to
// a single run; nothing is shared between executions.
//
// The cursor is a full-width unsigned index and wraps over the whole
// uint range, not the tape length. Every cell access checks the
// effective address against the tape bounds and faults when it falls
// outside.
type VM struct {
	Prog   *Program
	IP     int
	Cursor uint
	Tape   []byte
	Input  io.Reader // nil reads as an exhausted stream
	Output io.Writer // nil writes to stdout
}

func NewVM(prog *Program) *VM {
	return &VM{
		Prog: prog,
		Tape: make([]byte, TapeSize),
	}
}

// Reset zeroes the tape and rewinds the cursor and program counter.
func (v *VM) Reset() {
	clear(v.Tape)
	v.Cursor = 0
	v.IP = 0
}
