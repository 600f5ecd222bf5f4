package bfvm

import (
	"fmt"
	"io"
	"os"
)

type flusher interface {
	Flush() error
}

// Run executes the program until the counter passes the end of the
// code, a tape access faults, or an output write fails. Input
// exhaustion is not an error: the addressed cell keeps its prior
// value.
func (v *VM) Run() error {
	code := v.Prog.Code
	size := uint(len(v.Tape))

	out := v.Output
	if out == nil {
		out = os.Stdout
	}
	sink, _ := out.(flusher)

	var buf [1]byte

	for {
		ip := v.IP
		if ip >= len(code) {
			return nil
		}
		v.IP = ip + 1
		in := &code[ip]

		switch in.Op {

		case OpPtrAdd:
			v.Cursor += uint(in.Off)

		case OpValAdd:
			addr := v.Cursor + uint(in.Off)
			if addr >= size {
				return v.fault(addr, ip, in.Op)
			}
			v.Tape[addr] += in.Val

		case OpValSub:
			addr := v.Cursor + uint(in.Off)
			if addr >= size {
				return v.fault(addr, ip, in.Op)
			}
			v.Tape[addr] -= in.Val

		case OpOutput:
			if v.Cursor >= size {
				return v.fault(v.Cursor, ip, in.Op)
			}
			buf[0] = v.Tape[v.Cursor]
			if _, err := out.Write(buf[:1]); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if sink != nil {
				if err := sink.Flush(); err != nil {
					return fmt.Errorf("flush output: %w", err)
				}
			}

		case OpInput:
			if v.Cursor >= size {
				return v.fault(v.Cursor, ip, in.Op)
			}
			if v.Input != nil {
				if _, err := io.ReadFull(v.Input, buf[:1]); err == nil {
					v.Tape[v.Cursor] = buf[0]
				}
			}

		case OpJumpZero:
			if v.Cursor >= size {
				return v.fault(v.Cursor, ip, in.Op)
			}
			if v.Tape[v.Cursor] == 0 {
				v.IP = in.Target + 1
			}

		case OpJumpNotZero:
			if v.Cursor >= size {
				return v.fault(v.Cursor, ip, in.Op)
			}
			if v.Tape[v.Cursor] != 0 {
				v.IP = in.Target + 1
			}

		case OpClear:
			addr := v.Cursor + uint(in.Off)
			if addr >= size {
				return v.fault(addr, ip, in.Op)
			}
			v.Tape[addr] = 0

		case OpMulAdd:
			if v.Cursor >= size {
				return v.fault(v.Cursor, ip, in.Op)
			}
			if src := v.Tape[v.Cursor]; src != 0 {
				addr := v.Cursor + uint(in.Off)
				if addr >= size {
					return v.fault(addr, ip, in.Op)
				}
				v.Tape[addr] += src * in.Val
			}

		case OpScanLeft:
			if v.Cursor >= size {
				return v.fault(v.Cursor, ip, in.Op)
			}
			i := int(v.Cursor)
			for i >= 0 && v.Tape[i] != 0 {
				i--
			}
			if i < 0 {
				// No zero at or below: park the cursor out of range,
				// the next access faults.
				v.Cursor = ^uint(0)
			} else {
				v.Cursor = uint(i)
			}

		case OpScanRight:
			if v.Cursor > size {
				return v.fault(v.Cursor, ip, in.Op)
			}
			i := v.Cursor
			for i < size && v.Tape[i] != 0 {
				i++
			}
			v.Cursor = i

		case OpBulkAdd:
			for _, d := range in.Cells {
				addr := v.Cursor + uint(d.Off)
				if addr >= size {
					return v.fault(addr, ip, in.Op)
				}
				v.Tape[addr] += d.Val
			}

		case OpBulkClear:
			for _, off := range in.Offs {
				addr := v.Cursor + uint(off)
				if addr >= size {
					return v.fault(addr, ip, in.Op)
				}
				v.Tape[addr] = 0
			}

		default:
			return fmt.Errorf("%s: instruction %d: invalid opcode", v.Prog.Name, ip)

		}
	}
}

func (v *VM) fault(addr uint, ip int, op Op) error {
	return &FaultError{Addr: addr, IP: ip, Op: op}
}
