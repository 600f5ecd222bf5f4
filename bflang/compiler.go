package bflang

import (
	"fmt"

	"github.com/reusee/bf/bfvm"
)

type compiler struct {
	name  string
	code  []bfvm.Instr
	loops []loopFrame

	// pending is the cursor displacement accumulated from movement
	// commands since the last sequence point. Value commands fold into
	// it as an instruction offset; it materializes as a single PtrAdd
	// at '.', ',', '[', ']' and at the end of the program.
	pending int
}

type loopFrame struct {
	ip  int
	pos Pos
}

func newCompiler(name string) *compiler {
	return &compiler{
		name: name,
	}
}

func (c *compiler) toProgram() *bfvm.Program {
	return &bfvm.Program{
		Name: c.name,
		Code: c.code,
	}
}

func (c *compiler) emit(in bfvm.Instr) {
	c.code = append(c.code, in)
}

func (c *compiler) currentIP() int {
	return len(c.code)
}

func (c *compiler) flushPointer() {
	if c.pending == 0 {
		return
	}
	c.emit(bfvm.Instr{
		Op:  bfvm.OpPtrAdd,
		Off: c.pending,
	})
	c.pending = 0
}

// addValue merges a run of '+' or '-' into the code, folding against
// the previous instruction when it addresses the same cell. Equal
// opposites cancel to nothing; a dominated opposite flips kind. A
// same-kind merge keeps the instruction even when the sum wraps to
// zero, so lowering alone never loses a tape access.
func (c *compiler) addValue(op bfvm.Op, val byte) {
	opposite := bfvm.OpValSub
	if op == bfvm.OpValSub {
		opposite = bfvm.OpValAdd
	}

	if n := len(c.code); n > 0 {
		last := &c.code[n-1]
		switch {

		case last.Op == op && last.Off == c.pending:
			last.Val += val
			return

		case last.Op == opposite && last.Off == c.pending:
			switch {
			case last.Val > val:
				last.Val -= val
			case last.Val == val:
				c.code = c.code[:n-1]
			default:
				rem := val - last.Val
				c.code = c.code[:n-1]
				c.emit(bfvm.Instr{
					Op:  op,
					Off: c.pending,
					Val: rem,
				})
			}
			return

		}
	}

	c.emit(bfvm.Instr{
		Op:  op,
		Off: c.pending,
		Val: val,
	})
}

// runLen counts the consecutive tokens carrying the same command
// character, starting at i.
func runLen(tokens []Token, i int) int {
	ch := tokens[i].Ch
	n := 0
	for i+n < len(tokens) && tokens[i+n].Ch == ch {
		n++
	}
	return n
}

func (c *compiler) lower(tokens []Token) error {
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Ch {

		case '>':
			n := runLen(tokens, i)
			c.pending += n
			i += n

		case '<':
			n := runLen(tokens, i)
			c.pending -= n
			i += n

		case '+':
			n := runLen(tokens, i)
			c.addValue(bfvm.OpValAdd, byte(n%256))
			i += n

		case '-':
			n := runLen(tokens, i)
			c.addValue(bfvm.OpValSub, byte(n%256))
			i += n

		case '.':
			c.flushPointer()
			c.emit(bfvm.Instr{Op: bfvm.OpOutput})
			i++

		case ',':
			c.flushPointer()
			c.emit(bfvm.Instr{Op: bfvm.OpInput})
			i++

		case '[':
			// [-] and [+] clear the cursor cell directly.
			if i+2 < len(tokens) &&
				tokens[i+2].Ch == ']' &&
				(tokens[i+1].Ch == '-' || tokens[i+1].Ch == '+') {
				c.flushPointer()
				c.emit(bfvm.Instr{Op: bfvm.OpClear})
				i += 3
				continue
			}
			c.flushPointer()
			c.loops = append(c.loops, loopFrame{
				ip:  c.currentIP(),
				pos: tok.Pos,
			})
			c.emit(bfvm.Instr{Op: bfvm.OpJumpZero})
			i++

		case ']':
			c.flushPointer()
			if len(c.loops) == 0 {
				return WithPos(fmt.Errorf("unmatched ']'"), tok.Pos)
			}
			frame := c.loops[len(c.loops)-1]
			c.loops = c.loops[:len(c.loops)-1]
			jnz := c.currentIP()
			c.emit(bfvm.Instr{
				Op:     bfvm.OpJumpNotZero,
				Target: frame.ip,
			})
			c.code[frame.ip].Target = jnz
			i++

		}
	}

	c.flushPointer()
	if len(c.loops) > 0 {
		frame := c.loops[len(c.loops)-1]
		return WithPos(fmt.Errorf("unmatched '['"), frame.pos)
	}
	return nil
}
