package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/reusee/bf/bflang"
	"github.com/reusee/bf/bfvm"
)

func runREPL() {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".bfi_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	defer rl.Close()

	// The tape and cursor live across lines, so a session can build
	// state one snippet at a time.
	vm := newVM(nil)
	vm.Input = os.Stdin
	out := &tailWriter{w: os.Stdout}
	vm.Output = out

	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit := directive(vm, line); quit {
				return
			}
			continue
		}

		prog, err := bflang.CompileString("repl", line)
		if err != nil {
			printError(err)
			continue
		}
		if !*noOpt {
			prog = bflang.Optimize(prog)
		}
		if *dumpIR {
			os.Stderr.WriteString(prog.Listing())
		}

		vm.Prog = prog
		vm.IP = 0
		out.wrote = false
		if err := vm.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		if out.wrote && out.last != '\n' {
			fmt.Println()
		}
	}
}

func directive(vm *bfvm.VM, line string) (quit bool) {
	switch line {

	case ":help":
		fmt.Print(`:help    show this help
:dump    show the tape around the cursor
:reset   zero the tape, cursor and counter
:theory  show the design notes
:quit    leave the session
`)

	case ":dump":
		fmt.Printf("cursor %d\n", vm.Cursor)
		start := 0
		if vm.Cursor < uint(len(vm.Tape)) {
			start = int(vm.Cursor) - 8
			if start < 0 {
				start = 0
			}
		}
		end := start + 16
		if end > len(vm.Tape) {
			end = len(vm.Tape)
		}
		fmt.Printf("tape[%d:%d] %v\n", start, end, vm.Tape[start:end])

	case ":reset":
		vm.Reset()

	case ":theory":
		fmt.Print(bflang.Theory)
		fmt.Print(bfvm.Theory)

	case ":quit":
		return true

	default:
		fmt.Fprintf(os.Stderr, "unknown directive: %s\n", line)

	}
	return false
}

// tailWriter remembers the last byte written so the prompt can go back
// to a fresh line after output that did not end with one.
type tailWriter struct {
	w     io.Writer
	wrote bool
	last  byte
}

func (t *tailWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		t.wrote = true
		t.last = p[len(p)-1]
	}
	return t.w.Write(p)
}
