package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reusee/bf/bflang"
	"github.com/reusee/bf/bfvm"
	"github.com/reusee/bf/cmds"
	"github.com/reusee/bf/logs"
	"github.com/reusee/bf/modes"
	"github.com/reusee/bf/vars"
	"github.com/reusee/dscope"
	"golang.org/x/term"
)

var (
	noOpt    = cmds.Switch("-no-opt")
	dumpIR   = cmds.Switch("-dump-ir")
	tapeSize = cmds.Var[int]("-tape")
)

func main() {
	flags, files := splitArgs(os.Args[1:])
	cmds.Execute(flags)

	if len(files) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			runREPL()
			return
		}
		usage()
		os.Exit(1)
	}
	if len(files) > 1 {
		usage()
		os.Exit(1)
	}

	runFile(files[0])
}

// splitArgs separates dash-prefixed command tokens from the program
// path. -tape takes a value, so the token after it travels with it.
func splitArgs(args []string) (flags, files []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			files = append(files, arg)
			continue
		}
		flags = append(flags, arg)
		if arg == "-tape" && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bfi [options] program.bf")
	cmds.GlobalExecutor.PrintUsage()
}

func runFile(path string) {
	scope := dscope.New(
		new(logs.Module),
		modes.ForProduction(),
	)

	scope.Call(func(
		logger logs.Logger,
	) {
		ctx := logs.WithProgram(context.Background(), path)

		f, err := os.Open(path)
		if err != nil {
			logger.ErrorContext(ctx, "open program", "error", wrap(err))
			os.Exit(1)
		}
		defer f.Close()

		prog, err := bflang.Compile(path, f)
		if err != nil {
			printError(err)
			os.Exit(1)
		}

		if !*noOpt {
			prog = bflang.Optimize(prog)
		}
		if *dumpIR {
			os.Stderr.WriteString(prog.Listing())
		}

		logger.DebugContext(ctx, "run",
			"instructions", len(prog.Code),
		)

		vm := newVM(prog)
		vm.Input = os.Stdin
		vm.Output = os.Stdout

		if err := vm.Run(); err != nil {
			logger.ErrorContext(ctx, "execution halted", "error", logs.WrapProgram(ctx, err))
			os.Exit(1)
		}
	})
}

// printError writes the message with exactly one trailing newline.
// Compile errors render a source excerpt that already ends with one.
func printError(err error) {
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	os.Stderr.WriteString(msg)
}

func newVM(prog *bfvm.Program) *bfvm.VM {
	vm := bfvm.NewVM(prog)
	if n := vars.FirstNonZero(*tapeSize, bfvm.TapeSize); n > 0 && n != len(vm.Tape) {
		vm.Tape = make([]byte, n)
	}
	return vm
}
