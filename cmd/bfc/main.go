package main

import (
	"context"
	"os"
	"strings"

	"github.com/reusee/bf/bfgo"
	"github.com/reusee/bf/bflang"
	"github.com/reusee/bf/cmds"
	"github.com/reusee/bf/logs"
	"github.com/reusee/bf/modes"
	"github.com/reusee/dscope"
)

var (
	noOpt  = cmds.Switch("-no-opt")
	dumpIR = cmds.Switch("-dump-ir")
)

func main() {
	cmds.Execute(os.Args[1:])

	scope := dscope.New(
		new(logs.Module),
		modes.ForProduction(),
	)

	scope.Call(func(
		logger logs.Logger,
	) {
		ctx := logs.WithProgram(context.Background(), "stdin")

		prog, err := bflang.Compile("stdin", os.Stdin)
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

		logger.DebugContext(ctx, "emit",
			"instructions", len(prog.Code),
		)

		if err := bfgo.Emit(os.Stdout, prog); err != nil {
			logger.ErrorContext(ctx, "emit program", "error", wrap(err))
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
