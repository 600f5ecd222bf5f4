package bflang

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/reusee/bf/bfvm"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func optimized(t *testing.T, src string) *bfvm.Program {
	t.Helper()
	prog := Optimize(compile(t, src))
	if err := prog.Verify(); err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestOptimizePipeline(t *testing.T) {
	wantCode(t, optimized(t, "++++++++[>+++++++++<-]>.").Code, []bfvm.Instr{
		{Op: bfvm.OpValAdd, Off: 0, Val: 8},
		{Op: bfvm.OpMulAdd, Off: 1, Val: 9},
		{Op: bfvm.OpClear},
		{Op: bfvm.OpPtrAdd, Off: 1},
		{Op: bfvm.OpOutput},
	})

	wantCode(t, optimized(t, "[->+<].").Code, []bfvm.Instr{
		{Op: bfvm.OpOutput},
	})

	wantCode(t, optimized(t, "[<]").Code, nil)
	wantCode(t, optimized(t, "[->+<]").Code, nil)
	wantCode(t, optimized(t, "[.]").Code, nil)

	wantCode(t, optimized(t, "+[<]").Code, []bfvm.Instr{
		{Op: bfvm.OpValAdd, Off: 0, Val: 1},
		{Op: bfvm.OpScanLeft},
	})

	wantCode(t, optimized(t, "+[->+<]").Code, []bfvm.Instr{
		{Op: bfvm.OpValAdd, Off: 0, Val: 1},
		{Op: bfvm.OpMulAdd, Off: 1, Val: 1},
		{Op: bfvm.OpClear},
	})

	wantCode(t, optimized(t, "+[-]>[-]<").Code, []bfvm.Instr{
		{Op: bfvm.OpValAdd, Off: 0, Val: 1},
		{Op: bfvm.OpBulkClear, Offs: []int{0, 1}},
	})

	wantCode(t, optimized(t, "+>-<-").Code, []bfvm.Instr{
		{Op: bfvm.OpValAdd, Off: 1, Val: 255},
	})

	wantCode(t, optimized(t, ">>[-]<<").Code, []bfvm.Instr{
		{Op: bfvm.OpClear, Off: 2},
	})

	wantCode(t, optimized(t, ">+>++>+++").Code, []bfvm.Instr{
		{Op: bfvm.OpBulkAdd, Cells: []bfvm.Delta{{Off: 1, Val: 1}, {Off: 2, Val: 2}, {Off: 3, Val: 3}}},
		{Op: bfvm.OpPtrAdd, Off: 3},
	})
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	prog := compile(t, "+[->+<]>.")
	before := make([]bfvm.Instr, len(prog.Code))
	copy(before, prog.Code)
	Optimize(prog)
	if !reflect.DeepEqual(prog.Code, before) {
		t.Fatal("input program changed")
	}
}

var equivalenceCases = []struct {
	src   string
	input string
}{
	{src: "++++++++[>+++++++++<-]>."},
	{src: "+[->+>+<-<]"},
	{src: "+>-<-"},
	{src: "+[-]>[-]<"},
	{src: ">+>++>+++"},
	{src: "[->+<]."},
	{src: "+++[>++<-]>."},
	{src: "++++[->++++<]>[-<+>]<"},
	{src: ",.,.", input: "AB"},
	{src: "+++++[.-]"},
	{src: "+>+>+>>+<<<<[>]>."},
	{src: "+++[>+++[>+<-]<-]>>."},
	{src: helloWorld},
}

func runOn64Cells(t *testing.T, prog *bfvm.Program, input string) (string, []byte, uint) {
	t.Helper()
	vm := bfvm.NewVM(prog)
	vm.Tape = make([]byte, 64)
	var out bytes.Buffer
	vm.Output = &out
	if input != "" {
		vm.Input = strings.NewReader(input)
	}
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	return out.String(), vm.Tape, vm.Cursor
}

func TestOptimizedEquivalence(t *testing.T) {
	for _, c := range equivalenceCases {
		t.Run(c.src, func(t *testing.T) {
			prog := compile(t, c.src)
			rawOut, rawTape, rawCursor := runOn64Cells(t, prog, c.input)

			opt := Optimize(prog)
			if err := opt.Verify(); err != nil {
				t.Fatal(err)
			}
			optOut, optTape, optCursor := runOn64Cells(t, opt, c.input)

			if optOut != rawOut {
				t.Fatalf("output %q, want %q", optOut, rawOut)
			}
			if !bytes.Equal(optTape, rawTape) {
				t.Fatal("tape mismatch")
			}
			if optCursor != rawCursor {
				t.Fatalf("cursor %d, want %d", optCursor, rawCursor)
			}
		})
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	for _, c := range equivalenceCases {
		once := Optimize(compile(t, c.src))
		twice := Optimize(once)
		if !reflect.DeepEqual(once.Code, twice.Code) {
			t.Fatalf("%q: second pass changed the code:\n%svs:\n%s",
				c.src, once.Listing(), twice.Listing())
		}
	}
}

func TestHelloWorld(t *testing.T) {
	out, _, _ := runOn64Cells(t, optimized(t, helloWorld), "")
	if out != "Hello World!\n" {
		t.Fatalf("output %q", out)
	}
}
