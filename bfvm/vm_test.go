package bfvm

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func run(t *testing.T, code []Instr) *VM {
	t.Helper()
	vm := NewVM(&Program{Name: "test", Code: code})
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	return vm
}

func checkCell(t *testing.T, vm *VM, addr int, want byte) {
	t.Helper()
	if got := vm.Tape[addr]; got != want {
		t.Fatalf("cell %d = %d, want %d", addr, got, want)
	}
}

func checkFault(t *testing.T, err error, addr uint) *FaultError {
	t.Helper()
	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("want fault, got %v", err)
	}
	if fault.Addr != addr {
		t.Fatalf("fault address = %d, want %d", fault.Addr, addr)
	}
	return fault
}

func TestValueOps(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpValAdd, Off: 1, Val: 3},
		{Op: OpPtrAdd, Off: 1},
		{Op: OpValAdd, Val: 2},
		{Op: OpValSub, Off: 1, Val: 1},
	})
	checkCell(t, vm, 1, 5)
	checkCell(t, vm, 2, 255)
	if vm.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", vm.Cursor)
	}
}

func TestValueWrap(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpValAdd, Val: 200},
		{Op: OpValAdd, Val: 100},
	})
	checkCell(t, vm, 0, 44)
}

func TestCursorWrapFaults(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpPtrAdd, Off: -1},
		{Op: OpValAdd, Val: 1},
	}})
	checkFault(t, vm.Run(), ^uint(0))
}

func TestCursorWrapWithoutAccess(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpPtrAdd, Off: -1},
		{Op: OpPtrAdd, Off: 1},
		{Op: OpValAdd, Val: 1},
	})
	checkCell(t, vm, 0, 1)
}

func TestClear(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpValAdd, Off: 2, Val: 9},
		{Op: OpClear, Off: 2},
	})
	checkCell(t, vm, 2, 0)

	vm = NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpClear, Off: -1},
	}})
	checkFault(t, vm.Run(), ^uint(0))
}

func TestMulAdd(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpValAdd, Val: 3},
		{Op: OpMulAdd, Off: 2, Val: 5},
	})
	checkCell(t, vm, 2, 15)
	checkCell(t, vm, 0, 3) // source cell is not cleared
}

func TestMulAddZeroSourceSkipsTarget(t *testing.T) {
	// The target address is far out of range, but the source cell is
	// zero, so it must never be touched.
	run(t, []Instr{
		{Op: OpMulAdd, Off: -5, Val: 2},
	})

	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpValAdd, Val: 1},
		{Op: OpMulAdd, Off: -5, Val: 2},
	}})
	checkFault(t, vm.Run(), ^uint(0)-4)
}

func TestJumps(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpValAdd, Val: 3},
		{Op: OpJumpZero, Target: 3},
		{Op: OpValSub, Val: 1},
		{Op: OpJumpNotZero, Target: 1},
	})
	checkCell(t, vm, 0, 0)
	if vm.IP != 4 {
		t.Fatalf("ip = %d, want 4", vm.IP)
	}
}

func TestJumpZeroSkipsBody(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpJumpZero, Target: 2},
		{Op: OpValAdd, Val: 9},
		{Op: OpJumpNotZero, Target: 0},
		{Op: OpValAdd, Off: 1, Val: 1},
	})
	checkCell(t, vm, 0, 0)
	checkCell(t, vm, 1, 1)
}

func TestOutput(t *testing.T) {
	var out bytes.Buffer
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpValAdd, Val: 'A'},
		{Op: OpOutput},
		{Op: OpValAdd, Val: 1},
		{Op: OpOutput},
	}})
	vm.Output = &out
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "AB" {
		t.Fatalf("output %q", out.String())
	}
}

type flushCounter struct {
	bytes.Buffer
	flushes int
}

func (f *flushCounter) Flush() error {
	f.flushes++
	return nil
}

func TestOutputFlushesPerByte(t *testing.T) {
	out := new(flushCounter)
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpValAdd, Val: 'x'},
		{Op: OpOutput},
		{Op: OpOutput},
	}})
	vm.Output = out
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if out.flushes != 2 {
		t.Fatalf("flushes = %d, want 2", out.flushes)
	}
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("sink closed")
}

func TestOutputWriteFailureIsFatal(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpOutput},
	}})
	vm.Output = errWriter{}
	err := vm.Run()
	if err == nil || !strings.Contains(err.Error(), "write output") {
		t.Fatalf("got %v", err)
	}
}

func TestInput(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpInput},
		{Op: OpPtrAdd, Off: 1},
		{Op: OpInput},
	}})
	vm.Input = strings.NewReader("AB")
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	checkCell(t, vm, 0, 'A')
	checkCell(t, vm, 1, 'B')
}

func TestInputExhaustedKeepsCell(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpValAdd, Val: 7},
		{Op: OpInput},
	}})
	vm.Input = strings.NewReader("")
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	checkCell(t, vm, 0, 7)
}

func TestInputNilReader(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpValAdd, Val: 7},
		{Op: OpInput},
	})
	checkCell(t, vm, 0, 7)
}

func TestScanRight(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpScanRight},
	}})
	vm.Tape = []byte{5, 0, 3, 0}
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if vm.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", vm.Cursor)
	}
}

func TestScanRightNoZeroParksAtEnd(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpScanRight},
	}})
	vm.Tape = []byte{1, 2, 3}
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if vm.Cursor != 3 {
		t.Fatalf("cursor = %d, want 3", vm.Cursor)
	}

	// Scanning again from the end is a no-op, but touching a cell
	// faults.
	vm = NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpScanRight},
		{Op: OpScanRight},
		{Op: OpValAdd, Val: 1},
	}})
	vm.Tape = []byte{1, 2, 3}
	checkFault(t, vm.Run(), 3)
}

func TestScanLeft(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpScanLeft},
	}})
	vm.Tape = []byte{5, 0, 3, 0}
	vm.Cursor = 2
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if vm.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", vm.Cursor)
	}
}

func TestScanLeftNoZeroParksOutOfRange(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpScanLeft},
	}})
	vm.Tape = []byte{1, 1}
	vm.Cursor = 1
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if vm.Cursor != ^uint(0) {
		t.Fatalf("cursor = %d", vm.Cursor)
	}
}

func TestScanFaultsWhenCursorOut(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpScanLeft},
	}})
	vm.Tape = []byte{1, 1}
	vm.Cursor = 2
	checkFault(t, vm.Run(), 2)

	vm = NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpScanRight},
	}})
	vm.Tape = []byte{1, 1}
	vm.Cursor = 3
	checkFault(t, vm.Run(), 3)
}

func TestBulkOps(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpBulkAdd, Cells: []Delta{{Off: 0, Val: 1}, {Off: 2, Val: 5}}},
		{Op: OpBulkClear, Offs: []int{0}},
	})
	checkCell(t, vm, 0, 0)
	checkCell(t, vm, 2, 5)

	vm = NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpBulkAdd, Cells: []Delta{{Off: -1, Val: 1}}},
	}})
	checkFault(t, vm.Run(), ^uint(0))
}

func TestFaultMessage(t *testing.T) {
	vm := NewVM(&Program{Name: "test", Code: []Instr{
		{Op: OpPtrAdd, Off: 30000},
		{Op: OpValAdd, Val: 1},
	}})
	err := vm.Run()
	fault := checkFault(t, err, 30000)
	if fault.IP != 1 {
		t.Fatalf("fault ip = %d, want 1", fault.IP)
	}
	if !strings.Contains(err.Error(), "tape address out of range: 30000") {
		t.Fatalf("message %q", err.Error())
	}
}

func TestReset(t *testing.T) {
	vm := run(t, []Instr{
		{Op: OpValAdd, Val: 9},
		{Op: OpPtrAdd, Off: 3},
	})
	vm.Reset()
	checkCell(t, vm, 0, 0)
	if vm.Cursor != 0 || vm.IP != 0 {
		t.Fatalf("cursor = %d, ip = %d", vm.Cursor, vm.IP)
	}
}

func TestListing(t *testing.T) {
	p := &Program{Name: "test", Code: []Instr{
		{Op: OpValAdd, Val: 8},
		{Op: OpJumpZero, Target: 2},
		{Op: OpJumpNotZero, Target: 1},
		{Op: OpBulkAdd, Cells: []Delta{{Off: 1, Val: 2}}},
	}}
	want := "" +
		"   0  ValAdd 0 8\n" +
		"   1  JumpZero -> 2\n" +
		"   2  JumpNotZero -> 1\n" +
		"   3  BulkAdd 1:2\n"
	if got := p.Listing(); got != want {
		t.Fatalf("listing:\n%s\nwant:\n%s", got, want)
	}
}
