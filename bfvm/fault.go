package bfvm

import "fmt"

// FaultError reports a tape access outside the valid cell range. It is
// terminal for the run.
type FaultError struct {
	Addr uint
	IP   int
	Op   Op
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("tape address out of range: %d (instruction %d, %s)", e.Addr, e.IP, e.Op)
}
