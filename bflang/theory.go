package bflang

const Theory = `
# Compilation Theory

The compiler turns a stream of eight command characters into the tape
machine IR and then reshapes it, pass by pass, into fewer and wider
instructions. Every pass consumes one instruction sequence and
produces a new one that behaves the same on any run that keeps the
cursor on the tape.

## 1. Lowering: Runs and Offsets
Lowering already does most of the collapsing.
- **Run folding**: A run of '+' or '-' becomes a single update with the
  run length mod 256. Adjacent opposite updates on the same cell cancel
  arithmetically, down to nothing when the amounts match.
- **Offset folding**: '>' and '<' accumulate into a pending cursor
  displacement instead of emitting moves. Value updates carry the
  pending displacement as a cell offset. The displacement materializes
  as one PtrAdd only at a sequence point: I/O, a bracket, or the end of
  the program.
- **Clear idiom**: The three-character loops [-] and [+] lower straight
  to a Clear instruction.
- **Bracket pairing**: '[' pushes a placeholder jump, ']' pops it and
  patches both targets. Unmatched brackets fail here, with the
  position of the offending character.

## 2. Loop Rewriting
Two loop shapes have closed forms.
- **Scan loops**: A body that is exactly one single-step move becomes
  ScanLeft or ScanRight, a memchr-shaped search for the next zero cell.
- **Move loops**: A body of moves and updates that returns the cursor
  to the loop cell and decrements it by one per iteration runs the
  cell down to zero. Each touched neighbor gains cell*delta, so the
  loop becomes MulAdd instructions and a final Clear. The trip count
  is the cell value itself; no loop executes at run time.

## 3. Zero Tracking
The tape starts all zero and every loop exit proves the current cell
is zero. Threading that single fact through the code in one pass
removes whole loops ('[' can never be entered on a zero cell), repeat
clears, and no-op scans and MulAdds. Writes through offset zero,
cursor movement and input give the knowledge up.

## 4. Coalescing
Straight-line updates batch at the end. Cursor moves sink past value
updates into their offsets, then adjacent updates on any cells merge
into one BulkAdd and adjacent clears into one BulkClear. The
interpreter touches N cells per dispatch instead of one.

## 5. Backends
The same IR drives both backends. The interpreter executes it
directly; the emitter prints it as a standalone Go program. Either
way the observable behavior is fixed by the IR, not the backend.
`
