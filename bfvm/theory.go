package bfvm

const Theory = `
# Tape Machine Theory

The machine model is a 30,000-cell byte tape with a single unsigned
cursor, executing a flat instruction sequence.

## 1. The IR
Instructions live in one indexable sequence; conditional jumps store
the flat index of their matching counterpart, back-patched at
construction. Because pairs are built by a stack discipline, they nest
without crossing; Verify checks this pairing once and every later
consumer trusts it. Passes never mutate a sequence in place, each one
builds a new sequence.

## 2. Addressing
Value operations are offset-addressed: they act on cursor+offset
without moving the cursor, which lets the lowering pass batch pointer
traffic. The cursor wraps over the full width of the index type, not
the tape length. Validity is decided per access: an effective address
outside the tape is a fatal fault at the moment of the access,
reported with the failing address. Moving out of range is legal as
long as nothing is read or written there.

## 3. I/O
Output writes exactly one byte and flushes immediately, so interactive
programs observe bytes as they are produced; a failed write ends the
run. Input reads exactly one byte; an exhausted or failing stream
leaves the addressed cell untouched and execution continues.

## 4. Two backends, one semantics
The interpreter and the Go source emitter consume the same immutable
sequence. The emitter renders jump pairs as while-loops, which is
correct purely because of the nesting guarantee, and reproduces the
same wrap, fault, and I/O behavior, so a transpiled program is
observationally identical to interpreting the IR.
`
