// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import "github.com/pkg/errors"

// ParseError indicates that a loader could not interpret its input file.
// The core never constructs one itself; it is exported for loaders to use
// so that callers can distinguish load-time failures with errors.As.
type ParseError struct {
	cause error
}

func (e *ParseError) Error() string { return "parse error: " + e.cause.Error() }
func (e *ParseError) Unwrap() error { return e.cause }

// NewParseError wraps err as a ParseError, adding the formatted context
// and a new stack trace.
func NewParseError(err error, format string, args ...interface{}) *ParseError {
	return &ParseError{cause: errors.Wrapf(err, format, args...)}
}

// UnsupportedElement indicates that a loader encountered an element kind it
// does not know how to build.
type UnsupportedElement struct {
	Kind string
}

func (e *UnsupportedElement) Error() string {
	return "unsupported element kind " + e.Kind
}

// WidthMismatch indicates an operation was attempted between values or
// buses of differing widths.
type WidthMismatch struct {
	Op        string
	Want, Got int
	stack     error
}

func (e *WidthMismatch) Error() string {
	return e.stack.Error()
}

func (e *WidthMismatch) Unwrap() error { return e.stack }

// NewWidthMismatch builds a WidthMismatch carrying a stack trace.
func NewWidthMismatch(op string, want, got int) *WidthMismatch {
	return &WidthMismatch{
		Op: op, Want: want, Got: got,
		stack: errors.Errorf("%s: width mismatch: want %d, got %d", op, want, got),
	}
}

// BadInput indicates that Circuit.Run was given a label or index that does
// not correspond to any labeled element in the circuit.
type BadInput struct {
	stack error
}

func (e *BadInput) Error() string { return e.stack.Error() }
func (e *BadInput) Unwrap() error { return e.stack }

// NewBadInput builds a BadInput error carrying a stack trace.
func NewBadInput(format string, args ...interface{}) *BadInput {
	return &BadInput{stack: errors.Errorf(format, args...)}
}

// SplitterContention indicates that a Splitter's wide and narrow sides
// disagreed at equal timestamps: neither side can be said to have driven
// the other, so the value is ambiguous.
type SplitterContention struct {
	Splitter string
	stack    error
}

func (e *SplitterContention) Error() string { return e.stack.Error() }
func (e *SplitterContention) Unwrap() error { return e.stack }

// NewSplitterContention builds a SplitterContention error.
func NewSplitterContention(label string) *SplitterContention {
	return &SplitterContention{
		Splitter: label,
		stack:    errors.Errorf("splitter %q: wide and narrow sides disagree at equal timestamp", label),
	}
}

// StepLimitExceeded indicates that the scheduler ran more than the
// configured number of steps without the event queue emptying — almost
// always a combinational loop (e.g. a ring oscillator) that never settles.
type StepLimitExceeded struct {
	Limit uint64
	stack error
}

func (e *StepLimitExceeded) Error() string { return e.stack.Error() }
func (e *StepLimitExceeded) Unwrap() error { return e.stack }

// NewStepLimitExceeded builds a StepLimitExceeded error.
func NewStepLimitExceeded(limit uint64) *StepLimitExceeded {
	return &StepLimitExceeded{
		Limit: limit,
		stack: errors.Errorf("scheduler step limit (%d) exceeded without reaching stability", limit),
	}
}

// MemoryOutOfRange indicates a read or write beyond a memory element's
// capacity. Memory's ReadWords and WriteWords return it (reading nothing
// and dropping the write), and Circuit.ReadMemory/WriteMemory pass it on;
// a bus-driven Memory.Resolve never builds it: it drives a null read,
// drops the write, and logs a warning if a logger is attached (§4.5).
type MemoryOutOfRange struct {
	Element string
	Address BitValue
	stack   error
}

func (e *MemoryOutOfRange) Error() string { return e.stack.Error() }
func (e *MemoryOutOfRange) Unwrap() error { return e.stack }

// NewMemoryOutOfRange builds a MemoryOutOfRange error.
func NewMemoryOutOfRange(element string, address BitValue) *MemoryOutOfRange {
	return &MemoryOutOfRange{
		Element: element,
		Address: address,
		stack:   errors.Errorf("%s: address %s out of range", element, address.ToString(16)),
	}
}

// DuplicateLabel indicates that a Circuit was constructed with two elements
// sharing the same label.
type DuplicateLabel struct {
	Label string
	stack error
}

func (e *DuplicateLabel) Error() string { return e.stack.Error() }
func (e *DuplicateLabel) Unwrap() error { return e.stack }

// NewDuplicateLabel builds a DuplicateLabel error.
func NewDuplicateLabel(label string) *DuplicateLabel {
	return &DuplicateLabel{
		Label: label,
		stack: errors.Errorf("duplicate element label %q", label),
	}
}
