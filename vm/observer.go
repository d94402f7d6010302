package vm

import (
	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/deepnoodle-ai/cefunge/op"
)

// Observer is an interface for observing VM execution events. It can be used
// for tracing, profiling or building a debugger without modifying the VM.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast.
type Observer interface {
	// OnStep is called before each step executes.
	OnStep(event StepEvent)

	// OnHalt is called once when the VM reaches a terminal status.
	OnHalt(event HaltEvent)
}

// StepEvent contains information about a single step.
type StepEvent struct {
	// Step is the 1-based number of the step about to execute.
	Step int64

	// Position is the cell the IP is on.
	Position errz.Position

	// Direction is the heading of the IP before the step.
	Direction Direction

	// Opcode is the byte in the current cell.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode. In string mode
	// the byte is data, not an instruction, and the name is "STRING_DATA".
	OpcodeName string

	// StringMode reports whether the cell is read as string data.
	StringMode bool

	// StackDepth is the number of values on the stack before the step.
	StackDepth int
}

// HaltEvent describes the end of a run.
type HaltEvent struct {
	Status    errz.Status
	Steps     int64
	Position  errz.Position
	Direction Direction
	Opcode    op.Code
}

// NoOpObserver is an Observer implementation that does nothing. Embed it to
// implement only the methods you need.
type NoOpObserver struct{}

func (NoOpObserver) OnStep(StepEvent) {}
func (NoOpObserver) OnHalt(HaltEvent) {}

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
