// Package vm provides a VirtualMachine that executes a program laid out on a
// playfield.
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/deepnoodle-ai/cefunge/op"
	"github.com/deepnoodle-ai/cefunge/playfield"
	"github.com/rs/zerolog"
)

// DefaultContextCheckInterval is the number of steps between checks of
// ctx.Done() in Run.
const DefaultContextCheckInterval = 1000

// VirtualMachine owns the instruction pointer, the operand stack and the
// playfield it executes. It is not safe for concurrent use, but any number of
// machines may run side by side on separate playfields.
type VirtualMachine struct {
	field  *playfield.Playfield
	ip     IP
	stack  *Stack
	status errz.Status
	halt   *errz.HaltError
	steps  int64

	stackCapacity        int
	input                Input
	output               io.Writer
	rng                  *rand.Rand
	logger               zerolog.Logger
	observer             Observer
	maxSteps             int64
	contextCheckInterval int
	filename             string
}

// New creates a Virtual Machine that executes the given playfield. The IP
// starts at (0,0) heading right. The playfield is modified in place by put
// instructions; pass a clone to keep it unchanged.
func New(field *playfield.Playfield, options ...Option) (*VirtualMachine, error) {
	if field == nil {
		return nil, errors.New("no playfield provided")
	}
	vm := &VirtualMachine{
		field:                field,
		ip:                   IP{Dir: Right},
		status:               errz.Continue,
		stackCapacity:        DefaultStackCapacity,
		input:                EmptyInput,
		output:               io.Discard,
		logger:               zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.stackCapacity < MinStackCapacity {
		return nil, fmt.Errorf("stack capacity must be at least %d (got %d)",
			MinStackCapacity, vm.stackCapacity)
	}
	if vm.maxSteps < 0 {
		return nil, fmt.Errorf("max steps must not be negative (got %d)", vm.maxSteps)
	}
	if vm.input == nil {
		vm.input = EmptyInput
	}
	if vm.output == nil {
		vm.output = io.Discard
	}
	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	vm.stack = NewStack(vm.stackCapacity)
	return vm, nil
}

// Run calls Step until the status is terminal and returns that status. Run
// also enforces the step budget and context cancellation, both of which halt
// with errz.Timeout.
func (vm *VirtualMachine) Run(ctx context.Context) errz.Status {
	if vm.status.IsTerminal() {
		return vm.status
	}
	vm.logger.Debug().
		Int("width", vm.field.Width()).
		Int("height", vm.field.Height()).
		Int("stack_capacity", vm.stackCapacity).
		Int64("max_steps", vm.maxSteps).
		Msg("run started")

	if err := ctx.Err(); err != nil {
		return vm.stop(errz.Timeout, vm.current(), err)
	}
	var stepCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	for {
		if vm.maxSteps > 0 && vm.steps >= vm.maxSteps {
			return vm.stop(errz.Timeout, vm.current(),
				fmt.Errorf("step limit of %d reached", vm.maxSteps))
		}
		if checkInterval > 0 && doneChan != nil {
			stepCount++
			if stepCount >= checkInterval {
				stepCount = 0
				select {
				case <-doneChan:
					return vm.stop(errz.Timeout, vm.current(), ctx.Err())
				default:
				}
			}
		}
		if status := vm.Step(ctx); status.IsTerminal() {
			return status
		}
	}
}

// Step executes the cell under the IP and moves the IP. It returns
// errz.Continue or the terminal status the step produced. A step that halts
// leaves the IP on the cell that caused the halt. Once the VM has halted,
// Step keeps returning the same status without side effects. A step blocked
// on input halts with errz.Timeout when ctx ends.
func (vm *VirtualMachine) Step(ctx context.Context) errz.Status {
	if vm.status.IsTerminal() {
		return vm.status
	}
	c := vm.current()
	vm.steps++
	if vm.observer != nil {
		vm.observer.OnStep(vm.stepEvent(c))
	}

	status := errz.Continue
	var cause error
	if vm.ip.StringMode {
		if c == op.StringMode {
			vm.ip.StringMode = false
		} else {
			vm.stack.Push(int64(c))
		}
	} else if h := handlers[c]; h != nil {
		status, cause = h(ctx, vm)
	} else {
		status = errz.UnknownOpcode
	}

	if status == errz.Continue && vm.stack.Overflowed() {
		status = errz.StackOverflow
		cause = fmt.Errorf("%d values on a stack of capacity %d", vm.stack.Len(), vm.stack.Capacity())
	}
	if status.IsTerminal() {
		return vm.stop(status, c, cause)
	}
	vm.advance()
	return errz.Continue
}

// IP returns the instruction pointer state.
func (vm *VirtualMachine) IP() IP {
	return vm.ip
}

// Stack returns the operand stack.
func (vm *VirtualMachine) Stack() *Stack {
	return vm.stack
}

// Playfield returns the playfield being executed.
func (vm *VirtualMachine) Playfield() *playfield.Playfield {
	return vm.field
}

// Steps returns the number of steps executed so far.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}

// Status returns errz.Continue while the VM can still step, or the terminal
// status it halted with.
func (vm *VirtualMachine) Status() errz.Status {
	return vm.status
}

// Halt returns the diagnostics of a failed run, or nil if the VM has not
// halted or halted successfully.
func (vm *VirtualMachine) Halt() *errz.HaltError {
	return vm.halt
}

// Err returns Halt as an error, or nil.
func (vm *VirtualMachine) Err() error {
	if vm.halt == nil {
		return nil
	}
	return vm.halt
}

func (vm *VirtualMachine) current() op.Code {
	return op.Code(vm.field.Read(vm.ip.X, vm.ip.Y))
}

func (vm *VirtualMachine) advance() {
	dx, dy := vm.ip.Dir.Delta()
	vm.ip.X, vm.ip.Y = vm.field.Normalize(vm.ip.X+dx, vm.ip.Y+dy)
}

func (vm *VirtualMachine) pop() int64 {
	return vm.stack.Pop()
}

func (vm *VirtualMachine) push(value int64) {
	vm.stack.Push(value)
}

func (vm *VirtualMachine) position() errz.Position {
	return errz.Position{X: vm.ip.X, Y: vm.ip.Y}
}

func (vm *VirtualMachine) stepEvent(c op.Code) StepEvent {
	name := "STRING_DATA"
	if !vm.ip.StringMode || c == op.StringMode {
		name = op.GetInfo(c).Name
	}
	return StepEvent{
		Step:       vm.steps,
		Position:   vm.position(),
		Direction:  vm.ip.Dir,
		Opcode:     c,
		OpcodeName: name,
		StringMode: vm.ip.StringMode,
		StackDepth: vm.stack.Len(),
	}
}

// stop records the terminal status and its diagnostics.
func (vm *VirtualMachine) stop(status errz.Status, c op.Code, cause error) errz.Status {
	vm.status = status
	if status != errz.Success {
		halt := errz.NewHaltError(status, vm.position(), vm.ip.Dir.String(), byte(c)).WithCause(cause)
		halt.OpcodeName = op.GetInfo(c).Name
		halt.StringMode = vm.ip.StringMode
		halt.Step = vm.steps
		halt.Filename = vm.filename
		halt.Row = strings.TrimRight(string(vm.field.Row(vm.ip.Y)), " ")
		vm.halt = halt
	}
	if vm.observer != nil {
		vm.observer.OnHalt(HaltEvent{
			Status:    status,
			Steps:     vm.steps,
			Position:  vm.position(),
			Direction: vm.ip.Dir,
			Opcode:    c,
		})
	}
	event := vm.logger.Debug()
	if status != errz.Success {
		event = vm.logger.Info().AnErr("cause", cause)
	}
	event.Stringer("status", status).
		Int64("steps", vm.steps).
		Stringer("position", vm.position()).
		Stringer("direction", vm.ip.Dir).
		Msg("run halted")
	return status
}
