package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/deepnoodle-ai/cefunge/op"
)

// handler executes one opcode. It returns errz.Continue, or a terminal
// status with an optional cause.
type handler func(ctx context.Context, vm *VirtualMachine) (errz.Status, error)

// handlers maps every opcode byte to its implementation. Bytes without a
// handler are unknown opcodes.
var handlers [256]handler

func init() {
	handlers[op.Blank] = opNop
	handlers[op.Nop] = opNop
	handlers[op.Add] = binaryOp(func(a, b int64) int64 { return a + b })
	handlers[op.Subtract] = binaryOp(func(a, b int64) int64 { return b - a })
	handlers[op.Multiply] = binaryOp(func(a, b int64) int64 { return a * b })
	handlers[op.Divide] = opDivide
	handlers[op.Modulo] = binaryOp(func(a, b int64) int64 {
		if a == 0 {
			return 0
		}
		return b % a
	})
	handlers[op.Greater] = binaryOp(func(a, b int64) int64 { return boolToInt(b > a) })
	handlers[op.Not] = opNot
	handlers[op.Right] = setDirection(Right)
	handlers[op.Left] = setDirection(Left)
	handlers[op.Up] = setDirection(Up)
	handlers[op.Down] = setDirection(Down)
	handlers[op.Random] = opRandom
	handlers[op.HorizontalIf] = branch(Right, Left)
	handlers[op.VerticalIf] = branch(Down, Up)
	handlers[op.StringMode] = opStringMode
	handlers[op.Dup] = opDup
	handlers[op.Swap] = opSwap
	handlers[op.PopTop] = opPopTop
	handlers[op.OutputInt] = opOutputInt
	handlers[op.OutputChar] = opOutputChar
	handlers[op.Bridge] = opBridge
	handlers[op.Get] = opGet
	handlers[op.Put] = opPut
	handlers[op.InputInt] = opInputInt
	handlers[op.InputChar] = opInputChar
	handlers[op.End] = opEnd
	for c := op.Code('0'); c <= '9'; c++ {
		handlers[c] = pushDigit(int64(c - '0'))
	}
	for c, h := range handlers {
		if (h != nil) != op.IsKnown(op.Code(c)) {
			panic(fmt.Sprintf("opcode %q: handler table out of sync with op catalogue", c))
		}
	}
}

func opNop(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	return errz.Continue, nil
}

func pushDigit(value int64) handler {
	return func(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
		vm.push(value)
		return errz.Continue, nil
	}
}

// binaryOp pops a then b and pushes fn(a, b).
func binaryOp(fn func(a, b int64) int64) handler {
	return func(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
		a := vm.pop()
		b := vm.pop()
		vm.push(fn(a, b))
		return errz.Continue, nil
	}
}

// opDivide pushes b/a. A zero divisor is resolved by asking the input for
// the result.
func opDivide(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	a := vm.pop()
	b := vm.pop()
	if a != 0 {
		vm.push(b / a)
		return errz.Continue, nil
	}
	vm.logger.Info().
		Int64("dividend", b).
		Stringer("position", vm.position()).
		Msg("division by zero, reading result from input")
	value, err := vm.readInt(ctx)
	if err != nil {
		return errz.Timeout, err
	}
	vm.push(value)
	return errz.Continue, nil
}

func opNot(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	vm.push(boolToInt(vm.pop() == 0))
	return errz.Continue, nil
}

func setDirection(d Direction) handler {
	return func(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
		vm.ip.Dir = d
		return errz.Continue, nil
	}
}

func opRandom(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	vm.ip.Dir = Directions[vm.rng.Intn(len(Directions))]
	return errz.Continue, nil
}

// branch pops a value and heads ifZero when it is 0, otherwise ifNonZero.
func branch(ifZero, ifNonZero Direction) handler {
	return func(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
		if vm.pop() == 0 {
			vm.ip.Dir = ifZero
		} else {
			vm.ip.Dir = ifNonZero
		}
		return errz.Continue, nil
	}
}

func opStringMode(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	vm.ip.StringMode = true
	return errz.Continue, nil
}

func opDup(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	a := vm.pop()
	vm.push(a)
	vm.push(a)
	return errz.Continue, nil
}

func opSwap(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	a := vm.pop()
	b := vm.pop()
	vm.push(a)
	vm.push(b)
	return errz.Continue, nil
}

func opPopTop(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	vm.pop()
	return errz.Continue, nil
}

func opOutputInt(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	return vm.write(strconv.AppendInt(nil, vm.pop(), 10))
}

func opOutputChar(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	return vm.write([]byte{byte(vm.pop())})
}

func opBridge(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	vm.advance()
	return errz.Continue, nil
}

// opGet pops y then x and pushes the cell value, 0 outside the grid.
func opGet(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	y := vm.pop()
	x := vm.pop()
	vm.push(int64(vm.field.Read(coordinate(x), coordinate(y))))
	return errz.Continue, nil
}

// opPut pops y, x and v and stores v. Writing outside the grid halts.
func opPut(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	y := vm.pop()
	x := vm.pop()
	v := vm.pop()
	if err := vm.field.Write(coordinate(x), coordinate(y), v); err != nil {
		return errz.OutOfRangeWrite, err
	}
	return errz.Continue, nil
}

func opInputInt(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	value, err := vm.readInt(ctx)
	if err != nil {
		return errz.Timeout, err
	}
	vm.push(value)
	return errz.Continue, nil
}

func opInputChar(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	value, err := vm.readChar(ctx)
	if err != nil {
		return errz.Timeout, err
	}
	vm.push(value)
	return errz.Continue, nil
}

func opEnd(ctx context.Context, vm *VirtualMachine) (errz.Status, error) {
	return errz.Success, nil
}

func (vm *VirtualMachine) write(data []byte) (errz.Status, error) {
	if _, err := vm.output.Write(data); err != nil {
		return errz.OutputFailure, err
	}
	return errz.Continue, nil
}

func (vm *VirtualMachine) readInt(ctx context.Context) (int64, error) {
	return vm.readInput(ctx, vm.input.ReadInt, "int")
}

func (vm *VirtualMachine) readChar(ctx context.Context) (int64, error) {
	return vm.readInput(ctx, vm.input.ReadChar, "char")
}

type readResult struct {
	value int64
	err   error
}

// readInput substitutes 0 at end of input. Other read errors are treated
// the same way but logged. The only error returned is ctx.Err(), when the
// context ends while the read is blocked; the pending read is abandoned and
// its value discarded.
func (vm *VirtualMachine) readInput(ctx context.Context, read func() (int64, error), kind string) (int64, error) {
	var res readResult
	if done := ctx.Done(); done == nil {
		res.value, res.err = read()
	} else {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		ch := make(chan readResult, 1)
		go func() {
			value, err := read()
			ch <- readResult{value, err}
		}()
		select {
		case res = <-ch:
		case <-done:
			return 0, ctx.Err()
		}
	}
	if res.err == nil {
		return res.value, nil
	}
	if !errors.Is(res.err, io.EOF) {
		vm.logger.Warn().Err(res.err).Str("kind", kind).Msg("input read failed, using 0")
	}
	return 0, nil
}

// coordinate converts a stack value to a grid coordinate. Values that do not
// fit in an int map to -1, which is outside every grid.
func coordinate(v int64) int {
	if int64(int(v)) != v {
		return -1
	}
	return int(v)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
