package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutOfRange     = errors.New("coordinates out of range")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrTimeout        = errors.New("timed out")
	ErrOutput         = errors.New("output write failed")
	ErrOpen           = errors.New("cannot read program")
	ErrWidthOverflow  = errors.New("width overflow")
	ErrHeightOverflow = errors.New("height overflow")
)

func sentinel(s Status) error {
	switch s {
	case StackOverflow:
		return ErrStackOverflow
	case OutOfRangeWrite:
		return ErrOutOfRange
	case UnknownOpcode:
		return ErrUnknownOpcode
	case Timeout:
		return ErrTimeout
	case OutputFailure:
		return ErrOutput
	case OpenFailure:
		return ErrOpen
	case WidthOverflow:
		return ErrWidthOverflow
	case HeightOverflow:
		return ErrHeightOverflow
	default:
		return nil
	}
}

// Position is a playfield coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the position as "x,y".
func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// HaltError describes a run that stopped for any reason other than reaching
// the end opcode. It carries the instruction pointer state at the moment of
// the halt.
type HaltError struct {
	Status     Status
	Position   Position
	Direction  string
	Opcode     byte
	OpcodeName string
	StringMode bool
	Step       int64
	Filename   string
	Row        string // the playfield row the IP was on
	Cause      error
}

// Error implements the error interface.
func (e *HaltError) Error() string {
	msg := fmt.Sprintf("%s at %s moving %s (opcode %s)",
		strings.ToLower(e.Status.String()), e.Position, e.Direction, quoteOpcode(e.Opcode))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *HaltError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error for the halt status.
func (e *HaltError) Is(target error) bool {
	return target != nil && target == sentinel(e.Status)
}

// FriendlyErrorMessage returns the message with the playfield row and a
// caret under the IP column.
func (e *HaltError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.Row != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Row)
		msg.WriteString("\n | ")
		msg.WriteString(strings.Repeat(" ", e.Position.X))
		msg.WriteString("^\n")
	}
	return msg.String()
}

// ToFormatted converts the error for display by a Formatter.
func (e *HaltError) ToFormatted() *FormattedError {
	f := &FormattedError{
		Code:     e.Status.Code(),
		Kind:     "runtime error",
		Message:  strings.ToLower(e.Status.String()),
		Filename: e.Filename,
		Line:     e.Position.Y + 1,
		Column:   e.Position.X + 1,
		Note: fmt.Sprintf("ip moving %s on opcode %s (%s) after %d steps",
			e.Direction, quoteOpcode(e.Opcode), e.OpcodeName, e.Step),
	}
	if e.Row != "" {
		f.SourceLines = []SourceLineEntry{{Number: e.Position.Y + 1, Text: e.Row, IsMain: true}}
	}
	if e.Cause != nil {
		f.Message += ": " + e.Cause.Error()
	}
	if e.StringMode {
		f.Hint = "the IP was in string mode"
	}
	return f
}

// NewHaltError creates a HaltError for the given status and IP state.
func NewHaltError(status Status, pos Position, direction string, opcode byte) *HaltError {
	return &HaltError{
		Status:    status,
		Position:  pos,
		Direction: direction,
		Opcode:    opcode,
	}
}

// WithCause wraps the error with a cause.
func (e *HaltError) WithCause(cause error) *HaltError {
	e.Cause = cause
	return e
}

// LoadError describes a program that could not be placed on the playfield.
type LoadError struct {
	Status Status
	Path   string
	Row    int // zero-based source row, -1 when not row specific
	Length int // offending row length or row count
	Limit  int // configured width or height
	Cause  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var msg string
	switch e.Status {
	case WidthOverflow:
		msg = fmt.Sprintf("width overflow: row %d is %d wide (limit %d)", e.Row+1, e.Length, e.Limit)
	case HeightOverflow:
		msg = fmt.Sprintf("height overflow: %d rows (limit %d)", e.Length, e.Limit)
	default:
		msg = strings.ToLower(e.Status.String())
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error for the load status.
func (e *LoadError) Is(target error) bool {
	return target != nil && target == sentinel(e.Status)
}

// ToFormatted converts the error for display by a Formatter.
func (e *LoadError) ToFormatted() *FormattedError {
	f := &FormattedError{
		Code:     e.Status.Code(),
		Kind:     "load error",
		Message:  e.Error(),
		Filename: e.Path,
	}
	if e.Path != "" {
		f.Message = strings.TrimPrefix(f.Message, e.Path+": ")
	}
	if e.Status == WidthOverflow {
		f.Line = e.Row + 1
		f.Column = e.Limit + 1
	}
	return f
}

// FormattableError is implemented by errors that can be rendered by a
// Formatter.
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// StatusOf extracts the status from an error produced by this module. A nil
// error is Success; errors of other origins report ok=false.
func StatusOf(err error) (Status, bool) {
	if err == nil {
		return Success, true
	}
	var halt *HaltError
	if errors.As(err, &halt) {
		return halt.Status, true
	}
	var load *LoadError
	if errors.As(err, &load) {
		return load.Status, true
	}
	return 0, false
}

func quoteOpcode(c byte) string {
	if c >= 0x20 && c < 0x7f {
		return fmt.Sprintf("%q", rune(c))
	}
	return fmt.Sprintf("0x%02x", c)
}
