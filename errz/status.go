// Package errz defines the run and load status taxonomy of the interpreter
// and the structured errors used to report it.
package errz

// Status is the result of a single step, a whole run, or a program load.
// The numeric values are stable and are used as process exit codes.
type Status int

const (
	// Continue means the step completed and execution goes on.
	Continue Status = -1
	// Success means the program reached the end opcode.
	Success Status = 0
	// StackOverflow means the operand stack reached its capacity.
	StackOverflow Status = 1
	// OutOfRangeWrite means a put targeted a cell outside the playfield.
	OutOfRangeWrite Status = 2
	// UnknownOpcode means the IP landed on a byte outside the instruction set.
	UnknownOpcode Status = 3
	// Timeout means the step budget or the run deadline was exhausted.
	Timeout Status = 4
	// OutputFailure means writing to the output stream failed.
	OutputFailure Status = 5

	// OpenFailure means the program source could not be read.
	OpenFailure Status = 101
	// WidthOverflow means a source row is wider than the playfield.
	WidthOverflow Status = 102
	// HeightOverflow means the source has more rows than the playfield.
	HeightOverflow Status = 103
)

// Code returns the numeric status code.
func (s Status) Code() int {
	return int(s)
}

// String returns a human readable description of the status.
func (s Status) String() string {
	switch s {
	case Continue:
		return "Running"
	case Success:
		return "Success"
	case StackOverflow:
		return "Stack overflow"
	case OutOfRangeWrite:
		return "Used out-of-range pointer"
	case UnknownOpcode:
		return "Unknown opcode"
	case Timeout:
		return "Program timed out"
	case OutputFailure:
		return "Output write failed"
	case OpenFailure:
		return "File opening error"
	case WidthOverflow:
		return "Width overflow"
	case HeightOverflow:
		return "Height overflow"
	default:
		return "Unknown status"
	}
}

// IsTerminal reports whether the status ends a run.
func (s Status) IsTerminal() bool {
	return s != Continue
}

// IsLoad reports whether the status describes a load failure.
func (s Status) IsLoad() bool {
	return s >= OpenFailure
}

// MarshalText encodes the status as its description.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
