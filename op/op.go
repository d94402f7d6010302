// Package op defines the opcodes executed by the cefunge virtual machine.
//
// Every opcode is a single byte read from the playfield, so a Code is simply
// the byte value of the cell the instruction pointer is on.
package op

import "strings"

// Code is a byte opcode that indicates an operation to execute.
type Code byte

const (
	// No effect
	Nop   Code = ' '
	Blank Code = 0

	// Arithmetic
	Add      Code = '+'
	Subtract Code = '-'
	Multiply Code = '*'
	Divide   Code = '/'
	Modulo   Code = '%'
	Not      Code = '!'
	Greater  Code = '`'

	// Direction
	Right        Code = '>'
	Left         Code = '<'
	Up           Code = '^'
	Down         Code = 'v'
	Random       Code = '?'
	HorizontalIf Code = '_'
	VerticalIf   Code = '|'
	Bridge       Code = '#'
	StringMode   Code = '"'
	End          Code = '@'

	// Stack
	Dup    Code = ':'
	Swap   Code = '\\'
	PopTop Code = '$'

	// I/O
	OutputInt  Code = '.'
	OutputChar Code = ','
	InputInt   Code = '&'
	InputChar  Code = '~'

	// Playfield
	Get Code = 'g'
	Put Code = 'p'
)

// IsDigit reports whether the code pushes its own decimal value.
func (c Code) IsDigit() bool {
	return c >= '0' && c <= '9'
}

// String returns a printable representation of the opcode byte.
func (c Code) String() string {
	switch {
	case c == Blank:
		return "NUL"
	case c == Nop:
		return "SPACE"
	case c < 0x20 || c >= 0x7f:
		return "0x" + string(hexDigits[c>>4]) + string(hexDigits[c&0x0f])
	default:
		return string(rune(c))
	}
}

const hexDigits = "0123456789abcdef"

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Pops    int
	Pushes  int
	Summary string
	Known   bool
}

var infos [256]Info

func init() {
	type opInfo struct {
		op      Code
		name    string
		pops    int
		pushes  int
		summary string
	}
	ops := []opInfo{
		{Blank, "BLANK", 0, 0, "no effect"},
		{Nop, "NOP", 0, 0, "no effect"},
		{Add, "ADD", 2, 1, "pop a, b; push a+b"},
		{Subtract, "SUBTRACT", 2, 1, "pop a, b; push b-a"},
		{Multiply, "MULTIPLY", 2, 1, "pop a, b; push a*b"},
		{Divide, "DIVIDE", 2, 1, "pop a, b; push b/a, or an input value when a is 0"},
		{Modulo, "MODULO", 2, 1, "pop a, b; push b%a"},
		{Not, "NOT", 1, 1, "pop a; push 1 if a is 0, else 0"},
		{Greater, "GREATER", 2, 1, "pop a, b; push 1 if b>a, else 0"},
		{Right, "RIGHT", 0, 0, "move right"},
		{Left, "LEFT", 0, 0, "move left"},
		{Up, "UP", 0, 0, "move up"},
		{Down, "DOWN", 0, 0, "move down"},
		{Random, "RANDOM", 0, 0, "move in a random direction"},
		{HorizontalIf, "HORIZONTAL_IF", 1, 0, "pop a; move right if a is 0, else left"},
		{VerticalIf, "VERTICAL_IF", 1, 0, "pop a; move down if a is 0, else up"},
		{StringMode, "STRING_MODE", 0, 0, "toggle string mode"},
		{Dup, "DUP", 1, 2, "pop a; push a, a"},
		{Swap, "SWAP", 2, 2, "pop a, b; push a, b"},
		{PopTop, "POP_TOP", 1, 0, "pop a and discard it"},
		{OutputInt, "OUTPUT_INT", 1, 0, "pop a; write it as a decimal integer"},
		{OutputChar, "OUTPUT_CHAR", 1, 0, "pop a; write it as a character"},
		{Bridge, "BRIDGE", 0, 0, "skip the next cell"},
		{Get, "GET", 2, 1, "pop y, x; push the cell at (x, y)"},
		{Put, "PUT", 3, 0, "pop y, x, v; store v at (x, y)"},
		{InputInt, "INPUT_INT", 0, 1, "read an integer and push it"},
		{InputChar, "INPUT_CHAR", 0, 1, "read a character and push it"},
		{End, "END", 0, 0, "end the program"},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Pops:    o.pops,
			Pushes:  o.pushes,
			Summary: o.summary,
			Known:   true,
		}
	}
	for c := Code('0'); c <= '9'; c++ {
		infos[c] = Info{
			Code:    c,
			Name:    "PUSH_" + string(rune(c)),
			Pushes:  1,
			Summary: "push " + string(rune(c)),
			Known:   true,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes have
// Known set to false and the name "UNKNOWN".
func GetInfo(c Code) Info {
	info := infos[c]
	if !info.Known {
		return Info{Code: c, Name: "UNKNOWN"}
	}
	return info
}

// IsKnown reports whether the opcode is part of the instruction set.
func IsKnown(c Code) bool {
	return infos[c].Known
}

// All returns information about every known opcode, ordered by byte value.
func All() []Info {
	var result []Info
	for _, info := range infos {
		if info.Known {
			result = append(result, info)
		}
	}
	return result
}

// Lookup finds a known opcode by its name (case-insensitive) or by the
// single character that encodes it.
func Lookup(s string) (Info, bool) {
	if len(s) == 1 && IsKnown(Code(s[0])) {
		return infos[s[0]], true
	}
	upper := strings.ToUpper(s)
	for _, info := range infos {
		if info.Known && info.Name == upper {
			return info, true
		}
	}
	return Info{}, false
}

// Names returns the names of every known opcode, ordered by byte value.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, info := range all {
		names[i] = info.Name
	}
	return names
}
