package vm

import (
	"bufio"
	"io"
	"strconv"
)

// Input supplies values to the input opcodes and to division by zero.
// Implementations return io.EOF at end of input, in which case the VM
// uses 0.
type Input interface {
	// ReadInt returns the next integer.
	ReadInt() (int64, error)
	// ReadChar returns the next character as its byte value.
	ReadChar() (int64, error)
}

// EmptyInput is an Input that is always at end of input.
var EmptyInput Input = emptyInput{}

type emptyInput struct{}

func (emptyInput) ReadInt() (int64, error)  { return 0, io.EOF }
func (emptyInput) ReadChar() (int64, error) { return 0, io.EOF }

// ReaderInput reads values from a byte stream.
type ReaderInput struct {
	r *bufio.Reader
}

// NewReaderInput returns an Input reading from r.
func NewReaderInput(r io.Reader) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r)}
}

// ReadChar returns the next byte.
func (in *ReaderInput) ReadChar() (int64, error) {
	b, err := in.r.ReadByte()
	if err != nil {
		return 0, err
	}
	return int64(b), nil
}

// ReadInt skips bytes until it finds a decimal number, optionally preceded
// by a minus sign, and returns it. A single line ending directly after the
// number is consumed so that a following character read starts on the next
// line.
func (in *ReaderInput) ReadInt() (int64, error) {
	var digits []byte
	for {
		b, err := in.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if isDigit(b) {
			digits = append(digits, b)
			break
		}
		if b == '-' {
			next, err := in.r.Peek(1)
			if err == nil && isDigit(next[0]) {
				digits = append(digits, b)
			}
		}
	}
	for {
		b, err := in.r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if !isDigit(b) {
			switch b {
			case '\n':
			case '\r':
				if next, err := in.r.Peek(1); err == nil && next[0] == '\n' {
					in.r.ReadByte()
				}
			default:
				in.r.UnreadByte()
			}
			break
		}
		digits = append(digits, b)
	}
	return strconv.ParseInt(string(digits), 10, 64)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ScriptedInput replays fixed values, which is convenient in tests and for
// embedding programs that must not block.
type ScriptedInput struct {
	ints  []int64
	chars []byte
}

// NewScriptedInput returns an Input that yields ints to integer reads and
// the bytes of chars to character reads, then io.EOF.
func NewScriptedInput(ints []int64, chars string) *ScriptedInput {
	return &ScriptedInput{ints: ints, chars: []byte(chars)}
}

// ReadInt returns the next scripted integer.
func (in *ScriptedInput) ReadInt() (int64, error) {
	if len(in.ints) == 0 {
		return 0, io.EOF
	}
	v := in.ints[0]
	in.ints = in.ints[1:]
	return v, nil
}

// ReadChar returns the next scripted character.
func (in *ScriptedInput) ReadChar() (int64, error) {
	if len(in.chars) == 0 {
		return 0, io.EOF
	}
	c := in.chars[0]
	in.chars = in.chars[1:]
	return int64(c), nil
}
