package vm

// DefaultStackCapacity is the capacity used when none is configured.
const DefaultStackCapacity = 1024

// MinStackCapacity is the smallest usable capacity. With it, any push
// overflows.
const MinStackCapacity = 2

// Stack is the operand stack. Popping an empty stack yields 0 instead of
// failing. The stack does not refuse pushes; the VM checks Overflowed once
// per step, after the opcode has run.
type Stack struct {
	items    []int64
	capacity int
}

// NewStack returns an empty stack with the given capacity.
func NewStack(capacity int) *Stack {
	return &Stack{items: make([]int64, 0, capacity), capacity: capacity}
}

// Push adds a value to the top of the stack.
func (s *Stack) Push(value int64) {
	s.items = append(s.items, value)
}

// Pop removes and returns the top value, or 0 when the stack is empty.
func (s *Stack) Pop() int64 {
	n := len(s.items)
	if n == 0 {
		return 0
	}
	value := s.items[n-1]
	s.items = s.items[:n-1]
	return value
}

// Peek returns the top value without removing it, or 0 when empty.
func (s *Stack) Peek() int64 {
	if len(s.items) == 0 {
		return 0
	}
	return s.items[len(s.items)-1]
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// Capacity returns the configured capacity.
func (s *Stack) Capacity() int {
	return s.capacity
}

// Overflowed reports whether the size has reached capacity-1.
func (s *Stack) Overflowed() bool {
	return len(s.items) >= s.capacity-1
}

// Values returns a copy of the stack contents, bottom first.
func (s *Stack) Values() []int64 {
	values := make([]int64, len(s.items))
	copy(values, s.items)
	return values
}
