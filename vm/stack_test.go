package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	s := NewStack(8)
	require.Equal(t, 0, s.Len())
	require.Equal(t, 8, s.Capacity())
	require.Equal(t, int64(0), s.Pop())
	require.Equal(t, int64(0), s.Peek())

	s.Push(1)
	s.Push(2)
	s.Push(-3)
	require.Equal(t, 3, s.Len())
	require.Equal(t, int64(-3), s.Peek())
	require.Equal(t, []int64{1, 2, -3}, s.Values())

	require.Equal(t, int64(-3), s.Pop())
	require.Equal(t, int64(2), s.Pop())
	require.Equal(t, int64(1), s.Pop())
	require.Equal(t, int64(0), s.Pop())
	require.Equal(t, 0, s.Len())
}

func TestStackValuesIsCopy(t *testing.T) {
	s := NewStack(4)
	s.Push(5)
	values := s.Values()
	values[0] = 9
	require.Equal(t, int64(5), s.Peek())
}

func TestStackOverflowed(t *testing.T) {
	s := NewStack(4)
	for i := 0; i < 2; i++ {
		s.Push(int64(i))
		require.False(t, s.Overflowed())
	}
	s.Push(2)
	require.True(t, s.Overflowed())
	s.Pop()
	require.False(t, s.Overflowed())

	s = NewStack(MinStackCapacity)
	require.False(t, s.Overflowed())
	s.Push(0)
	require.True(t, s.Overflowed())
}
