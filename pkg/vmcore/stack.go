package vmcore

import (
	"errors"

	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
)

// ErrStackUnderflow is returned when an operation needs more items than the
// stack currently holds.
var ErrStackUnderflow = errors.New("stack underflow")

// Stack is a LIFO of stack items. The slice's last element is the top.
type Stack struct {
	items []stackitem.Item
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int { return len(s.items) }

// Push pushes it onto the stack.
func (s *Stack) Push(it stackitem.Item) { s.items = append(s.items, it) }

// PushVal wraps v with stackitem.Make and pushes it.
func (s *Stack) PushVal(v any) { s.Push(stackitem.Make(v)) }

// Pop removes and returns the top item.
func (s *Stack) Pop() (stackitem.Item, error) {
	if len(s.items) == 0 {
		return nil, ErrStackUnderflow
	}
	it := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return it, nil
}

// Top returns the top item without removing it.
func (s *Stack) Top() (stackitem.Item, error) { return s.Peek(0) }

// Peek returns the n-th item from the top (0 = top) without removing it.
func (s *Stack) Peek(n int) (stackitem.Item, error) {
	i := len(s.items) - 1 - n
	if i < 0 || n < 0 {
		return nil, ErrStackUnderflow
	}
	return s.items[i], nil
}

// RemoveAt removes and returns the n-th item from the top (0 = top).
func (s *Stack) RemoveAt(n int) (stackitem.Item, error) {
	i := len(s.items) - 1 - n
	if i < 0 || n < 0 {
		return nil, ErrStackUnderflow
	}
	it := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return it, nil
}

// InsertAt inserts it so that it ends up n positions from the top (0 = top).
func (s *Stack) InsertAt(it stackitem.Item, n int) error {
	i := len(s.items) - n
	if i < 0 || n < 0 {
		return ErrStackUnderflow
	}
	s.items = append(s.items[:i], append([]stackitem.Item{it}, s.items[i:]...)...)
	return nil
}

// ToSlice returns the stack contents, bottom first.
func (s *Stack) ToSlice() []stackitem.Item {
	out := make([]stackitem.Item, len(s.items))
	copy(out, s.items)
	return out
}
