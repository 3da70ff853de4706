// Package stack implements the value stack the virtual machine operates
// on. Grounded on skx-evalfilter's stack/stack.go, retyped from
// object.Object to object.Value, with Peek and Dup added for the
// opcodes that inspect or duplicate the top of stack without popping
// it (Dump, Dupe, StoreVariable; spec.md §4.3.1).
package stack

import (
	"errors"

	"github.com/knight-lang/knight-go/object"
)

// Stack holds the VM's value stack: a plain LIFO of object.Value.
type Stack struct {
	entries []object.Value
}

// New creates an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Empty returns true if the stack holds no values.
func (s *Stack) Empty() bool {
	return len(s.entries) == 0
}

// Size returns the number of values on the stack.
func (s *Stack) Size() int {
	return len(s.entries)
}

// Push adds a value to the top of the stack.
func (s *Stack) Push(value object.Value) {
	s.entries = append(s.entries, value)
}

// Pop removes and returns the top value.
func (s *Stack) Pop() (object.Value, error) {
	if s.Empty() {
		return nil, errors.New("pop from an empty stack")
	}
	result := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return result, nil
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (object.Value, error) {
	if s.Empty() {
		return nil, errors.New("peek at an empty stack")
	}
	return s.entries[len(s.entries)-1], nil
}

// Dup pushes a deep copy of the top value, leaving the original in
// place beneath it.
func (s *Stack) Dup() error {
	top, err := s.Peek()
	if err != nil {
		return err
	}
	s.Push(top.Clone())
	return nil
}
