// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import "github.com/b11005/blink-idl-diff/internal/adapters/webidl/ast"

// nodeStack tracks the nodes under construction; errors attach to the top.
type nodeStack struct {
	top  *element
	size int
}

type element struct {
	value ast.Node
	next  *element
}

func (s *nodeStack) topValue() ast.Node {
	if s.size == 0 {
		return nil
	}
	return s.top.value
}

// Push pushes a node onto the stack.
func (s *nodeStack) push(value ast.Node) {
	s.top = &element{value, s.top}
	s.size++
}

// Pop removes the node from the stack and returns it.
func (s *nodeStack) pop() (value ast.Node) {
	if s.size > 0 {
		value, s.top = s.top.value, s.top.next
		s.size--
		return
	}
	return nil
}
