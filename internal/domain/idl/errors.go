package idl

import "fmt"

// SyntaxError is reported by a parser when a file is not valid WebIDL.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.Path, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s: syntax error: %s", e.Path, e.Msg)
}

// StructuralError means a node lacks a sub-node the pipeline requires,
// e.g. an operation without an argument list.
type StructuralError struct {
	Path      string
	Interface string
	Msg       string
}

func (e *StructuralError) Error() string {
	if e.Interface != "" {
		return fmt.Sprintf("%s: interface %s: %s", e.Path, e.Interface, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
