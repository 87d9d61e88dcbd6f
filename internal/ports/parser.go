package ports

import "github.com/b11005/blink-idl-diff/internal/domain/idl"

// Parser turns the source of one definition file into a definition tree.
// The concrete implementation (hand-written WebIDL grammar) lives in
// internal/adapters/webidl. The collector treats it as a black box: it only
// reads the returned tree and never inspects grammar state.
type Parser interface {
	// Parse parses source, which was read from path. path is used for error
	// attribution and stored as File.Path. Grammar errors are returned as
	// *idl.SyntaxError.
	Parse(path string, source []byte) (*idl.File, error)
}
