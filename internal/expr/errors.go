package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolved is returned by Compile for a tree that still contains an Ident.
	ErrUnresolved = errors.New("expr: unresolved name")

	// ErrUnknownFunction indicates a call to a function outside the builtin table.
	ErrUnknownFunction = errors.New("expr: unknown function")

	// ErrArity indicates a builtin called with the wrong number of arguments.
	ErrArity = errors.New("expr: wrong number of arguments")
)

// ParseError reports a syntax error at a byte offset of the source.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expr: parse error at offset %d: %s", e.Pos, e.Msg)
}
