package rdf

import (
	"errors"
	"fmt"
)

// ParseError reports malformed input to a decoder. Line and Column are
// 1-based; both are zero when the underlying syntax library does not expose
// positions (JSON-LD, RDF/XML).
type ParseError struct {
	Line   int
	Column int
	Reason string
	Err    error // optional underlying cause
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ResolutionError reports an unknown prefix or an unresolvable relative IRI.
type ResolutionError struct {
	Prefix string // set for unknown-prefix failures
	IRI    string // set for relative-IRI failures
}

func (e *ResolutionError) Error() string {
	if e.Prefix != "" {
		return fmt.Sprintf("unknown prefix %q", e.Prefix)
	}
	return fmt.Sprintf("cannot resolve relative IRI %q without a base", e.IRI)
}

// AsParseError unwraps err to a *ParseError if one is in the chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
