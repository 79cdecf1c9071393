// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package wkt

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// errorContextLen bounds how much input is echoed back in a parse error.
const errorContextLen = 32

// ParseError is the error returned for malformed WKT input. It carries the
// byte offset the parse failed at and a bounded slice of the input leading
// up to that offset, since the offending string usually arrives from a
// user-supplied value far removed from the failure.
type ParseError struct {
	// Problem describes what the parser expected or found.
	Problem string
	// Offset is the byte offset into the input at which the parse failed.
	Offset int
	// Context holds up to errorContextLen bytes of input ending at the
	// offending byte, prefixed with "..." when truncated on the left.
	Context string
}

var _ error = &ParseError{}
var _ fmt.Formatter = &ParseError{}
var _ errors.SafeFormatter = &ParseError{}

// Error is part of the error interface, which ParseError implements.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d near: '%s'|<---", e.Problem, e.Offset, e.Context)
}

// Format is part of the fmt.Formatter interface, which ParseError
// implements.
func (e *ParseError) Format(s fmt.State, verb rune) {
	errors.FormatError(e, s, verb)
}

// SafeFormatError is part of the errors.SafeFormatter interface, which
// ParseError implements. Problem and Context both echo user input and stay
// redactable; only the offset is reportable.
func (e *ParseError) SafeFormatError(p errors.Printer) (next error) {
	p.Printf("%s at position %d near: '%s'|<---", e.Problem, errors.Safe(e.Offset), e.Context)
	return nil
}
