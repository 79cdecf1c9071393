// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

// Package wkt parses the Well Known Text geometry format into arena-backed
// geometry trees.
//
// The parser is a recursive descent reader over the input bytes. Keywords
// are matched case-insensitively and whitespace is skipped after every
// consumed token, so the cursor always rests on the next significant byte.
// The dimensionality of the whole input is established by the Z/M suffix
// (or its absence) on the first shape keyword and every later shape must
// declare the same; the one exception is an unsuffixed GEOMETRYCOLLECTION,
// which leaves the declaration to its members. A leading "SRID...;" prefix
// is recognized and discarded; callers that want the SRID extract it before
// parsing. Input past the end of the first complete geometry is ignored.
package wkt

import (
	"github.com/quartzdb/quartz/pkg/geo/geomem"
)

// Parse parses input as WKT. The returned tree and everything it references
// are allocated from a and share its lifetime. On failure the returned
// error is a *ParseError locating the offending byte; no partial tree is
// returned, though arena space consumed by the attempt is only reclaimed by
// the next Reset.
func Parse(a *geomem.Arena, input string) (geomem.Geometry, error) {
	p := parser{arena: a, input: input}
	return p.parseTopLevel()
}
