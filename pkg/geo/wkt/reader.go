// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package wkt

import (
	"fmt"
	"strconv"

	"github.com/quartzdb/quartz/pkg/geo/geomem"
)

// parser is the recursive descent state: the immutable input, a byte
// cursor, and the Z/M dimensionality established by the first declaring
// shape keyword. Every parse method is a function of (input, pos) that
// either advances the cursor past what it consumed or fails without
// side effects on the result.
type parser struct {
	arena *geomem.Arena
	input string
	pos   int

	hasZ  bool
	hasM  bool
	zmSet bool

	// scratch accumulates vertex ordinates before they are copied into the
	// arena, so consecutive vertex lists share one grown buffer.
	scratch []float64
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isAlnum(b byte) bool {
	return isDigit(b) || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func toUpper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

// errorContextAt returns up to errorContextLen bytes of input ending at
// (and including) the byte at offset, with a "..." prefix when the input
// extends further left than the window.
func (p *parser) errorContextAt(offset int) string {
	start := offset - errorContextLen
	truncated := start > 0
	if start < 0 {
		start = 0
	}
	end := offset + 1
	if end > len(p.input) {
		end = len(p.input)
	}
	ctx := p.input[start:end]
	if truncated {
		ctx = "..." + ctx
	}
	return ctx
}

func (p *parser) errorAtf(offset int, format string, args ...interface{}) error {
	return &ParseError{
		Problem: fmt.Sprintf(format, args...),
		Offset:  offset,
		Context: p.errorContextAt(offset),
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return p.errorAtf(p.pos, format, args...)
}

// match consumes c and any whitespace after it. The comparison is exact.
func (p *parser) match(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		p.skipSpace()
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	if p.match(c) {
		return nil
	}
	return p.errorf("expected '%c'", c)
}

// matchKeyword consumes kw case-insensitively plus any whitespace after it.
// kw itself must be uppercase. There is no word boundary check; the cursor
// lands on whatever follows the matched bytes.
func (p *parser) matchKeyword(kw string) bool {
	if len(p.input)-p.pos < len(kw) {
		return false
	}
	for i := 0; i < len(kw); i++ {
		if toUpper(p.input[p.pos+i]) != kw[i] {
			return false
		}
	}
	p.pos += len(kw)
	p.skipSpace()
	return true
}

// parseWord consumes a run of alphanumeric bytes, for echoing an unknown
// keyword back in an error.
func (p *parser) parseWord() string {
	start := p.pos
	for p.pos < len(p.input) && isAlnum(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

// floatPrefixLen returns the length of the leading decimal float in s, or
// zero if s does not start with one. Exponents without digits are left
// unconsumed so "1e" parses as 1 followed by a stray 'e'.
func floatPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mantissa := false
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa = true
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			mantissa = true
		}
	}
	if !mantissa {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		digits := false
		for j < len(s) && isDigit(s[j]) {
			j++
			digits = true
		}
		if digits {
			i = j
		}
	}
	return i
}

// parseFloat consumes one decimal float and any whitespace after it. On
// failure the cursor stays at the start of whatever is not a number.
func (p *parser) parseFloat() (float64, error) {
	n := floatPrefixLen(p.input[p.pos:])
	if n == 0 {
		return 0, p.errorf("expected number")
	}
	v, err := strconv.ParseFloat(p.input[p.pos:p.pos+n], 64)
	if err != nil {
		return 0, p.errorf("expected number")
	}
	p.pos += n
	p.skipSpace()
	return v, nil
}

// parseVertex consumes one coordinate tuple of the established
// dimensionality, appending its ordinates to coords in storage order.
func (p *parser) parseVertex(coords []float64) ([]float64, error) {
	x, err := p.parseFloat()
	if err != nil {
		return nil, err
	}
	y, err := p.parseFloat()
	if err != nil {
		return nil, err
	}
	coords = append(coords, x, y)
	if p.hasZ {
		z, err := p.parseFloat()
		if err != nil {
			return nil, err
		}
		coords = append(coords, z)
	}
	if p.hasM {
		m, err := p.parseFloat()
		if err != nil {
			return nil, err
		}
		coords = append(coords, m)
	}
	return coords, nil
}

// parseVertices consumes EMPTY or a parenthesized comma-list of vertices
// into an arena-backed vertex array. Shared by LineString bodies and
// polygon rings, which is how "POLYGON(EMPTY)" yields one empty ring.
func (p *parser) parseVertices() (geomem.VertexArray, error) {
	if p.matchKeyword("EMPTY") {
		return geomem.EmptyVertexArray(p.hasZ, p.hasM), nil
	}
	if err := p.expect('('); err != nil {
		return geomem.VertexArray{}, err
	}
	coords := p.scratch[:0]
	count := 0
	var err error
	for {
		coords, err = p.parseVertex(coords)
		if err != nil {
			return geomem.VertexArray{}, err
		}
		count++
		if !p.match(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return geomem.VertexArray{}, err
	}
	va := geomem.CopyVertexArray(p.arena, coords, count, p.hasZ, p.hasM)
	p.scratch = coords
	return va, nil
}

func (p *parser) parsePoint() (geomem.Geometry, error) {
	if p.matchKeyword("EMPTY") {
		return geomem.MakeEmptyPoint(p.hasZ, p.hasM), nil
	}
	if err := p.expect('('); err != nil {
		return geomem.Geometry{}, err
	}
	coords, err := p.parseVertex(p.scratch[:0])
	if err != nil {
		return geomem.Geometry{}, err
	}
	if err := p.expect(')'); err != nil {
		return geomem.Geometry{}, err
	}
	va := geomem.CopyVertexArray(p.arena, coords, 1, p.hasZ, p.hasM)
	p.scratch = coords
	return geomem.MakePoint(va), nil
}

func (p *parser) parseLineString() (geomem.Geometry, error) {
	va, err := p.parseVertices()
	if err != nil {
		return geomem.Geometry{}, err
	}
	return geomem.MakeLineString(va), nil
}

func (p *parser) parsePolygon() (geomem.Geometry, error) {
	if p.matchKeyword("EMPTY") {
		return geomem.MakePolygon(p.arena, 0, p.hasZ, p.hasM), nil
	}
	if err := p.expect('('); err != nil {
		return geomem.Geometry{}, err
	}
	var rings []geomem.VertexArray
	for {
		ring, err := p.parseVertices()
		if err != nil {
			return geomem.Geometry{}, err
		}
		rings = append(rings, ring)
		if !p.match(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return geomem.Geometry{}, err
	}
	poly := geomem.MakePolygon(p.arena, len(rings), p.hasZ, p.hasM)
	for i, ring := range rings {
		poly.SetRing(i, ring)
	}
	return poly, nil
}

// parseMultiPoint handles the WKT quirk that the parens around each member
// vertex are optional, member by member, so "MULTIPOINT(1 1, (2 2))" is
// accepted. EMPTY members are not: a member must be a vertex.
func (p *parser) parseMultiPoint() (geomem.Geometry, error) {
	if p.matchKeyword("EMPTY") {
		return geomem.MakeMultiPoint(p.arena, 0, p.hasZ, p.hasM), nil
	}
	if err := p.expect('('); err != nil {
		return geomem.Geometry{}, err
	}
	var points []geomem.Geometry
	for {
		withParen := p.match('(')
		coords, err := p.parseVertex(p.scratch[:0])
		if err != nil {
			return geomem.Geometry{}, err
		}
		if withParen {
			if err := p.expect(')'); err != nil {
				return geomem.Geometry{}, err
			}
		}
		va := geomem.CopyVertexArray(p.arena, coords, 1, p.hasZ, p.hasM)
		p.scratch = coords
		points = append(points, geomem.MakePoint(va))
		if !p.match(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return geomem.Geometry{}, err
	}
	mp := geomem.MakeMultiPoint(p.arena, len(points), p.hasZ, p.hasM)
	for i, pt := range points {
		mp.SetGeom(i, pt)
	}
	return mp, nil
}

func (p *parser) parseMultiLineString() (geomem.Geometry, error) {
	if p.matchKeyword("EMPTY") {
		return geomem.MakeMultiLineString(p.arena, 0, p.hasZ, p.hasM), nil
	}
	if err := p.expect('('); err != nil {
		return geomem.Geometry{}, err
	}
	var lines []geomem.Geometry
	for {
		line, err := p.parseLineString()
		if err != nil {
			return geomem.Geometry{}, err
		}
		lines = append(lines, line)
		if !p.match(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return geomem.Geometry{}, err
	}
	mls := geomem.MakeMultiLineString(p.arena, len(lines), p.hasZ, p.hasM)
	for i, line := range lines {
		mls.SetGeom(i, line)
	}
	return mls, nil
}

func (p *parser) parseMultiPolygon() (geomem.Geometry, error) {
	if p.matchKeyword("EMPTY") {
		return geomem.MakeMultiPolygon(p.arena, 0, p.hasZ, p.hasM), nil
	}
	if err := p.expect('('); err != nil {
		return geomem.Geometry{}, err
	}
	var polygons []geomem.Geometry
	for {
		poly, err := p.parsePolygon()
		if err != nil {
			return geomem.Geometry{}, err
		}
		polygons = append(polygons, poly)
		if !p.match(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return geomem.Geometry{}, err
	}
	mpoly := geomem.MakeMultiPolygon(p.arena, len(polygons), p.hasZ, p.hasM)
	for i, poly := range polygons {
		mpoly.SetGeom(i, poly)
	}
	return mpoly, nil
}

func (p *parser) parseGeometryCollection() (geomem.Geometry, error) {
	if p.matchKeyword("EMPTY") {
		return geomem.MakeGeometryCollection(p.arena, 0, p.hasZ, p.hasM), nil
	}
	if err := p.expect('('); err != nil {
		return geomem.Geometry{}, err
	}
	var members []geomem.Geometry
	var starts []int
	for {
		starts = append(starts, p.pos)
		member, err := p.parseGeometry()
		if err != nil {
			return geomem.Geometry{}, err
		}
		members = append(members, member)
		if !p.match(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return geomem.Geometry{}, err
	}
	// A member parsed before any keyword declared the dimensionality (an
	// unsuffixed EMPTY collection, say) can disagree with what a later
	// member established. Catch that here rather than coerce it.
	for i, member := range members {
		if member.HasZ() != p.hasZ || member.HasM() != p.hasM {
			return geomem.Geometry{}, p.errorAtf(
				starts[i], "mixed Z and M dimensions are not supported, mismatch",
			)
		}
	}
	gc := geomem.MakeGeometryCollection(p.arena, len(members), p.hasZ, p.hasM)
	for i, member := range members {
		gc.SetGeom(i, member)
	}
	return gc, nil
}

// applyZMSuffix consumes an optional Z/M suffix after a shape keyword and
// reconciles it with the dimensionality established by the first declaring
// keyword of the input. The suffix letters match case-sensitively, unlike
// keywords. An unsuffixed GEOMETRYCOLLECTION declares nothing and checks
// nothing; its members establish the dimensionality instead.
func (p *parser) applyZMSuffix(collection bool) error {
	var suffixZ, suffixM bool
	if p.match('Z') {
		suffixZ = true
		if p.match('M') {
			suffixM = true
		}
	} else if p.match('M') {
		suffixM = true
	}
	if collection && !suffixZ && !suffixM {
		return nil
	}
	if p.zmSet {
		if p.hasZ != suffixZ || p.hasM != suffixM {
			return p.errorf("mixed Z and M dimensions are not supported, mismatch")
		}
		return nil
	}
	p.hasZ = suffixZ
	p.hasM = suffixM
	p.zmSet = true
	return nil
}

func (p *parser) parseGeometry() (geomem.Geometry, error) {
	switch {
	case p.matchKeyword("POINT"):
		if err := p.applyZMSuffix(false); err != nil {
			return geomem.Geometry{}, err
		}
		return p.parsePoint()
	case p.matchKeyword("LINESTRING"):
		if err := p.applyZMSuffix(false); err != nil {
			return geomem.Geometry{}, err
		}
		return p.parseLineString()
	case p.matchKeyword("POLYGON"):
		if err := p.applyZMSuffix(false); err != nil {
			return geomem.Geometry{}, err
		}
		return p.parsePolygon()
	case p.matchKeyword("MULTIPOINT"):
		if err := p.applyZMSuffix(false); err != nil {
			return geomem.Geometry{}, err
		}
		return p.parseMultiPoint()
	case p.matchKeyword("MULTILINESTRING"):
		if err := p.applyZMSuffix(false); err != nil {
			return geomem.Geometry{}, err
		}
		return p.parseMultiLineString()
	case p.matchKeyword("MULTIPOLYGON"):
		if err := p.applyZMSuffix(false); err != nil {
			return geomem.Geometry{}, err
		}
		return p.parseMultiPolygon()
	case p.matchKeyword("GEOMETRYCOLLECTION"):
		if err := p.applyZMSuffix(true); err != nil {
			return geomem.Geometry{}, err
		}
		return p.parseGeometryCollection()
	default:
		offset := p.pos
		context := p.errorContextAt(offset)
		return geomem.Geometry{}, &ParseError{
			Problem: fmt.Sprintf("unknown geometry type '%s'", p.parseWord()),
			Offset:  offset,
			Context: context,
		}
	}
}

// parseTopLevel recognizes and discards a leading "SRID...;" prefix, then
// parses one geometry. Input past the geometry is left unread.
func (p *parser) parseTopLevel() (geomem.Geometry, error) {
	if p.matchKeyword("SRID") {
		for p.pos < len(p.input) && p.input[p.pos] != ';' {
			p.pos++
		}
		if err := p.expect(';'); err != nil {
			return geomem.Geometry{}, err
		}
	}
	return p.parseGeometry()
}
