// state.go holds the per-parse scanner state and diagnostics.
package bbcode

import (
	"fmt"

	"github.com/rs/zerolog"
)

const rootTagName = "<root>"

// Position is a 1-based line/column location in the input. Columns count
// runes, not bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// advance returns the position after byte c. UTF-8 continuation bytes do not
// move the column.
func (p Position) advance(c byte) Position {
	switch {
	case c == '\n':
		p.Line++
		p.Column = 1
	case c&0xC0 == 0x80:
	default:
		p.Column++
	}
	return p
}

// offset maps rel, a position inside text that starts at p, into the
// coordinates p is in.
func (p Position) offset(rel Position) Position {
	if rel.Line == 1 {
		return Position{Line: p.Line, Column: p.Column + rel.Column - 1}
	}
	return Position{Line: p.Line + rel.Line - 1, Column: rel.Column}
}

// WarningKind classifies a recoverable markup problem.
type WarningKind string

const (
	WarnUnknownTag     WarningKind = "unknown-tag"
	WarnUnmatchedClose WarningKind = "unmatched-close"
	WarnDisallowed     WarningKind = "disallowed"
	WarnDepthExceeded  WarningKind = "depth-exceeded"
	WarnUnclosed       WarningKind = "unclosed"
)

// Warning describes markup that was absorbed as text or discarded. Parsing
// still succeeded.
type Warning struct {
	Position
	Kind    WarningKind `json:"kind"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Position, w.Message)
}

// tagMark records which tag scope the scanner is in and where it opened.
type tagMark struct {
	name string
	at   Position
}

// parseState is created for one top-level parse and threaded through every
// scan call. It only ever advances.
type parseState struct {
	pos      Position
	body     Position // start of the text-capturing body being built
	current  tagMark
	warnings []Warning
	log      *zerolog.Logger
}

func newParseState(log *zerolog.Logger) *parseState {
	start := Position{Line: 1, Column: 1}
	return &parseState{
		pos:     start,
		current: tagMark{name: rootTagName, at: start},
		log:     log,
	}
}

// advance consumes one input byte.
func (s *parseState) advance(c byte) {
	s.pos = s.pos.advance(c)
}

// enter switches the current tag marker and returns the previous one.
func (s *parseState) enter(name string, at Position) tagMark {
	prev := s.current
	s.current = tagMark{name: name, at: at}
	return prev
}

func (s *parseState) warn(at Position, kind WarningKind, tag, format string, args ...interface{}) {
	w := Warning{
		Position: at,
		Kind:     kind,
		Tag:      tag,
		Message:  fmt.Sprintf(format, args...),
	}
	s.add(w)
}

func (s *parseState) add(w Warning) {
	s.warnings = append(s.warnings, w)
	s.log.Debug().
		Str("kind", string(w.Kind)).
		Str("tag", w.Tag).
		Str("scope", s.current.name).
		Int("line", w.Line).
		Int("column", w.Column).
		Msg(w.Message)
}

// BuildError is returned when a tag builder fails. It carries the tag and the
// location of its opening bracket.
type BuildError struct {
	Tag string
	Position
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("bbcode: building [%s] at line %d, column %d: %v", e.Tag, e.Line, e.Column, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
