// Package logger provides source locations, line/column tracking, and a
// small closure-based diagnostics sink shared by the tokenizer and every
// parser in this module.
//
// Logging is designed to look and feel like clang's error format: each
// message carries the range of input text it refers to, and the line and
// column are only computed on demand (most parses never produce a single
// diagnostic, so paying for line/column bookkeeping up front would be
// wasted work).
package logger

import (
	"fmt"
	"strings"
)

// Loc is a 0-based byte offset from the start of the source buffer.
type Loc struct {
	Start int32
}

// Range is a span of the source buffer starting at Loc and running for Len
// bytes.
type Range struct {
	Loc Loc
	Len int32
}

// End returns the byte offset one past the end of the range.
func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

// Source is an immutable view of the input buffer being tokenized/parsed.
type Source struct {
	// Index distinguishes sources when a host juggles more than one; the
	// tokenizer and parsers in this module never read it themselves.
	Index uint32

	// PrettyPath is used only for diagnostic messages, never for I/O.
	PrettyPath string

	Contents string
}

// TextForRange returns the substring of the source covered by r.
func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start : r.Loc.Start+r.Len]
}

// RangeOfString finds the range of the quoted string starting at loc, for
// use when a diagnostic wants to underline an entire string token rather
// than just its starting position.
func (s *Source) RangeOfString(loc Loc) Range {
	text := s.Contents[loc.Start:]
	if len(text) == 0 {
		return Range{Loc: loc}
	}
	quote := text[0]
	if quote != '"' && quote != '\'' {
		return Range{Loc: loc, Len: 1}
	}
	for i := 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return Range{Loc: loc, Len: int32(i + 1)}
		}
	}
	return Range{Loc: loc, Len: int32(len(text))}
}

// LineColumnTracker lazily computes (1-based line, 0-based column) pairs
// from byte offsets. Constructing one is cheap; the line-offset table is only built
// the first time a location is actually requested.
type LineColumnTracker struct {
	source       *Source
	lineOffsets  []int32
	hasLineOffsets bool
}

// MakeLineColumnTracker returns a tracker bound to source. It does no work
// until LineAndColumn is first called.
func MakeLineColumnTracker(source *Source) LineColumnTracker {
	return LineColumnTracker{source: source}
}

func (t *LineColumnTracker) ensureLineOffsets() {
	if t.hasLineOffsets {
		return
	}
	t.hasLineOffsets = true
	offsets := []int32{0}
	contents := t.source.Contents
	for i := 0; i < len(contents); i++ {
		if contents[i] == '\n' {
			offsets = append(offsets, int32(i+1))
		}
	}
	t.lineOffsets = offsets
}

// LineAndColumn returns the 1-based line and 0-based column for loc.
func (t *LineColumnTracker) LineAndColumn(loc Loc) (line int, column int) {
	t.ensureLineOffsets()
	offsets := t.lineOffsets
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offsets[mid] <= loc.Start {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, int(loc.Start - offsets[lo])
}

// MsgData carries the human-readable text for one message plus an optional
// location to underline.
type MsgData struct {
	Text     string
	Location *MsgLocation
}

// MsgLocation is a resolved, printable source position.
type MsgLocation struct {
	File   string
	Line   int
	Column int
}

// MsgKind categorizes a diagnostic.
type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		panic("invalid MsgKind")
	}
}

// Msg is one diagnostic, optionally with attached notes.
type Msg struct {
	Kind  MsgKind
	Data  MsgData
	Notes []MsgData
}

// Log is a struct of closures, deliberately a value type rather than an
// interface so that call sites can pass it around and store it by value the
// way the rest of this module's parsers do.
type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

// NewDeferLog returns a Log that accumulates every message in memory for the
// caller to inspect after the parse completes. This is what every parser in
// this module is handed by default: CSS syntax errors are recoverable, so
// nothing should be printed until the caller decides what to do with them.
func NewDeferLog() Log {
	var msgs []Msg
	var hasErrors bool
	return Log{
		AddMsg: func(msg Msg) {
			msgs = append(msgs, msg)
			if msg.Kind == Error {
				hasErrors = true
			}
		},
		HasErrors: func() bool { return hasErrors },
		Done:      func() []Msg { return msgs },
	}
}

func locationFor(tracker *LineColumnTracker, r Range) *MsgLocation {
	if tracker == nil {
		return nil
	}
	line, column := tracker.LineAndColumn(r.Loc)
	return &MsgLocation{File: tracker.source.PrettyPath, Line: line, Column: column}
}

// Add appends a message at kind/range/text to the log.
func (log Log) Add(kind MsgKind, tracker *LineColumnTracker, r Range, text string) {
	log.AddMsg(Msg{Kind: kind, Data: MsgData{Text: text, Location: locationFor(tracker, r)}})
}

// AddWithNotes appends a message with supplementary notes attached.
func (log Log) AddWithNotes(kind MsgKind, tracker *LineColumnTracker, r Range, text string, notes []MsgData) {
	log.AddMsg(Msg{Kind: kind, Data: MsgData{Text: text, Location: locationFor(tracker, r)}, Notes: notes})
}

// AddError is shorthand for Add(Error, ...).
func (log Log) AddError(tracker *LineColumnTracker, r Range, text string) {
	log.Add(Error, tracker, r, text)
}

// AddErrorWithNotes is shorthand for AddWithNotes(Error, ...).
func (log Log) AddErrorWithNotes(tracker *LineColumnTracker, r Range, text string, notes []MsgData) {
	log.AddWithNotes(Error, tracker, r, text, notes)
}

// AddWarning is shorthand for Add(Warning, ...).
func (log Log) AddWarning(tracker *LineColumnTracker, r Range, text string) {
	log.Add(Warning, tracker, r, text)
}

// String renders a message in "file:line:col: kind: text" form.
func (msg Msg) String() string {
	var sb strings.Builder
	if loc := msg.Data.Location; loc != nil {
		fmt.Fprintf(&sb, "%s:%d:%d: ", loc.File, loc.Line, loc.Column)
	}
	fmt.Fprintf(&sb, "%s: %s", msg.Kind.String(), msg.Data.Text)
	for _, note := range msg.Notes {
		sb.WriteByte('\n')
		if loc := note.Location; loc != nil {
			fmt.Fprintf(&sb, "  %s:%d:%d: ", loc.File, loc.Line, loc.Column)
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(note.Text)
	}
	return sb.String()
}
