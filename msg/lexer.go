package msg

import (
	"bytes"
	"fmt"
	"strconv"
)

// Entry is one parsed {index}{secondary}{value} record plus an optional
// trailing comment. Field slices alias the parsed input; the builder copies
// anything it keeps.
type Entry struct {
	// Index is the numeric key identifying a message family.
	Index uint32
	// Secondary is the reserved middle field. The format keeps it empty;
	// anything else marks the record as malformed.
	Secondary []byte
	// Value is the message text, raw and undecoded.
	Value []byte
	// Comment is the trailing comment text, nil when absent.
	Comment []byte
}

type lineKind int

const (
	lineEntry lineKind = iota
	lineComment
	lineBreak
)

// line is one classified physical line of a document.
type line struct {
	kind    lineKind
	entry   Entry
	comment []byte
}

// document is the ordered token stream of one parsed input. It only lives
// long enough to be folded into a Dictionary.
type document struct {
	lines []line
}

// snippetLen caps the amount of trailing input quoted in parse errors.
const snippetLen = 20

// ParseError reports a grammar violation at a byte offset, quoting a short
// snippet of the input that follows it.
type ParseError struct {
	Offset  int
	Reason  string
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("parse error at offset %d: %s (near %q)", e.Offset, e.Reason, e.Snippet)
}

// tail returns up to snippetLen bytes of in starting at pos.
func tail(in []byte, pos int) string {
	rest := in[pos:]
	if len(rest) > snippetLen {
		rest = rest[:snippetLen]
	}
	return string(rest)
}

// lexer is a byte cursor over one document.
type lexer struct {
	in  []byte
	pos int
}

func (l *lexer) errf(format string, args ...any) *ParseError {
	return &ParseError{Offset: l.pos, Reason: fmt.Sprintf(format, args...), Snippet: tail(l.in, l.pos)}
}

func (l *lexer) eof() bool  { return l.pos >= len(l.in) }
func (l *lexer) peek() byte { return l.in[l.pos] }

// skipSpaces consumes a run of spaces and tabs.
func (l *lexer) skipSpaces() {
	for l.pos < len(l.in) && (l.in[l.pos] == ' ' || l.in[l.pos] == '\t') {
		l.pos++
	}
}

// lineBreak consumes one CR?LF separator. A lone CR is not a separator.
func (l *lexer) lineBreak() bool {
	if l.pos < len(l.in) && l.in[l.pos] == '\n' {
		l.pos++
		return true
	}
	if l.pos+1 < len(l.in) && l.in[l.pos] == '\r' && l.in[l.pos+1] == '\n' {
		l.pos += 2
		return true
	}
	return false
}

// restOfLine consumes everything up to the next CR or LF.
func (l *lexer) restOfLine() []byte {
	start := l.pos
	for l.pos < len(l.in) && l.in[l.pos] != '\n' && l.in[l.pos] != '\r' {
		l.pos++
	}
	return l.in[start:l.pos]
}

// commentMarker consumes "#" or "//" when present.
func (l *lexer) commentMarker() bool {
	if l.pos < len(l.in) && l.in[l.pos] == '#' {
		l.pos++
		return true
	}
	if l.pos+1 < len(l.in) && l.in[l.pos] == '/' && l.in[l.pos+1] == '/' {
		l.pos += 2
		return true
	}
	return false
}

// comment parses optional spaces, a marker and the comment text with its
// leading spaces stripped. Consumes nothing when no marker follows the
// spaces.
func (l *lexer) comment() ([]byte, bool) {
	save := l.pos
	l.skipSpaces()
	if !l.commentMarker() {
		l.pos = save
		return nil, false
	}
	l.skipSpaces()
	return l.restOfLine(), true
}

// uint32Field parses a run of ASCII digits as a base-10 uint32.
func (l *lexer) uint32Field() (uint32, error) {
	start := l.pos
	for l.pos < len(l.in) && l.in[l.pos] >= '0' && l.in[l.pos] <= '9' {
		l.pos++
	}
	if l.pos == start {
		return 0, l.errf("expected unsigned integer")
	}
	n, err := strconv.ParseUint(string(l.in[start:l.pos]), 10, 32)
	if err != nil {
		return 0, &ParseError{Offset: start, Reason: "index out of uint32 range", Snippet: string(l.in[start:l.pos])}
	}
	return uint32(n), nil
}

// expect consumes exactly c or fails.
func (l *lexer) expect(c byte) error {
	if l.pos < len(l.in) && l.in[l.pos] == c {
		l.pos++
		return nil
	}
	return l.errf("expected %q", string(c))
}

// curlyText consumes "{", the field text (anything up to the next '}',
// newlines included, no escaping) and the closing "}".
func (l *lexer) curlyText() ([]byte, error) {
	if err := l.expect('{'); err != nil {
		return nil, err
	}
	end := bytes.IndexByte(l.in[l.pos:], '}')
	if end < 0 {
		return nil, l.errf("unterminated field, missing '}'")
	}
	text := l.in[l.pos : l.pos+end]
	l.pos += end + 1
	return text, nil
}

// entry parses one {index}{secondary}{value} record with an optional trailing
// comment. The caller has already seen the opening '{'; from here on every
// failure is hard, there is no falling back to another line interpretation.
func (l *lexer) entry() (Entry, error) {
	l.pos++ // opening '{' of the index
	index, err := l.uint32Field()
	if err != nil {
		return Entry{}, err
	}
	if err := l.expect('}'); err != nil {
		return Entry{}, err
	}
	secondary, err := l.curlyText()
	if err != nil {
		return Entry{}, err
	}
	value, err := l.curlyText()
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Index: index, Secondary: secondary, Value: value}
	if c, ok := l.comment(); ok {
		e.Comment = c
	}
	return e, nil
}

// parseLine classifies one line. The comment alternative backtracks freely;
// the entry alternative commits once its opening '{' is seen; whatever is
// left matches as a blank line of optional spaces.
func (l *lexer) parseLine() (line, error) {
	if c, ok := l.comment(); ok {
		return line{kind: lineComment, comment: c}, nil
	}
	l.skipSpaces()
	if !l.eof() && l.peek() == '{' {
		e, err := l.entry()
		if err != nil {
			return line{}, err
		}
		return line{kind: lineEntry, entry: e}, nil
	}
	return line{kind: lineBreak}, nil
}

// tokenize parses a whole document: lines separated by CR?LF. With exhaustive
// set, any input left over after the last line is an error.
func tokenize(in []byte, exhaustive bool) (document, error) {
	l := &lexer{in: in}
	var doc document
	for {
		ln, err := l.parseLine()
		if err != nil {
			return document{}, err
		}
		doc.lines = append(doc.lines, ln)
		if !l.lineBreak() {
			break
		}
	}
	if exhaustive && !l.eof() {
		return document{}, &ParseError{Offset: l.pos, Reason: "unconsumed input after last line", Snippet: tail(l.in, l.pos)}
	}
	return doc, nil
}
