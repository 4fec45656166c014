package vobject

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/samber/mo"
)

const (
	beginMarker = "BEGIN:"
	endMarker   = "END:"
)

// Parser turns contentline text into component trees. The zero value is ready
// to use and does not log.
type Parser struct {
	// Logger receives a debug record for every rejected document.
	Logger *slog.Logger
}

var defaultParser = &Parser{}

// ParseComponent parses a document holding exactly one top-level component.
func ParseComponent(text string) (*Component, error) {
	return defaultParser.Parse(text)
}

// ParseComponents parses a document holding one or more sibling top-level
// components, such as a file with several vCards.
func ParseComponents(text string) ([]Component, error) {
	return defaultParser.ParseAll(text)
}

// ParseResult is ParseComponent wrapped in a result.
func ParseResult(text string) mo.Result[*Component] {
	return mo.TupleToResult(ParseComponent(text))
}

// FromString parses text and drops the error message.
func FromString(text string) mo.Option[*Component] {
	c, err := ParseComponent(text)
	if err != nil {
		return mo.None[*Component]()
	}
	return mo.Some(c)
}

// Parse parses a document holding exactly one top-level component.
func (p *Parser) Parse(text string) (*Component, error) {
	s := newScanner(Unfold(text))
	c, err := s.component()
	if err == nil && !s.eof() {
		err = s.fail("unexpected content after END:%s", c.Name)
	}
	if err != nil {
		p.logger().Debug("rejected document", "error", err, "length", len(text))
		return nil, err
	}
	return c, nil
}

// ParseAll parses a document holding one or more sibling top-level components.
func (p *Parser) ParseAll(text string) ([]Component, error) {
	s := newScanner(Unfold(text))
	var cs []Component
	for {
		c, err := s.component()
		if err != nil {
			p.logger().Debug("rejected document", "error", err, "components", len(cs))
			return nil, err
		}
		cs = append(cs, *c)
		if s.eof() {
			return cs, nil
		}
	}
}

func (p *Parser) logger() *slog.Logger {
	if p == nil || p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// scanner is a recursive descent parser over unfolded text.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) rest() string {
	return s.src[s.pos:]
}

func (s *scanner) hasPrefix(prefix string) bool {
	return strings.HasPrefix(s.rest(), prefix)
}

// component := "BEGIN:" value ws body "END:" value ws
func (s *scanner) component() (*Component, error) {
	if !s.hasPrefix(beginMarker) {
		return nil, s.fail("expected %q", beginMarker)
	}
	s.pos += len(beginMarker)
	name, _ := s.value()
	name = trimName(name)
	if name == "" {
		return nil, s.fail("missing component name after %q", beginMarker)
	}
	s.skipSpace()

	c := NewComponent(name)
	for {
		switch {
		case s.eof():
			return nil, s.fail("unexpected end of input, missing END:%s", name)
		case s.hasPrefix(endMarker):
			s.pos += len(endMarker)
			end, _ := s.value()
			if end = trimName(end); end != name {
				return nil, s.fail("END:%s does not close BEGIN:%s", end, name)
			}
			s.skipSpace()
			return c, nil
		case s.hasPrefix(beginMarker):
			sub, err := s.component()
			if err != nil {
				return nil, err
			}
			c.Subcomponents = append(c.Subcomponents, *sub)
		default:
			key, prop, err := s.property()
			if err != nil {
				return nil, err
			}
			c.AddProp(key, prop)
			s.skipSpace()
		}
	}
}

// property := group? name param* ":" value
func (s *scanner) property() (string, Property, error) {
	prop := Property{Params: make(map[string]string)}

	name := s.token()
	if name == "" {
		return "", prop, s.fail("expected property name")
	}
	if s.hasPrefix(".") {
		s.pos++
		prop.Group = name
		if name = s.token(); name == "" {
			return "", prop, s.fail("expected property name after group %s", prop.Group)
		}
	}

	for s.hasPrefix(";") {
		s.pos++
		key, value, err := s.param()
		if err != nil {
			return "", prop, err
		}
		prop.Params[key] = value
	}

	if !s.hasPrefix(":") {
		return "", prop, s.fail("expected ':' after property %s", name)
	}
	s.pos++
	value, ok := s.value()
	if !ok {
		return "", prop, s.fail("missing value for property %s", name)
	}
	prop.RawValue = value
	return name, prop, nil
}

// param := param-name ("=" (quoted-string / safe-text))?
func (s *scanner) param() (string, string, error) {
	key := s.token()
	if key == "" {
		return "", "", s.fail("expected parameter name")
	}
	if !s.hasPrefix("=") {
		return key, "", nil
	}
	s.pos++

	if !s.hasPrefix(`"`) {
		return key, s.run(isSafeChar), nil
	}
	s.pos++
	value := s.run(isQSafeChar)
	if !s.hasPrefix(`"`) {
		return "", "", s.fail("unterminated quoted value for parameter %s", key)
	}
	s.pos++
	return key, value, nil
}

// token consumes [A-Za-z0-9-]*.
func (s *scanner) token() string {
	start := s.pos
	for s.pos < len(s.src) && isTokenChar(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// value consumes everything up to the next line break. It reports false when
// nothing was consumed.
func (s *scanner) value() (string, bool) {
	start := s.pos
	if i := strings.IndexAny(s.rest(), "\r\n"); i >= 0 {
		s.pos += i
	} else {
		s.pos = len(s.src)
	}
	return s.src[start:s.pos], s.pos > start
}

// run consumes runes while accept returns true.
func (s *scanner) run(accept func(rune) bool) string {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.rest())
		if !accept(r) {
			break
		}
		s.pos += size
	}
	return s.src[start:s.pos]
}

// skipSpace consumes line breaks, spaces and tabs.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\r', '\n', ' ', '\t':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) fail(format string, args ...any) error {
	line, col := 1, 1
	for i, r := range s.src[:s.pos] {
		switch {
		case r == '\n':
			line, col = line+1, 1
		case r == '\r' && (i+1 >= len(s.src) || s.src[i+1] != '\n'):
			line, col = line+1, 1
		case r == '\r':
		default:
			col++
		}
	}
	return &SyntaxError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// trimName drops trailing blanks after a BEGIN or END name.
func trimName(name string) string {
	return strings.TrimRight(name, " \t")
}

func isTokenChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-'
}

func isCtl(r rune) bool {
	return r <= 0x1f || r == 0x7f
}

func isQSafeChar(r rune) bool {
	return r != '"' && !isCtl(r)
}

func isSafeChar(r rune) bool {
	return r != ';' && r != ':' && isQSafeChar(r)
}
