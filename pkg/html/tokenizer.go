package html

import (
	"fmt"
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Text        string
	SelfClosing bool // tag ended with />
}

type Tokenizer struct {
	input string
	pos   int

	// PreserveSpace disables whitespace collapsing for text tokens, as
	// inside <pre> and <textarea>.
	PreserveSpace bool
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{input: html}
}

func (t *Tokenizer) NextToken() (Token, error) {
	for t.pos < len(t.input) {
		if t.input[t.pos] != '<' {
			return t.readText(), nil
		}
		tok, skipped, err := t.readTag()
		if err != nil {
			return Token{}, err
		}
		if !skipped {
			return tok, nil
		}
	}
	return Token{Type: TokenEOF}, nil
}

// readTag reads markup starting at '<'. Comments, doctypes and processing
// instructions are consumed and reported as skipped.
func (t *Tokenizer) readTag() (Token, bool, error) {
	t.pos++
	rest := t.input[t.pos:]

	switch {
	case strings.HasPrefix(rest, "!--"):
		end := strings.Index(rest[3:], "-->")
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += 3 + end + 3
		}
		return Token{}, true, nil
	case strings.HasPrefix(rest, "?"):
		end := strings.Index(rest, "?>")
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += end + 2
		}
		return Token{}, true, nil
	case strings.HasPrefix(rest, "!"):
		if err := t.skipTo('>'); err != nil {
			return Token{}, false, err
		}
		t.pos++
		return Token{}, true, nil
	}

	isEndTag := false
	if t.pos < len(t.input) && t.input[t.pos] == '/' {
		isEndTag = true
		t.pos++
	}
	tagName := t.readTagName()
	if tagName == "" {
		// A stray '<' is text, the way browsers recover.
		return Token{Type: TokenText, Text: "<"}, false, nil
	}
	if isEndTag {
		if err := t.skipTo('>'); err != nil {
			return Token{}, false, err
		}
		t.pos++
		return Token{Type: TokenEndTag, TagName: tagName}, false, nil
	}

	attributes := make(map[string]string)
	for {
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			return Token{}, false, fmt.Errorf("unexpected EOF in <%s>", tagName)
		}
		switch t.input[t.pos] {
		case '>':
			t.pos++
			return Token{Type: TokenStartTag, TagName: tagName, Attributes: attributes}, false, nil
		case '/':
			t.pos++
			t.skipWhitespace()
			if t.pos < len(t.input) && t.input[t.pos] == '>' {
				t.pos++
				return Token{Type: TokenStartTag, TagName: tagName, Attributes: attributes, SelfClosing: true}, false, nil
			}
			continue
		}
		name, value, err := t.readAttribute()
		if err != nil {
			return Token{}, false, err
		}
		if _, dup := attributes[name]; !dup {
			attributes[name] = value
		}
	}
}

func (t *Tokenizer) readTagName() string {
	start := t.pos
	for t.pos < len(t.input) && isTagNameChar(t.input[t.pos]) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

func (t *Tokenizer) readAttribute() (string, string, error) {
	start := t.pos
	for t.pos < len(t.input) && isAttributeNameChar(t.input[t.pos]) {
		t.pos++
	}
	name := strings.ToLower(t.input[start:t.pos])
	if name == "" {
		return "", "", fmt.Errorf("expected attribute name at position %d", t.pos)
	}
	t.skipWhitespace()
	if t.pos >= len(t.input) || t.input[t.pos] != '=' {
		return name, "", nil
	}
	t.pos++
	t.skipWhitespace()
	value, err := t.readAttributeValue()
	if err != nil {
		return "", "", err
	}
	return name, gohtml.UnescapeString(value), nil
}

func (t *Tokenizer) readAttributeValue() (string, error) {
	if t.pos >= len(t.input) {
		return "", fmt.Errorf("expected attribute value at position %d", t.pos)
	}
	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		t.pos++
		end := strings.IndexByte(t.input[t.pos:], quote)
		if end < 0 {
			return "", fmt.Errorf("unterminated attribute value")
		}
		value := t.input[t.pos : t.pos+end]
		t.pos += end + 1
		return value, nil
	}
	start := t.pos
	for t.pos < len(t.input) && !unicode.IsSpace(rune(t.input[t.pos])) && t.input[t.pos] != '>' {
		t.pos++
	}
	return t.input[start:t.pos], nil
}

// readText reads up to the next '<'. Runs of whitespace collapse to a single
// space unless PreserveSpace is set; whitespace-only text comes back as " "
// so the parser can decide whether it is significant.
func (t *Tokenizer) readText() Token {
	end := strings.IndexByte(t.input[t.pos:], '<')
	if end < 0 {
		end = len(t.input) - t.pos
	}
	raw := t.input[t.pos : t.pos+end]
	t.pos += end
	if t.PreserveSpace {
		return Token{Type: TokenText, Text: gohtml.UnescapeString(raw)}
	}
	return Token{Type: TokenText, Text: gohtml.UnescapeString(CollapseWhitespace(raw))}
}

// CollapseWhitespace collapses runs of ASCII whitespace to one space while
// keeping a single space at each boundary that had one. Word boundaries
// between text and inline elements depend on those spaces.
func CollapseWhitespace(s string) string {
	if s == "" {
		return ""
	}
	hasLeading := isCollapsible(rune(s[0]))
	hasTrailing := isCollapsible(rune(s[len(s)-1]))

	fields := strings.FieldsFunc(s, isCollapsible)
	if len(fields) == 0 {
		return " "
	}
	result := strings.Join(fields, " ")
	if hasLeading {
		result = " " + result
	}
	if hasTrailing {
		result += " "
	}
	return result
}

// isCollapsible excludes U+00A0 so &nbsp; survives collapsing.
func isCollapsible(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

func (t *Tokenizer) skipTo(target byte) error {
	idx := strings.IndexByte(t.input[t.pos:], target)
	if idx < 0 {
		t.pos = len(t.input)
		return fmt.Errorf("expected '%c' but reached EOF", target)
	}
	t.pos += idx
	return nil
}

// ReadRawUntil reads raw content until the closing end tag (e.g. </script>)
// and consumes that tag. Used for elements where '<' does not start markup.
func (t *Tokenizer) ReadRawUntil(endTag string) string {
	needle := "</" + endTag
	lower := strings.ToLower(t.input[t.pos:])
	idx := strings.Index(lower, needle)
	if idx < 0 {
		content := t.input[t.pos:]
		t.pos = len(t.input)
		return content
	}
	content := t.input[t.pos : t.pos+idx]
	t.pos += idx
	if err := t.skipTo('>'); err == nil {
		t.pos++
	}
	return content
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return isTagNameChar(c) || c == ':' || c == '.' || c == '@'
}
