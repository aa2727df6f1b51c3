package tokenizer

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/shibukawa/leafbuild/syntax"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
)

// TokenIterator uses the Go 1.24 iterator pattern. The error is non-nil for
// tokens carrying a lexical problem (unterminated literals, unexpected
// characters); the token itself is still yielded with its full text so the
// stream remains lossless.
type TokenIterator iter.Seq2[syntax.Token, error]

// Tokenizer scans build-language source into tokens. Whitespace, comments
// and newlines are real tokens: concatenating the text of every yielded
// token reproduces the input byte-for-byte.
type Tokenizer struct {
	input string
}

// New creates a Tokenizer over the given source text.
func New(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// Tokens returns a lazy single-pass iterator over the source. Each call
// rescans from offset zero; the tokenizer itself holds no scan state.
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(syntax.Token, error) bool) {
		s := &scanner{input: t.input}
		for s.pos < len(s.input) {
			if !yield(s.next()) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice, along with the last lexical error.
func (t *Tokenizer) AllTokens() ([]syntax.Token, error) {
	tokens := make([]syntax.Token, 0, 64)
	var lastError error

	for token, err := range t.Tokens() {
		if err != nil {
			lastError = err
		}
		tokens = append(tokens, token)
	}

	return tokens, lastError
}

var keywords = map[string]syntax.Kind{
	"and":      syntax.AND_KW,
	"or":       syntax.OR_KW,
	"not":      syntax.NOT_KW,
	"in":       syntax.IN_KW,
	"let":      syntax.LET_KW,
	"if":       syntax.IF_KW,
	"else":     syntax.ELSE_KW,
	"foreach":  syntax.FOREACH_KW,
	"continue": syntax.CONTINUE_KW,
	"break":    syntax.BREAK_KW,
	"return":   syntax.RETURN_KW,
	"fn":       syntax.FN_KW,
	"true":     syntax.TRUE_KW,
	"false":    syntax.FALSE_KW,
}

// Internal scanner implementation. Operates on bytes; only unrecognized
// input is decoded as a rune, so an error token never splits a UTF-8
// sequence.
type scanner struct {
	input string
	pos   int
}

// next scans one token starting at the current position. The caller
// guarantees at least one byte remains.
func (s *scanner) next() (syntax.Token, error) {
	start := s.pos

	switch c := s.input[s.pos]; {
	case c == '\n':
		s.pos++
		return s.token(syntax.NEWLINE, start), nil
	case c == ' ' || c == '\t' || c == '\r':
		return s.readWhitespace(start), nil
	case c == '/':
		switch s.peek(1) {
		case '/':
			return s.readLineComment(start), nil
		case '*':
			return s.readBlockComment(start)
		case '=':
			s.pos += 2
			return s.token(syntax.DIVIDE_ASSIGN, start), nil
		default:
			s.pos++
			return s.token(syntax.DIVIDE, start), nil
		}
	case c == '\'':
		return s.readString(start)
	case isDigit(c):
		return s.readNumber(start), nil
	case isWordStart(c):
		return s.readWord(start), nil
	default:
		return s.readOperator(start)
	}
}

// peek returns the byte the given distance ahead of the cursor, or zero past
// the end of input.
func (s *scanner) peek(ahead int) byte {
	if s.pos+ahead >= len(s.input) {
		return 0
	}
	return s.input[s.pos+ahead]
}

// token builds a token whose text is a subslice of the input.
func (s *scanner) token(kind syntax.Kind, start int) syntax.Token {
	return syntax.Token{
		Kind: kind,
		Text: s.input[start:s.pos],
		Span: syntax.Span{Start: start, End: s.pos},
	}
}

// readWhitespace reads a run of spaces, tabs and carriage returns. Newlines
// are never part of it; they terminate statements.
func (s *scanner) readWhitespace(start int) syntax.Token {
	for s.pos < len(s.input) {
		if c := s.input[s.pos]; c != ' ' && c != '\t' && c != '\r' {
			break
		}
		s.pos++
	}
	return s.token(syntax.WHITESPACE, start)
}

// readLineComment reads from "//" up to, but not including, the newline.
func (s *scanner) readLineComment(start int) syntax.Token {
	if idx := strings.IndexByte(s.input[s.pos:], '\n'); idx >= 0 {
		s.pos += idx
	} else {
		s.pos = len(s.input)
	}
	return s.token(syntax.LINE_COMMENT, start)
}

// readBlockComment reads "/*" through "*/". Block comments do not nest. A
// comment left open at end of input keeps its trivia kind so parsing can
// proceed, but reports a lexical error.
func (s *scanner) readBlockComment(start int) (syntax.Token, error) {
	s.pos += 2
	if idx := strings.Index(s.input[s.pos:], "*/"); idx >= 0 {
		s.pos += idx + 2
		return s.token(syntax.BLOCK_COMMENT, start), nil
	}
	s.pos = len(s.input)
	return s.token(syntax.BLOCK_COMMENT, start), ErrUnterminatedComment
}

// readString reads the three string forms: 'text' (verbatim, may span
// newlines, no escapes), '' (empty), and '''text''' (multiline). Input
// ending before the closing quote(s) produces an error token covering the
// rest of the source, with its span starting at the opening quote.
func (s *scanner) readString(start int) (syntax.Token, error) {
	if s.peek(1) == '\'' {
		if s.peek(2) == '\'' {
			return s.readMultilineString(start)
		}
		s.pos += 2
		return s.token(syntax.STRING, start), nil
	}

	s.pos++
	for s.pos < len(s.input) {
		if s.input[s.pos] == '\'' {
			s.pos++
			return s.token(syntax.STRING, start), nil
		}
		s.pos++
	}
	return s.token(syntax.ERROR, start), ErrUnterminatedString
}

func (s *scanner) readMultilineString(start int) (syntax.Token, error) {
	s.pos += 3
	if idx := strings.Index(s.input[s.pos:], "'''"); idx >= 0 {
		s.pos += idx + 3
		return s.token(syntax.MULTILINE_STRING, start), nil
	}
	s.pos = len(s.input)
	return s.token(syntax.ERROR, start), ErrUnterminatedString
}

// readNumber reads a numeric literal: 0x/0X followed by hex digits, a
// leading 0 followed by octal digits, or a decimal digit run. The prefix
// only commits to hex when a hex digit actually follows the x.
func (s *scanner) readNumber(start int) syntax.Token {
	if s.input[s.pos] == '0' && (s.peek(1) == 'x' || s.peek(1) == 'X') && isHexDigit(s.peek(2)) {
		s.pos += 2
		for s.pos < len(s.input) && isHexDigit(s.input[s.pos]) {
			s.pos++
		}
		return s.token(syntax.NUMBER, start)
	}
	if s.input[s.pos] == '0' {
		s.pos++
		for s.pos < len(s.input) && s.input[s.pos] >= '0' && s.input[s.pos] <= '7' {
			s.pos++
		}
		return s.token(syntax.NUMBER, start)
	}
	for s.pos < len(s.input) && isDigit(s.input[s.pos]) {
		s.pos++
	}
	return s.token(syntax.NUMBER, start)
}

// readWord reads an identifier and maps keywords to their kinds.
func (s *scanner) readWord(start int) syntax.Token {
	for s.pos < len(s.input) && isWordPart(s.input[s.pos]) {
		s.pos++
	}
	tok := s.token(syntax.IDENTIFIER, start)
	if kind, ok := keywords[tok.Text]; ok {
		tok.Kind = kind
	}
	return tok
}

// readOperator reads punctuation and operators. Operators that allow an '='
// suffix are matched greedily, two characters first.
func (s *scanner) readOperator(start int) (syntax.Token, error) {
	kind := syntax.ERROR
	size := 1

	switch s.input[s.pos] {
	case '(':
		kind = syntax.OPENED_PARENS
	case ')':
		kind = syntax.CLOSED_PARENS
	case '[':
		kind = syntax.OPENED_BRACKET
	case ']':
		kind = syntax.CLOSED_BRACKET
	case '{':
		kind = syntax.OPENED_BRACE
	case '}':
		kind = syntax.CLOSED_BRACE
	case '.':
		kind = syntax.DOT
	case ':':
		kind = syntax.COLON
	case '?':
		kind = syntax.QUESTION
	case ';':
		kind = syntax.SEMICOLON
	case ',':
		kind = syntax.COMMA
	case '~':
		kind = syntax.TILDE
	case '+':
		kind, size = s.withAssign(syntax.PLUS, syntax.PLUS_ASSIGN)
	case '-':
		kind, size = s.withAssign(syntax.MINUS, syntax.MINUS_ASSIGN)
	case '*':
		kind, size = s.withAssign(syntax.MULTIPLY, syntax.MULTIPLY_ASSIGN)
	case '%':
		kind, size = s.withAssign(syntax.MODULO, syntax.MODULO_ASSIGN)
	case '=':
		kind, size = s.withAssign(syntax.ASSIGN, syntax.EQUAL)
	case '!':
		kind, size = s.withAssign(syntax.BANG, syntax.NOT_EQUAL)
	case '<':
		switch s.peek(1) {
		case '=':
			kind, size = syntax.LESS_EQUAL, 2
		case '<':
			kind, size = syntax.SHIFT_LEFT, 2
		default:
			kind = syntax.LESS_THAN
		}
	case '>':
		switch s.peek(1) {
		case '=':
			kind, size = syntax.GREATER_EQUAL, 2
		case '>':
			kind, size = syntax.SHIFT_RIGHT, 2
		default:
			kind = syntax.GREATER_THAN
		}
	default:
		r, rsize := utf8.DecodeRuneInString(s.input[s.pos:])
		s.pos += rsize
		return s.token(syntax.ERROR, start), fmt.Errorf("%w %q", ErrUnexpectedCharacter, r)
	}

	s.pos += size
	return s.token(kind, start), nil
}

// withAssign picks the compound form when an '=' follows.
func (s *scanner) withAssign(plain, compound syntax.Kind) (syntax.Kind, int) {
	if s.peek(1) == '=' {
		return compound, 2
	}
	return plain, 1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || isDigit(c)
}
