package parser

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLParen
	tokenRParen
	tokenAnd
	tokenOr
	tokenNot
	tokenWord      // bare or quoted keyword
	tokenQualifier // name:value
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenAnd:
		return "AND"
	case tokenOr:
		return "OR"
	case tokenNot:
		return "NOT"
	case tokenWord:
		return "word"
	case tokenQualifier:
		return "qualifier"
	default:
		return "unknown"
	}
}

// token is one lexeme. For tokenQualifier, name and value are split and
// valuePos marks where the value starts.
type token struct {
	kind     tokenKind
	name     string
	value    string
	quoted   bool
	pos, end int
	valuePos int
}

// lexer scans query text into tokens. Positions are byte offsets.
type lexer struct {
	input string
	pos   int
}

func tokenize(input string) ([]token, error) {
	l := &lexer{input: input}
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: start, end: start}, nil
	}

	switch c := l.input[l.pos]; c {
	case '(':
		l.pos++
		return token{kind: tokenLParen, pos: start, end: l.pos}, nil
	case ')':
		l.pos++
		return token{kind: tokenRParen, pos: start, end: l.pos}, nil
	case '&', '|':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == c {
			l.pos++
		}
		kind := tokenAnd
		if c == '|' {
			kind = tokenOr
		}
		return token{kind: kind, pos: start, end: l.pos}, nil
	case '!', '~', '-':
		l.pos++
		return token{kind: tokenNot, pos: start, end: l.pos}, nil
	case '"':
		s, err := l.quoted()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokenWord, value: s, quoted: true, pos: start, end: l.pos}, nil
	}

	word := l.word()
	switch word {
	case "AND":
		return token{kind: tokenAnd, pos: start, end: l.pos}, nil
	case "OR":
		return token{kind: tokenOr, pos: start, end: l.pos}, nil
	case "NOT":
		return token{kind: tokenNot, pos: start, end: l.pos}, nil
	}

	colon := strings.IndexByte(word, ':')
	if colon <= 0 || !isName(word[:colon]) {
		return token{kind: tokenWord, value: word, pos: start, end: l.pos}, nil
	}

	tok := token{
		kind:     tokenQualifier,
		name:     strings.ToLower(word[:colon]),
		value:    word[colon+1:],
		pos:      start,
		valuePos: start + colon + 1,
	}
	if tok.value == "" {
		if l.pos < len(l.input) && l.input[l.pos] == '"' {
			s, err := l.quoted()
			if err != nil {
				return token{}, err
			}
			tok.value, tok.quoted = s, true
		} else {
			return token{}, newParseError(ErrCodeEmptyValue, l.input, start, l.pos,
				"qualifier %q has no value", tok.name)
		}
	}
	tok.end = l.pos
	return tok, nil
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

// word consumes bytes up to whitespace, a parenthesis or a quote.
func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if isSpace(c) || c == '(' || c == ')' || c == '"' {
			break
		}
		l.pos++
	}
	return l.input[start:l.pos]
}

// quoted consumes a double-quoted string starting at l.pos. A backslash
// escapes the next byte.
func (l *lexer) quoted() (string, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.input):
			b.WriteByte(l.input[l.pos+1])
			l.pos += 2
		case c == '"':
			l.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return "", newParseError(ErrCodeUnterminatedQuote, l.input, start, len(l.input),
		"missing closing quote")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isName(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
