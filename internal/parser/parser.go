package parser

import (
	"github.com/roach88/issuefilter/internal/filter"
)

// Parse parses query text into an expression tree. Blank input yields
// filter.Empty. On failure no partial tree is returned and the error is a
// *ParseError.
func Parse(input string) (filter.Expression, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	if tokens[0].kind == tokenEOF {
		return filter.Empty, nil
	}

	p := &parser{input: input, tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	// Ensure we consumed all tokens.
	if tok := p.peek(); tok.kind != tokenEOF {
		if tok.kind == tokenRParen {
			return nil, p.errorAt(ErrCodeUnbalancedParen, tok, "unmatched ')'")
		}
		return nil, p.errorAt(ErrCodeUnexpectedToken, tok, "unexpected %s", tok.kind)
	}
	return expr, nil
}

// Canonical parses input and returns its serialized form, the format in
// which filters are stored.
func Canonical(input string) (string, error) {
	expr, err := Parse(input)
	if err != nil {
		return "", err
	}
	return expr.String(), nil
}

type parser struct {
	input  string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (filter.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = filter.Disjunction{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (filter.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch tok := p.peek(); {
		case tok.kind == tokenAnd:
			p.advance()
		case startsTerm(tok.kind):
			// juxtaposition
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = filter.Conjunction{Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (filter.Expression, error) {
	if p.peek().kind == tokenNot {
		p.advance()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return filter.Negation{Expr: expr}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (filter.Expression, error) {
	tok := p.advance()
	switch tok.kind {
	case tokenLParen:
		if p.peek().kind == tokenRParen {
			return nil, p.errorAt(ErrCodeUnexpectedToken, p.peek(), "empty parentheses")
		}
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenRParen {
			if p.peek().kind == tokenEOF {
				return nil, p.errorAt(ErrCodeUnbalancedParen, tok, "unmatched '('")
			}
			return nil, p.errorAt(ErrCodeUnexpectedToken, p.peek(), "expected ')', found %s", p.peek().kind)
		}
		p.advance()
		return expr, nil
	case tokenWord:
		return filter.NewText(filter.NameKeyword, tok.value), nil
	case tokenQualifier:
		return p.qualifierFromToken(tok)
	case tokenEOF:
		return nil, p.errorAt(ErrCodeUnexpectedEnd, tok, "expected a term")
	case tokenRParen:
		return nil, p.errorAt(ErrCodeUnbalancedParen, tok, "unmatched ')'")
	default:
		return nil, p.errorAt(ErrCodeUnexpectedToken, tok, "unexpected %s", tok.kind)
	}
}

func (p *parser) errorAt(code ParseErrorCode, tok token, format string, args ...any) *ParseError {
	return newParseError(code, p.input, tok.pos, tok.end, format, args...)
}

func startsTerm(k tokenKind) bool {
	switch k {
	case tokenLParen, tokenNot, tokenWord, tokenQualifier:
		return true
	default:
		return false
	}
}
