package parser

import (
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/roach88/issuefilter/internal/filter"
)

// qualifierFromToken types a name:value token into a filter.Qualifier.
func (p *parser) qualifierFromToken(tok token) (filter.Qualifier, error) {
	if tok.quoted || filter.IsTextQualifier(tok.name) {
		return filter.NewText(tok.name, tok.value), nil
	}

	v := tok.value
	switch {
	case strings.HasPrefix(v, "<") || strings.HasPrefix(v, ">"):
		return p.openRange(tok)
	case strings.Contains(v, ".."):
		return p.closedRange(tok)
	case looksLikeDate(v):
		d, err := civil.ParseDate(v)
		if err != nil {
			return filter.Qualifier{}, p.valueError(ErrCodeInvalidDate, tok, "%q is not a valid date", v)
		}
		return filter.NewDate(tok.name, d), nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return filter.NewNumber(tok.name, n), nil
	}
	return filter.NewText(tok.name, v), nil
}

// openRange handles <N, <=N, >N and >=N.
func (p *parser) openRange(tok token) (filter.Qualifier, error) {
	v := tok.value
	op := v[:1]
	bound := v[1:]
	inclusive := strings.HasPrefix(bound, "=")
	if inclusive {
		bound = bound[1:]
	}

	b, err := p.bound(tok, bound)
	if err != nil {
		return filter.Qualifier{}, err
	}
	if op == "<" {
		return p.makeRange(tok, nil, &b, false, inclusive)
	}
	return p.makeRange(tok, &b, nil, inclusive, false)
}

// closedRange handles N..M, N..* and *..M. Present bounds are inclusive.
func (p *parser) closedRange(tok token) (filter.Qualifier, error) {
	lo, hi, _ := strings.Cut(tok.value, "..")
	var minB, maxB *rangeBound
	if lo != "*" {
		b, err := p.bound(tok, lo)
		if err != nil {
			return filter.Qualifier{}, err
		}
		minB = &b
	}
	if hi != "*" {
		b, err := p.bound(tok, hi)
		if err != nil {
			return filter.Qualifier{}, err
		}
		maxB = &b
	}
	return p.makeRange(tok, minB, maxB, true, true)
}

// rangeBound is one side of a range: a date or an integer.
type rangeBound struct {
	isDate bool
	date   civil.Date
	number int
}

func (p *parser) bound(tok token, s string) (rangeBound, error) {
	if looksLikeDate(s) {
		d, err := civil.ParseDate(s)
		if err != nil {
			return rangeBound{}, p.valueError(ErrCodeInvalidDate, tok, "%q is not a valid date", s)
		}
		return rangeBound{isDate: true, date: d}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return rangeBound{}, p.valueError(ErrCodeInvalidRange, tok, "range bound %q is neither a number nor a date", s)
	}
	return rangeBound{number: n}, nil
}

func (p *parser) makeRange(tok token, lo, hi *rangeBound, minInclusive, maxInclusive bool) (filter.Qualifier, error) {
	if lo == nil && hi == nil {
		return filter.Qualifier{}, p.valueError(ErrCodeInvalidRange, tok, "range %q has no bounds", tok.value)
	}
	if lo != nil && hi != nil && lo.isDate != hi.isDate {
		return filter.Qualifier{}, p.valueError(ErrCodeInvalidRange, tok, "range %q mixes a date and a number", tok.value)
	}

	if (lo != nil && lo.isDate) || (hi != nil && hi.isDate) {
		var minD, maxD *civil.Date
		if lo != nil {
			minD = &lo.date
		}
		if hi != nil {
			maxD = &hi.date
		}
		r, err := filter.NewDateRange(minD, maxD, minInclusive, maxInclusive)
		if err != nil {
			return filter.Qualifier{}, p.valueError(ErrCodeInvalidRange, tok, "%v", err)
		}
		return filter.NewDateRangeQualifier(tok.name, r), nil
	}

	var minN, maxN *int
	if lo != nil {
		minN = &lo.number
	}
	if hi != nil {
		maxN = &hi.number
	}
	r, err := filter.NewNumberRange(minN, maxN, minInclusive, maxInclusive)
	if err != nil {
		return filter.Qualifier{}, p.valueError(ErrCodeInvalidRange, tok, "%v", err)
	}
	return filter.NewNumberRangeQualifier(tok.name, r), nil
}

func (p *parser) valueError(code ParseErrorCode, tok token, format string, args ...any) *ParseError {
	return newParseError(code, p.input, tok.valuePos, tok.end, format, args...)
}

// looksLikeDate reports whether s has the shape NNNN-NN-NN.
func looksLikeDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i := range len(s) {
		if i == 4 || i == 7 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
