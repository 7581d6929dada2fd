package filter

import (
	"strconv"
	"strings"
	"unicode"

	"cloud.google.com/go/civil"
)

// Expression is a node of a filter tree.
//
// This is a sealed interface - only Qualifier, Conjunction, Disjunction and
// Negation implement it. String returns the node in query syntax; parsing
// that text yields an equivalent tree.
type Expression interface {
	expressionNode() // Marker method - seals interface to this package
	String() string
}

// ContentKind identifies which content a Qualifier carries.
type ContentKind int

const (
	ContentText ContentKind = iota + 1
	ContentNumber
	ContentDate
	ContentNumberRange
	ContentDateRange
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentNumber:
		return "number"
	case ContentDate:
		return "date"
	case ContentNumberRange:
		return "number range"
	case ContentDateRange:
		return "date range"
	default:
		return "unknown"
	}
}

// Qualifier is a named leaf condition such as label:bug or updated:<24.
//
// Exactly one kind of content is populated; the constructors guarantee it.
// Qualifier is a comparable value type.
type Qualifier struct {
	Name string

	kind        ContentKind
	text        string
	number      int
	date        civil.Date
	numberRange NumberRange
	dateRange   DateRange
}

func (Qualifier) expressionNode() {}

// Empty is satisfied by every issue and serializes to "". Filter substitutes
// it for stripped leaves.
var Empty = NewText("", "")

// NewText creates a qualifier with string content. A bare word in a query is
// NewText("keyword", word).
func NewText(name, text string) Qualifier {
	return Qualifier{Name: name, kind: ContentText, text: text}
}

// NewNumber creates a qualifier with integer content.
func NewNumber(name string, n int) Qualifier {
	return Qualifier{Name: name, kind: ContentNumber, number: n}
}

// NewDate creates a qualifier with date content.
func NewDate(name string, d civil.Date) Qualifier {
	return Qualifier{Name: name, kind: ContentDate, date: d}
}

// NewNumberRangeQualifier creates a qualifier with number range content.
func NewNumberRangeQualifier(name string, r NumberRange) Qualifier {
	return Qualifier{Name: name, kind: ContentNumberRange, numberRange: r}
}

// NewDateRangeQualifier creates a qualifier with date range content.
func NewDateRangeQualifier(name string, r DateRange) Qualifier {
	return Qualifier{Name: name, kind: ContentDateRange, dateRange: r}
}

// Kind returns which content the qualifier carries.
func (q Qualifier) Kind() ContentKind { return q.kind }

// Text returns the string content, if that is the qualifier's content.
func (q Qualifier) Text() (string, bool) { return q.text, q.kind == ContentText }

// Number returns the integer content.
func (q Qualifier) Number() (int, bool) { return q.number, q.kind == ContentNumber }

// Date returns the date content.
func (q Qualifier) Date() (civil.Date, bool) { return q.date, q.kind == ContentDate }

// NumberRange returns the number range content.
func (q Qualifier) NumberRange() (NumberRange, bool) {
	return q.numberRange, q.kind == ContentNumberRange
}

// DateRange returns the date range content.
func (q Qualifier) DateRange() (DateRange, bool) {
	return q.dateRange, q.kind == ContentDateRange
}

// IsEmpty reports whether q is the Empty qualifier.
func (q Qualifier) IsEmpty() bool {
	return q.Name == "" && q.kind == ContentText && q.text == ""
}

// String serializes the qualifier. Text content is quoted whenever reading it
// back unquoted would change it; keyword qualifiers are written as bare words.
func (q Qualifier) String() string {
	if q.IsEmpty() {
		return ""
	}
	switch q.kind {
	case ContentText:
		if q.Name == NameKeyword {
			if keywordNeedsQuotes(q.text) {
				return quote(q.text)
			}
			return q.text
		}
		if valueNeedsQuotes(q.Name, q.text) {
			return q.Name + ":" + quote(q.text)
		}
		return q.Name + ":" + q.text
	case ContentNumber:
		return q.Name + ":" + strconv.Itoa(q.number)
	case ContentDate:
		return q.Name + ":" + q.date.String()
	case ContentNumberRange:
		return q.Name + ":" + q.numberRange.String()
	case ContentDateRange:
		return q.Name + ":" + q.dateRange.String()
	default:
		return ""
	}
}

// Conjunction is satisfied when both children are.
type Conjunction struct {
	Left, Right Expression
}

func (Conjunction) expressionNode() {}

func (c Conjunction) String() string {
	return "(" + c.Left.String() + " AND " + c.Right.String() + ")"
}

// Disjunction is satisfied when either child is.
type Disjunction struct {
	Left, Right Expression
}

func (Disjunction) expressionNode() {}

func (d Disjunction) String() string {
	return "(" + d.Left.String() + " OR " + d.Right.String() + ")"
}

// Negation is satisfied when its child is not.
type Negation struct {
	Expr Expression
}

func (Negation) expressionNode() {}

func (n Negation) String() string {
	return "NOT " + n.Expr.String()
}

// operatorWords are bare words the parser reads as operators.
var operatorWords = map[string]bool{
	"AND": true, "OR": true, "NOT": true,
}

func keywordNeedsQuotes(s string) bool {
	if s == "" || operatorWords[s] || strings.ContainsRune(s, ':') {
		return true
	}
	if strings.ContainsAny(s[:1], "-!~&|") {
		return true
	}
	return hasSpecial(s)
}

func valueNeedsQuotes(name, s string) bool {
	if s == "" || hasSpecial(s) {
		return true
	}
	if IsTextQualifier(name) {
		return false
	}
	// Unquoted values of other qualifiers are typed by the parser; quote
	// anything that could read back as a number, date or range.
	return strings.ContainsAny(s[:1], "<>*+-0123456789") || strings.Contains(s, "..")
}

func hasSpecial(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '(' || r == ')' || r == '\\'
	})
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
