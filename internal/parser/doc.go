// Package parser turns filter query text into a filter.Expression tree.
//
// # Grammar
//
// Precedence, loosest first:
//
//	or     = and { ("OR" | "||" | "|") and }
//	and    = unary { [ "AND" | "&&" | "&" ] unary }
//	unary  = ( "NOT" | "!" | "~" | "-" ) unary | atom
//	atom   = "(" or ")" | qualifier | word | quoted
//
// Juxtaposed terms are conjoined. All binary operators associate to the left.
// A qualifier is name:value where name is made of letters; the value may be
// quoted. A bare or quoted word is a keyword qualifier.
//
// # Value Typing
//
// Values of text qualifiers (label, milestone, state, ...) and quoted values
// are always text. Other qualifiers read their value as, in order, a date
// range, a number range, a date (YYYY-MM-DD), an integer, and finally text.
// Ranges are written <N, <=N, >N, >=N, N..M, N..* or *..M.
//
// # Errors
//
// Parsing is all or nothing. Failures are returned as *ParseError carrying
// the byte span of the offending input, which Underline renders for display.
package parser
