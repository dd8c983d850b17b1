package search

import (
	"strings"
	"unicode"
)

// Fields are the indexed columns a query is matched against.
var Fields = []string{"title", "content"}

// RewriteQuery applies the album's shorthand operators: "+" means AND and
// "-" means NOT.
func RewriteQuery(q string) string {
	q = strings.ReplaceAll(q, "+", " AND ")
	q = strings.ReplaceAll(q, "-", " NOT ")
	return q
}

// Query is a parsed user query as FTS5 match expressions over Fields.
// Photos matching Exclude are removed from the hits. An empty Match with a
// non-empty Exclude selects every indexed photo but the excluded ones.
type Query struct {
	Match   string
	Exclude string
}

// Empty reports whether the query holds no searchable term.
func (q Query) Empty() bool {
	return q.Match == "" && q.Exclude == ""
}

// ParseQuery turns a user query into FTS5 match expressions. Every term is
// quoted so user input can never produce FTS syntax errors.
func ParseQuery(q string) Query {
	var match, exclude []string
	pendingOp := ""

	for _, tok := range strings.Fields(RewriteQuery(q)) {
		if isOperator(tok) {
			// A later operator replaces an earlier one: "a AND NOT b" is "a NOT b".
			pendingOp = tok
			continue
		}

		term := quoteTerm(tok)
		if term == "" {
			continue
		}
		switch {
		case len(match) == 0 && pendingOp == "NOT":
			// FTS5 NOT is binary only.
			exclude = append(exclude, term)
		case len(match) > 0 && pendingOp != "":
			match = append(match, pendingOp, term)
		default:
			match = append(match, term)
		}
		pendingOp = ""
	}

	return Query{
		Match:   columnFilter(match, " "),
		Exclude: columnFilter(exclude, " OR "),
	}
}

func columnFilter(terms []string, sep string) string {
	if len(terms) == 0 {
		return ""
	}
	return "{" + strings.Join(Fields, " ") + "} : (" + strings.Join(terms, sep) + ")"
}

func isOperator(tok string) bool {
	return tok == "AND" || tok == "OR" || tok == "NOT"
}

// quoteTerm keeps letters and digits of tok and wraps them as an FTS5 string.
func quoteTerm(tok string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, tok)
	clean = strings.Join(strings.Fields(clean), " ")
	if clean == "" {
		return ""
	}
	return `"` + clean + `"`
}
