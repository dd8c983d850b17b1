package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteQuery(t *testing.T) {
	assert.Equal(t, "beach AND sunset", RewriteQuery("beach+sunset"))
	assert.Equal(t, "beach NOT night", RewriteQuery("beach-night"))
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		q    string
		want Query
	}{
		{name: "single term", q: "beach", want: Query{Match: `{title content} : ("beach")`}},
		{name: "implicit and", q: "beach sunset", want: Query{Match: `{title content} : ("beach" "sunset")`}},
		{name: "plus is and", q: "beach+sunset", want: Query{Match: `{title content} : ("beach" AND "sunset")`}},
		{name: "minus is not", q: "beach -night", want: Query{Match: `{title content} : ("beach" NOT "night")`}},
		{name: "and not collapses", q: "beach+-night", want: Query{Match: `{title content} : ("beach" NOT "night")`}},
		{name: "explicit or", q: "cat OR dog", want: Query{Match: `{title content} : ("cat" OR "dog")`}},
		{name: "lowercase operator is a term", q: "cats and dogs", want: Query{Match: `{title content} : ("cats" "and" "dogs")`}},
		{name: "leading minus excludes", q: "-cat", want: Query{Exclude: `{title content} : ("cat")`}},
		{name: "leading NOT excludes", q: "NOT cat", want: Query{Exclude: `{title content} : ("cat")`}},
		{name: "every leading exclusion kept", q: "-cat -dog", want: Query{Exclude: `{title content} : ("cat" OR "dog")`}},
		{
			name: "exclusion before a term",
			q:    "-cat dog",
			want: Query{Match: `{title content} : ("dog")`, Exclude: `{title content} : ("cat")`},
		},
		{name: "trailing operator dropped", q: "beach+", want: Query{Match: `{title content} : ("beach")`}},
		{name: "syntax characters stripped", q: `"quoted" (paren) col:x*`, want: Query{Match: `{title content} : ("quoted" "paren" "col x")`}},
		{name: "unicode kept", q: "càmping", want: Query{Match: `{title content} : ("càmping")`}},
		{name: "only punctuation", q: `"*()`, want: Query{}},
		{name: "empty", q: "", want: Query{}},
		{name: "only operators", q: "+ -", want: Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.q)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == Query{}, got.Empty())
		})
	}
}
