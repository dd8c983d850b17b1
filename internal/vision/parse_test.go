package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "comma separated",
			raw:      "beach, Sunset, sea",
			expected: []string{"beach", "sunset", "sea"},
		},
		{
			name:     "bulleted lines",
			raw:      "- mountain\n- snow\n* hiking",
			expected: []string{"mountain", "snow", "hiking"},
		},
		{
			name:     "numbered lines with preamble",
			raw:      "Here are the keywords:\n1. cat\n2. sofa",
			expected: []string{"cat", "sofa"},
		},
		{
			name:     "duplicates and blanks",
			raw:      "dog,, dog ,\"park\".",
			expected: []string{"dog", "park"},
		},
		{
			name:     "empty",
			raw:      "   ",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseKeywords(tt.raw))
		})
	}
}

func TestParseKeywordsCapped(t *testing.T) {
	got := ParseKeywords("a1,b2,c3,d4,e5,f6,g7,h8,i9,j10")
	assert.Len(t, got, MaxKeywords)
}
