package vision

import (
	"strings"
)

// ParseKeywords extracts keywords from a model response. Keywords may be
// separated by commas or newlines and may carry list bullets; duplicates and
// empty entries are dropped and at most MaxKeywords are kept.
func ParseKeywords(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	seen := make(map[string]bool)
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		k := strings.ToLower(strings.TrimSpace(f))
		k = strings.TrimLeft(k, "-*•0123456789. ")
		k = strings.Trim(k, `"'.`)
		if k == "" || seen[k] {
			continue
		}
		// Skip preambles such as "Here are the keywords:".
		if strings.HasSuffix(k, ":") || strings.HasPrefix(k, "here ") {
			continue
		}
		seen[k] = true
		keywords = append(keywords, k)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}
