package refiner

import (
	"regexp"
	"strings"
)

// The backend is not guaranteed to emit strict JSON: code fences, language
// tags, comments and trailing commas are all common. CleanResponse is a
// fixed, ordered pipeline of textual normalizations; valid JSON passes
// through unchanged up to whitespace.
var (
	codeFenceRe     = regexp.MustCompile("```[a-zA-Z]*")
	lineCommentRe   = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// CleanResponse strips code-fence markers, line and block comments, and
// trailing commas from raw backend output.
func CleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = codeFenceRe.ReplaceAllString(cleaned, "")
	cleaned = lineCommentRe.ReplaceAllString(cleaned, "")
	cleaned = blockCommentRe.ReplaceAllString(cleaned, "")
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}
