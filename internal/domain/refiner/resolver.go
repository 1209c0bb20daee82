package refiner

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

var codePatternRe = regexp.MustCompile(`([A-Z ]+)-(\d+)`)

// CodeResolver extracts an exact warehouse code from raw query text without
// invoking the language model. The substring scan uses an Aho-Corasick
// matcher over the full code set, so one pass covers every known code.
type CodeResolver struct {
	codes   []string
	codeSet map[string]struct{}
	matcher *ahocorasick.Matcher
}

// NewCodeResolver builds a resolver over the known warehouse codes. Codes
// are expected normalized (uppercase, trimmed), as the snapshot provides
// them.
func NewCodeResolver(codes []string) *CodeResolver {
	codeSet := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		codeSet[code] = struct{}{}
	}
	return &CodeResolver{
		codes:   codes,
		codeSet: codeSet,
		matcher: ahocorasick.NewStringMatcher(codes),
	}
}

// Resolve attempts extraction in a fixed order: space-to-hyphen repair
// first, then the substring scan, then a pattern capture. Repair runs first
// so "CHENNAI 16" is not shadowed by a partial code hiding in the query.
func (r *CodeResolver) Resolve(query string) (string, bool) {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	// "CHENNAI 16" -> "CHENNAI-16"
	if idx := strings.LastIndex(q, " "); idx >= 0 && isDigits(q[idx+1:]) {
		repaired := q[:idx] + "-" + q[idx+1:]
		if _, ok := r.codeSet[repaired]; ok {
			return repaired, true
		}
	}

	// Any known code appearing verbatim in the query.
	if hits := r.matcher.Match([]byte(q)); len(hits) > 0 {
		return r.longestHit(hits), true
	}

	// "...KOLHAPUR-89..." shaped token that survives normalization.
	if m := codePatternRe.FindStringSubmatch(q); m != nil {
		candidate := strings.TrimSpace(m[1]) + "-" + m[2]
		if _, ok := r.codeSet[candidate]; ok {
			return candidate, true
		}
	}

	return "", false
}

// longestHit picks the longest matched code, ties broken lexically, so
// "GREATER NOIDA-62" wins over its prefix "GREATER NOIDA-6".
func (r *CodeResolver) longestHit(hits []int) string {
	best := r.codes[hits[0]]
	for _, i := range hits[1:] {
		code := r.codes[i]
		if len(code) > len(best) || (len(code) == len(best) && code < best) {
			best = code
		}
	}
	return best
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
