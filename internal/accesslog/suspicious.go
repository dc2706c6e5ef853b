package accesslog

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SuspiciousPatterns lists commonly probed paths, most specific first where
// two entries share a prefix. Only some entries require a word boundary.
var SuspiciousPatterns = []string{
	`/wp-login\.php`,
	`/wp-admin\b`,
	`/xmlrpc\.php`,
	`/phpmyadmin\b`,
	`/administrator\b`,
	`/admin\b`,
	`/login\b`,
	`/wp-login\b`,
	`/vendor\b`,
	`/\.env\b`,
}

var defaultMatcher = newMatcher(SuspiciousPatterns)

// suspiciousRule is one pattern compiled without its trailing \b. RE2's \b
// only knows ASCII word characters, so the boundary is checked by hand.
type suspiciousRule struct {
	re       *regexp.Regexp
	boundary bool
}

// Matcher flags requests that touch a sensitive path.
type Matcher struct {
	rules []suspiciousRule
}

// DefaultMatcher returns the shared matcher for SuspiciousPatterns.
func DefaultMatcher() *Matcher { return defaultMatcher }

func newMatcher(patterns []string) *Matcher {
	m := &Matcher{rules: make([]suspiciousRule, len(patterns))}
	for i, p := range patterns {
		body, boundary := strings.CutSuffix(p, `\b`)
		m.rules[i] = suspiciousRule{re: regexp.MustCompile(`(?i)` + body), boundary: boundary}
	}
	return m
}

// Match returns the leftmost suspicious text in request, in the request's own
// case. When several patterns match at the same offset the earlier one in the
// list wins.
func (m *Matcher) Match(request string) (string, bool) {
	best, bestEnd := -1, -1
	for _, r := range m.rules {
		start, end, ok := r.find(request)
		if ok && (best < 0 || start < best) {
			best, bestEnd = start, end
		}
	}
	if best < 0 {
		return "", false
	}
	return request[best:bestEnd], true
}

// find returns the first occurrence of the rule that is not followed by a
// word character when the rule requires a boundary.
func (r suspiciousRule) find(s string) (start, end int, ok bool) {
	for _, loc := range r.re.FindAllStringIndex(s, -1) {
		if !r.boundary || !startsWithWordRune(s[loc[1]:]) {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

// startsWithWordRune reports whether s begins with a letter, a number or '_'
// in the Unicode sense.
func startsWithWordRune(s string) bool {
	if s == "" {
		return false
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c == '_' || unicode.IsLetter(c) || unicode.IsNumber(c)
}
