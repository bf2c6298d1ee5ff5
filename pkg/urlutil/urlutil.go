// Package urlutil provides URL helpers that work on the raw string so the
// original encoding of backend URLs is preserved.
package urlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultScheme is used when a URL carries no usable scheme.
const DefaultScheme = "https"

// Scheme returns the scheme of rawURL, lower-cased, or DefaultScheme when it
// has none.
func Scheme(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" {
		return DefaultScheme
	}
	return strings.ToLower(parsed.Scheme)
}

// TrimTrailingSlash removes every trailing slash.
func TrimTrailingSlash(s string) string {
	return strings.TrimRight(s, "/")
}

// JoinPath appends path segments to base with exactly one slash between them.
// Segments are not escaped.
func JoinPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(TrimTrailingSlash(base))
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String()
}

// ApplyHostRegex replaces the first case-insensitive match of pattern in
// rawURL with replacement followed by a slash.
func ApplyHostRegex(rawURL, pattern, replacement string) (string, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return rawURL, fmt.Errorf("compiling host regex %q: %w", pattern, err)
	}
	loc := re.FindStringSubmatchIndex(rawURL)
	if loc == nil {
		return rawURL, nil
	}
	var dst []byte
	dst = re.ExpandString(dst, replacement+"/", rawURL, loc)
	return rawURL[:loc[0]] + string(dst) + rawURL[loc[1]:], nil
}
