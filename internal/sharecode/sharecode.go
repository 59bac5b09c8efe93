package sharecode

import (
	"net/url"
	"regexp"
	"strings"
)

// Length is the fixed length of a share code.
const Length = 6

var joinPattern = regexp.MustCompile(`^/join/([A-Za-z0-9]{6})/?$`)

// FromPath tests whether path is a join URL and, if so, returns the embedded
// share code in upper case. The match is exact: six alphanumeric characters,
// any case, with at most one trailing slash. Anything else (shorter or longer
// codes, extra path segments, other prefixes) does not match.
func FromPath(path string) (string, bool) {
	m := joinPattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}

	return strings.ToUpper(m[1]), true
}

// RedirectURL builds the redirect target for a matched share code, e.g.
// /join.html?code=ABC123 for target /join.html and code ABC123.
func RedirectURL(target, code string) string {
	query := url.Values{}
	query.Set("code", code)

	return target + "?" + query.Encode()
}
