package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchName reports whether a normalized name contains any of the
// given matchers. Used to match selector option labels and team
// column values against team codes or Korean team names.
func MatchName(name string, matchers ...string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if m == "" {
			continue
		}
		if strings.Contains(name, NormalizeName(m)) {
			return true
		}
	}
	return false
}
