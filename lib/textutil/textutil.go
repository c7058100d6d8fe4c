package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// SnakeCase turns a column header into a lowercase snake_case key.
func SnakeCase(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "_")
	return name
}

// NormalizeCode canonicalizes a country code cell to upper case.
func NormalizeCode(code string) string {
	code = strings.Trim(code, " \n\t")
	return strings.ToUpper(code)
}
