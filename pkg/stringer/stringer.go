package stringer

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	policy         = bluemonday.StrictPolicy()
	RegexNonFloat  = regexp.MustCompile(`[^0-9.,]`)
	RegexRepeatSep = regexp.MustCompile(`\s{2,}`)
)

func StripTags(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}

func Strip(s string) string {
	return strings.TrimSpace(s)
}

func IsEmptyStr(s string) bool {
	return Strip(s) == ""
}

func ToUpper(s string) string {
	return cases.Upper(language.Und).String(s)
}

func SanitizeString(s string) string {
	s = RegexRepeatSep.ReplaceAllLiteralString(s, " ")
	s = html.UnescapeString(s)
	s = strings.TrimSpace(s)
	return s
}

// NormalizeFloatStr strips everything but digits and separators from a price
// string and leaves a single point as the decimal separator.
func NormalizeFloatStr(s string) string {
	const (
		sepComma      = ","
		sepPoint      = "."
		zeroAmountStr = "0"
		replaceFirst  = 1
	)
	var frac string
	s = strings.Replace(s, sepComma, sepPoint, replaceFirst)
	s = RegexNonFloat.ReplaceAllString(s, "")
	parts := strings.Split(s, sepPoint)
	count := len(parts)
	if count == 0 || s == "" {
		return zeroAmountStr
	}
	if count > 1 {
		frac = parts[count-1]
		if frac == "" {
			return zeroAmountStr
		}
		s = strings.Join(parts[:count-1], "")
		s = s + sepPoint + frac
	}
	return s
}
