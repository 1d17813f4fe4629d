package markup

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var entityRe = regexp.MustCompile(`(?i)&(#x[0-9a-f]+|#[0-9]+|[a-z0-9]+);`)

var namedEntities = map[string]string{
	"amp":  "&",
	"apos": "'",
	"gt":   ">",
	"lt":   "<",
	"quot": `"`,
}

// DecodeEntities replaces numeric character references and the five XML named
// references with their literal characters. Anything it does not recognize,
// including numeric references that do not name a valid character, is left
// exactly as written.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityRe.ReplaceAllStringFunc(s, func(ref string) string {
		body := ref[1 : len(ref)-1]
		if body[0] != '#' {
			if v, ok := namedEntities[body]; ok {
				return v
			}
			return ref
		}
		var (
			n   uint64
			err error
		)
		if body[1] == 'x' || body[1] == 'X' {
			n, err = strconv.ParseUint(body[2:], 16, 32)
		} else {
			n, err = strconv.ParseUint(body[1:], 10, 32)
		}
		if err != nil || n == 0 || !utf8.ValidRune(rune(n)) {
			return ref
		}
		return string(rune(n))
	})
}
