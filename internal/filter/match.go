package filter

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// compiled caches pattern regexps across walks; patterns repeat for every
// visited path.
//
//nolint:gochecknoglobals
var compiled sync.Map

// compile converts a find -path style glob into a regexp:
//   - `*` matches any run of characters, including `/`
//   - `?` matches exactly one character, including `/`
//   - `[...]` matches one character from the set
//   - `\` escapes the next character
func compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := compiled.Load(pattern); ok {
		re, _ := v.(*regexp.Regexp) //nolint:errcheck // only regexps are stored

		return re, nil
	}

	var sb strings.Builder

	sb.WriteString(`^`)

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)
		case '\\':
			if i+1 < len(pattern) {
				i++
				sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			}
		case '[':
			end := strings.IndexByte(pattern[i:], ']')
			if end <= 1 {
				return nil, fmt.Errorf("pattern %q: unterminated character class", pattern)
			}

			class := pattern[i : i+end+1]
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}

			sb.WriteString(class)
			i += end
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}

	sb.WriteString(`$`)

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	compiled.Store(pattern, re)

	return re, nil
}

// matchAny reports whether path matches any of the compiled patterns.
func matchAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
