package emit

import (
	"strconv"
	"strings"
	"unicode"
)

var pythonKeywords = map[string]bool{
	"false": true, "none": true, "true": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true, "yield": true,
}

// Identifiers maps every key to a distinct Python identifier.
// Keys are lower-cased and non-identifier runs collapse to "_";
// later keys that would clash get a numeric suffix.
func Identifiers(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	used := make(map[string]bool, len(keys))
	for _, key := range keys {
		base := identifier(key)
		name := base
		for n := 2; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		out[key] = name
	}
	return out
}

func identifier(key string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(key) {
		if r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			b.WriteRune(r)
			underscore = r == '_'
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimRight(b.String(), "_")
	switch {
	case name == "":
		name = "ref"
	case name[0] >= '0' && name[0] <= '9':
		name = "_" + name
	}
	if pythonKeywords[name] {
		name += "_"
	}
	return name
}
