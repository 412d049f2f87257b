package formula

import (
	"regexp"
	"strings"
)

// ExpandNamedRanges substitutes named ranges with their canonical A1
// references inside a formula string, by whole-word lexical substitution.
// This runs before lexing/parsing: named ranges can appear in contexts a
// token grammar would not formally capture, so the substitution is
// deliberately a string-level pass rather than an AST rewrite.
func ExpandNamedRanges(formulaSrc string, namedRanges map[string]string) string {
	if len(namedRanges) == 0 {
		return formulaSrc
	}
	return wholeWordReplacer(namedRanges).Replace(formulaSrc)
}

// wholeWordReplacer builds a regexp-driven substitution that only matches a
// named range when it is not embedded inside a larger identifier.
type nameReplacer struct {
	re    *regexp.Regexp
	names map[string]string
}

func (r *nameReplacer) Replace(s string) string {
	return r.re.ReplaceAllStringFunc(s, func(match string) string {
		if repl, ok := r.names[strings.ToUpper(match)]; ok {
			return repl
		}
		return match
	})
}

func wholeWordReplacer(namedRanges map[string]string) *nameReplacer {
	upper := make(map[string]string, len(namedRanges))
	var parts []string
	for name, ref := range namedRanges {
		upper[strings.ToUpper(name)] = ref
		parts = append(parts, regexp.QuoteMeta(name))
	}
	pattern := `\b(` + strings.Join(parts, "|") + `)\b`
	return &nameReplacer{re: regexp.MustCompile("(?i)" + pattern), names: upper}
}
