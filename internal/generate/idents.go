package generate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidIdentifier is returned when a name cannot be used as an
// identifier in the target language.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var pythonKeywords = wordSet(`False None True and as assert async await break
class continue def del elif else except finally for from global if import in
is lambda nonlocal not or pass raise return try while with yield`)

// Names the generated Python methods use for their own bindings.
var pythonReserved = wordSet(`self json`)

var rustKeywords = wordSet(`as async await break const continue crate dyn else
enum extern false fn for if impl in let loop match mod move mut pub ref return
self Self static struct super trait true type unsafe use where while abstract
become box do final macro override priv try typeof unsized virtual yield`)

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// isIdentifier reports whether s is an ASCII identifier: a letter or
// underscore followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r < unicode.MaxASCII && unicode.IsLetter(r):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func identError(lang, kind, name, reason string) error {
	return fmt.Errorf("%w: %s %s %q %s", ErrInvalidIdentifier, lang, kind, name, reason)
}

// checkPython rejects names that would not produce valid Python. Interface
// and signal names only appear with a prefix or suffix; params stand alone
// and must also avoid keywords and the names the generated code binds.
func checkPython(kind, name string, param bool) error {
	switch {
	case !isIdentifier(name):
		return identError("python", kind, name, "is not an identifier")
	case param && pythonKeywords[name]:
		return identError("python", kind, name, "is a keyword")
	case param && pythonReserved[name]:
		return identError("python", kind, name, "is reserved by the generated code")
	}
	return nil
}

// snakeCase converts camelCase and PascalCase to snake_case. Runs of
// capitals stay together, so "HTTPServer" becomes "http_server".
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// rustIdent returns the snake_case Rust identifier for name. Keywords are
// only rejected for params.
func rustIdent(kind, name string, param bool) (string, error) {
	if !isIdentifier(name) {
		return "", identError("rust", kind, name, "is not an identifier")
	}
	ident := snakeCase(name)
	if param && rustKeywords[ident] {
		return "", identError("rust", kind, name, "is a keyword")
	}
	return ident, nil
}
