package cpp

import (
	"strings"
	"unicode"
)

// reservedPrefixes are the namespace prefixes stripped from interface
// names when no explicit prefix is configured.
var reservedPrefixes = [...]string{"qt_", "wl_"}

// CamelCase converts a snake_case wire identifier to a host identifier.
// An underscore is dropped and upper-cases the following character;
// capitalize seeds the flag for the first character.
func CamelCase(name string, capitalize bool) string {
	var b strings.Builder
	b.Grow(len(name))

	up := capitalize
	for _, r := range name {
		if r == '_' {
			up = true
			continue
		}
		if up {
			b.WriteRune(unicode.ToUpper(r))
			up = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripInterfaceName removes the configured prefix (or failing that, a
// reserved namespace prefix) from name exactly once, then camel-cases
// the remainder. Identical wire names normalize identically no matter
// which emitter asks.
func (e *Emitter) stripInterfaceName(name string, capitalize bool) string {
	if e.cfg.Prefix != "" && strings.HasPrefix(name, e.cfg.Prefix) {
		return CamelCase(name[len(e.cfg.Prefix):], capitalize)
	}

	for _, p := range reservedPrefixes {
		if strings.HasPrefix(name, p) {
			return CamelCase(name[len(p):], capitalize)
		}
	}

	return CamelCase(name, capitalize)
}
