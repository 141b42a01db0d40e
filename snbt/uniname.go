package snbt

import (
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// The \N{NAME} escape resolves official Unicode character names.  The name
// table only maps rune to name, so the reverse index is built once, on
// first use, and shared read-only by every parser afterwards.
var runeByName = sync.OnceValue(func() map[string]rune {
	m := make(map[string]rune, 1<<15)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		n := runenames.Name(r)
		if n == "" || n[0] == '<' {
			continue
		}
		if _, taken := m[n]; !taken {
			m[n] = r
		}
	}
	return m
})

func lookupRuneName(name string) (rune, bool) {
	r, ok := runeByName()[name]
	return r, ok
}
