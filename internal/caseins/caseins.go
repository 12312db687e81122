// Package caseins implements ASCII case-insensitive identifier keys.
//
// UnrealScript identifiers are case-insensitive: `Health`, `health` and
// `HEALTH` name the same variable. Maps throughout the compiler key on
// caseins.Key (the folded form) while the original spelling is kept
// separately for display in diagnostics.
package caseins

// Key is an ASCII-lowercase folded string suitable as a map key.
// Two identifiers fold to the same Key iff they are equal ignoring
// ASCII case.
type Key string

// Fold returns the case-folded key for s. Non-ASCII bytes pass through
// untouched; the lexer rejects them in identifiers anyway.
func Fold(s string) Key {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			// медленный путь только при наличии верхнего регистра
			return Key(foldSlow(s, i))
		}
	}
	return Key(s)
}

func foldSlow(s string, first int) string {
	b := []byte(s)
	for i := first; i < len(b); i++ {
		if c := b[i]; 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Equal reports whether two spellings name the same identifier.
func Equal(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Name pairs a folded key with the spelling it was first seen under.
// Equality of Names is equality of keys; String returns the original
// spelling.
type Name struct {
	display string
	key     Key
}

// NewName builds a Name preserving the original spelling.
func NewName(display string) Name {
	return Name{display: display, key: Fold(display)}
}

// Key returns the folded form.
func (n Name) Key() Key { return n.key }

// String returns the spelling the name was created with.
func (n Name) String() string { return n.display }

// Eq reports whether two names fold to the same key.
func (n Name) Eq(other Name) bool { return n.key == other.key }
