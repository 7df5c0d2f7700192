package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Lineage is an immutable set of the fingerprints analyzed along one
// recursion path. With returns a new set and leaves the receiver untouched,
// so sibling branches never observe each other's visits. The nil Lineage is
// the empty set.
type Lineage struct {
	fingerprint string
	parent      *Lineage
	size        int
}

// Contains reports whether fp was visited along this path
func (l *Lineage) Contains(fp string) bool {
	for n := l; n != nil; n = n.parent {
		if n.fingerprint == fp {
			return true
		}
	}
	return false
}

// With returns the set plus fp
func (l *Lineage) With(fp string) *Lineage {
	return &Lineage{fingerprint: fp, parent: l, size: l.Len() + 1}
}

// Len returns the number of fingerprints on the path
func (l *Lineage) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// Fingerprint identifies text by the hash of its first prefix runes
func Fingerprint(text string, prefix int) string {
	sum := sha256.Sum256([]byte(truncate(text, prefix)))
	return hex.EncodeToString(sum[:])
}

// truncate cuts text to at most max runes
func truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}

// Coerce returns the string form of any value. Errors and Stringers
// render through their methods.
func Coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case []rune:
		return string(x)
	default:
		// fmt recovers from panicking String and Error methods
		return fmt.Sprint(v)
	}
}
