package cache

import "strings"

// KeySeparator joins key parts into the flat form stored by backends.
const KeySeparator = ":"

// Key is a hierarchical cache key: [family, "list"|"detail", discriminators...].
// Discriminators must fully capture the query's filter so two different
// filters never collide on one key. Any leading slice of a key is a valid
// invalidation prefix.
type Key []string

// ListKey builds a list key for an entity family.
func ListKey(family string, discriminators ...string) Key {
	return append(Key{family, "list"}, discriminators...)
}

// DetailKey builds a detail key for an entity family.
func DetailKey(family string, discriminators ...string) Key {
	return append(Key{family, "detail"}, discriminators...)
}

// FamilyKey builds a bare family prefix, used for fan-out invalidation when
// the exact child keys cannot be enumerated.
func FamilyKey(family string) Key {
	return Key{family}
}

// String returns the flat form of the key.
func (k Key) String() string {
	return strings.Join(k, KeySeparator)
}

// Family returns the entity family of the key.
func (k Key) Family() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether the key falls under the given prefix. Matching is
// per-part, so ["wishlists"] covers ["wishlists","detail",id] but not
// ["wishlists-archive", ...].
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}
