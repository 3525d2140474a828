// Package avatar maps entity ids to cosmetic avatar references.
//
// Synthetic actors (npc members of default schools) have no account row to
// carry a cosmetic, so their avatar is derived from the id itself: the same
// id yields the same avatar on every call and across restarts. Real accounts
// go through Random instead: a caller-supplied cosmetic wins, and a missing
// one is filled with a uniformly random palette index at creation time.
package avatar

import (
	"fmt"
	"math/rand/v2"
)

// PaletteSize is the number of avatars in the named set.
const PaletteSize = 265

// For deterministically picks an avatar for the given id.
//
// The hash is a 31-multiplier rolling hash over the id's character codes,
// wrapped to the signed 32-bit range. Existing ids map to existing avatars,
// so the constants here are a compatibility contract. Changing them
// reshuffles every synthetic actor's face.
func For(id string) string {
	var h int32
	for _, r := range id {
		h = h*31 + int32(r)
	}
	n := int(h)
	if n < 0 {
		n = -n
	}
	return format(n%PaletteSize + 1)
}

// Random returns a uniformly random avatar reference. Used for accounts
// created without an explicit cosmetic; intentionally not deterministic.
func Random() string {
	return format(rand.IntN(PaletteSize) + 1)
}

func format(index int) string {
	return fmt.Sprintf("avatar_%03d", index)
}
