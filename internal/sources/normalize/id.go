package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// ContentID derives a stable identifier from the given parts, for
// records whose source assigns no canonical id (news headlines,
// scraped listings). The same parts always produce the same id, so
// repeated runs over unchanged content do not create duplicates.
func ContentID(parts ...string) string {
	h := sha1.New()
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// CollapseSpace trims s and folds internal whitespace runs into single
// spaces. Scraped HTML text is full of layout whitespace.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
