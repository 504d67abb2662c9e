package portfolio

import (
	"strings"

	"github.com/google/uuid"
)

// Slugify converts a display string into a URL-safe slug: lowercase ASCII
// letters and digits, hyphen-separated, no leading/trailing or repeated
// hyphens. Characters outside [a-z0-9] become separators.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSuffix returns a short random fragment appended to a slug on
// collision. Eight hex characters keeps slugs readable while making a second
// collision within a tenant vanishingly unlikely.
func uniqueSuffix() string {
	return uuid.NewString()[:8]
}
