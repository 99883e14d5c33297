package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 80

// stripDiacritics decomposes to NFD and drops combining marks
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	sb := strings.Builder{}
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Slugify derives a record id from a display name: lowercase, diacritics
// stripped, non-alphanumeric runs collapsed to single hyphens, trimmed,
// truncated to 80 characters. Idempotent.
func Slugify(name string) string {
	s := strings.ToLower(stripDiacritics(name))

	sb := strings.Builder{}
	sb.Grow(len(s))
	lastHyphen := true // swallow leading separators
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			sb.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(sb.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	return slug
}
