package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

// bare host-like token, e.g. "example.com" or "cdn.example.com/a/b.png"
var hostLikeRegex = regexp.MustCompile(`^[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+(/.*)?$`)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".svg", ".avif", ".ico"}

// URL canonicalizes an arbitrary user-typed string into a usable URL. It never
// fails; strings it cannot make sense of pass through unchanged and must be
// validated downstream.
func URL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	if strings.HasPrefix(s, "/") {
		return s
	}
	if hostLikeRegex.MatchString(s) {
		return "https://" + s
	}
	return s
}

// MediaPath canonicalizes relative and filesystem-like media references in
// addition to what URL handles.
func MediaPath(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "data:image/") || strings.HasPrefix(lower, "blob:") {
		return s
	}
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	// protocol-relative only when a host actually follows; "///x" is a
	// mistyped rooted path, not a scheme-less URL
	if strings.HasPrefix(s, "//") && hostLikeRegex.MatchString(s[2:]) {
		return "https:" + s
	}
	// a pasted bare host keeps its host role unless the token is just a
	// filename, e.g. "a.png"
	if hostLikeRegex.MatchString(s) && !hasImageExtension(strings.ToLower(firstSegment(s))) {
		return "https://" + s
	}

	stripped := s
	for {
		if strings.HasPrefix(stripped, "../") {
			stripped = stripped[3:]
			continue
		}
		if strings.HasPrefix(stripped, "./") {
			stripped = stripped[2:]
			continue
		}
		if strings.HasPrefix(stripped, "/") {
			stripped = stripped[1:]
			continue
		}
		break
	}
	strippedLower := strings.ToLower(stripped)
	if strings.HasPrefix(strippedLower, "uploads/") || strings.HasPrefix(strippedLower, "storage/") || hasImageExtension(strippedLower) {
		return "/" + stripped
	}
	return stripped
}

func firstSegment(s string) string {
	if i := strings.Index(s, "/"); i >= 0 {
		return s[:i]
	}
	return s
}

func hasImageExtension(lower string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

var imgurHosts = map[string]bool{
	"imgur.com":     true,
	"www.imgur.com": true,
	"m.imgur.com":   true,
	"i.imgur.com":   true,
}

// imgur path prefixes that still resolve to a single image
var imgurStrippablePrefixes = map[string]bool{
	"gallery": true,
	"g":       true,
}

var imgurIDRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ImgurURL rewrites gallery/single-image/direct-host imgur links into the
// canonical direct-image form https://i.imgur.com/<id><ext>. The catalog
// displays externally hosted previews and indirect imgur page URLs rot.
// Links to any other host, unparseable links and unrecognized imgur paths
// pass through unchanged.
func ImgurURL(raw string, fallbackExtension string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return raw
	}
	if !imgurHosts[strings.ToLower(u.Host)] {
		return raw
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 0 && imgurStrippablePrefixes[segments[0]] {
		segments = segments[1:]
	}
	if len(segments) != 1 || segments[0] == "" {
		return raw
	}

	id := segments[0]
	ext := ""
	if dot := strings.LastIndex(id, "."); dot > 0 {
		ext = id[dot:]
		id = id[:dot]
	}
	if !imgurIDRegex.MatchString(id) {
		return raw
	}
	if ext == "" {
		ext = fallbackExtension
		if ext == "" {
			ext = ".png"
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
	}

	direct := "https://i.imgur.com/" + id + ext
	if u.RawQuery != "" {
		direct += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		direct += "#" + u.Fragment
	}
	return direct
}

// noValueSentinels are literal strings that editors paste in place of nothing
var noValueSentinels = map[string]bool{
	"":          true,
	"null":      true,
	"undefined": true,
	"n/a":       true,
}

// SanitizeMediaURL applies media-path and URL normalization and maps
// placeholder garbage to the empty string.
func SanitizeMediaURL(raw string) string {
	s := strings.TrimSpace(raw)
	if noValueSentinels[strings.ToLower(s)] {
		return ""
	}
	return URL(MediaPath(s))
}

// image-bearing form fields get imgur canonicalization with a .png fallback,
// the trailer with .mp4; everything else is plain URL normalization
var imageURLFields = map[string]bool{
	"imageUrl":     true,
	"cardImageUrl": true,
	"bannerUrl":    true,
	"logoUrl":      true,
}

// FieldURL dispatches normalization by logical form field name.
func FieldURL(field, raw string) string {
	switch {
	case imageURLFields[field]:
		return ImgurURL(URL(raw), ".png")
	case field == "trailerUrl":
		return ImgurURL(URL(raw), ".mp4")
	default:
		return URL(raw)
	}
}
