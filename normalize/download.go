package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	driveHost              = "drive.google.com"
	dropboxHost            = "dropbox.com"
	dropboxUserContentHost = "dropboxusercontent.com"
)

// DownloadLink is a resolved direct-download target. DriveFileID is set only
// when the link resolves through the Drive file id scheme.
type DownloadLink struct {
	URL         string `json:"url"`
	DriveFileID string `json:"driveFileId"`
}

var (
	bareDriveIDRegex  = regexp.MustCompile(`^[A-Za-z0-9_-]{16,}$`)
	drivePathIDRegex  = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]{16,})`)
	driveQueryIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{16,}$`)
)

// DownloadURL resolves a pasted link (Drive, Dropbox or arbitrary HTTP) into
// a direct-download URL. Folder links must be rejected by the caller via
// IsCloudFolderLink before calling this.
func DownloadURL(raw string) DownloadLink {
	s := URL(strings.TrimSpace(raw))
	if s == "" {
		return DownloadLink{}
	}

	if id := extractDriveFileID(s); id != "" {
		return DownloadLink{
			URL:         "https://drive.google.com/uc?export=download&id=" + id,
			DriveFileID: id,
		}
	}

	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return DownloadLink{}
	}

	host := strings.ToLower(u.Host)
	if hostMatches(host, dropboxHost) && !hostMatches(host, dropboxUserContentHost) {
		q := u.Query()
		q.Del("raw")
		q.Set("dl", "1")
		u.RawQuery = q.Encode()
		return DownloadLink{URL: u.String()}
	}

	return DownloadLink{URL: u.String()}
}

// extractDriveFileID pulls a Drive file id out of a bare token, a
// /file/d/<id> path or an id/fileId query parameter.
func extractDriveFileID(s string) string {
	if bareDriveIDRegex.MatchString(s) {
		return s
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if !hostMatches(strings.ToLower(u.Host), driveHost) {
		return ""
	}

	if m := drivePathIDRegex.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}

	q := u.Query()
	for _, key := range []string{"id", "fileId"} {
		if v := q.Get(key); v != "" && driveQueryIDRegex.MatchString(v) {
			return v
		}
	}

	return ""
}

// IsCloudFolderLink detects Drive/Dropbox folder URLs, which never resolve
// to a single downloadable file.
func IsCloudFolderLink(raw string) bool {
	s := URL(strings.TrimSpace(raw))
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	path := u.Path

	if hostMatches(host, driveHost) {
		return strings.Contains(path, "/folders/")
	}
	if hostMatches(host, dropboxHost) {
		return strings.HasPrefix(path, "/sh/") || strings.Contains(path, "/scl/fo/")
	}
	return false
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
