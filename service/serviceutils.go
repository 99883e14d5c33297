package service

import (
	"fmt"
	"strings"

	"github.com/nxlauncher/launcher-admin-system/constants"
)

func dberr(err error) error {
	return constants.DatabaseError{Err: err}
}

func perr(msg string, status int) error {
	return constants.PublicError{Msg: msg, Status: status}
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

func isImageExtension(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// sizeLabel renders a byte count the way the launcher displays it
func sizeLabel(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
