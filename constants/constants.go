package constants

import "time"

const (
	// DefaultArchivePassword is substituted when a record has no archive password of its own
	DefaultArchivePassword = "online-fix.me"
	// DefaultPublisherLabel is substituted when a record has no publisher
	DefaultPublisherLabel = "NX Launcher"
)

const (
	ArchiveTypeRar = "rar"
	ArchiveTypeZip = "zip"
)

// SortOrderStep is the gap between consecutive sort orders after a reorder
const SortOrderStep = 10

const (
	LayoutSimplified = "simplified"
	LayoutComplete   = "complete"
)

const (
	ResourceKeyGameID  = "game-id"
	ResourceKeySteamID = "steam-id"
)

const (
	RequestWeb  = "web"
	RequestJSON = "json"
	RequestData = "data"
)

// Per-operation deadlines, see the client package. Reads are cheap, archive
// publish streams a multi-gigabyte file.
const (
	DeadlineRead          = 12 * time.Second
	DeadlineWrite         = 30 * time.Second
	DeadlineGalleryUpload = 60 * time.Second
	DeadlinePublish       = 90 * time.Second
)

const ErrorFailedToBeginTransaction = "failed to begin transaction"
const ErrorCannotDeleteLastStaff = "cannot remove the last remaining staff member"
