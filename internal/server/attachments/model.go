package attachments

import "time"

// Attachment is the metadata row for a file hanging off a note. The bytes
// themselves live in object storage under StorageKey; the server only ever
// brokers presigned URLs and never proxies content.
type Attachment struct {
	ID          string
	NoteID      string
	UserID      string
	FileName    string
	ContentType string
	StorageKey  string
	CreatedAt   time.Time
}
