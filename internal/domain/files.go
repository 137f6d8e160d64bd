package domain

type FileOrigin string

const (
	OriginRegistration FileOrigin = "registration"
	OriginAttachment   FileOrigin = "attachment"
)

// FileRef is a raw file entry on a service registration.
type FileRef struct {
	DownloadURL string `json:"downloadUrl"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
}

// Attachment is a file attached to a single application.
type Attachment struct {
	DownloadURL string `json:"downloadUrl"`
	Name        string `json:"name"`
}

// FileRecord is one deduplicated file in the document view.
// DownloadURL is the identity key across registrations and attachments.
type FileRecord struct {
	DownloadURL string     `json:"downloadUrl"`
	Name        string     `json:"name"`
	Origin      FileOrigin `json:"origin"`
}
