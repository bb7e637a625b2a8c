package remote

// BackupDescription marks the one document that holds the history snapshot
const BackupDescription = "QR Scanner History Backup"

// BackupFileName is the name of the snapshot file inside the backup document
const BackupFileName = "qr-scanner-history.json"

// Document is the document resource as returned by the host
type Document struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Visibility  string          `json:"visibility,omitempty"`
	Files       map[string]File `json:"files"`
}

// File is one named file of a document
type File struct {
	Filename string `json:"filename,omitempty"`
	RawURL   string `json:"raw_url,omitempty"`
	Content  string `json:"content,omitempty"`
}

// CreateRequest is the body of POST /documents
type CreateRequest struct {
	Description string                 `json:"description"`
	Visibility  string                 `json:"visibility"`
	Files       map[string]FileContent `json:"files"`
}

// UpdateRequest is the body of PATCH /documents/{id}
type UpdateRequest struct {
	Files map[string]FileContent `json:"files"`
}

// FileContent carries the new content of a file
type FileContent struct {
	Content string `json:"content"`
}
