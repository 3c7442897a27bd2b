package model

import "time"

// Attachment is a file stored in object storage and linked to a task.
// StoragePath is the object key; Filename is the generated object name.
type Attachment struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"task"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	StoragePath      string    `json:"storage_path"`
	Size             int64     `json:"size"`
	ContentType      string    `json:"content_type"`
	UploadedBy       string    `json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
}
