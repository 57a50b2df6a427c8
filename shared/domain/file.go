package domain

import "io"

// FileCommonMetadata contains metadata shared by uploaded and stored files
type FileCommonMetadata struct {
	Filename    string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
}

// FileCreationData is what storage needs to register an already written file
type FileCreationData struct {
	FileCommonMetadata
	StoragePath string
}

// File represents an uploaded attachment. It exists independently of the
// posts referencing it.
type File struct {
	Id FileId
	FileCommonMetadata
	StoragePath string
}

// PendingFile is an upload that passed validation but is not yet written to disk
type PendingFile struct {
	FileCommonMetadata
	Data io.Reader
}
