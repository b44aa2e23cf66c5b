package storage

const (
	// BlobIdentifier is the domain separation for content addressed
	// blobs.
	BlobIdentifier = 'B'
	// RootIdentifier is the domain separation for named manifest roots.
	RootIdentifier = 'R'
)
