package uploads

import "time"

// Record is one entry of the upload ledger.
type Record struct {
	ID               string
	ImageID          string
	OriginalFilename string
	SizeBytes        int64
	SHA256           string
	MimeType         string
	RequestID        string
	CreatedAt        time.Time
}
