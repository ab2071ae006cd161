package uploads

import "time"

// RecordResponse is the outward-facing representation of a ledger record.
type RecordResponse struct {
	ID               string    `json:"id"`
	ImageID          string    `json:"image_id"`
	OriginalFilename string    `json:"original_filename"`
	SizeBytes        int64     `json:"size_bytes"`
	SHA256           string    `json:"sha256"`
	MimeType         string    `json:"mime_type"`
	RequestID        string    `json:"request_id,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// ListResponse is returned by GET /uploads/.
type ListResponse struct {
	Uploads []RecordResponse `json:"uploads"`
}

func toResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:               rec.ID,
		ImageID:          rec.ImageID,
		OriginalFilename: rec.OriginalFilename,
		SizeBytes:        rec.SizeBytes,
		SHA256:           rec.SHA256,
		MimeType:         rec.MimeType,
		RequestID:        rec.RequestID,
		UploadedAt:       rec.CreatedAt,
	}
}
