package images

// UploadResponse is returned by POST /upload/.
type UploadResponse struct {
	ImageID string `json:"image_id"`
	Message string `json:"message"`
}

// ListResponse is returned by GET /images/.
type ListResponse struct {
	Images []string `json:"images"`
}

const uploadedMessage = "Image uploaded successfully"
