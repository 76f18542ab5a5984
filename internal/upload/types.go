package upload

// PresignRequest is the write-credential negotiation payload.
type PresignRequest struct {
	Folder    string `json:"folder"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
}

// PresignResponse carries a single-use write URL plus the canonical
// public-style URL and resolved unique name of the eventual object.
type PresignResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	FileName  string `json:"fileName"`
}

// SignRequest asks for a temporary readable URL for a stored object.
type SignRequest struct {
	FileURL string `json:"fileUrl"`
}

type SignResponse struct {
	SignedURL string `json:"signedUrl"`
}

type DeleteResponse struct {
	Status   string `json:"status"`
	FileName string `json:"fileName"`
}
