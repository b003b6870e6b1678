package photos

import "time"

// Response is the outward-facing representation of a photo.
type Response struct {
	PhotoID    string    `json:"photoId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Checksum   string    `json:"checksum"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(p Photo) Response {
	return Response{
		PhotoID:    p.ID,
		FileName:   p.FileName,
		MimeType:   p.MimeType,
		SizeBytes:  p.SizeBytes,
		Checksum:   p.Checksum,
		UploadedAt: p.CreatedAt,
	}
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	StorageKey       string `json:"storageKey"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

type completeUploadRequest struct {
	StorageKey string `json:"storageKey"`
	FileName   string `json:"fileName"`
}
