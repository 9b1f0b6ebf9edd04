package dto

import "time"

type PhotoUploadRequest struct {
	FileName string `json:"file_name"`
}

type PhotoUploadResponse struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PhotoConfirmRequest struct {
	ObjectKey string `json:"object_key"`
}

type PhotoConfirmResponse struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}
