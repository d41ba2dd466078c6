package http

import "metagrab/internal/model"

// MetadataRequest is the body accepted by the metadata endpoints.
type MetadataRequest struct {
	URL string `json:"url"`
}

// MetadataResponse wraps the unified metadata document.
type MetadataResponse struct {
	Success bool            `json:"success"`
	Data    *model.Metadata `json:"data"`
}

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
