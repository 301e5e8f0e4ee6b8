package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// UploadResponse is the backend's reply to a multipart upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload sends a file as multipart form data to POST /upload and
// returns the hosted URL. Used for article images.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	return c.upload(ctx, "/upload", filename, r)
}

// UploadProfileImage sends a file to POST /upload/profile-image and
// returns the hosted URL.
func (c *Client) UploadProfileImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return c.upload(ctx, "/upload/profile-image", filename, r)
}

func (c *Client) upload(ctx context.Context, path, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read upload source: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, err := c.send(req)
	if err != nil {
		return "", err
	}

	var uploadResp UploadResponse
	if err := json.Unmarshal(data, &uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return uploadResp.URL, nil
}
