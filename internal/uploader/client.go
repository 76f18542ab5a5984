package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mediagate/internal/response"
	"mediagate/internal/upload"
)

// DefaultBaseURL is used when no gateway address is configured.
const DefaultBaseURL = "http://localhost:8080"

// Client talks to the upload gateway. Timeout and retry policy are left to
// the transport defaults.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Negotiate requests a single-use write credential for the given file. The
// backend owns object naming and write-URL construction; the client never
// builds either itself.
func (c *Client) Negotiate(ctx context.Context, folder, fileName, fileType string, sizeBytes int64) (*Credential, error) {
	reqBody := upload.PresignRequest{
		Folder:    folder,
		FileName:  fileName,
		FileType:  fileType,
		SizeBytes: sizeBytes,
	}

	var resp upload.PresignResponse
	if err := c.postJSON(ctx, "/v1/uploads/presign", reqBody, &resp); err != nil {
		return nil, err
	}

	return &Credential{
		UploadURL: resp.UploadURL,
		FileURL:   resp.FileURL,
		FileName:  resp.FileName,
	}, nil
}

// Sign exchanges a public-style object URL for a time-limited readable URL.
func (c *Client) Sign(ctx context.Context, fileURL string) (string, error) {
	var resp upload.SignResponse
	if err := c.postJSON(ctx, "/v1/uploads/sign", upload.SignRequest{FileURL: fileURL}, &resp); err != nil {
		return "", err
	}
	return resp.SignedURL, nil
}

// Delete removes an uploaded object that was never attached to a saved
// record.
func (c *Client) Delete(ctx context.Context, folder, fileName string) error {
	url := fmt.Sprintf("%s/v1/uploads/%s/%s", c.baseURL, folder, fileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete failed: %s", errorMessage(resp))
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &NegotiationError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &NegotiationError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NegotiationError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NegotiationError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NegotiationError{Message: fmt.Sprintf("invalid response body: %v", err)}
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// errorMessage extracts the backend's human-readable message from an error
// envelope, falling back to a status-based message.
func errorMessage(resp *http.Response) string {
	var envelope response.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fmt.Sprintf("unexpected status %s", resp.Status)
}
