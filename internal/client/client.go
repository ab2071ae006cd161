// Package client talks to a running image service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client is a thin wrapper over the image service routes.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a default with a timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// UploadResult mirrors the POST /upload/ response.
type UploadResult struct {
	ImageID string `json:"image_id"`
	Message string `json:"message"`
}

// UploadRecord mirrors one ledger entry from GET /uploads/.
type UploadRecord struct {
	ID               string    `json:"id"`
	ImageID          string    `json:"image_id"`
	OriginalFilename string    `json:"original_filename"`
	SizeBytes        int64     `json:"size_bytes"`
	SHA256           string    `json:"sha256"`
	MimeType         string    `json:"mime_type"`
	RequestID        string    `json:"request_id,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// Upload sends body as the multipart file field under the declared filename.
func (c *Client) Upload(ctx context.Context, name, filename string, body io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return UploadResult{}, fmt.Errorf("read upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}

	q := url.Values{}
	q.Set("file_name", name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/?"+q.Encode(), &buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResult
	if err := c.doJSON(req, &out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}

// List returns the names in the storage directory.
func (c *Client) List(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/images/", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Images []string `json:"images"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// Get streams one image. The caller closes the body.
func (c *Client) Get(ctx context.Context, imageID string) (io.ReadCloser, error) {
	return c.stream(ctx, "/image/"+url.PathEscape(imageID))
}

// DownloadAll streams the zip archive. The caller closes the body.
func (c *Client) DownloadAll(ctx context.Context) (io.ReadCloser, error) {
	return c.stream(ctx, "/all-images/")
}

// Uploads returns recent ledger records. limit <= 0 uses the server default.
func (c *Client) Uploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	path := "/uploads/"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Uploads []UploadRecord `json:"uploads"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out.Uploads, nil
}

func (c *Client) stream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Detail string `json:"detail"`
		Error  struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		if apiErr.Message == "" {
			apiErr.Message = envelope.Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
