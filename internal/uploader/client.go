package uploader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	ErrMissingCredentials = errors.New("upload credentials are not configured")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file exceeds maximum size")
)

// MaxUploadSize caps proxied uploads at 5 MB.
const MaxUploadSize = 5 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Client proxies image uploads to the Cloudinary-style unsigned endpoint.
type Client struct {
	UploadURL string
	Preset    string
	HTTP      *http.Client
}

func NewClient(uploadURL, preset string) *Client {
	return &Client{
		UploadURL: uploadURL,
		Preset:    preset,
		HTTP:      &http.Client{Timeout: 60 * time.Second},
	}
}

func NewClientFromEnv() (*Client, error) {
	uploadURL := strings.TrimSpace(os.Getenv("UPLOAD_URL"))
	preset := strings.TrimSpace(os.Getenv("UPLOAD_PRESET"))
	if uploadURL == "" || preset == "" {
		return nil, ErrMissingCredentials
	}
	return NewClient(uploadURL, preset), nil
}

// Upload streams the file to the hosting service and returns the hosted URL.
func (c *Client) Upload(filename, contentType string, data []byte) (string, error) {
	if !allowedTypes[contentType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.WriteField("upload_preset", c.Preset); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.UploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("upload response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("upload response decode failed: %w", err)
	}
	if parsed.SecureURL != "" {
		return parsed.SecureURL, nil
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	return "", errors.New("upload service returned no url")
}
