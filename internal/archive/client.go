package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a host platform installation's upload API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for the API at baseURL. token is sent as a
// bearer token on every request; pass "" for anonymous access.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// PublishOptions control a single raw-file upload.
type PublishOptions struct {
	// Path within the upload's raw directory. Empty means the upload root.
	Path string

	// Overwrite replaces an existing file with the same name.
	Overwrite bool
}

// publishResponse is the subset of the upload API's response the client
// needs: the IDs of the entry created by processing the file.
type publishResponse struct {
	Processing struct {
		Entry struct {
			UploadID string `json:"upload_id"`
			EntryID  string `json:"entry_id"`
		} `json:"entry"`
	} `json:"processing"`
}

// Publish uploads fileName with the given content into an upload's raw
// directory via PUT /uploads/{uploadID}/raw/{path} and waits for the host to
// process it into an entry. Returns the proxy reference of that entry.
func (c *Client) Publish(ctx context.Context, uploadID, fileName string, data []byte, opts PublishOptions) (string, error) {
	endpoint := fmt.Sprintf("%s/uploads/%s/raw/%s", c.baseURL, url.PathEscape(uploadID), opts.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("archive: building upload request: %w", err)
	}
	q := req.URL.Query()
	q.Set("file_name", fileName)
	q.Set("wait_for_processing", "true")
	q.Set("overwrite_if_exists", strconv.FormatBool(opts.Overwrite))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("archive: uploading %q: %w", fileName, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("archive: reading upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive: upload of %q failed: HTTP %d: %s", fileName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed publishResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("archive: parsing upload response: %w", err)
	}
	entry := parsed.Processing.Entry
	if entry.UploadID == "" || entry.EntryID == "" {
		return "", fmt.Errorf("archive: upload response carries no processed entry")
	}
	return Proxy(entry.UploadID, entry.EntryID), nil
}
