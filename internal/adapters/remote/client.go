// Package remote talks to the document host that keeps the history backup.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scanlog/internal/application"
	"scanlog/internal/logging"
	"scanlog/internal/ports"
)

// maxSnapshotSize bounds the raw snapshot read into memory
const maxSnapshotSize = 64 << 20

// Client implements ports.BackupRemote over the host's REST API
type Client struct {
	baseURL     *url.URL
	client      *http.Client
	logger      logging.Logger
	maxSnapshot int64
}

// Ensure Client implements ports.BackupRemote
var _ ports.BackupRemote = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds every request, including reading the response body
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the client logger
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMaxSnapshotSize caps the bytes FetchContent accepts
func WithMaxSnapshotSize(n int64) Option {
	return func(c *Client) { c.maxSnapshot = n }
}

// NewClient creates a client for the host at baseURL, e.g. "https://docs.example.com/api"
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:     u,
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logging.Nop(),
		maxSnapshot: maxSnapshotSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FindBackup lists the credential holder's documents and returns the backup document, or nil
func (c *Client) FindBackup(ctx context.Context, credential string) (*ports.RemoteDescriptor, error) {
	resp, err := c.do(ctx, http.MethodGet, c.endpoint("documents"), credential, nil)
	if err != nil {
		return nil, &application.RemoteError{Op: "list", Kind: application.ErrNetwork, Cause: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &application.RemoteError{
			Op:         "list",
			StatusCode: resp.StatusCode,
			Kind:       application.ErrAuth,
			Cause:      bodyError(resp),
		}
	}

	var docs []Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, &application.RemoteError{
			Op:    "list",
			Kind:  application.ErrNetwork,
			Cause: fmt.Errorf("decode document list: %w", err),
		}
	}

	for _, doc := range docs {
		if doc.Description == BackupDescription {
			c.logger.Debugw("backup document found", "id", doc.ID)
			return c.descriptor(doc), nil
		}
	}
	return nil, nil
}

// CreateBackup creates a private document holding content
func (c *Client) CreateBackup(ctx context.Context, credential string, content []byte) (*ports.RemoteDescriptor, error) {
	body := CreateRequest{
		Description: BackupDescription,
		Visibility:  "private",
		Files:       map[string]FileContent{BackupFileName: {Content: string(content)}},
	}

	resp, err := c.do(ctx, http.MethodPost, c.endpoint("documents"), credential, body)
	if err != nil {
		return nil, &application.RemoteError{Op: "create", Kind: application.ErrNetwork, Cause: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &application.RemoteError{
			Op:         "create",
			StatusCode: resp.StatusCode,
			Kind:       application.ErrRemoteWrite,
			Cause:      bodyError(resp),
		}
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &application.RemoteError{
			Op:    "create",
			Kind:  application.ErrRemoteWrite,
			Cause: fmt.Errorf("decode created document: %w", err),
		}
	}

	c.logger.Infow("backup document created", "id", doc.ID, "bytes", len(content))
	return c.descriptor(doc), nil
}

// UpdateBackup replaces the snapshot file of document id
func (c *Client) UpdateBackup(ctx context.Context, credential, id string, content []byte) error {
	body := UpdateRequest{
		Files: map[string]FileContent{BackupFileName: {Content: string(content)}},
	}

	resp, err := c.do(ctx, http.MethodPatch, c.endpoint("documents", id), credential, body)
	if err != nil {
		return &application.RemoteError{Op: "update", Kind: application.ErrNetwork, Cause: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &application.RemoteError{
			Op:         "update",
			StatusCode: resp.StatusCode,
			Kind:       application.ErrRemoteWrite,
			Cause:      bodyError(resp),
		}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	c.logger.Infow("backup document updated", "id", id, "bytes", len(content))
	return nil
}

// FetchContent downloads the raw snapshot. The raw URL needs no credential.
func (c *Client) FetchContent(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, &application.RemoteError{
			Op:    "fetch",
			Kind:  application.ErrNetwork,
			Cause: errors.New("backup document has no raw content URL"),
		}
	}

	resp, err := c.do(ctx, http.MethodGet, c.resolve(rawURL), "", nil)
	if err != nil {
		return nil, &application.RemoteError{Op: "fetch", Kind: application.ErrNetwork, Cause: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &application.RemoteError{
			Op:         "fetch",
			StatusCode: resp.StatusCode,
			Kind:       application.ErrNetwork,
			Cause:      bodyError(resp),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSnapshot+1))
	if err != nil {
		return nil, &application.RemoteError{Op: "fetch", Kind: application.ErrNetwork, Cause: err}
	}
	if int64(len(data)) > c.maxSnapshot {
		return nil, &application.RemoteError{
			Op:         "fetch",
			StatusCode: resp.StatusCode,
			Kind:       application.ErrTooLarge,
			Cause:      fmt.Errorf("snapshot exceeds %d bytes", c.maxSnapshot),
		}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, target, credential string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	c.logger.Debugw("remote request", "method", method, "url", target)
	return c.client.Do(req)
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.baseURL
	for _, s := range segments {
		u.Path += "/" + url.PathEscape(s)
	}
	return u.String()
}

// resolve makes a relative raw URL absolute against the base URL
func (c *Client) resolve(rawURL string) string {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return c.baseURL.ResolveReference(ref).String()
}

func (c *Client) descriptor(doc Document) *ports.RemoteDescriptor {
	desc := &ports.RemoteDescriptor{ID: doc.ID, Description: doc.Description}
	if f, ok := doc.Files[BackupFileName]; ok {
		desc.RawURL = f.RawURL
	}
	return desc
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func bodyError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return errors.New(msg)
}
