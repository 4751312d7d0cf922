// Package supabase implements the gateway's Store against the Supabase
// REST and object storage HTTP APIs. Every outbound call carries the
// service-role credential in both header forms Supabase accepts; the
// credential is read once from configuration and never accepted from a
// caller.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	bboyzero "github.com/bboyyzero/bboyzero-net-site"
)

// eventColumns is the column selection for event queries, matching the
// store-native row shape.
const eventColumns = "id,date,city,venue,ticket_url,image_url,details"

// DefaultTimeout is the per-call deadline applied when the config does
// not set one.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for the upstream store.
type Config struct {
	// URL is the project base URL. Trailing slashes are trimmed.
	URL string
	// ServiceKey is the service-role credential.
	ServiceKey string
	// Bucket is the storage bucket for uploaded event images.
	Bucket string
	// Timeout is the per-call deadline for upstream requests.
	Timeout time.Duration
}

// Client issues authenticated calls against the upstream store. It does
// not retry, does not cache, and does not interpret response bodies
// beyond decoding them for the caller.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	timeout    time.Duration
	http       *http.Client
}

// NewClient creates a Client from the given config.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		timeout:    timeout,
		http:       newHTTPClient(timeout),
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Configured reports whether both the base URL and the service credential
// are set.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.serviceKey != ""
}

// do issues a single request with the service credential injected. The
// credential headers are set after caller headers so they can never be
// overridden. The response body is read fully before returning.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: build request: %w", method, path, err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, bboyzero.ErrUpstreamTimeout)
		}
		return 0, nil, fmt.Errorf("%s %s: %w: %v", method, path, bboyzero.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: read response: %w", method, path, bboyzero.ErrUpstream)
	}

	return resp.StatusCode, data, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// SelectEvents fetches all event rows ordered ascending by date.
func (c *Client) SelectEvents(ctx context.Context) ([]bboyzero.EventRow, error) {
	path := "/rest/v1/events?select=" + eventColumns + "&order=date.asc"

	status, data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, fmt.Errorf("select events: status %d: %w", status, bboyzero.ErrUpstream)
	}

	var rows []bboyzero.EventRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("select events: decode response: %w", bboyzero.ErrUpstream)
	}

	return rows, nil
}

// InsertEvent stores a new event row and returns the created
// representation as reported by the store.
func (c *Client) InsertEvent(ctx context.Context, row bboyzero.EventRow) (bboyzero.EventRow, error) {
	body, err := json.Marshal(row)
	if err != nil {
		return bboyzero.EventRow{}, fmt.Errorf("insert event: encode row: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Prefer":       "return=representation",
	}

	status, data, err := c.do(ctx, http.MethodPost, "/rest/v1/events", headers, body)
	if err != nil {
		return bboyzero.EventRow{}, err
	}
	if !success(status) {
		return bboyzero.EventRow{}, fmt.Errorf("insert event: status %d: %w", status, bboyzero.ErrUpstream)
	}

	// the store returns the created representation as a one-row array
	var rows []bboyzero.EventRow
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
		return bboyzero.EventRow{}, fmt.Errorf("insert event: decode response: %w", bboyzero.ErrUpstream)
	}

	return rows[0], nil
}

// DeleteEvent removes the event row with the given id. The store treats
// deleting an absent id as success, so the delete is idempotent.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	path := "/rest/v1/events?id=eq." + url.QueryEscape(id)
	headers := map[string]string{"Prefer": "return=minimal"}

	status, _, err := c.do(ctx, http.MethodDelete, path, headers, nil)
	if err != nil {
		return err
	}
	if !success(status) {
		return fmt.Errorf("delete event: status %d: %w", status, bboyzero.ErrUpstream)
	}

	return nil
}

// InsertMessage stores a new contact message row.
func (c *Client) InsertMessage(ctx context.Context, row bboyzero.MessageRow) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("insert message: encode row: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Prefer":       "return=minimal",
	}

	status, _, err := c.do(ctx, http.MethodPost, "/rest/v1/messages", headers, body)
	if err != nil {
		return err
	}
	if !success(status) {
		return fmt.Errorf("insert message: status %d: %w", status, bboyzero.ErrUpstream)
	}

	return nil
}

// UploadObject writes raw bytes to the storage bucket under key. The
// x-upsert header is pinned to false so an existing object is never
// overwritten.
func (c *Client) UploadObject(ctx context.Context, key, contentType string, data []byte) error {
	path := "/storage/v1/object/" + url.PathEscape(c.bucket) + "/" + key
	headers := map[string]string{
		"Content-Type": contentType,
		"x-upsert":     "false",
	}

	status, _, err := c.do(ctx, http.MethodPost, path, headers, data)
	if err != nil {
		return err
	}
	if !success(status) {
		return fmt.Errorf("upload object %s: status %d: %w", key, status, bboyzero.ErrUpstream)
	}

	return nil
}

// PublicObjectURL returns the deterministic public URL for a stored
// object key.
func (c *Client) PublicObjectURL(key string) string {
	return c.baseURL + "/storage/v1/object/public/" + c.bucket + "/" + key
}
