// Package fetch downloads remote files: uploaded documents for the download
// proxy and signature images for the agreement PDF.
package fetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxBytes caps every download.
const MaxBytes = 20 << 20

var (
	ErrTooLarge       = errors.New("fetch: remote file too large")
	ErrHostNotAllowed = errors.New("fetch: host is not allowed")
)

// File is a downloaded body with its reported content type.
type File struct {
	Data        []byte
	ContentType string
}

// Client fetches http(s) URLs and decodes data: URLs inline.
type Client struct {
	http *resty.Client
	// hosts is the allow-list for http(s) URLs; empty allows any host.
	hosts map[string]bool
}

// New builds a client. allowedHosts may be bare host names or URLs; when
// given, only those hosts are fetched and redirects may not leave them.
func New(timeout time.Duration, allowedHosts ...string) *Client {
	c := &Client{hosts: map[string]bool{}}
	var names []string
	for _, h := range allowedHosts {
		if name := hostname(h); name != "" && !c.hosts[name] {
			c.hosts[name] = true
			names = append(names, name)
		}
	}

	// The body limit is enforced while reading, so an oversized upstream
	// is cut off at MaxBytes instead of being buffered whole.
	client := resty.New().
		SetTimeout(timeout).
		SetResponseBodyLimit(MaxBytes)
	if len(names) > 0 {
		client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5), resty.DomainCheckRedirectPolicy(names...))
	} else {
		client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	}
	c.http = client
	return c
}

// hostname accepts "files.golumino.com", "files.golumino.com:443" or a full URL.
func hostname(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func (c *Client) allowed(src string) bool {
	if len(c.hosts) == 0 {
		return true
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return c.hosts[strings.ToLower(u.Hostname())]
}

// Fetch returns the content addressed by src.
func (c *Client) Fetch(ctx context.Context, src string) (*File, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURL(src)
	}
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return nil, fmt.Errorf("fetch: unsupported URL %q", truncate(src, 40))
	}
	if !c.allowed(src) {
		return nil, ErrHostNotAllowed
	}

	resp, err := c.http.R().SetContext(ctx).Get(src)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, ErrTooLarge
	}
	if err != nil {
		return nil, fmt.Errorf("fetch: GET failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch: upstream responded %d", resp.StatusCode())
	}
	body := resp.Body()
	ct := resp.Header().Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &File{Data: body, ContentType: ct}, nil
}

// Image satisfies the PDF renderer's image loader.
func (c *Client) Image(ctx context.Context, src string) ([]byte, error) {
	f, err := c.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return f.Data, nil
}

func decodeDataURL(src string) (*File, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, errors.New("fetch: malformed data URL")
	}
	ct := strings.TrimSuffix(meta, ";base64")
	if !strings.HasSuffix(meta, ";base64") {
		return &File{Data: []byte(payload), ContentType: ct}, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("fetch: bad base64 in data URL: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}
	return &File{Data: data, ContentType: ct}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
