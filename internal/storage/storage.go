// Package storage keeps uploaded partner documents and hands back public URLs.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// MaxUploadSize is the largest accepted document.
const MaxUploadSize = 10 << 20

var ErrTooLarge = errors.New("file size exceeds 10MB limit")

// Store writes an object under key and returns its public URL.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

var (
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[^a-z0-9_.-]`)
	underscores = regexp.MustCompile(`_+`)
)

// CleanFilename lower-cases name, turns whitespace into underscores and
// drops everything outside [a-z0-9_.-].
func CleanFilename(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = whitespace.ReplaceAllString(s, "_")
	s = unsafeChars.ReplaceAllString(s, "")
	return underscores.ReplaceAllString(s, "_")
}

// ObjectKey places an upload in the submitter's folder, prefixed with the
// upload time in Unix milliseconds.
func ObjectKey(email, filename string, now time.Time) string {
	folder := slug.Make(email)
	if folder == "" {
		folder = "unknown"
	}
	return folder + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + CleanFilename(filename)
}

// DecodeBase64 decodes an upload body, accepting a data: URL prefix, and
// enforces MaxUploadSize.
func DecodeBase64(content string) ([]byte, error) {
	if i := strings.Index(content, ","); i >= 0 {
		content = content[i+1:]
	}
	content = strings.TrimSpace(content)

	if base64.StdEncoding.DecodedLen(len(content)) > MaxUploadSize+3 {
		return nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 content: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Local stores files on disk and serves them from BaseURL/uploads.
type Local struct {
	Dir     string
	BaseURL string
}

func (l *Local) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("invalid object key %q", key)
		}
	}

	// 1. Create the folder if it doesn't exist
	path := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	// 2. Refuse to overwrite an existing object
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	// 3. Return the public URL
	return strings.TrimRight(l.BaseURL, "/") + "/uploads/" + key, nil
}
