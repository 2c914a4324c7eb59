package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	// ErrEmptyLocation is returned when no source location is configured.
	ErrEmptyLocation = errors.New("empty location")

	// ErrDocumentTooLarge is returned when a source exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document too large")
)

// LoadError reports a failed fetch. Status holds the response status when
// the source answered (HTTP or S3) and is 0 for transport and file errors.
type LoadError struct {
	Location string
	Status   int
	Err      error
}

func (e *LoadError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("load %s: status %d: %v", e.Location, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("load %s: status %d", e.Location, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("load %s: %v", e.Location, e.Err)
	default:
		return fmt.Sprintf("load %s: failed", e.Location)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the source does not exist.
func (e *LoadError) NotFound() bool {
	return e.Status == http.StatusNotFound || errors.Is(e.Err, fs.ErrNotExist)
}

// LoaderOptions configures NewSourceLoader.
type LoaderOptions struct {
	Timeout  time.Duration // HTTP client timeout; 0 means none
	MaxBytes int64         // Largest accepted document; 0 means unlimited
	S3Region string

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// SourceLoader dispatches on the location scheme:
// http(s):// → HTTPLoader, s3:// → S3Loader, file:// or a bare path → FileLoader.
type SourceLoader struct {
	http *HTTPLoader
	file *FileLoader

	s3Region string
	maxBytes int64
	s3Once   sync.Once
	s3       *S3Loader
	s3Err    error
}

// NewSourceLoader creates a loader for every supported scheme.
// The S3 client is created on first use so that deployments reading local
// files never touch AWS configuration.
func NewSourceLoader(opts LoaderOptions) *SourceLoader {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &SourceLoader{
		http:     NewHTTPLoader(client, opts.MaxBytes),
		file:     NewFileLoader(opts.MaxBytes),
		s3Region: opts.S3Region,
		maxBytes: opts.MaxBytes,
	}
}

// Load implements Loader.
func (l *SourceLoader) Load(ctx context.Context, location string) (Document, error) {
	if strings.TrimSpace(location) == "" {
		return Document{}, &LoadError{Location: location, Err: ErrEmptyLocation}
	}

	switch schemeOf(location) {
	case "http", "https":
		return l.http.Load(ctx, location)
	case "s3":
		s3l, err := l.s3Loader()
		if err != nil {
			return Document{}, &LoadError{Location: location, Err: err}
		}
		return s3l.Load(ctx, location)
	default:
		return l.file.Load(ctx, location)
	}
}

func (l *SourceLoader) s3Loader() (*S3Loader, error) {
	l.s3Once.Do(func() {
		client, err := NewS3Client(l.s3Region)
		if err != nil {
			l.s3Err = fmt.Errorf("create s3 client: %w", err)
			return
		}
		l.s3 = NewS3Loader(client, l.maxBytes)
	})
	return l.s3, l.s3Err
}

// IsLocalFile reports whether location is read from the local filesystem.
func IsLocalFile(location string) bool {
	switch schemeOf(location) {
	case "http", "https", "s3":
		return false
	default:
		return strings.TrimSpace(location) != ""
	}
}

// LocalPath returns the filesystem path for a file:// URL or bare path.
func LocalPath(location string) string {
	if schemeOf(location) == "file" {
		if u, err := url.Parse(location); err == nil {
			return u.Path
		}
	}
	return location
}

// schemeOf returns the lowercase URL scheme, or "" for plain paths.
// Single-letter schemes are treated as Windows drive letters.
func schemeOf(location string) string {
	i := strings.Index(location, "://")
	if i <= 1 {
		return ""
	}
	return strings.ToLower(location[:i])
}

// HTTPLoader fetches documents over HTTP(S).
type HTTPLoader struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPLoader creates a loader using client. The client's timeout is the
// only deadline applied besides the caller's context.
func NewHTTPLoader(client *http.Client, maxBytes int64) *HTTPLoader {
	return &HTTPLoader{client: client, maxBytes: maxBytes}
}

// Load implements Loader. Any status outside 200-299 is a LoadError.
func (l *HTTPLoader) Load(ctx context.Context, location string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	if runID := RunIDFromContext(ctx); runID != "" {
		req.Header.Set(RunIDHeader, runID)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Document{}, &LoadError{Location: location, Status: resp.StatusCode}
	}

	text, n, err := readDocument(resp.Body, l.maxBytes)
	if err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}
	return Document{Location: location, Text: text, Size: n}, nil
}

// FileLoader reads documents from the local filesystem.
type FileLoader struct {
	maxBytes int64
}

// NewFileLoader creates a file loader with the given size limit.
func NewFileLoader(maxBytes int64) *FileLoader {
	return &FileLoader{maxBytes: maxBytes}
}

// Load implements Loader. location may be a bare path or a file:// URL.
func (l *FileLoader) Load(ctx context.Context, location string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}

	f, err := os.Open(LocalPath(location))
	if err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}
	defer f.Close()

	text, n, err := readDocument(f, l.maxBytes)
	if err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}
	return Document{Location: location, Text: text, Size: n}, nil
}
