// Package download streams release assets to disk with per-chunk progress
// reporting.
//
// The downloader deliberately has no retry logic and performs no temp-file
// renames: a failed transfer leaves the partial destination file in place
// for the caller to inspect or clean up, and retry policy belongs to the
// caller. Each call owns its own connection, file handle, and buffer, so
// concurrent downloads of unrelated assets are safe.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gefetch/gefetch/internal/github"
)

const (
	// DefaultTimeout bounds a whole transfer, not a single read
	DefaultTimeout = 15 * time.Minute
	// DefaultUserAgent is the client identification sent with requests
	DefaultUserAgent = "gefetch/1.0"

	// chunkSize is the transfer buffer size; progress is reported once
	// per filled chunk
	chunkSize = 128 * 1024

	maxRedirects = 10
)

var (
	// ErrNetwork covers connection and transport failures, including a
	// stream that breaks mid-transfer.
	ErrNetwork = errors.New("network failure")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// Progress is a point-in-time view of a running transfer. The downloader
// owns the state; sinks receive read-only snapshots.
type Progress struct {
	// Asset is the descriptor being transferred
	Asset github.Asset
	// Received counts bytes written to the destination so far
	Received int64
	// Total is the expected byte count, -1 when unknown
	Total int64
}

// ProgressFunc receives a Progress snapshot after every chunk. It runs on
// the goroutine performing the transfer, so a sink that blocks stalls the
// download.
type ProgressFunc func(Progress)

// HTTPClient is the requesting capability Downloader needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Downloader streams assets to disk.
type Downloader struct {
	client    HTTPClient
	userAgent string
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// NewDownloader creates a downloader with production defaults.
func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download opens a streaming GET for the asset and writes the body to
// destPath chunk by chunk, invoking progress (when non-nil) after each
// chunk. It returns the number of bytes written. The destination file is
// created or truncated up front; on failure the partial file stays on disk.
func (d *Downloader) Download(ctx context.Context, asset github.Asset, destPath string, progress ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.DownloadURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request for %s: %v", ErrNetwork, asset.Name, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrNetwork, asset.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %d downloading %s", ErrUnexpectedStatus, resp.StatusCode, asset.Name)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("create destination dir: %w", err)
	}
	out, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()

	total := resp.ContentLength
	if total < 0 && asset.Size > 0 {
		total = asset.Size
	}
	if total <= 0 {
		total = -1
	}

	state := Progress{Asset: asset, Total: total}

	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			wn, writeErr := out.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, fmt.Errorf("write %s: %w", destPath, writeErr)
			}
			if progress != nil {
				state.Received = written
				progress(state)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("%w: %s: transfer interrupted after %d bytes: %v",
				ErrNetwork, asset.Name, written, readErr)
		}
	}

	if err := out.Close(); err != nil {
		return written, fmt.Errorf("close %s: %w", destPath, err)
	}

	return written, nil
}
