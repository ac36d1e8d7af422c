package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gefetch/gefetch/internal/github"
)

func TestDownload(t *testing.T) {
	body := strings.Repeat("proton bytes ", 1024)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	asset := github.Asset{Name: "GE-Proton8-1.tar.gz", DownloadURL: server.URL}
	destPath := filepath.Join(t.TempDir(), "GE-Proton8-1.tar.gz")

	written, err := NewDownloader().Download(context.Background(), asset, destPath, nil)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if written != int64(len(body)) {
		t.Errorf("written = %d, want %d", written, len(body))
	}

	content, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(content) != body {
		t.Error("downloaded content differs from response body")
	}
}

func TestDownloadProgress(t *testing.T) {
	body := strings.Repeat("x", 300*1024)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	asset := github.Asset{Name: "GE-Proton8-1.tar.gz", DownloadURL: server.URL, Size: int64(len(body))}
	destPath := filepath.Join(t.TempDir(), "archive.tar.gz")

	var snapshots []Progress
	_, err := NewDownloader().Download(context.Background(), asset, destPath, func(p Progress) {
		snapshots = append(snapshots, p)
	})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if len(snapshots) == 0 {
		t.Fatal("expected at least one progress snapshot")
	}

	var prev int64
	for i, p := range snapshots {
		if p.Received < prev {
			t.Errorf("snapshot %d: received went backwards (%d -> %d)", i, prev, p.Received)
		}
		prev = p.Received
		if p.Asset.Name != asset.Name {
			t.Errorf("snapshot %d: asset = %q, want %q", i, p.Asset.Name, asset.Name)
		}
		if p.Total != int64(len(body)) {
			t.Errorf("snapshot %d: total = %d, want %d", i, p.Total, len(body))
		}
	}

	last := snapshots[len(snapshots)-1]
	if last.Received != int64(len(body)) {
		t.Errorf("final received = %d, want %d", last.Received, len(body))
	}
}

func TestDownloadUnexpectedStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"not_found", http.StatusNotFound},
		{"server_error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			asset := github.Asset{Name: "missing.tar.gz", DownloadURL: server.URL}
			destPath := filepath.Join(t.TempDir(), "missing.tar.gz")

			_, err := NewDownloader().Download(context.Background(), asset, destPath, nil)
			if !errors.Is(err, ErrUnexpectedStatus) {
				t.Errorf("error = %v, want ErrUnexpectedStatus", err)
			}

			// No destination file is created before the status check passes.
			if _, statErr := os.Stat(destPath); !os.IsNotExist(statErr) {
				t.Error("expected no destination file for failed status")
			}
		})
	}
}

func TestDownloadNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	asset := github.Asset{Name: "unreachable.tar.gz", DownloadURL: server.URL}
	destPath := filepath.Join(t.TempDir(), "unreachable.tar.gz")

	_, err := NewDownloader().Download(context.Background(), asset, destPath, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestDownloadInterruptedLeavesPartialFile(t *testing.T) {
	partial := strings.Repeat("y", 64)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Announce more bytes than are sent, then cut the connection.
		w.Header().Set("Content-Length", fmt.Sprint(len(partial)*10))
		_, _ = w.Write([]byte(partial))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		conn.Close()
	}))
	defer server.Close()

	asset := github.Asset{Name: "truncated.tar.gz", DownloadURL: server.URL}
	destPath := filepath.Join(t.TempDir(), "truncated.tar.gz")

	_, err := NewDownloader().Download(context.Background(), asset, destPath, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}

	// The partial file is left in place for caller inspection.
	content, readErr := os.ReadFile(destPath)
	if readErr != nil {
		t.Fatalf("expected partial file to remain: %v", readErr)
	}
	if len(content) == 0 {
		t.Error("expected partial content in destination file")
	}
}

func TestDownloadUnknownTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flushing mid-body forces a chunked response without Content-Length.
		_, _ = w.Write([]byte("small "))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		_, _ = w.Write([]byte("body"))
	}))
	defer server.Close()

	asset := github.Asset{Name: "nolength.tar.gz", DownloadURL: server.URL}
	destPath := filepath.Join(t.TempDir(), "nolength.tar.gz")

	var sawUnknown bool
	_, err := NewDownloader().Download(context.Background(), asset, destPath, func(p Progress) {
		if p.Total == -1 {
			sawUnknown = true
		}
	})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !sawUnknown {
		t.Error("expected progress with unknown total (-1)")
	}
}
