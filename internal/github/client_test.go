package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gefetch/gefetch/internal/tag"
)

func TestFetchReleaseByTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		if r.URL.Path != "/repos/GloriousEggroll/proton-ge-custom/releases/tags/GE-Proton8-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tag_name": "GE-Proton8-1",
			"assets": [
				{"name": "GE-Proton8-1.tar.gz", "content_type": "application/gzip", "size": 42, "browser_download_url": "https://example.com/GE-Proton8-1.tar.gz"},
				{"name": "GE-Proton8-1.tar.gz.sha512sum", "content_type": "application/octet-stream", "size": 155, "browser_download_url": "https://example.com/GE-Proton8-1.tar.gz.sha512sum"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithToken(""))
	release, err := client.FetchRelease(context.Background(), tag.FamilyProton, "GE-Proton8-1")
	if err != nil {
		t.Fatalf("FetchRelease failed: %v", err)
	}

	if release.TagName != "GE-Proton8-1" {
		t.Errorf("TagName = %q, want GE-Proton8-1", release.TagName)
	}
	if len(release.Assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(release.Assets))
	}
	if release.Assets[0].Size != 42 {
		t.Errorf("asset size = %d, want 42", release.Assets[0].Size)
	}
	if release.Assets[0].DownloadURL != "https://example.com/GE-Proton8-1.tar.gz" {
		t.Errorf("unexpected download URL: %s", release.Assets[0].DownloadURL)
	}
}

func TestFetchReleaseLatest(t *testing.T) {
	for _, tagName := range []string{"", LatestTag} {
		name := tagName
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/repos/GloriousEggroll/wine-ge-custom/releases/latest" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(`{"tag_name": "GE-Proton8-26", "assets": []}`))
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL), WithToken(""))
			release, err := client.FetchRelease(context.Background(), tag.FamilyWineGE, tagName)
			if err != nil {
				t.Fatalf("FetchRelease failed: %v", err)
			}
			if release.TagName != "GE-Proton8-26" {
				t.Errorf("TagName = %q, want GE-Proton8-26", release.TagName)
			}
		})
	}
}

func TestFetchReleaseFailures(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"not_found", http.StatusNotFound, `{"message": "Not Found"}`},
		{"rate_limited", http.StatusForbidden, `{"message": "API rate limit exceeded"}`},
		{"server_error", http.StatusInternalServerError, "boom"},
		{"malformed_body", http.StatusOK, `{"tag_name": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL), WithToken(""))
			_, err := client.FetchRelease(context.Background(), tag.FamilyProton, "GE-Proton8-1")
			if !errors.Is(err, ErrRemoteMetadata) {
				t.Errorf("error = %v, want ErrRemoteMetadata", err)
			}
		})
	}
}

func TestFetchReleaseNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(WithBaseURL(server.URL), WithToken(""))
	_, err := client.FetchRelease(context.Background(), tag.FamilyProton, "GE-Proton8-1")
	if !errors.Is(err, ErrRemoteMetadata) {
		t.Errorf("error = %v, want ErrRemoteMetadata", err)
	}
}

func TestFetchReleaseSendsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		_, _ = w.Write([]byte(`{"tag_name": "GE-Proton8-1", "assets": []}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithToken("secret"))
	if _, err := client.FetchRelease(context.Background(), tag.FamilyProton, "GE-Proton8-1"); err != nil {
		t.Fatalf("FetchRelease failed: %v", err)
	}
}
