package github

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gefetch/gefetch/internal/tag"
)

// ErrAssetNotFound is returned when a release carries no asset matching the
// requested family's conventions.
var ErrAssetNotFound = errors.New("no matching release asset")

// signatureSuffixes are the detached-signature suffixes a release may
// publish alongside the payload archive.
var signatureSuffixes = []string{".sig", ".asc"}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"browser_download_url"`
}

// Release is the subset of the GitHub release payload this module consumes.
// It is decoded fresh on every metadata fetch and never persisted.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// SelectAsset returns the compressed archive payload for the given family:
// the first asset whose filename carries the family's archive suffix. The
// scan order follows the metadata response, so selection is deterministic
// for identical release metadata.
func (r *Release) SelectAsset(family tag.Family) (Asset, error) {
	suffix := family.ArchiveSuffix()
	for _, asset := range r.Assets {
		if strings.HasSuffix(asset.Name, suffix) {
			return asset, nil
		}
	}
	return Asset{}, fmt.Errorf("%w: release %s has no %q asset",
		ErrAssetNotFound, r.TagName, suffix)
}

// SelectChecksumAsset locates the checksum file belonging to the payload:
// the asset named exactly like the payload plus a recognized checksum
// suffix, tried in the family's preference order.
func (r *Release) SelectChecksumAsset(payload Asset, family tag.Family) (Asset, error) {
	for _, suffix := range family.ChecksumSuffixes() {
		want := payload.Name + suffix
		for _, asset := range r.Assets {
			if asset.Name == want {
				return asset, nil
			}
		}
	}
	return Asset{}, fmt.Errorf("%w: release %s publishes no checksum for %s",
		ErrAssetNotFound, r.TagName, payload.Name)
}

// SelectSignatureAsset locates a detached signature for the payload, when
// the release publishes one.
func (r *Release) SelectSignatureAsset(payload Asset) (Asset, error) {
	for _, suffix := range signatureSuffixes {
		want := payload.Name + suffix
		for _, asset := range r.Assets {
			if asset.Name == want {
				return asset, nil
			}
		}
	}
	return Asset{}, fmt.Errorf("%w: release %s publishes no signature for %s",
		ErrAssetNotFound, r.TagName, payload.Name)
}
