package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gefetch/gefetch/internal/download"
	"github.com/gefetch/gefetch/internal/extract"
	"github.com/gefetch/gefetch/internal/github"
	"github.com/gefetch/gefetch/internal/tag"
	"github.com/gefetch/gefetch/internal/verify"
)

// ReleaseFetcher resolves release metadata for a family and tag name.
type ReleaseFetcher interface {
	FetchRelease(ctx context.Context, family tag.Family, tagName string) (*github.Release, error)
}

// Downloader streams a release asset to disk.
type Downloader interface {
	Download(ctx context.Context, asset github.Asset, destPath string, progress download.ProgressFunc) (int64, error)
}

// Extractor unpacks a payload archive and returns its top-level directory.
type Extractor interface {
	Extract(archivePath, destDir string, family tag.Family) (string, error)
}

// Config assembles a Manager's collaborators. Zero-value fields fall back
// to production defaults.
type Config struct {
	Fetcher    ReleaseFetcher
	Downloader Downloader
	Extractor  Extractor
	Logger     Logger
}

// Manager runs the acquire-verify-extract pipeline.
type Manager struct {
	fetcher    ReleaseFetcher
	downloader Downloader
	extractor  Extractor
	logger     Logger
}

// NewManager creates a manager, filling in defaults for any collaborator
// the config leaves nil.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		fetcher:    cfg.Fetcher,
		downloader: cfg.Downloader,
		extractor:  cfg.Extractor,
		logger:     cfg.Logger,
	}
	if m.fetcher == nil {
		m.fetcher = github.NewClient()
	}
	if m.downloader == nil {
		m.downloader = download.NewDownloader()
	}
	if m.extractor == nil {
		m.extractor = extract.NewExtractor()
	}
	if m.logger == nil {
		m.logger = defaultLogger()
	}
	return m
}

// Latest resolves the newest published release of the family and returns
// its parsed tag without downloading anything.
func (m *Manager) Latest(ctx context.Context, family tag.Family) (tag.Tag, error) {
	release, err := m.fetcher.FetchRelease(ctx, family, github.LatestTag)
	if err != nil {
		return tag.Tag{}, err
	}
	return tag.Parse(release.TagName, family)
}

// Install runs the full pipeline for one release and reports what happened.
// On failure any files already downloaded stay on disk.
func (m *Manager) Install(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	if !opts.Family.Valid() {
		return nil, fmt.Errorf("%w: %q", tag.ErrUnknownFamily, string(opts.Family))
	}
	if opts.DownloadDir == "" || opts.InstallDir == "" {
		return nil, errors.New("download and install directories are required")
	}

	m.logger.Info("resolving release", "family", opts.Family.String(), "tag", opts.TagName)
	release, err := m.fetcher.FetchRelease(ctx, opts.Family, opts.TagName)
	if err != nil {
		return nil, err
	}

	parsed, err := tag.Parse(release.TagName, opts.Family)
	if err != nil {
		return nil, fmt.Errorf("release %s: %w", release.TagName, err)
	}

	payload, err := release.SelectAsset(opts.Family)
	if err != nil {
		return nil, err
	}

	archivePath := filepath.Join(opts.DownloadDir, payload.Name)
	m.logger.Info("downloading payload", "asset", payload.Name, "dest", archivePath)
	if _, err := m.downloader.Download(ctx, payload, archivePath, opts.Progress); err != nil {
		return nil, err
	}

	result := &Result{
		Tag:         parsed,
		ArchivePath: archivePath,
	}

	if opts.SkipChecksum {
		m.logger.Warn("checksum verification skipped", "asset", payload.Name)
		result.Verified = VerificationNone
	} else {
		checksumPath, err := m.verifyChecksum(ctx, release, payload, opts, archivePath)
		if err != nil {
			return nil, err
		}
		result.ChecksumPath = checksumPath
		result.Verified = VerificationChecksum

		if opts.KeyringPath != "" {
			verified, err := m.verifySignature(ctx, release, payload, opts, archivePath)
			if err != nil {
				return nil, err
			}
			if verified {
				result.Verified = VerificationSignature
			}
		}
	}

	m.logger.Info("extracting archive", "archive", archivePath, "dest", opts.InstallDir)
	rootDir, err := m.extractor.Extract(archivePath, opts.InstallDir, opts.Family)
	if err != nil {
		return nil, err
	}
	result.RootDir = rootDir
	result.Elapsed = time.Since(start)

	m.logger.Info("install complete",
		"tag", parsed.String(), "root", rootDir, "verified", result.Verified.String())
	return result, nil
}

// verifyChecksum downloads the release's checksum file and checks the
// archive against it. It returns the checksum file's path.
func (m *Manager) verifyChecksum(ctx context.Context, release *github.Release, payload github.Asset, opts Options, archivePath string) (string, error) {
	checksumAsset, err := release.SelectChecksumAsset(payload, opts.Family)
	if err != nil {
		return "", err
	}

	checksumPath := filepath.Join(opts.DownloadDir, checksumAsset.Name)
	if _, err := m.downloader.Download(ctx, checksumAsset, checksumPath, nil); err != nil {
		return "", err
	}

	contents, err := os.ReadFile(checksumPath)
	if err != nil {
		return "", fmt.Errorf("read checksum file: %w", err)
	}

	algo, err := verify.VerifyFile(archivePath, contents)
	if err != nil {
		return "", err
	}
	m.logger.Info("checksum verified", "asset", payload.Name, "algorithm", algo.String())

	return checksumPath, nil
}

// verifySignature checks a detached signature when the release publishes
// one. A release without a signature asset is not an error; the install
// proceeds on checksum verification alone.
func (m *Manager) verifySignature(ctx context.Context, release *github.Release, payload github.Asset, opts Options, archivePath string) (bool, error) {
	sigAsset, err := release.SelectSignatureAsset(payload)
	if err != nil {
		if errors.Is(err, github.ErrAssetNotFound) {
			m.logger.Warn("release publishes no detached signature", "asset", payload.Name)
			return false, nil
		}
		return false, err
	}

	sigPath := filepath.Join(opts.DownloadDir, sigAsset.Name)
	if _, err := m.downloader.Download(ctx, sigAsset, sigPath, nil); err != nil {
		return false, err
	}

	if err := verify.VerifyDetachedSignature(archivePath, sigPath, opts.KeyringPath); err != nil {
		return false, err
	}
	m.logger.Info("signature verified", "asset", payload.Name)

	return true, nil
}
