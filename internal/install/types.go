package install

import (
	"time"

	"github.com/gefetch/gefetch/internal/download"
	"github.com/gefetch/gefetch/internal/tag"
)

// Verification indicates how an installed archive was verified.
type Verification int

const (
	// VerificationNone indicates the caller explicitly skipped verification
	VerificationNone Verification = iota
	// VerificationChecksum indicates the published checksum matched
	VerificationChecksum
	// VerificationSignature indicates checksum plus detached PGP signature
	VerificationSignature
)

// String returns the string representation of the verification method.
func (v Verification) String() string {
	switch v {
	case VerificationChecksum:
		return "checksum"
	case VerificationSignature:
		return "checksum+signature"
	case VerificationNone:
		return "none"
	default:
		return "unknown"
	}
}

// Options configures a single install run.
type Options struct {
	// Family selects the compatibility-tool project
	Family tag.Family
	// TagName is the release to install; empty or "latest" resolves the
	// newest published release
	TagName string
	// DownloadDir receives the archive and checksum files
	DownloadDir string
	// InstallDir is the extraction destination
	InstallDir string
	// SkipChecksum disables checksum verification. This is an explicit
	// opt-out; the result reports VerificationNone so an unverified
	// install is always distinguishable from a verified one.
	SkipChecksum bool
	// KeyringPath optionally names an armored PGP public keyring. When
	// set and the release publishes a detached signature, the signature
	// is verified as well.
	KeyringPath string
	// Progress receives transfer snapshots during the payload download
	Progress download.ProgressFunc
}

// Result describes a completed install.
type Result struct {
	// Tag is the release that was installed
	Tag tag.Tag
	// RootDir is the name of the top-level directory the archive
	// unpacked into, relative to Options.InstallDir
	RootDir string
	// ArchivePath is where the downloaded payload lives
	ArchivePath string
	// ChecksumPath is where the downloaded checksum file lives, empty
	// when verification was skipped
	ChecksumPath string
	// Verified reports the verification method that gated extraction
	Verified Verification
	// Elapsed is the wall-clock duration of the whole run
	Elapsed time.Duration
}
