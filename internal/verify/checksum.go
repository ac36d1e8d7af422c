// Package verify gates archive extraction on integrity checks: a streamed
// cryptographic digest compared against the published checksum file, and
// optionally a detached PGP signature.
package verify

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrChecksumMismatch is returned when the computed digest differs
	// from the published one.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrMalformedChecksum is returned when checksum-file contents carry
	// no decodable hex digest.
	ErrMalformedChecksum = errors.New("malformed checksum file")
)

// Algorithm selects the digest function used for verification.
type Algorithm int

const (
	// SHA256 is used for 32-byte published digests
	SHA256 Algorithm = iota
	// SHA512 is used for 64-byte published digests (what GE releases ship)
	SHA512
)

// String returns the algorithm name for logs and results.
func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	default:
		return "Unknown"
	}
}

func (a Algorithm) newHash() hash.Hash {
	if a == SHA512 {
		return sha512.New()
	}
	return sha256.New()
}

// FileDigest streams the file at path through the algorithm's hash function
// and returns the digest. The file is never loaded into memory as a whole.
func FileDigest(path string, algo Algorithm) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	h := algo.newHash()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash file: %w", err)
	}

	return h.Sum(nil), nil
}

// ParseChecksumFile extracts the expected digest from checksum-file
// contents of the conventional "<hexdigest>[  <filename>]" form. Only the
// digest field is considered; hex decoding makes the comparison
// case-insensitive. The digest length selects the algorithm.
func ParseChecksumFile(contents []byte) ([]byte, Algorithm, error) {
	fields := strings.Fields(string(contents))
	if len(fields) == 0 {
		return nil, 0, fmt.Errorf("%w: empty contents", ErrMalformedChecksum)
	}

	digest, err := hex.DecodeString(fields[0])
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedChecksum, err)
	}

	switch len(digest) {
	case sha256.Size:
		return digest, SHA256, nil
	case sha512.Size:
		return digest, SHA512, nil
	default:
		return nil, 0, fmt.Errorf("%w: unsupported digest length %d", ErrMalformedChecksum, len(digest))
	}
}

// Matches reports whether two digests are byte-for-byte equal.
func Matches(computed, expected []byte) bool {
	return bytes.Equal(computed, expected)
}

// VerifyFile is the integrity gate before extraction: it parses the
// published checksum, streams the file through the matching hash function,
// and fails with ErrChecksumMismatch when the digests differ. It returns
// the algorithm that was used.
func VerifyFile(path string, checksumContents []byte) (Algorithm, error) {
	expected, algo, err := ParseChecksumFile(checksumContents)
	if err != nil {
		return algo, err
	}

	computed, err := FileDigest(path, algo)
	if err != nil {
		return algo, err
	}

	if !Matches(computed, expected) {
		return algo, fmt.Errorf("%w: %s: computed %s, expected %s",
			ErrChecksumMismatch, filepath.Base(path),
			hex.EncodeToString(computed), hex.EncodeToString(expected))
	}

	return algo, nil
}
