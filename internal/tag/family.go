package tag

import (
	"errors"
	"fmt"
)

// Family identifies one of the supported compatibility-tool projects.
type Family string

const (
	// FamilyProton represents GE Proton releases
	FamilyProton Family = "proton"
	// FamilyWineGE represents Wine GE releases
	FamilyWineGE Family = "wine"
)

// ErrUnknownFamily is returned when a string names no known product family.
var ErrUnknownFamily = errors.New("unknown product family")

// Compression identifies the stream compression of a family's payload archive.
type Compression int

const (
	// CompressionGzip is a gzip-deflate stream (GE Proton archives)
	CompressionGzip Compression = iota
	// CompressionXz is an LZMA2/xz stream (Wine GE archives)
	CompressionXz
)

// traits describes the release conventions of a product family. The matching
// rules for assets live here as data so that selection and extraction code
// stays free of per-family conditionals.
type traits struct {
	displayName      string
	owner            string
	repo             string
	archiveSuffix    string
	checksumSuffixes []string
	compression      Compression
}

var familyTraits = map[Family]traits{
	FamilyProton: {
		displayName:      "GE Proton",
		owner:            "GloriousEggroll",
		repo:             "proton-ge-custom",
		archiveSuffix:    ".tar.gz",
		checksumSuffixes: []string{".sha512sum", ".sha256sum"},
		compression:      CompressionGzip,
	},
	FamilyWineGE: {
		displayName:      "Wine GE",
		owner:            "GloriousEggroll",
		repo:             "wine-ge-custom",
		archiveSuffix:    ".tar.xz",
		checksumSuffixes: []string{".sha512sum", ".sha256sum"},
		compression:      CompressionXz,
	},
}

// ParseFamily maps a user-supplied name to a Family.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if _, ok := familyTraits[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
	return f, nil
}

// Families returns all supported product families.
func Families() []Family {
	return []Family{FamilyProton, FamilyWineGE}
}

// String returns the canonical lower-case family name.
func (f Family) String() string {
	return string(f)
}

// Valid reports whether f names a known product family.
func (f Family) Valid() bool {
	_, ok := familyTraits[f]
	return ok
}

// DisplayName returns a human readable tool name, e.g. "GE Proton".
func (f Family) DisplayName() string {
	return familyTraits[f].displayName
}

// Owner returns the GitHub account publishing the family's releases.
func (f Family) Owner() string {
	return familyTraits[f].owner
}

// Repo returns the GitHub repository publishing the family's releases.
func (f Family) Repo() string {
	return familyTraits[f].repo
}

// ArchiveSuffix returns the filename suffix of the payload archive.
func (f Family) ArchiveSuffix() string {
	return familyTraits[f].archiveSuffix
}

// ChecksumSuffixes returns the recognized checksum-file suffixes in
// preference order.
func (f Family) ChecksumSuffixes() []string {
	suffixes := familyTraits[f].checksumSuffixes
	out := make([]string, len(suffixes))
	copy(out, suffixes)
	return out
}

// Compression returns the stream compression of the payload archive.
func (f Family) Compression() Compression {
	return familyTraits[f].compression
}
