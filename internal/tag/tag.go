package tag

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrMalformedTag is returned when a release identifier carries no numeric
// version component at all.
var ErrMalformedTag = errors.New("malformed release tag")

var numberPattern = regexp.MustCompile(`\d+`)

// rcMarker introduces a release-candidate qualifier, e.g. "7.0rc3-GE-1".
const rcMarker = "rc"

// qualifierMarkers are the known non-numeric trailing qualifiers of upstream
// release tags ("6.16-GE-3-LoL", "5.11-GE-1-MF").
var qualifierMarkers = []string{"LoL", "MF"}

// Tag is an immutable release identifier decomposed into semantic-version
// fields. Comparing "Proton-6.20-GE-1" with "GE-Proton7-8" by raw string is
// meaningless, so equality and ordering always go through the decomposition;
// the raw string is retained only for display.
type Tag struct {
	raw     string
	family  Family
	suffix  string
	version semver.Version
}

// Parse decomposes a raw release identifier into a Tag.
//
// All numeric runs in the identifier are collected in order and fill the
// major/minor/patch fields, zero-filled when fewer than three are present.
// A release-candidate qualifier ("rcN") or a known trailing marker becomes
// the pre-release suffix, which orders before the plain release of the same
// numeric triple. Parse fails with ErrMalformedTag when the identifier
// contains no number.
func Parse(raw string, family Family) (Tag, error) {
	numbers := numberPattern.FindAllString(raw, -1)
	if len(numbers) == 0 {
		return Tag{}, fmt.Errorf("%w: %q has no numeric version component", ErrMalformedTag, raw)
	}

	// Qualifier detection is case-insensitive; the suffix case must never
	// influence equality.
	lower := strings.ToLower(raw)

	var suffix string
	if strings.Contains(lower, rcMarker) {
		// The rc digits show up in the numeric sweep as well. Skip the
		// first capture since it may coincide with the major version,
		// then drop the capture that belongs to the qualifier.
		for i := 1; i < len(numbers); i++ {
			if strings.Contains(lower, rcMarker+numbers[i]) {
				suffix = rcMarker + numbers[i]
				numbers = append(numbers[:i], numbers[i+1:]...)
				break
			}
		}
	}
	if suffix == "" {
		for _, marker := range qualifierMarkers {
			if strings.Contains(lower, strings.ToLower(marker)) {
				suffix = marker
			}
		}
	}

	var fields [3]uint64
	for i := 0; i < len(numbers) && i < 3; i++ {
		n, err := strconv.ParseUint(numbers[i], 10, 64)
		if err != nil {
			return Tag{}, fmt.Errorf("%w: %q: %v", ErrMalformedTag, raw, err)
		}
		fields[i] = n
	}

	// The suffix is lowercased for comparison only, so that qualifier case
	// does not affect ordering while String keeps the original bytes.
	version := semver.New(fields[0], fields[1], fields[2], strings.ToLower(suffix), "")

	return Tag{raw: raw, family: family, suffix: suffix, version: *version}, nil
}

// MustParse is a Parse that panics on error, for tests and constants.
func MustParse(raw string, family Family) Tag {
	t, err := Parse(raw, family)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the raw identifier exactly as it was parsed.
func (t Tag) String() string {
	return t.raw
}

// Family returns the product family the tag belongs to.
func (t Tag) Family() Family {
	return t.family
}

// Major returns the major version field.
func (t Tag) Major() uint64 { return t.version.Major() }

// Minor returns the minor version field.
func (t Tag) Minor() uint64 { return t.version.Minor() }

// Patch returns the patch version field.
func (t Tag) Patch() uint64 { return t.version.Patch() }

// Suffix returns the pre-release qualifier, empty for plain releases.
func (t Tag) Suffix() string { return t.suffix }

// Semver returns the canonical decomposed form, e.g. "7.8.0" or "7.0.1-rc3".
func (t Tag) Semver() string {
	if t.suffix == "" {
		return fmt.Sprintf("%d.%d.%d", t.Major(), t.Minor(), t.Patch())
	}
	return fmt.Sprintf("%d.%d.%d-%s", t.Major(), t.Minor(), t.Patch(), t.suffix)
}

// Compare orders two tags by their decomposed fields. It returns -1 when
// a is older than b, 0 when both decompose to the same version, and +1 when
// a is newer. A pre-release suffix orders before its absence for the same
// numeric triple; two suffixes compare as strings.
func Compare(a, b Tag) int {
	return a.version.Compare(&b.version)
}

// Equal reports whether both tags decompose to the same version, regardless
// of raw-string formatting differences.
func (t Tag) Equal(other Tag) bool {
	return Compare(t, other) == 0
}

// Less reports whether t names an older release than other.
func (t Tag) Less(other Tag) bool {
	return Compare(t, other) < 0
}
