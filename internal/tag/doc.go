// Package tag models release identifiers of the supported compatibility
// tools and orders them by their decomposed semantic version.
//
// Upstream tags are not valid semantic versions ("GE-Proton7-8",
// "6.20-GE-1", "7.0rc3-GE-1"), so each tag is decomposed into a
// major/minor/patch triple plus an optional pre-release qualifier at parse
// time. The decomposition is the sole source of truth for equality and
// ordering; the raw string is kept only for display and round-tripping.
//
// The package also defines the product families (GE Proton, Wine GE) and a
// trait table describing each family's release conventions: repository
// location, archive suffix, checksum-file suffixes, and compression format.
// Asset selection and extraction elsewhere in the module read these traits
// instead of hard-coding per-family conditionals.
package tag
