// Package install orchestrates a full release installation: resolve the
// release metadata, download the payload and its checksum, verify, and
// extract into the install directory.
//
// The manager composes the metadata client, downloader, verifier, and
// extractor behind a single Install call. Verification always gates
// extraction: skipping the checksum is an explicit opt-in recorded in the
// result, never a silent fallback.
package install
