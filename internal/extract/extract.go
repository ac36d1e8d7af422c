// Package extract unpacks verified payload archives. The decompression
// strategy is selected by product family (gzip for GE Proton, xz for
// Wine GE), never sniffed from the content.
package extract

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/gefetch/gefetch/internal/tag"
)

var (
	// ErrUnsafeEntry is returned when an archive entry would resolve
	// outside the destination directory. The whole extraction fails;
	// entries written before the offending one are not rolled back.
	ErrUnsafeEntry = errors.New("unsafe archive entry")
	// ErrAmbiguousLayout is returned when the archive does not unpack
	// into exactly one top-level directory.
	ErrAmbiguousLayout = errors.New("ambiguous archive layout")
)

// Extractor unpacks tar streams.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract decompresses the archive with the family's compression, unpacks
// the contained tar stream into destDir, and returns the name of the single
// top-level directory the archive produced. Callers use that name to locate
// the installed tool.
func (e *Extractor) Extract(archivePath, destDir string, family tag.Family) (string, error) {
	archive, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	var stream io.Reader
	switch family.Compression() {
	case tag.CompressionGzip:
		gz, err := gzip.NewReader(archive)
		if err != nil {
			return "", fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		stream = gz
	case tag.CompressionXz:
		xzr, err := xz.NewReader(archive)
		if err != nil {
			return "", fmt.Errorf("create xz reader: %w", err)
		}
		stream = xzr
	default:
		return "", fmt.Errorf("unsupported compression for family %s", family)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}
	cleanDest := filepath.Clean(destDir)

	var roots []string
	seen := make(map[string]bool)

	tarReader := tar.NewReader(stream)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read tar header: %w", err)
		}

		name := strings.TrimPrefix(header.Name, "./")
		if name == "" || name == "." {
			continue
		}

		// Resolve and check the target before touching the filesystem.
		target := filepath.Join(cleanDest, name)
		if !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, header.Name)
		}

		if root := topLevelName(name); root != "" && !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return "", fmt.Errorf("create parent dir for %s: %w", target, err)
			}
			if err := writeFileEntry(target, tarReader, header.Mode); err != nil {
				return "", err
			}

		case tar.TypeSymlink:
			if err := checkLinkTarget(cleanDest, target, header.Linkname); err != nil {
				return "", err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return "", fmt.Errorf("create parent dir for %s: %w", target, err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return "", fmt.Errorf("create symlink %s: %w", target, err)
			}

		default:
			// Skip device nodes and other exotic entry types.
			continue
		}
	}

	if len(roots) != 1 {
		return "", fmt.Errorf("%w: %d top-level entries", ErrAmbiguousLayout, len(roots))
	}

	info, err := os.Stat(filepath.Join(cleanDest, roots[0]))
	if err != nil {
		return "", fmt.Errorf("stat top-level entry: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: top-level entry %s is not a directory", ErrAmbiguousLayout, roots[0])
	}

	return roots[0], nil
}

func writeFileEntry(target string, r io.Reader, mode int64) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(mode))
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	return out.Close()
}

// checkLinkTarget refuses symlinks that point outside the destination.
func checkLinkTarget(cleanDest, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("%w: absolute symlink target %s", ErrUnsafeEntry, linkname)
	}
	resolved := filepath.Join(filepath.Dir(target), linkname)
	if resolved != cleanDest && !strings.HasPrefix(resolved, cleanDest+string(os.PathSeparator)) {
		return fmt.Errorf("%w: symlink %s escapes destination", ErrUnsafeEntry, linkname)
	}
	return nil
}

// topLevelName returns the first path component of a cleaned entry name.
func topLevelName(name string) string {
	clean := filepath.Clean(name)
	if clean == "." || clean == ".." {
		return ""
	}
	if i := strings.IndexRune(clean, filepath.Separator); i >= 0 {
		return clean[:i]
	}
	return clean
}
