// Package steam edits the Steam client configuration so an installed
// compatibility tool becomes the default for Proton-run titles.
//
// The config.vdf file is Valve's KeyValues text format. Editing happens by
// line, touching only the default mapping's "name" value; everything else
// in the file, including indentation and unrelated blocks, is preserved
// byte for byte.
package steam

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoCompatToolMapping is returned when the configuration carries no
// default compatibility-tool mapping to read or rewrite.
var ErrNoCompatToolMapping = errors.New("no compat tool mapping in steam config")

// Config wraps a Steam config.vdf file on disk.
type Config struct {
	path string
}

// NewConfig creates a config wrapper for the file at path. The file is not
// read until an operation needs it.
func NewConfig(path string) *Config {
	return &Config{path: path}
}

// Path returns the wrapped file's location.
func (c *Config) Path() string {
	return c.path
}

// DefaultCompatTool returns the compatibility tool Steam applies by
// default, the "name" value of the global mapping entry.
func (c *Config) DefaultCompatTool() (string, error) {
	lines, err := c.readLines()
	if err != nil {
		return "", err
	}

	idx, err := findNameLine(lines)
	if err != nil {
		return "", err
	}

	tokens := quotedTokens(lines[idx])
	if len(tokens) < 2 {
		return "", fmt.Errorf("%w: mapping has no tool name", ErrNoCompatToolMapping)
	}
	return tokens[1], nil
}

// SetDefaultCompatTool rewrites the global mapping's tool name in place.
// The mapping block must already exist; this never fabricates config
// structure Steam did not write itself.
func (c *Config) SetDefaultCompatTool(name string) error {
	lines, err := c.readLines()
	if err != nil {
		return err
	}

	idx, err := findNameLine(lines)
	if err != nil {
		return err
	}

	replaced, err := replaceQuotedValue(lines[idx], name)
	if err != nil {
		return err
	}
	lines[idx] = replaced

	return os.WriteFile(c.path, []byte(strings.Join(lines, "\n")), 0o644)
}

func (c *Config) readLines() ([]string, error) {
	contents, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read steam config: %w", err)
	}
	return strings.Split(string(contents), "\n"), nil
}

// findNameLine locates the "name" line of the first entry inside the
// CompatToolMapping block.
func findNameLine(lines []string) (int, error) {
	inMapping := false
	opened := false
	depth := 0
	for i, line := range lines {
		if !inMapping {
			tokens := quotedTokens(line)
			if len(tokens) > 0 && tokens[0] == "CompatToolMapping" {
				inMapping = true
			}
			continue
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth > 0 {
			opened = true
		}
		if opened && depth <= 0 {
			// Mapping block closed without a name line.
			break
		}
		if !opened {
			continue
		}

		tokens := quotedTokens(line)
		if len(tokens) > 0 && tokens[0] == "name" {
			return i, nil
		}
	}
	return 0, ErrNoCompatToolMapping
}

// quotedTokens extracts the double-quoted strings on a line, in order.
// KeyValues files written by Steam do not escape quotes inside values.
func quotedTokens(line string) []string {
	var tokens []string
	for {
		start := strings.IndexByte(line, '"')
		if start < 0 {
			return tokens
		}
		rest := line[start+1:]
		end := strings.IndexByte(rest, '"')
		if end < 0 {
			return tokens
		}
		tokens = append(tokens, rest[:end])
		line = rest[end+1:]
	}
}

// replaceQuotedValue swaps the second quoted string on a line for value,
// leaving whitespace and the key untouched.
func replaceQuotedValue(line, value string) (string, error) {
	first := strings.IndexByte(line, '"')
	if first < 0 {
		return "", fmt.Errorf("%w: malformed mapping line", ErrNoCompatToolMapping)
	}
	keyEnd := strings.IndexByte(line[first+1:], '"')
	if keyEnd < 0 {
		return "", fmt.Errorf("%w: malformed mapping line", ErrNoCompatToolMapping)
	}

	valStart := strings.IndexByte(line[first+1+keyEnd+1:], '"')
	if valStart < 0 {
		return "", fmt.Errorf("%w: mapping has no tool name", ErrNoCompatToolMapping)
	}
	valStart += first + 1 + keyEnd + 1

	valEnd := strings.IndexByte(line[valStart+1:], '"')
	if valEnd < 0 {
		return "", fmt.Errorf("%w: mapping has no tool name", ErrNoCompatToolMapping)
	}
	valEnd += valStart + 1

	return line[:valStart+1] + value + line[valEnd:], nil
}
