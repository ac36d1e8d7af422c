// Package lutris edits Lutris wine-runner configuration files so an
// installed compatibility tool becomes the configured wine version.
package lutris

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoVersionAttribute is returned when the configuration carries no
// wine version attribute to read or rewrite.
var ErrNoVersionAttribute = errors.New("no wine version attribute in lutris config")

// Config wraps a Lutris runner configuration file on disk.
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

// WineVersion returns the configured wine version.
func (c *Config) WineVersion() (string, error) {
	doc, err := c.load()
	if err != nil {
		return "", err
	}

	wine, ok := doc["wine"].(map[string]interface{})
	if !ok {
		return "", ErrNoVersionAttribute
	}
	version, ok := wine["version"].(string)
	if !ok {
		return "", ErrNoVersionAttribute
	}
	return version, nil
}

// SetWineVersion rewrites the configured wine version. The wine section
// must already exist; this never fabricates config structure Lutris did
// not write itself. Comments in the file are not preserved across the
// rewrite.
func (c *Config) SetWineVersion(version string) error {
	doc, err := c.load()
	if err != nil {
		return err
	}

	wine, ok := doc["wine"].(map[string]interface{})
	if !ok {
		return ErrNoVersionAttribute
	}
	wine["version"] = version

	encoded, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode lutris config: %w", err)
	}
	return os.WriteFile(c.path, encoded, 0o644)
}

func (c *Config) load() (map[string]interface{}, error) {
	contents, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read lutris config: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("parse lutris config: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}
