// Package config loads the optional YAML defaults file for upload settings
// that are channel-specific and should not be hard-coded, such as the video
// category ID.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is probed when no --config flag is given.
const DefaultPath = "streamreup.yaml"

// Defaults holds upload settings read from the defaults file. Command-line
// flags always win over values set here.
type Defaults struct {
	// CategoryID is the YouTube video category. There is no built-in
	// fallback: category IDs are channel/region specific, so a run that
	// uploads must get one from here or from --category.
	CategoryID string `yaml:"categoryId"`

	// Privacy overrides the built-in "private" default.
	Privacy string `yaml:"privacy"`

	// PlaylistID is a playlist every upload is appended to.
	PlaylistID string `yaml:"playlistId"`

	// PlaylistSearch is a title search term used when no playlist ID is set.
	PlaylistSearch string `yaml:"playlistSearch"`
}

// Load reads a defaults file. A missing file at DefaultPath yields empty
// defaults; a missing file at an explicitly requested path is an error.
func Load(path string) (*Defaults, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if d.Privacy != "" && d.Privacy != "private" && d.Privacy != "public" && d.Privacy != "unlisted" {
		return nil, fmt.Errorf("invalid privacy status in %s: %s", path, d.Privacy)
	}

	return &d, nil
}
