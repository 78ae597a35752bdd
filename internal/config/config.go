// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no path is given explicitly.
const DefaultPath = "config.yaml"

// Config represents the root configuration file structure.
type Config struct {
	Landmarks Landmarks `yaml:"landmarks"`
	Merge     Merge     `yaml:"merge"`
}

// Landmarks configures the query sent to the SPARQL endpoint.
type Landmarks struct {
	Endpoint      string        `yaml:"endpoint"`
	UserAgent     string        `yaml:"user_agent"`
	Language      string        `yaml:"language"`
	LandmarkClass string        `yaml:"landmark_class"` // Wikidata item, e.g. Q839954
	CityClass     string        `yaml:"city_class"`
	Limit         int           `yaml:"limit"`
	Timeout       time.Duration `yaml:"timeout"` // 0 disables the request timeout
}

// Merge configures the city merge.
type Merge struct {
	NameProperty string `yaml:"name_property"`
	Indent       string `yaml:"indent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Landmarks: Landmarks{
			Endpoint:      "https://query.wikidata.org/sparql",
			UserAgent:     "mapdata/1.0 (https://github.com/woozymasta/mapdata)",
			Language:      "en",
			LandmarkClass: "Q839954",
			CityClass:     "Q515",
			Limit:         1000,
			Timeout:       60 * time.Second,
		},
		Merge: Merge{
			NameProperty: "NAME",
			Indent:       "  ",
		},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Values absent from the file keep their defaults. A missing file is only
// tolerated for DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return nil, eris.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required values are set.
func (c *Config) Validate() error {
	switch {
	case c.Landmarks.Endpoint == "":
		return eris.New("landmarks.endpoint is empty")
	case c.Landmarks.LandmarkClass == "" || c.Landmarks.CityClass == "":
		return eris.New("landmarks.landmark_class and landmarks.city_class are required")
	case c.Landmarks.Limit < 0:
		return eris.New("landmarks.limit must not be negative")
	case c.Merge.NameProperty == "":
		return eris.New("merge.name_property is empty")
	}
	return nil
}
