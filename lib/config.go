package spanlib

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// Set ImageMagick7 if the binary is the unified "magick" entry point
	ImageMagick7 bool
	ImageMagick  string
	// JPEG quality for the output slices
	Quality int
	// Padding colour for the fit policy, anything ImageMagick accepts
	// https://www.imagemagick.org/script/color.php
	Background    string
	TempDirectory string
}

// LoadConfig reads the TOML config at path, or the default location when
// path is empty. A missing default config is not an error; the tool runs
// fine with defaults. An explicitly named config must exist.
func LoadConfig(path string) (*Config, error) {
	c := &Config{
		Quality:    95,
		Background: "black",
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			if _, err = toml.DecodeFile(path, c); err != nil {
				return nil, fmt.Errorf("error parsing config [%s]: %w", path, err)
			}
		} else if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config [%s]: %w", path, err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "spanwall", "spanwall.toml")
}

func (c *Config) validate() error {
	if c.ImageMagick == "" {
		if c.ImageMagick7 {
			c.ImageMagick = "magick"
		} else {
			c.ImageMagick = "convert"
		}
	}

	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("Quality must be between 1 and 100, got %d", c.Quality)
	}

	if c.Background == "" {
		c.Background = "black"
	}

	if c.TempDirectory != "" {
		fi, err := os.Stat(c.TempDirectory)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("TempDirectory [%s] is not a directory", c.TempDirectory)
		}
	}

	return nil
}

var tempDir string
var tempErr error
var tempOnce sync.Once

// TempDir creates the scoped scratch directory that holds the scaled
// canvas. Be sure Cleanup runs on every exit path; the canvas must never
// outlive the process.
func (c *Config) TempDir() (string, error) {
	tempOnce.Do(func() {
		tempDir, tempErr = os.MkdirTemp(c.TempDirectory, "spanwall")
	})

	return tempDir, tempErr
}

func Cleanup() error {
	// tempDir is private and can't be set outside of this package
	if tempDir != "" {
		return os.RemoveAll(tempDir)
	}
	return nil
}
