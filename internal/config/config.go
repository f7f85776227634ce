package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"vacationcal/internal/geometry"
	appLog "vacationcal/internal/log"
	"vacationcal/internal/source"
)

// Config is the top-level application configuration.
type Config struct {
	// CSVPath is the vacation record file. A missing file is non-fatal.
	CSVPath string `yaml:"csv_path"`

	// ICS lists optional calendar feeds merged with the CSV records.
	ICS []source.Feed `yaml:"ics"`

	// OutputSVG is where the rendered document is written.
	OutputSVG string `yaml:"output_svg"`

	// OutputPNG, if non-empty, enables headless-Chromium rasterization of
	// the SVG after each render.
	OutputPNG string `yaml:"output_png"`

	// Listen is the HTTP address for the preview server (serve mode).
	Listen string `yaml:"listen"`

	// Timezone is the IANA zone timed ICS events are collapsed to calendar
	// days in. Empty means the system zone.
	Timezone string `yaml:"timezone"`

	// RefreshCron schedules periodic re-renders in serve mode.
	RefreshCron string `yaml:"refresh"`

	// CacheDir backs the ICS feed HTTP cache.
	CacheDir string `yaml:"cache_dir"`

	// WeekdayLabels overrides the header labels, Monday first.
	WeekdayLabels []string `yaml:"weekday_labels,omitempty"`

	// Geometry holds the purely geometric layout options.
	Geometry geometry.Config `yaml:"geometry"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		CSVPath:     "vacation.csv",
		ICS:         []source.Feed{},
		OutputSVG:   "calendar.svg",
		OutputPNG:   "",
		Listen:      "127.0.0.1:8080",
		Timezone:    "",
		RefreshCron: "*/30 * * * *",
		CacheDir:    "./var/feed-cache",
	}
	cfg.Geometry.Normalize()
	return cfg
}

// Normalize fills missing/zero values so partially-filled configs behave.
func (c *Config) Normalize() {
	if c.CSVPath == "" {
		c.CSVPath = "vacation.csv"
	}
	if c.OutputSVG == "" {
		c.OutputSVG = "calendar.svg"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/feed-cache"
	}
	if c.ICS == nil {
		c.ICS = []source.Feed{}
	}
	if len(c.WeekdayLabels) != 0 && len(c.WeekdayLabels) != 7 {
		// A partial label list would misalign the header; drop it.
		c.WeekdayLabels = nil
	}
	c.Geometry.Normalize()
}

// Location resolves the configured timezone, falling back to the system
// zone on an empty or invalid name.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("invalid timezone, falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path. A missing file is a
// first run: a default config is written (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".vacationcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
