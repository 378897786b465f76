package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/export"
	"github.com/maax3v3/pixrect/internal/imaging"
	"github.com/maax3v3/pixrect/internal/pipeline"
	"github.com/maax3v3/pixrect/internal/server"
)

// Config holds the settings shared by the commands. It can be loaded from a
// YAML file with --config; flags given explicitly override file values.
type Config struct {
	InPath     string `yaml:"in"`
	OutPath    string `yaml:"out"`
	Format     string `yaml:"format"`
	Preview    string `yaml:"preview"`
	Background string `yaml:"background"`
	MaxColors  int    `yaml:"max-colors"`
	Verify     bool   `yaml:"verify"`
	Stats      bool   `yaml:"stats"`

	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max-body-bytes"`

	LogLevel string `yaml:"log-level"`
	LogFile  string `yaml:"log-file"`
}

// DefaultConfig returns the values used when neither a file nor a flag sets
// a field.
func DefaultConfig() Config {
	return Config{
		Background:   "#fff",
		Addr:         ":8080",
		MaxBodyBytes: server.DefaultMaxBodyBytes,
		LogLevel:     "info",
	}
}

// LoadFile reads a YAML config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(imaging.ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// bindFlags registers the flags of the fields listed in names on fs, using
// cfg as both destination and default.
func bindFlags(fs *pflag.FlagSet, cfg *Config, names ...string) {
	for _, name := range names {
		switch name {
		case "in":
			fs.StringVar(&cfg.InPath, name, cfg.InPath, "Path to input image (required, supports PNG, JPEG, GIF, WEBP, BMP, TIFF)")
		case "out":
			fs.StringVar(&cfg.OutPath, name, cfg.OutPath, "Path to the layout file (.json, .yaml, .yml or .svg); stdout when empty")
		case "format":
			fs.StringVar(&cfg.Format, name, cfg.Format, "Output format: json, yaml or svg (default: from --out extension, else json)")
		case "preview":
			fs.StringVar(&cfg.Preview, name, cfg.Preview, "Optional path of a .png reconstruction of the layout")
		case "background":
			fs.StringVar(&cfg.Background, name, cfg.Background, "Hex color treated as empty space (e.g. #fff, #00FF00)")
		case "max-colors":
			fs.IntVar(&cfg.MaxColors, name, cfg.MaxColors, "Merge similar colors down to this many before decomposing (0 = exact colors)")
		case "verify":
			fs.BoolVar(&cfg.Verify, name, cfg.Verify, "Check that the layout reconstructs the input exactly")
		case "stats":
			fs.BoolVar(&cfg.Stats, name, cfg.Stats, "Log layout statistics")
		case "addr":
			fs.StringVar(&cfg.Addr, name, cfg.Addr, "Listen address")
		case "max-body-bytes":
			fs.Int64Var(&cfg.MaxBodyBytes, name, cfg.MaxBodyBytes, "Maximum accepted upload size in bytes")
		case "log-level":
			fs.StringVar(&cfg.LogLevel, name, cfg.LogLevel, "Log level: debug, info, warn, error")
		case "log-file":
			fs.StringVar(&cfg.LogFile, name, cfg.LogFile, "Append logs to this file instead of stderr")
		}
	}
}

// resolve merges flags over an optional config file. Only flags the user
// actually set replace file values.
func resolve(fs *pflag.FlagSet, configPath string, flags Config) (Config, error) {
	if configPath == "" {
		return flags, nil
	}
	cfg, err := LoadFile(configPath)
	if err != nil {
		return Config{}, err
	}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "in":
			cfg.InPath = flags.InPath
		case "out":
			cfg.OutPath = flags.OutPath
		case "format":
			cfg.Format = flags.Format
		case "preview":
			cfg.Preview = flags.Preview
		case "background":
			cfg.Background = flags.Background
		case "max-colors":
			cfg.MaxColors = flags.MaxColors
		case "verify":
			cfg.Verify = flags.Verify
		case "stats":
			cfg.Stats = flags.Stats
		case "addr":
			cfg.Addr = flags.Addr
		case "max-body-bytes":
			cfg.MaxBodyBytes = flags.MaxBodyBytes
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "log-file":
			cfg.LogFile = flags.LogFile
		}
	})
	return cfg, nil
}

// options validates the decomposition settings.
func (c Config) options() (pipeline.Options, error) {
	if c.MaxColors < 0 {
		return pipeline.Options{}, fmt.Errorf("--max-colors must be >= 0, got %d", c.MaxColors)
	}
	bg := color.White
	if c.Background != "" {
		parsed, err := color.ParseHex(c.Background)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("--background: %w", err)
		}
		bg = parsed
	}
	return pipeline.Options{Background: bg, MaxColors: c.MaxColors, Verify: c.Verify}, nil
}

// formatForPath infers the output format from a file extension.
func formatForPath(path string) (export.Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return export.FormatJSON, true
	case ".yaml", ".yml":
		return export.FormatYAML, true
	case ".svg":
		return export.FormatSVG, true
	}
	return "", false
}

// Pipeline validates c for the decompose command.
func (c Config) Pipeline() (pipeline.Config, error) {
	if c.InPath == "" {
		return pipeline.Config{}, fmt.Errorf("--in is required")
	}

	var format export.Format
	if c.Format != "" {
		f, err := export.ParseFormat(c.Format)
		if err != nil {
			return pipeline.Config{}, fmt.Errorf("--format: %w", err)
		}
		format = f
	}
	if c.OutPath != "" {
		ext := strings.ToLower(filepath.Ext(c.OutPath))
		inferred, ok := formatForPath(c.OutPath)
		if !ok {
			return pipeline.Config{}, fmt.Errorf("--out must be a .json, .yaml, .yml or .svg file, got %q", ext)
		}
		if format == "" {
			format = inferred
		} else if format != inferred {
			return pipeline.Config{}, fmt.Errorf("--out extension %q does not match --format %s", ext, format)
		}
	}
	if format == "" {
		format = export.FormatJSON
	}
	if c.Preview != "" {
		if ext := strings.ToLower(filepath.Ext(c.Preview)); ext != ".png" {
			return pipeline.Config{}, fmt.Errorf("--preview must be a .png file, got %q", ext)
		}
	}

	opts, err := c.options()
	if err != nil {
		return pipeline.Config{}, err
	}

	return pipeline.Config{
		InPath:      c.InPath,
		OutPath:     c.OutPath,
		Format:      format,
		PreviewPath: c.Preview,
		Stats:       c.Stats,
		Options:     opts,
	}, nil
}

// Server validates c for the serve command.
func (c Config) Server() (server.Config, error) {
	if c.Addr == "" {
		return server.Config{}, fmt.Errorf("--addr is required")
	}
	if c.MaxBodyBytes <= 0 {
		return server.Config{}, fmt.Errorf("--max-body-bytes must be > 0, got %d", c.MaxBodyBytes)
	}
	opts, err := c.options()
	if err != nil {
		return server.Config{}, err
	}
	return server.Config{Addr: c.Addr, MaxBodyBytes: c.MaxBodyBytes, Options: opts}, nil
}
