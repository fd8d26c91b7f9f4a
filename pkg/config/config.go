// Package config loads timeline settings from .timeline files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// EnvConfigPath points at a directory holding a .timeline config file.
	EnvConfigPath = "TIMELINE_CONFIG_PATH"

	DefaultPath        = "~/.timeline.db"
	DefaultBackend     = "diskv"
	DefaultLogLevel    = "warn"
	DefaultHeatmapDays = 60
)

// Config is what the stores and commands need to know about the environment.
type Config interface {
	BasePath() string
	Backend() string
	ImagesPath() string
	LogLevel() string
	HeatmapDays() int
	// File is the config file that was read, empty when none was found.
	File() string
}

// Load reads .timeline(.yaml) from $TIMELINE_CONFIG_PATH or ./ and applies
// TIMELINE_* environment overrides.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("backend", DefaultBackend)
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("heatmap-days", DefaultHeatmapDays)
	v.SetConfigName(".timeline") // .yaml is implicit
	v.SetEnvPrefix("TIMELINE")
	v.AutomaticEnv()

	if override := os.Getenv(EnvConfigPath); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}
	images := v.GetString("images")
	if images == "" {
		images = filepath.Join(path, "images")
	} else if images, err = homedir.Expand(images); err != nil {
		return nil, fmt.Errorf("config: expand images: %w", err)
	}

	days := v.GetInt("heatmap-days")
	if days <= 0 {
		days = DefaultHeatmapDays
	}

	return &fileConfig{
		Path:   path,
		Images: images,
		Store:  v.GetString("backend"),
		Level:  v.GetString("log-level"),
		Days:   days,
		Used:   v.ConfigFileUsed(),
	}, nil
}

type fileConfig struct {
	Path   string `json:"path"`
	Images string `json:"images"`
	Store  string `json:"backend"`
	Level  string `json:"log-level"`
	Days   int    `json:"heatmap-days"`
	Used   string `json:"-"`
}

func (f *fileConfig) BasePath() string   { return f.Path }
func (f *fileConfig) Backend() string    { return f.Store }
func (f *fileConfig) ImagesPath() string { return f.Images }
func (f *fileConfig) LogLevel() string   { return f.Level }
func (f *fileConfig) HeatmapDays() int   { return f.Days }
func (f *fileConfig) File() string       { return f.Used }

// Static is a fixed Config, handy for tests and embedding.
type Static struct {
	Path   string
	Store  string
	Images string
	Level  string
	Days   int
}

func (s Static) BasePath() string { return s.Path }

func (s Static) Backend() string {
	if s.Store == "" {
		return DefaultBackend
	}
	return s.Store
}

func (s Static) ImagesPath() string {
	if s.Images == "" {
		return filepath.Join(s.Path, "images")
	}
	return s.Images
}

func (s Static) LogLevel() string {
	if s.Level == "" {
		return DefaultLogLevel
	}
	return s.Level
}

func (s Static) HeatmapDays() int {
	if s.Days <= 0 {
		return DefaultHeatmapDays
	}
	return s.Days
}

func (s Static) File() string { return "" }
