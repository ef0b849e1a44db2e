package server

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// Config holds the server configuration, loadable from a TOML file.
// Flags set on the serve command override file values, which override
// the defaults.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// CacheDir overrides the default file cache location. Ignored when
	// RedisURL is set.
	CacheDir string `toml:"cache_dir"`

	// RedisURL selects the Redis cache backend, e.g. "redis://localhost:6379/0".
	RedisURL string `toml:"redis_url"`

	// MongoURI selects the Mongo run archive, e.g. "mongodb://localhost:27017".
	// When empty, runs are archived in memory and lost on restart.
	MongoURI string `toml:"mongo_uri"`

	// MongoDatabase is the database holding the run collection.
	MongoDatabase string `toml:"mongo_database"`

	// RunsDir selects a file-based run archive, one JSON file per run.
	// Ignored when MongoURI is set.
	RunsDir string `toml:"runs_dir"`

	// Layout tunes the force simulation defaults applied to requests that
	// omit them.
	Layout LayoutConfig `toml:"layout"`

	// Playback tunes the virtual clock defaults.
	Playback PlaybackConfig `toml:"playback"`
}

// LayoutConfig mirrors the layout knobs of playback.Options.
type LayoutConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Seed   uint64  `toml:"seed"`
	Ticks  int     `toml:"ticks"`
}

// PlaybackConfig mirrors the playback knobs of playback.Options.
type PlaybackConfig struct {
	Step float64 `toml:"step"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		MongoDatabase: "pulsegraph",
		Layout: LayoutConfig{
			Width:  playback.DefaultWidth,
			Height: playback.DefaultHeight,
			Seed:   playback.DefaultSeed,
			Ticks:  playback.DefaultTicks,
		},
		Playback: PlaybackConfig{
			Step: playback.DefaultStep,
		},
	}
}

// LoadConfig reads a TOML config file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults copies the configured tuning values onto opts where the
// request left them unset.
func (c Config) applyDefaults(opts *playback.Options) {
	if opts.Width == 0 {
		opts.Width = c.Layout.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Layout.Height
	}
	if opts.Seed == 0 {
		opts.Seed = c.Layout.Seed
	}
	if opts.Ticks == 0 {
		opts.Ticks = c.Layout.Ticks
	}
	if opts.Step == 0 {
		opts.Step = c.Playback.Step
	}
}
