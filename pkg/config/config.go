// Package config loads tricktrack settings from TOML files.
//
// A configuration file has five sections:
//
//	[cuts]       ptmin, theta_cut, phi_cut, hard_pt_cut
//	[region]     x, y, radius of the beam region disk
//	[automaton]  minimum_level, min_hits, max_iterations, workers, triplets_only
//	[cache]      backend (file, redis, none), dir, redis_url, ttl
//	[store]      backend (memory, mongo), mongo_uri, database
//
// Keys missing from a file keep the values of [Default]. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tricktrack/pkg/automaton"
	"github.com/matzehuels/tricktrack/pkg/errors"
	"github.com/matzehuels/tricktrack/pkg/pipeline"
)

// =============================================================================
// Backends
// =============================================================================

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// =============================================================================
// Sections
// =============================================================================

// Config is the complete tricktrack configuration.
type Config struct {
	Cuts      Cuts      `toml:"cuts"`
	Region    Region    `toml:"region"`
	Automaton Automaton `toml:"automaton"`
	Cache     Cache     `toml:"cache"`
	Store     Store     `toml:"store"`
}

// Cuts are the compatibility thresholds.
type Cuts struct {
	PtMin     float64 `toml:"ptmin"`
	ThetaCut  float64 `toml:"theta_cut"`
	PhiCut    float64 `toml:"phi_cut"`
	HardPtCut float64 `toml:"hard_pt_cut"`
}

// Region is the beam region disk in the x-y plane.
type Region struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Radius float64 `toml:"radius"`
}

// Automaton controls evolution and extraction.
type Automaton struct {
	// MinimumLevel is the root threshold. Nil means MinHits-2.
	MinimumLevel  *int `toml:"minimum_level,omitempty"`
	MinHits       int  `toml:"min_hits"`
	MaxIterations int  `toml:"max_iterations"`
	Workers       int  `toml:"workers"`
	TripletsOnly  bool `toml:"triplets_only"`
}

// Cache selects where pipeline results are cached.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir,omitempty"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Store selects where runs submitted to the HTTP API are kept.
type Store struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// =============================================================================
// Loading
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cuts: Cuts{
			PtMin:     0.8,
			ThetaCut:  0.002,
			PhiCut:    0.2,
			HardPtCut: 0,
		},
		Region: Region{Radius: 0.1},
		Automaton: Automaton{
			MinHits: 4,
		},
		Cache: Cache{
			Backend:  CacheFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      Duration(24 * time.Hour),
		},
		Store: Store{
			Backend:  StoreMemory,
			MongoURI: "mongodb://localhost:27017",
			Database: "tricktrack",
		},
	}
}

// Load reads and validates the configuration file at path.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Decode(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, nil
}

// Decode parses TOML on top of the defaults and validates the result.
func Decode(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Validation
// =============================================================================

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid cuts")
	}
	if err := errors.ValidatePositive("cuts.ptmin", c.Cuts.PtMin); err != nil {
		return invalid(err)
	}

	a := c.Automaton
	if err := errors.ValidateMinHits(a.MinHits); err != nil {
		return invalid(err)
	}
	if a.MinimumLevel != nil && *a.MinimumLevel < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "automaton.minimum_level must not be negative, got %d", *a.MinimumLevel)
	}
	if a.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "automaton.max_iterations must not be negative, got %d", a.MaxIterations)
	}
	if a.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "automaton.workers must not be negative, got %d", a.Workers)
	}
	if a.TripletsOnly && a.MinHits != errors.MinHits {
		return errors.New(errors.ErrCodeInvalidConfig, "automaton.triplets_only requires min_hits = %d, got %d", errors.MinHits, a.MinHits)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss", "unix"); err != nil {
			return invalid(err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", time.Duration(c.Cache.TTL))
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if err := errors.ValidateURL(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return invalid(err)
		}
		if c.Store.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.database cannot be empty")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend must be one of memory, mongo, got %q", c.Store.Backend)
	}
	return nil
}

func invalid(err error) error {
	return errors.New(errors.ErrCodeInvalidConfig, "%s", errors.UserMessage(err))
}

// =============================================================================
// Conversion
// =============================================================================

// Params returns the compatibility cuts.
func (c *Config) Params() automaton.Params {
	return automaton.Params{
		PtMin:              c.Cuts.PtMin,
		RegionOriginX:      c.Region.X,
		RegionOriginY:      c.Region.Y,
		RegionOriginRadius: c.Region.Radius,
		ThetaCut:           c.Cuts.ThetaCut,
		PhiCut:             c.Cuts.PhiCut,
		HardPtCut:          c.Cuts.HardPtCut,
	}
}

// MinimumLevel returns the root threshold, defaulting to min_hits-2.
func (c *Config) MinimumLevel() int {
	if c.Automaton.MinimumLevel != nil {
		return *c.Automaton.MinimumLevel
	}
	return c.Automaton.MinHits - 2
}

// Options returns the pipeline options described by the configuration.
// An unset minimum_level stays unset so that overriding MinHits moves the
// root threshold with it.
func (c *Config) Options() pipeline.Options {
	opts := pipeline.Options{
		Params:        c.Params(),
		MinHits:       c.Automaton.MinHits,
		MaxIterations: c.Automaton.MaxIterations,
		Workers:       c.Automaton.Workers,
		TripletsOnly:  c.Automaton.TripletsOnly,
		CacheTTL:      c.CacheTTL(),
	}
	if c.Automaton.MinimumLevel != nil {
		level := *c.Automaton.MinimumLevel
		opts.MinimumLevel = &level
	}
	return opts
}

// CacheTTL returns the result cache lifetime.
func (c *Config) CacheTTL() time.Duration { return time.Duration(c.Cache.TTL) }
