package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mainbong/restaurant_finder/internal/filesystem"
	"github.com/mainbong/restaurant_finder/internal/geo"
	"github.com/mainbong/restaurant_finder/internal/places"
)

const (
	PlacesKeyEnv = "FOURSQUARE_API_KEY"
	TileKeyEnv   = "MAPTILER_API_KEY"

	MaxLimit  = 50
	MaxRadius = 100000
)

// Config holds the application configuration
type Config struct {
	Places struct {
		APIKey   string `json:"api_key" yaml:"api_key" toml:"api_key"`
		Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	} `json:"places" yaml:"places" toml:"places"`
	Map struct {
		TileKey string `json:"tile_key" yaml:"tile_key" toml:"tile_key"`
	} `json:"map" yaml:"map" toml:"map"`
	Center geo.Point `json:"center" yaml:"center" toml:"center"`
	Search struct {
		Query  string `json:"query" yaml:"query" toml:"query"`
		Limit  int    `json:"limit" yaml:"limit" toml:"limit"`
		Radius int    `json:"radius" yaml:"radius" toml:"radius"` // meters, 0 = API default
		Sort   string `json:"sort" yaml:"sort" toml:"sort"`
	} `json:"search" yaml:"search" toml:"search"`
	LogDir   string `json:"log_dir" yaml:"log_dir" toml:"log_dir"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"` // "debug", "info", "warn", "error"
}

var (
	configDir = filepath.Join(os.Getenv("HOME"), ".restaurant-finder")
	defaultFS = filesystem.NewOSFileSystem()

	// candidate file names, first existing wins
	configNames = []string{"config.json", "config.yaml", "config.yml", "config.toml"}
)

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{}
	cfg.Places.Endpoint = places.DefaultEndpoint
	cfg.Center = geo.DefaultCenter
	cfg.Search.Query = "restaurant"
	cfg.Search.Limit = places.DefaultLimit
	cfg.Search.Sort = string(places.SortRelevance)
	cfg.LogDir = filepath.Join(dir, "logs")
	cfg.LogLevel = "info"
	return cfg
}

// Load loads the configuration from file or creates a default one
func Load() (*Config, error) {
	file := ResolveFile(defaultFS, configDir)
	return LoadWithFS(defaultFS, configDir, file)
}

// ResolveFile returns the first existing config file in dir, or config.json.
func ResolveFile(fs filesystem.FileSystem, dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := fs.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(dir, configNames[0])
}

// LoadWithFS loads the configuration using a custom FileSystem (for testing)
func LoadWithFS(fs filesystem.FileSystem, dir, file string) (*Config, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := Default(dir)

	if _, err := fs.Stat(file); err == nil {
		data, err := fs.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := Unmarshal(file, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		// prefer env keys before saving defaults
		cfg.loadAPIKeysFromEnv()
		if err := cfg.SaveWithFS(fs, file); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	if cfg.loadAPIKeysFromEnv() {
		if err := cfg.SaveWithFS(fs, file); err != nil {
			return nil, fmt.Errorf("failed to save api keys from env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.ensureDir(fs, file, "log_dir", &cfg.LogDir, filepath.Join(dir, "logs")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to file
func (c *Config) Save() error {
	return c.SaveWithFS(defaultFS, ResolveFile(defaultFS, configDir))
}

// SaveWithFS saves the configuration using a custom FileSystem (for testing)
func (c *Config) SaveWithFS(fs filesystem.FileSystem, file string) error {
	data, err := Marshal(file, c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(file)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := fs.WriteFile(file, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal encodes cfg in the format implied by the file extension.
func Marshal(file string, cfg *Config) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	case ".toml":
		return toml.Marshal(cfg)
	default:
		return json.MarshalIndent(cfg, "", "  ")
	}
}

// Unmarshal decodes data in the format implied by the file extension.
func Unmarshal(file string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFile returns the configuration file path
func GetConfigFile() string {
	return ResolveFile(defaultFS, configDir)
}

// loadAPIKeysFromEnv fills empty keys from the environment and reports
// whether anything changed.
func (c *Config) loadAPIKeysFromEnv() bool {
	changed := false
	if c.Places.APIKey == "" {
		if envKey := os.Getenv(PlacesKeyEnv); envKey != "" {
			c.Places.APIKey = envKey
			changed = true
		}
	}
	if c.Map.TileKey == "" {
		if envKey := os.Getenv(TileKeyEnv); envKey != "" {
			c.Map.TileKey = envKey
			changed = true
		}
	}
	return changed
}

func (c *Config) ensureDir(fs filesystem.FileSystem, file, key string, value *string, fallback string) error {
	if strings.TrimSpace(*value) == "" {
		*value = fallback
		if err := c.SaveWithFS(fs, file); err != nil {
			return fmt.Errorf("failed to save default %s: %w", key, err)
		}
	}

	if err := fs.MkdirAll(*value, 0755); err != nil {
		*value = fallback
		if err := fs.MkdirAll(*value, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", key, err)
		}
		if err := c.SaveWithFS(fs, file); err != nil {
			return fmt.Errorf("failed to save fallback %s: %w", key, err)
		}
	}

	return nil
}

// Validate checks value ranges of a loaded config.
func (c *Config) Validate() error {
	if !c.Center.Valid() {
		return fmt.Errorf("invalid center: %s", c.Center)
	}
	if c.Search.Limit < 1 || c.Search.Limit > MaxLimit {
		return fmt.Errorf("invalid search.limit: %d (1-%d)", c.Search.Limit, MaxLimit)
	}
	if c.Search.Radius < 0 || c.Search.Radius > MaxRadius {
		return fmt.Errorf("invalid search.radius: %d (0-%d)", c.Search.Radius, MaxRadius)
	}
	if _, err := places.ParseSortKey(c.Search.Sort); err != nil {
		return fmt.Errorf("invalid search.sort: %w", err)
	}
	return nil
}

// SortKey returns the configured default sort.
func (c *Config) SortKey() places.SortKey {
	key, err := places.ParseSortKey(c.Search.Sort)
	if err != nil {
		return places.SortRelevance
	}
	return key
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() Config {
	out := *c
	out.Places.APIKey = mask(c.Places.APIKey)
	out.Map.TileKey = mask(c.Map.TileKey)
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + strings.Repeat("*", 8)
}

// Set updates a config value by key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "places.api_key":
		c.Places.APIKey = value
	case "places.endpoint":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("invalid places.endpoint: %s", value)
		}
		c.Places.Endpoint = value
	case "map.tile_key":
		c.Map.TileKey = value
	case "center":
		parts := strings.Split(value, ",")
		if len(parts) != 2 {
			return fmt.Errorf("invalid center: %s (expected lat,lon)", value)
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		point := geo.Point{Lat: lat, Lon: lon}
		if errLat != nil || errLon != nil || !point.Valid() {
			return fmt.Errorf("invalid center: %s", value)
		}
		c.Center = point
	case "search.query":
		c.Search.Query = value
	case "search.limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > MaxLimit {
			return fmt.Errorf("invalid search.limit: %s", value)
		}
		c.Search.Limit = n
	case "search.radius":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > MaxRadius {
			return fmt.Errorf("invalid search.radius: %s", value)
		}
		c.Search.Radius = n
	case "search.sort":
		sort, err := places.ParseSortKey(value)
		if err != nil {
			return fmt.Errorf("invalid search.sort: %s", value)
		}
		c.Search.Sort = string(sort)
	case "log_dir":
		c.LogDir = value
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_level: %s", value)
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}
