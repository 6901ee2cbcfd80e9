package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/grocysync/importer/internal/domain"
)

// DefaultConfigFile is the INI file read when no --config is given
const DefaultConfigFile = "grocy_import.ini"

// Config holds all configuration for the importer
type Config struct {
	Grocy  GrocyConfig  `mapstructure:"grocy"`
	Search SearchConfig `mapstructure:"search"`
	Output OutputConfig `mapstructure:"output"`
	Import ImportConfig `mapstructure:"import"`
	Debug  bool         `mapstructure:"debug"`
}

// GrocyConfig holds the connection to the inventory system
type GrocyConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// SearchConfig holds Open Food Facts search configuration
type SearchConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Country             string        `mapstructure:"country"`
	Language            string        `mapstructure:"language"`
	RandomSubcategories bool          `mapstructure:"random_subcategories"`
	FetchDelay          time.Duration `mapstructure:"fetch_delay"`
	RequestsPerMinute   int           `mapstructure:"requests_per_minute"` // 0 disables the limit
	Seed                *int64        `mapstructure:"-"`                   // nil means time-seeded
}

// OutputConfig holds the flat file output configuration
type OutputConfig struct {
	Path  string `mapstructure:"path"`
	Limit int    `mapstructure:"limit"`
}

// ImportConfig holds the Grocy import configuration
type ImportConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Unit        string        `mapstructure:"unit"`
	Location    string        `mapstructure:"location"`
	CreateDelay time.Duration `mapstructure:"create_delay"`
}

// Options controls where Load reads configuration from
type Options struct {
	// ConfigFile is an explicit config path; it must exist when set.
	// Files ending in .ini are read as INI, anything else by viper.
	ConfigFile string

	// Flags are command-line overrides, bound by name (see flagKeys)
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to configuration keys
var flagKeys = map[string]string{
	"grocy-url":      "grocy.url",
	"api-key":        "grocy.api_key",
	"csv":            "output.path",
	"limit":          "output.limit",
	"debug":          "debug",
	"random-subcats": "search.random_subcategories",
	"seed":           "search.seed",
}

// Load loads configuration from defaults, config file, environment and flags
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Environment variable settings: GROCYSYNC_GROCY_API_KEY -> grocy.api_key
	v.SetEnvPrefix("GROCYSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("unable to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: unable to decode config: %v", domain.ErrInvalidConfig, err)
	}

	if raw := strings.TrimSpace(v.GetString("search.seed")); v.IsSet("search.seed") && raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: seed must be an integer, got: %q", domain.ErrInvalidConfig, raw)
		}
		config.Search.Seed = &seed
	}

	config.Grocy.URL = strings.TrimSpace(config.Grocy.URL)
	config.Grocy.APIKey = strings.TrimSpace(config.Grocy.APIKey)
	config.Output.Path = strings.TrimSpace(config.Output.Path)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ResolveImportMode applies the --import / --no-import flags: --import
// always enables the import, --no-import only overrides the config file
func (c *Config) ResolveImportMode(doImport, noImport bool) {
	c.Import.Enabled = doImport || (c.Import.Enabled && !noImport)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Grocy has no usable defaults; registered so env vars are unmarshalled
	v.SetDefault("grocy.url", "")
	v.SetDefault("grocy.api_key", "")

	// Search defaults
	v.SetDefault("search.base_url", "https://world.openfoodfacts.org/cgi/search.pl")
	v.SetDefault("search.country", "Germany")
	v.SetDefault("search.language", "de")
	v.SetDefault("search.random_subcategories", false)
	v.SetDefault("search.fetch_delay", "250ms")
	v.SetDefault("search.requests_per_minute", 10)

	// Output defaults
	v.SetDefault("output.path", "products_sync.csv")
	v.SetDefault("output.limit", 200)

	// Import defaults
	v.SetDefault("import.enabled", false)
	v.SetDefault("import.unit", "Stück")
	v.SetDefault("import.location", "Vorrat")
	v.SetDefault("import.create_delay", "100ms")

	v.SetDefault("debug", false)
}

// readConfigFile merges the config file into v. Without an explicit path
// the default file is used when present.
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			// Config file not found; using environment variables and defaults
			return nil
		}
		path = DefaultConfigFile
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: config file %s not found (create one with --init-config)", domain.ErrInvalidConfig, path)
	}

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return mergeINI(v, path)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: error reading config file: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Grocy.URL == "" || config.Grocy.APIKey == "" {
		return fmt.Errorf("%w: grocy_url or api_key missing (set GROCYSYNC_GROCY_URL and GROCYSYNC_GROCY_API_KEY)", domain.ErrInvalidConfig)
	}

	if config.Output.Path == "" {
		return fmt.Errorf("%w: output path must not be empty", domain.ErrInvalidConfig)
	}

	if config.Output.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got: %d", domain.ErrInvalidConfig, config.Output.Limit)
	}

	if config.Search.FetchDelay < 0 || config.Import.CreateDelay < 0 {
		return fmt.Errorf("%w: delays must not be negative", domain.ErrInvalidConfig)
	}

	return nil
}
