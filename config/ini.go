package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"

	"github.com/grocysync/importer/internal/domain"
)

// iniKeys maps keys of the [grocy] INI section to configuration keys
var iniKeys = map[string]string{
	"grocy_url":            "grocy.url",
	"api_key":              "grocy.api_key",
	"csv_path":             "output.path",
	"limit":                "output.limit",
	"debug":                "debug",
	"import_to_grocy":      "import.enabled",
	"random_subcategories": "search.random_subcategories",
	"seed":                 "search.seed",
}

var boolKeys = map[string]bool{
	"debug":                       true,
	"import.enabled":              true,
	"search.random_subcategories": true,
}

const exampleINI = `[grocy]
grocy_url = http://localhost:9283
api_key = YOUR_API_KEY
csv_path = products_sync.csv
limit = 200
debug = false
import_to_grocy = false
random_subcategories = true
`

// mergeINI reads an INI file and merges it into v below env and flags.
// Keys of the [grocy] section use their historical names; other sections
// map to "<section>.<key>".
func mergeINI(v *viper.Viper, path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("%w: error reading config file %s: %v", domain.ErrInvalidConfig, path, err)
	}

	settings := make(map[string]any)
	for _, section := range file.Sections() {
		name := strings.ToLower(section.Name())
		if name == ini.DefaultSection {
			continue
		}
		for _, key := range section.Keys() {
			target := name + "." + strings.ToLower(key.Name())
			if name == "grocy" {
				if mapped, ok := iniKeys[strings.ToLower(key.Name())]; ok {
					target = mapped
				}
			}
			value := strings.TrimSpace(key.Value())
			if boolKeys[target] {
				setNested(settings, target, parseBool(value))
				continue
			}
			setNested(settings, target, value)
		}
	}

	return v.MergeConfigMap(settings)
}

// setNested stores value under a dotted key, creating intermediate maps
func setNested(settings map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := settings
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// parseBool accepts the usual INI spellings; anything else is false
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// WriteExample writes a sample INI config to path
func WriteExample(path string) error {
	if err := os.WriteFile(path, []byte(exampleINI), 0o644); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}
