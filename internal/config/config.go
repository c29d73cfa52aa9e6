package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

/*
Config System Design:
Values are resolved with the following precedence (highest to lowest):

1. Runtime overrides (CLI flags)
2. Environment variables (PLAYGROUND_MODEL_NAME, PLAYGROUND_API_KEY, ...), including .env
3. Local project config (./.playground/*playground.{yaml,yml,json})
4. Global user config ($XDG_CONFIG_HOME/playground/*playground.{yaml,yml,json})
5. Defaults

Files in each directory are merged alphabetically. Lists combine without duplicates,
maps are deep merged and scalars are overridden.
*/

const appName = "playground"

// envVarConfig defines an environment variable mapping
type envVarConfig struct {
	key      string // Key in the config
	envVar   string // Environment variable name
	isSecret bool   // Whether to redact in logs
}

// Environment variables to load beyond the automatic PLAYGROUND_ prefix
var envVars = []envVarConfig{
	{key: "model.apikey", envVar: "PLAYGROUND_API_KEY", isSecret: true},
	{key: "model.apikey", envVar: "OPENAI_API_KEY", isSecret: true},
}

var defaults = map[string]interface{}{
	"model.provider":    "ollama",
	"model.name":        "llama3",
	"model.endpoint":    "http://localhost:11434/api/chat",
	"model.temperature": 0.7,
	"model.timeout":     "120s",
	"model.apikey":      "",
	"log.level":         "WARN",
	"log.file":          "",
}

type configSource struct {
	value  interface{}
	source string
}

// SearchDirs returns the global and local config directories, in merge order
func SearchDirs() ([]string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return []string{
		filepath.Join(xdgConfig, appName),
		"." + appName,
	}, nil
}

// New loads configuration from the standard locations and applies overrides
func New(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	dirs, err := SearchDirs()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directories: %w", err)
	}
	loadEnv()
	return Load(dirs, overrides)
}

// Load builds the configuration from the given directories, the environment and overrides
func Load(dirs []string, overrides *RuntimeOverrides) (*ConfigSchema, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env.envVar, err)
		}
	}

	sources := make(map[string][]configSource)
	merged, err := loadConfigs(dirs, sources)
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(merged); err != nil {
		return nil, fmt.Errorf("error merging config: %w", err)
	}
	trackEnvSources(sources)

	var cfg ConfigSchema
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrides.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	warnUnknownKeys(merged)
	cfg.settings = v.AllSettings()
	cfg.sources = sources
	return &cfg, nil
}

// findConfigFiles returns all *playground.{yaml,yml,json} files in a directory
func findConfigFiles(dir string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, ext := range []string{".yaml", ".yml", ".json"} {
			if name == appName+ext || strings.HasSuffix(name, "."+appName+ext) {
				files = append(files, filepath.Join(dir, name))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func loadConfigs(dirs []string, sources map[string][]configSource) (map[string]interface{}, error) {
	merged := make(map[string]interface{})

	for _, dir := range dirs {
		files, err := findConfigFiles(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}

		for _, f := range files {
			v := viper.New()
			v.SetConfigFile(f)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", f, err)
			}

			settings := v.AllSettings()
			trackSources(sources, "", settings, f)
			merged = mergeMapRecursive(merged, settings)
		}
	}
	return merged, nil
}

func mergeMapRecursive(existing, new map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	// Copy existing map
	for k, v := range existing {
		result[k] = v
	}

	// Merge new map
	for k, v := range new {
		if existing[k] == nil {
			result[k] = v
			continue
		}

		switch existingVal := existing[k].(type) {
		case map[string]interface{}:
			if newVal, ok := v.(map[string]interface{}); ok {
				result[k] = mergeMapRecursive(existingVal, newVal)
			} else {
				result[k] = v
			}
		case []interface{}:
			if newVal, ok := v.([]interface{}); ok {
				result[k] = combineUnique(existingVal, newVal)
			} else {
				result[k] = v
			}
		default:
			result[k] = v
		}
	}

	return result
}

func combineUnique(existing, new []interface{}) []interface{} {
	seen := make(map[string]bool)
	combined := make([]interface{}, 0, len(existing)+len(new))
	for _, list := range [][]interface{}{existing, new} {
		for _, v := range list {
			// Keyed by type and value so lists of maps do not panic
			id := fmt.Sprintf("%T:%v", v, v)
			if !seen[id] {
				seen[id] = true
				combined = append(combined, v)
			}
		}
	}
	return combined
}

// trackSources records which file set each leaf key
func trackSources(sources map[string][]configSource, prefix string, settings map[string]interface{}, filename string) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			trackSources(sources, fullKey, nested, filename)
			continue
		}
		sources[fullKey] = append(sources[fullKey], configSource{
			value:  value,
			source: filename,
		})
	}
}

func trackEnvSources(sources map[string][]configSource) {
	for _, env := range envVars {
		if val := os.Getenv(env.envVar); val != "" {
			displayVal := interface{}(val)
			if env.isSecret {
				displayVal = "[REDACTED]"
			}
			sources[env.key] = append(sources[env.key], configSource{
				value:  displayVal,
				source: fmt.Sprintf("%s environment variable", env.envVar),
			})
		}
	}
}

func warnUnknownKeys(settings map[string]interface{}) {
	known := GetKnownKeys()
	for _, key := range flattenKeys("", settings) {
		if !IsKnownKey(known, key) {
			slog.Warn("unknown configuration key", "key", key)
		}
	}
}

func flattenKeys(prefix string, settings map[string]interface{}) []string {
	var keys []string
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok && !strings.HasPrefix(fullKey, "variables") {
			keys = append(keys, flattenKeys(fullKey, nested)...)
			continue
		}
		keys = append(keys, fullKey)
	}
	return keys
}

// Validate validates the configuration against the schema
func (s *ConfigSchema) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// PrintConfig writes the merged configuration as YAML with secrets redacted.
// A non-empty prefix such as "model" limits output to that subtree.
func (s *ConfigSchema) PrintConfig(w io.Writer, includeSources bool, prefix string) error {
	var out interface{} = redact(s.settings)
	if prefix != "" {
		for _, part := range strings.Split(strings.ToLower(prefix), ".") {
			m, ok := out.(map[string]interface{})
			if !ok {
				return fmt.Errorf("no configuration under %q", prefix)
			}
			if out, ok = m[part]; !ok {
				return fmt.Errorf("no configuration under %q", prefix)
			}
		}
	}

	// Round trip through JSON so YAML output has stable, plain types
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	var plain interface{}
	if err := json.Unmarshal(jsonBytes, &plain); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return fmt.Errorf("error converting to YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if includeSources {
		s.printSources(w, strings.ToLower(prefix))
	}
	return nil
}

func (s *ConfigSchema) printSources(w io.Writer, prefix string) {
	keys := make([]string, 0, len(s.sources))
	for key := range s.sources {
		if prefix == "" || key == prefix || strings.HasPrefix(key, prefix+".") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "# sources (unlisted keys use defaults)")
	for _, key := range keys {
		list := s.sources[key]
		fmt.Fprintf(w, "# %s: %s\n", key, list[len(list)-1].source)
	}
}

func redact(settings map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		switch val := v.(type) {
		case map[string]interface{}:
			if k == "variables" {
				out[k] = val
			} else {
				out[k] = redact(val)
			}
		default:
			if isSecretKey(k) && val != "" && val != nil {
				out[k] = "[REDACTED]"
			} else {
				out[k] = val
			}
		}
	}
	return out
}

func isSecretKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "key") ||
		strings.Contains(strings.ToLower(key), "secret") ||
		strings.Contains(strings.ToLower(key), "password")
}
