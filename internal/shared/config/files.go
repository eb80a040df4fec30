package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"style-finder/internal/shared/telemetry"
)

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already present in the environment are left untouched.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			telemetry.Warn("config.dotenv_failed", map[string]any{"path": path, "err": err.Error()})
		}
	}
}

// loadConfigFile reads a flat YAML mapping of environment keys to values and
// applies every key that is not already set.
func loadConfigFile(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	values, err := readConfigFile(path)
	if err != nil {
		telemetry.Warn("config.file_failed", map[string]any{"path": path, "err": err.Error()})
		return
	}
	for key, val := range values {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		_ = os.Setenv(key, val)
	}
}

func readConfigFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[string]string, len(doc))
	for key, val := range doc {
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" || val == nil {
			continue
		}
		switch v := val.(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out, nil
}
