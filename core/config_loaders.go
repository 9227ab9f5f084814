package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultEnvPrefix = "CANCEL_ACCOUNTS_"

// FileConfigLoader reads a YAML config file. An empty path yields no values.
type FileConfigLoader struct {
	Path string
}

func (l FileConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	path := strings.TrimSpace(l.Path)
	if path == "" {
		return map[string]any{}, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return raw, nil
}

type envBinding struct {
	section string
	key     string
	kind    string
}

var envBindings = map[string]envBinding{
	"SOURCE_PATH":               {section: "source", key: "path", kind: "string"},
	"SOURCE_COLUMN":             {section: "source", key: "column", kind: "string"},
	"API_ENDPOINT":              {section: "api", key: "endpoint", kind: "string"},
	"API_KEY":                   {section: "api", key: "api_key", kind: "string"},
	"API_TIMEOUT_SECONDS":       {section: "api", key: "timeout_seconds", kind: "int"},
	"API_MAX_RESPONSE_BYTES":    {section: "api", key: "max_response_bytes", kind: "int64"},
	"RATE_LIMIT_CALLS":          {section: "rate_limit", key: "calls", kind: "int"},
	"RATE_LIMIT_WINDOW_SECONDS": {section: "rate_limit", key: "window_seconds", kind: "int"},
	"DRY_RUN":                   {section: "run", key: "dry_run", kind: "bool"},
	"LOG_LEVEL":                 {section: "logging", key: "level", kind: "string"},
	"LOG_FORMAT":                {section: "logging", key: "format", kind: "string"},
	"LOG_OUTPUT":                {section: "logging", key: "output", kind: "string"},
}

// EnvConfigLoader maps prefixed environment variables onto config keys.
// Values from DotEnvFiles are read first; the process environment wins.
// Missing dotenv files are ignored.
type EnvConfigLoader struct {
	Prefix      string
	DotEnvFiles []string
	Lookup      func(key string) (string, bool)
}

func NewEnvConfigLoader(dotEnvFiles ...string) EnvConfigLoader {
	return EnvConfigLoader{
		Prefix:      DefaultEnvPrefix,
		DotEnvFiles: dotEnvFiles,
		Lookup:      os.LookupEnv,
	}
}

func (l EnvConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	prefix := l.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	fileValues := map[string]string{}
	for _, file := range l.DotEnvFiles {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		for key, value := range values {
			fileValues[key] = value
		}
	}

	raw := map[string]any{}
	for suffix, binding := range envBindings {
		name := prefix + suffix
		value, ok := lookup(name)
		if !ok {
			value, ok = fileValues[name]
		}
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			continue
		}
		typed, err := convertEnvValue(value, binding.kind)
		if err != nil {
			return nil, fmt.Errorf("config: invalid %s: %w", name, err)
		}
		section, _ := raw[binding.section].(map[string]any)
		if section == nil {
			section = map[string]any{}
			raw[binding.section] = section
		}
		section[binding.key] = typed
	}
	return raw, nil
}

func convertEnvValue(value string, kind string) (any, error) {
	switch kind {
	case "int":
		return strconv.Atoi(value)
	case "int64":
		return strconv.ParseInt(value, 10, 64)
	case "bool":
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}

// ChainConfigLoader merges loaders in order; later loaders override earlier
// ones key by key.
type ChainConfigLoader []RawConfigLoader

func (c ChainConfigLoader) LoadRaw(ctx context.Context) (map[string]any, error) {
	merged := map[string]any{}
	for _, loader := range c {
		if loader == nil {
			continue
		}
		raw, err := loader.LoadRaw(ctx)
		if err != nil {
			return nil, err
		}
		mergeRaw(merged, raw)
	}
	return merged, nil
}

func mergeRaw(dst map[string]any, src map[string]any) {
	for key, value := range src {
		nested, ok := value.(map[string]any)
		if !ok {
			dst[key] = value
			continue
		}
		existing, ok := dst[key].(map[string]any)
		if !ok {
			existing = map[string]any{}
			dst[key] = existing
		}
		mergeRaw(existing, nested)
	}
}

func cloneRaw(input map[string]any) map[string]any {
	out := map[string]any{}
	mergeRaw(out, input)
	return out
}
