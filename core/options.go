package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

// ResolveConfig loads the configured sources on top of the defaults and lets
// the runtime values (CLI flags) win over both.
func ResolveConfig(ctx context.Context, runtime Config, provider ConfigProvider, resolver OptionsResolver) (Config, error) {
	if provider == nil {
		provider = NewCfgxConfigProvider(nil)
	}
	if resolver == nil {
		resolver = GoOptionsResolver{}
	}
	defaults := DefaultConfig()
	loaded, err := provider.Load(ctx, defaults)
	if err != nil {
		return Config{}, err
	}
	return resolver.Resolve(defaults, loaded, runtime)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	return cloneRaw(l.Values), nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

// Load builds a typed config from the raw loader output. Validation is left
// to the resolver because required values may still arrive from the runtime
// layer.
func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
	)
	if err != nil {
		return Config{}, fmt.Errorf("config: build loaded config: %w", err)
	}
	return cfg, nil
}

// GoOptionsResolver layers defaults, loaded config and runtime values. Zero
// runtime values are treated as unset unless their dotted key (for example
// "run.dry_run") is listed in RuntimeKeys.
type GoOptionsResolver struct {
	RuntimeKeys []string
}

func (r GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	explicit := make(map[string]bool, len(r.RuntimeKeys))
	for _, key := range r.RuntimeKeys {
		explicit[strings.TrimSpace(key)] = true
	}
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true, nil),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, true, nil),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false, explicit),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("config: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("config: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// configToLayerMap flattens cfg into a go-options layer. Loaded config already
// carries the defaults, so it is layered whole.
func configToLayerMap(cfg Config, includeZero bool, explicit map[string]bool) map[string]any {
	layer := map[string]any{}
	putSection(layer, "source", map[string]any{
		"path":   strings.TrimSpace(cfg.Source.Path),
		"column": strings.TrimSpace(cfg.Source.Column),
	}, includeZero, explicit)
	putSection(layer, "api", map[string]any{
		"endpoint":           strings.TrimSpace(cfg.API.Endpoint),
		"api_key":            strings.TrimSpace(cfg.API.APIKey),
		"timeout_seconds":    cfg.API.TimeoutSeconds,
		"max_response_bytes": cfg.API.MaxResponseBytes,
	}, includeZero, explicit)
	putSection(layer, "rate_limit", map[string]any{
		"calls":          cfg.RateLimit.Calls,
		"window_seconds": cfg.RateLimit.WindowSeconds,
	}, includeZero, explicit)
	putSection(layer, "run", map[string]any{
		"dry_run": cfg.Run.DryRun,
	}, includeZero, explicit)
	putSection(layer, "logging", map[string]any{
		"level":  strings.TrimSpace(cfg.Logging.Level),
		"format": strings.TrimSpace(cfg.Logging.Format),
		"output": strings.TrimSpace(cfg.Logging.Output),
	}, includeZero, explicit)
	return layer
}

func putSection(layer map[string]any, name string, values map[string]any, includeZero bool, explicit map[string]bool) {
	section := map[string]any{}
	for key, value := range values {
		if includeZero || explicit[name+"."+key] || !isZeroValue(value) {
			section[key] = value
		}
	}
	if len(section) == 0 {
		return
	}
	layer[name] = section
}

func isZeroValue(value any) bool {
	switch typed := value.(type) {
	case string:
		return typed == ""
	case int:
		return typed == 0
	case int64:
		return typed == 0
	case bool:
		return !typed
	case nil:
		return true
	default:
		return false
	}
}
