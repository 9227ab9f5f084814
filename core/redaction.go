package core

import "strings"

const RedactedValue = "[REDACTED]"

// RedactSensitiveMap returns a copy of metadata with credential-like keys
// replaced by RedactedValue, descending into nested maps and slices.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(metadata)
}

func redactSensitiveMap(source map[string]any) map[string]any {
	target := make(map[string]any, len(source))
	for key, value := range source {
		if shouldRedactKey(key) {
			target[key] = RedactedValue
			continue
		}
		target[key] = redactSensitiveValue(value)
	}
	return target
}

func redactSensitiveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redactSensitiveMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactSensitiveValue(typed[i])
		}
		return out
	default:
		return value
	}
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	for _, token := range []string{"password", "secret", "token", "authorization", "api_key", "api-key", "apikey", "credential"} {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "run_id", "account_id", "share_id", "operation", "request_id":
		return true
	default:
		return false
	}
}

// LogFields flattens the config for a startup log line with the api key
// redacted.
func (c Config) LogFields() map[string]any {
	return RedactSensitiveMap(map[string]any{
		"source_path":       c.Source.Path,
		"source_column":     c.Source.Column,
		"api_endpoint":      c.API.Endpoint,
		"api_key":           c.API.APIKey,
		"api_timeout":       c.APITimeout().String(),
		"rate_limit_calls":  c.RateLimit.Calls,
		"rate_limit_window": c.RateLimitWindow().String(),
		"dry_run":           c.Run.DryRun,
	})
}
