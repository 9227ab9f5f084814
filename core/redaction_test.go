package core

import "testing"

func TestRedactSensitiveMapPreservesTraceabilityMetadata(t *testing.T) {
	redacted := RedactSensitiveMap(map[string]any{
		"run_id":        "run_1",
		"account_id":    "7",
		"api_key":       "secret-key",
		"authorization": "Bearer secret-token",
		"nested":        map[string]any{"API-Key": "key", "share_id": "s1"},
		"events":        []any{map[string]any{"password": "pw"}, map[string]any{"operation": "cancel"}},
	})

	if redacted["run_id"] != "run_1" || redacted["account_id"] != "7" {
		t.Fatalf("expected traceability keys to remain visible, got %#v", redacted)
	}
	if redacted["api_key"] != RedactedValue || redacted["authorization"] != RedactedValue {
		t.Fatalf("expected credentials to be redacted, got %#v", redacted)
	}
	nested, ok := redacted["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested redacted map")
	}
	if nested["API-Key"] != RedactedValue {
		t.Fatalf("expected nested api key header to be redacted, got %#v", nested["API-Key"])
	}
	if nested["share_id"] != "s1" {
		t.Fatalf("expected nested share_id to remain visible, got %#v", nested["share_id"])
	}
	events := redacted["events"].([]any)
	if events[0].(map[string]any)["password"] != RedactedValue {
		t.Fatalf("expected password inside slice to be redacted")
	}
}

func TestConfigLogFieldsRedactsAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.APIKey = "NRAK-123"
	cfg.API.Endpoint = "https://api.example.test/graphql"

	fields := cfg.LogFields()
	if fields["api_key"] != RedactedValue {
		t.Fatalf("expected api key to be redacted, got %#v", fields["api_key"])
	}
	if fields["api_endpoint"] != cfg.API.Endpoint {
		t.Fatalf("expected endpoint to stay visible")
	}
	if fields["rate_limit_window"] != "1m0s" {
		t.Fatalf("expected formatted window, got %#v", fields["rate_limit_window"])
	}
}
