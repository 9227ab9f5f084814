package cancelaccounts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goliatone/go-cancel-accounts/cancellation"
	"github.com/goliatone/go-cancel-accounts/core"
	"github.com/goliatone/go-cancel-accounts/devkit"
)

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	return l.values, nil
}

type graphQLServer struct {
	mu         sync.Mutex
	operations []string
	apiKeys    []string
}

func (s *graphQLServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.operations = append(s.operations, payload.OperationName)
		s.apiKeys = append(s.apiKeys, r.Header.Get("API-Key"))
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch payload.OperationName {
		case "GetCanceledAccounts":
			_, _ = w.Write([]byte(`{"data":{"actor":{"organization":{"accountManagement":{"managedAccounts":[
				{"id":2,"name":"two","isCanceled":true,"regionCode":"us01"}
			]}}}}}`))
		case "GetAccountShares":
			if payload.Variables["accountId"] == float64(3) {
				_, _ = w.Write([]byte(`{"data":{"customerAdministration":{"accountShares":{"items":[
					{"accountId":3,"id":"s1","name":"shared"}
				]}}}}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"customerAdministration":{"accountShares":{"items":[]}}}}`))
		case "RevokeSharedAccount":
			_, _ = w.Write([]byte(`{"data":{"organizationRevokeSharedAccount":{"sharedAccount":{"accountId":3,"id":"s1","name":"shared"}}}}`))
		case "CancelAccount":
			_, _ = w.Write([]byte(`{"data":{"accountManagementCancelAccount":{"id":1,"isCanceled":true,"name":"one"}}}`))
		default:
			t.Errorf("unexpected operation %q", payload.OperationName)
		}
	}
}

func testConfig(t *testing.T, endpoint string) Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.csv")
	if err := os.WriteFile(path, []byte("account_id\n1\n2\n3\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Source.Path = path
	cfg.API.Endpoint = endpoint
	cfg.API.APIKey = "secret"
	return cfg
}

func TestSetup_RunsEndToEndAgainstGraphQLServer(t *testing.T) {
	remote := &graphQLServer{}
	server := httptest.NewServer(remote.handler(t))
	defer server.Close()

	app, err := Setup(testConfig(t, server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	report, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"GetCanceledAccounts",
		"GetAccountShares", "CancelAccount",
		"GetAccountShares", "RevokeSharedAccount", "CancelAccount",
	}
	if len(remote.operations) != len(want) {
		t.Fatalf("expected operations %v, got %v", want, remote.operations)
	}
	for i := range want {
		if remote.operations[i] != want[i] {
			t.Fatalf("expected operations %v, got %v", want, remote.operations)
		}
	}
	for _, key := range remote.apiKeys {
		if key != "secret" {
			t.Fatalf("expected api key on every request, got %q", key)
		}
	}
	if len(report.AlreadyCanceled) != 1 || report.AlreadyCanceled[0] != 2 {
		t.Fatalf("expected account 2 to be skipped, got %v", report.AlreadyCanceled)
	}
	if report.Count(cancellation.StatusCanceled) != 2 {
		t.Fatalf("expected two canceled accounts, got %+v", report.Outcomes)
	}
}

func TestSetup_UsesInjectedCollaborators(t *testing.T) {
	log := &devkit.CallLog{}
	ops := devkit.NewFakeOperations(log)
	cfg := testConfig(t, "https://api.example.test/graphql")
	cfg.Run.DryRun = true

	app, err := Setup(cfg, WithOperations(ops), WithRateLimiter(&devkit.FakeLimiter{Log: log}))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	report, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.DryRun {
		t.Fatalf("expected dry run report")
	}
	if log.Count("cancel:1") != 0 {
		t.Fatalf("expected no cancel calls in dry run, got %v", log.Calls())
	}
	if log.Count("admit") != 4 {
		t.Fatalf("expected four admissions, got %v", log.Calls())
	}
}

func TestSetup_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := Setup(cfg); err == nil {
		t.Fatalf("expected validation error for empty config")
	}
}

func TestApp_RunFailsOnMissingSource(t *testing.T) {
	cfg := testConfig(t, "https://api.example.test/graphql")
	cfg.Source.Path = filepath.Join(t.TempDir(), "missing.csv")
	log := &devkit.CallLog{}

	app, err := Setup(cfg, WithOperations(devkit.NewFakeOperations(log)), WithRateLimiter(&devkit.FakeLimiter{Log: log}))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := app.Run(context.Background()); !core.IsSourceUnavailable(err) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	if calls := log.Calls(); len(calls) != 0 {
		t.Fatalf("expected no remote calls, got %v", calls)
	}
}

func TestLoadConfig_RuntimeOverridesLoadedValues(t *testing.T) {
	loader := mapRawLoader{values: map[string]any{
		"source": map[string]any{"path": "accounts.csv"},
		"api":    map[string]any{"endpoint": "https://api.example.test/graphql", "api_key": "from-file"},
	}}
	runtime := Config{Run: core.RunConfig{DryRun: true}}

	cfg, err := LoadConfig(context.Background(), loader, runtime)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Source.Path != "accounts.csv" || cfg.API.APIKey != "from-file" {
		t.Fatalf("expected loaded values, got %+v", cfg)
	}
	if !cfg.Run.DryRun {
		t.Fatalf("expected runtime dry run override")
	}
	if cfg.RateLimit.Calls != core.DefaultRateLimitCalls || cfg.Source.Column != core.DefaultSourceColumn {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
}

func TestLoadConfig_ExplicitKeysLetFalseOverrideLoaded(t *testing.T) {
	loader := mapRawLoader{values: map[string]any{
		"source": map[string]any{"path": "accounts.csv"},
		"api":    map[string]any{"endpoint": "https://api.example.test/graphql", "api_key": "from-file"},
		"run":    map[string]any{"dry_run": true},
	}}

	cfg, err := LoadConfig(context.Background(), loader, Config{}, "run.dry_run")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Run.DryRun {
		t.Fatalf("expected explicit runtime false to override the loaded dry run")
	}
}
