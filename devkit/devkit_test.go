package devkit

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cancel-accounts/core"
)

func TestFakeEndpoint_RepliesInOrderAndRecordsCalls(t *testing.T) {
	endpoint := NewFakeEndpoint(
		Errors("throttled"),
		Data(`{"data":{"ok":true}}`),
	)
	ctx := context.Background()

	first, err := endpoint.Do(ctx, core.TransportRequest{Metadata: map[string]any{
		"operation_name": "Ping",
		"query":          "query Ping { ping }",
		"variables":      map[string]any{"id": 7},
	}})
	if err != nil {
		t.Fatalf("first fake call: %v", err)
	}
	if string(first.Body) != `{"data":null,"errors":[{"message":"throttled"}]}` {
		t.Fatalf("unexpected scripted errors body %s", first.Body)
	}

	second, err := endpoint.Do(ctx, core.TransportRequest{})
	if err != nil {
		t.Fatalf("second fake call: %v", err)
	}
	if second.StatusCode != 200 || string(second.Body) != `{"data":{"ok":true}}` {
		t.Fatalf("unexpected second reply %d %s", second.StatusCode, second.Body)
	}

	calls := endpoint.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected two recorded calls, got %d", len(calls))
	}
	if calls[0].OperationName != "Ping" || calls[0].Query != "query Ping { ping }" || calls[0].Variables["id"] != 7 {
		t.Fatalf("unexpected first call %+v", calls[0])
	}
	if calls[1].OperationName != "" || len(calls[1].Variables) != 0 {
		t.Fatalf("expected empty second call, got %+v", calls[1])
	}
}

func TestFakeEndpoint_RepeatsLastReply(t *testing.T) {
	boom := errors.New("connection reset")
	endpoint := NewFakeEndpoint(Unreachable(boom))

	for i := 0; i < 2; i++ {
		if _, err := endpoint.Do(context.Background(), core.TransportRequest{}); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected scripted failure, got %v", i, err)
		}
	}
}

func TestFakeEndpoint_DefaultsToEmptyData(t *testing.T) {
	res, err := NewFakeEndpoint().Do(context.Background(), core.TransportRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 || string(res.Body) != `{"data":{}}` {
		t.Fatalf("unexpected default reply %d %s", res.StatusCode, res.Body)
	}
}

func TestFakeOperations_RecordsCallsInOrder(t *testing.T) {
	log := &CallLog{}
	limiter := &FakeLimiter{Log: log}
	ops := NewFakeOperations(log)
	ops.Shares[7] = []core.AccountShare{{ID: "s1", AccountID: 7}}
	ops.RevokeErr["s1"] = errors.New("forbidden")

	ctx := context.Background()
	_ = limiter.Admit(ctx)
	if _, err := ops.GetShares(ctx, 7); err != nil {
		t.Fatalf("get shares: %v", err)
	}
	if _, err := ops.RevokeShare(ctx, "s1"); err == nil {
		t.Fatalf("expected scripted revoke failure")
	}
	result, err := ops.Cancel(ctx, 7)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !result.Canceled() {
		t.Fatalf("expected default cancel result to be canceled")
	}

	want := []string{"admit", "get_shares:7", "revoke:s1", "cancel:7"}
	got := log.Calls()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, got)
		}
	}
	if log.Count("admit") != 1 {
		t.Fatalf("expected one admission")
	}
}
