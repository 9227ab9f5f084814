package core

import (
	stderrors "errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestErrorConstructors_CarryCategoryAndTextCode(t *testing.T) {
	cause := stderrors.New("boom")
	cases := []struct {
		name     string
		err      error
		category goerrors.Category
		code     int
		textCode string
	}{
		{"source unavailable", NewSourceUnavailableError(cause, "accounts.csv"), goerrors.CategoryNotFound, http.StatusNotFound, ErrorSourceUnavailable},
		{"source malformed", NewSourceMalformedError(cause, "source: bad row", map[string]any{"line": 3}), goerrors.CategoryValidation, http.StatusUnprocessableEntity, ErrorSourceMalformed},
		{"remote failed", NewRemoteOperationError(cause, "cancel", nil), goerrors.CategoryExternal, http.StatusBadGateway, ErrorRemoteOperationFailed},
		{"shape invalid", NewResponseShapeError("get_shares", "customerAdministration", nil), goerrors.CategoryExternal, http.StatusBadGateway, ErrorResponseShapeInvalid},
		{"bad input", NewBadInputError("bad", nil), goerrors.CategoryBadInput, http.StatusBadRequest, ErrorBadInput},
		{"internal", NewInternalError("wiring"), goerrors.CategoryInternal, http.StatusInternalServerError, ErrorInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rich *goerrors.Error
			if !goerrors.As(tc.err, &rich) {
				t.Fatalf("expected go-errors envelope, got %T", tc.err)
			}
			if rich.Category != tc.category {
				t.Fatalf("expected category %q, got %q", tc.category, rich.Category)
			}
			if rich.Code != tc.code {
				t.Fatalf("expected code %d, got %d", tc.code, rich.Code)
			}
			if rich.TextCode != tc.textCode {
				t.Fatalf("expected text code %q, got %q", tc.textCode, rich.TextCode)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	remote := NewRemoteOperationError(stderrors.New("timeout"), "get_shares", map[string]any{"account_id": "5"})
	if !IsRemoteOperationFailed(remote) {
		t.Fatalf("expected remote operation predicate to match")
	}
	if IsSourceUnavailable(remote) || IsSourceMalformed(remote) || IsResponseShapeInvalid(remote) {
		t.Fatalf("expected other predicates not to match")
	}
	if IsRemoteOperationFailed(stderrors.New("plain")) || IsRemoteOperationFailed(nil) {
		t.Fatalf("expected plain errors not to match")
	}
	if TextCode(stderrors.New("plain")) != "" {
		t.Fatalf("expected empty text code for plain errors")
	}
}

func TestNewRemoteOperationError_KeepsCauseAndMetadata(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewRemoteOperationError(cause, "revoke_share", map[string]any{"share_id": "s1"})

	if !stderrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope")
	}
	if rich.Metadata["operation"] != "revoke_share" || rich.Metadata["share_id"] != "s1" {
		t.Fatalf("unexpected metadata %#v", rich.Metadata)
	}
}

func TestErrorFields(t *testing.T) {
	fields := ErrorFields(NewBadInputError("accountapi: share id is required", nil))
	if fields["error_text_code"] != ErrorBadInput {
		t.Fatalf("expected text code field, got %#v", fields)
	}
	if fields["error"] == "" {
		t.Fatalf("expected error message field")
	}
	if len(ErrorFields(nil)) != 0 {
		t.Fatalf("expected no fields for nil error")
	}
	plain := ErrorFields(stderrors.New("plain"))
	if _, ok := plain["error_text_code"]; ok {
		t.Fatalf("expected no text code for plain errors")
	}
}

func TestNewMessageValidationError(t *testing.T) {
	err := NewMessageValidationError("accounts.command.cancel", "account_id", "account id must be positive")

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != ErrorBadInput || rich.Code != http.StatusBadRequest {
		t.Fatalf("unexpected code %d / %q", rich.Code, rich.TextCode)
	}
	if rich.Metadata["message_type"] != "accounts.command.cancel" {
		t.Fatalf("expected message type metadata, got %#v", rich.Metadata)
	}
}

func TestPredicatesWalkTheChain(t *testing.T) {
	shape := NewResponseShapeError("get_shares", "customerAdministration", nil)
	err := NewRemoteOperationError(shape, "get_shares", nil)

	if !IsRemoteOperationFailed(err) || !IsResponseShapeInvalid(err) {
		t.Fatalf("expected both kinds to be detectable, got %v", err)
	}
	if TextCode(err) != ErrorRemoteOperationFailed {
		t.Fatalf("expected outer text code, got %q", TextCode(err))
	}
	if IsRemoteOperationFailed(shape) {
		t.Fatalf("expected bare shape error not to match the remote kind")
	}
}
