package core

import (
	stderrors "errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput              = "CANCEL_BAD_INPUT"
	ErrorSourceUnavailable     = "CANCEL_SOURCE_UNAVAILABLE"
	ErrorSourceMalformed       = "CANCEL_SOURCE_MALFORMED"
	ErrorRemoteOperationFailed = "CANCEL_REMOTE_OPERATION_FAILED"
	ErrorResponseShapeInvalid  = "CANCEL_RESPONSE_SHAPE_INVALID"
	ErrorInternal              = "CANCEL_INTERNAL_ERROR"
)

// NewSourceUnavailableError reports an account list that cannot be opened or read.
func NewSourceUnavailableError(source error, path string) error {
	return wrapError(source, goerrors.CategoryNotFound, "source: account list is unavailable",
		http.StatusNotFound, ErrorSourceUnavailable, map[string]any{"path": path})
}

// NewSourceMalformedError reports an account list whose content cannot be
// turned into account ids.
func NewSourceMalformedError(source error, message string, metadata map[string]any) error {
	return wrapError(source, goerrors.CategoryValidation, message,
		http.StatusUnprocessableEntity, ErrorSourceMalformed, metadata)
}

func NewRemoteOperationError(source error, operation string, metadata map[string]any) error {
	fields := cloneFields(metadata)
	fields["operation"] = operation
	return wrapError(source, goerrors.CategoryExternal, "remote: "+operation+" failed",
		http.StatusBadGateway, ErrorRemoteOperationFailed, fields)
}

func NewResponseShapeError(operation string, path string, metadata map[string]any) error {
	fields := cloneFields(metadata)
	fields["operation"] = operation
	fields["path"] = path
	return wrapError(nil, goerrors.CategoryExternal, "remote: "+operation+" response is missing "+path,
		http.StatusBadGateway, ErrorResponseShapeInvalid, fields)
}

func NewBadInputError(message string, metadata map[string]any) error {
	return wrapError(nil, goerrors.CategoryBadInput, message,
		http.StatusBadRequest, ErrorBadInput, metadata)
}

func NewInternalError(message string) error {
	return wrapError(nil, goerrors.CategoryInternal, message,
		http.StatusInternalServerError, ErrorInternal, nil)
}

func IsSourceUnavailable(err error) bool {
	return hasTextCode(err, ErrorSourceUnavailable)
}

func IsSourceMalformed(err error) bool {
	return hasTextCode(err, ErrorSourceMalformed)
}

func IsRemoteOperationFailed(err error) bool {
	return hasTextCode(err, ErrorRemoteOperationFailed)
}

func IsResponseShapeInvalid(err error) bool {
	return hasTextCode(err, ErrorResponseShapeInvalid)
}

// TextCode returns the text code of a go-errors envelope, or "" for plain errors.
func TextCode(err error) string {
	var rich *goerrors.Error
	if err == nil || !goerrors.As(err, &rich) {
		return ""
	}
	return rich.TextCode
}

// hasTextCode reports whether any go-errors envelope in the chain carries code.
func hasTextCode(err error, code string) bool {
	for err != nil {
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			return false
		}
		if rich.TextCode == code {
			return true
		}
		err = stderrors.Unwrap(rich)
	}
	return false
}

func wrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, category)
	} else {
		err = goerrors.Wrap(source, category, message)
	}
	err = err.WithCode(code).WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// ErrorFields flattens an error into log fields, keeping the go-errors text
// code when the error carries one.
func ErrorFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	fields := map[string]any{"error": strings.TrimSpace(err.Error())}
	if code := TextCode(err); code != "" {
		fields["error_text_code"] = code
	}
	return fields
}

// NewMessageValidationError reports a command or query message that failed
// validation on a single field.
func NewMessageValidationError(messageType string, field string, message string) error {
	return goerrors.NewValidation(messageType+": validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput).
		WithSeverity(goerrors.SeverityError).
		WithMetadata(map[string]any{"message_type": messageType})
}
