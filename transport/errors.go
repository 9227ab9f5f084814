package transport

import (
	"github.com/goliatone/go-cancel-accounts/core"
	goerrors "github.com/goliatone/go-errors"
)

// adapterError builds the envelope returned by both adapters. The text code is
// derived from the category so callers can use the core predicates; a nil
// source yields a fresh error instead of a wrap.
func adapterError(source error, category goerrors.Category, message string, code int, metadata map[string]any) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, category)
	} else {
		err = goerrors.Wrap(source, category, message)
	}
	err = err.WithCode(code).WithTextCode(textCodeFor(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func textCodeFor(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.ErrorBadInput
	case goerrors.CategoryInternal:
		return core.ErrorInternal
	default:
		return core.ErrorRemoteOperationFailed
	}
}
