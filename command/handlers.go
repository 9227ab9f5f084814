package command

import (
	"context"

	"github.com/goliatone/go-cancel-accounts/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingService interface {
	RevokeShare(ctx context.Context, shareID string) (core.AccountShare, error)
	Cancel(ctx context.Context, accountID core.AccountID) (core.CancellationResult, error)
}

type CancelAccountCommand struct {
	service MutatingService
}

func NewCancelAccountCommand(service MutatingService) *CancelAccountCommand {
	return &CancelAccountCommand{service: service}
}

func (c *CancelAccountCommand) Execute(ctx context.Context, msg CancelAccountMessage) error {
	if c == nil || c.service == nil {
		return core.NewInternalError("command: cancel service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.Cancel(ctx, msg.AccountID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RevokeShareCommand struct {
	service MutatingService
}

func NewRevokeShareCommand(service MutatingService) *RevokeShareCommand {
	return &RevokeShareCommand{service: service}
}

func (c *RevokeShareCommand) Execute(ctx context.Context, msg RevokeShareMessage) error {
	if c == nil || c.service == nil {
		return core.NewInternalError("command: revoke share service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.RevokeShare(ctx, msg.ShareID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
