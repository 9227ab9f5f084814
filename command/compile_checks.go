package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[CancelAccountMessage] = (*CancelAccountCommand)(nil)
	_ gocmd.Commander[RevokeShareMessage]   = (*RevokeShareCommand)(nil)
)
