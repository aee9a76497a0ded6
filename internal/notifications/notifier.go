package notifications

import "context"

type SendCollaboratorInviteInput struct {
	Email     string
	TaskID    string
	TaskTitle string
}

// Notifier delivers best-effort mail. Delivery failure never reverts the
// mutation that triggered it; callers commit first and notify after.
type Notifier interface {
	SendCollaboratorInvite(ctx context.Context, input SendCollaboratorInviteInput) error
}
