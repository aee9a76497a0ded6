package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends collaborator invites through a plain SMTP relay.
// net/smtp is used directly; the interface boundary keeps the rest of the
// system ignorant of the transport.
type SMTPNotifier struct {
	host string
	port int
	user string
	pass string
	from string
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.User,
		pass: cfg.Pass,
		from: cfg.From,
	}
}

func (n *SMTPNotifier) SendCollaboratorInvite(ctx context.Context, in SendCollaboratorInviteInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := "Task Collaboration Invitation"
	body := fmt.Sprintf("You have been invited to collaborate on a task. %s", in.TaskID)

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + in.Email,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.pass, n.host)
	}

	// net/smtp has no context support; the circuit breaker wrapping this
	// notifier enforces the per-send timeout.
	return smtp.SendMail(addr, auth, n.from, []string{in.Email}, []byte(msg))
}
