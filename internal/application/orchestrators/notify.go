package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sura/internal/adapters/email"
	"sura/internal/adapters/markdown"
	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
	"sura/internal/domain/notification"
	"sura/internal/domain/record"
)

// NotifyInput carries input for the notification e-mail orchestrator.
type NotifyInput struct {
	Actor        identity.Identity
	Resource     string
	Notification record.Record
	Request      RequestMeta
}

// NotifyDeps holds dependencies for Notify.
type NotifyDeps struct {
	Sender email.Sender
	From   string
	Audit  AuditRecorder
}

// ExecuteNotify e-mails a saved notification to its recipients.
// Several recipients get one message each, sent as a batch.
// PRE: the notification was stored by the backend
// POST: Returns how many messages the provider accepted
func ExecuteNotify(ctx context.Context, input NotifyInput, deps NotifyDeps) (int, error) {
	n := input.Notification
	recipients := email.SplitRecipients(n.String(notification.FieldRecipientEmail))
	if len(recipients) == 0 {
		return 0, email.ErrNoRecipients
	}

	subject := strings.TrimSpace(n.String(notification.FieldSubject))
	html := markdown.Render(n.String(notification.FieldBody))
	replyTo := strings.TrimSpace(n.String(notification.FieldSenderEmail))
	reqs := make([]email.SendRequest, 0, len(recipients))
	for _, to := range recipients {
		reqs = append(reqs, email.SendRequest{
			To:      []string{to},
			From:    deps.From,
			Subject: subject,
			HTML:    html,
			ReplyTo: replyTo,
		})
	}

	id, _ := n.ID()
	event := audit.NewEvent(input.Actor, audit.CategoryNotification, audit.ActionEmail).
		WithRecord(input.Resource, id)

	sent, err := send(ctx, deps.Sender, reqs)
	if err != nil {
		slog.Error("notification_email_failed", "id", id, "recipients", len(reqs), "error", err)
		recordAudit(ctx, deps.Audit,
			event.WithSeverity(audit.SeverityWarning).WithDescription("envío fallido: "+err.Error()),
			input.Request)
		return sent, err
	}

	slog.Info("notification_email_sent", "id", id, "recipients", sent)
	recordAudit(ctx, deps.Audit,
		event.WithDescription(fmt.Sprintf("enviado a %d destinatario(s)", sent)),
		input.Request)
	return sent, nil
}

func send(ctx context.Context, sender email.Sender, reqs []email.SendRequest) (int, error) {
	if len(reqs) == 1 {
		if _, err := sender.Send(ctx, reqs[0]); err != nil {
			return 0, err
		}
		return 1, nil
	}
	results, err := sender.SendBatch(ctx, reqs)
	return len(results), err
}
