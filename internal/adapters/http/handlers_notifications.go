package web

import (
	"net/http"

	"sura/internal/adapters/http/forms"
	"sura/internal/application/orchestrators"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// notify e-mails a notification the backend just stored. Delivery problems
// are logged by ExecuteNotify and never undo the save.
func (s *server) notify(r *http.Request, actor identity.Identity, saved record.Record) {
	_, _ = orchestrators.ExecuteNotify(r.Context(), orchestrators.NotifyInput{
		Actor:        actor,
		Resource:     forms.Notifications.Resource,
		Notification: saved,
		Request:      requestMeta(r),
	}, orchestrators.NotifyDeps{
		Sender: s.sender,
		From:   s.cfg.MailFrom,
		Audit:  s.auditRecorder(),
	})
}
