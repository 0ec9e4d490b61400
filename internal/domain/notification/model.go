// Package notification holds the backend fields of a notification and the
// rules for stamping it when it is sent.
package notification

import (
	"strings"
	"time"

	"sura/internal/domain/record"
)

// Backend field names for a notification.
const (
	FieldSenderEmail    = "emailRemitente"
	FieldRecipientEmail = "emailDestinatario"
	FieldSubject        = "asunto"
	FieldBody           = "cuerpoMensaje"
	FieldCreatedDate    = "fechaCreacion"
	FieldSentDate       = "fechaEnvio"
	FieldSentTime       = "horaEnvio"
	FieldActive         = "estado"
)

// Stamp fills the creation and send dates left blank on a new notification.
// PRE: r is the decoded form of a create
// POST: returns a copy; fields already set are kept
func Stamp(r record.Record, now time.Time) record.Record {
	out := r.Clone()
	setIfBlank(out, FieldCreatedDate, now.Format("2006-01-02"))
	setIfBlank(out, FieldSentDate, now.Format("2006-01-02"))
	setIfBlank(out, FieldSentTime, now.Format("15:04"))
	return out
}

func setIfBlank(r record.Record, field, value string) {
	if strings.TrimSpace(r.String(field)) == "" {
		r[field] = value
	}
}
