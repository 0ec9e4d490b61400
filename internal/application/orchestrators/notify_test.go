package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sura/internal/adapters/email"
	"sura/internal/domain/audit"
	"sura/internal/domain/record"
)

func notificationFixture(to string) record.Record {
	return record.Record{
		"id":                int64(12),
		"emailRemitente":    "luis@sura.edu",
		"emailDestinatario": to,
		"asunto":            "Examen final",
		"cuerpoMensaje":     "El examen es el **lunes**",
	}
}

// TestExecuteNotify_Single verifies one recipient uses Send with rendered Markdown.
func TestExecuteNotify_Single(t *testing.T) {
	s := &mockSender{}
	aud := &mockAudit{}
	n, err := ExecuteNotify(context.Background(), NotifyInput{Actor: teacher, Resource: "notificaciones", Notification: notificationFixture("ana@sura.edu")},
		NotifyDeps{Sender: s, From: "Sura <notificaciones@sura.edu>", Audit: aud})
	if err != nil || n != 1 {
		t.Fatalf("ExecuteNotify = %d, %v", n, err)
	}
	if s.batches != 0 || len(s.sent) != 1 {
		t.Fatalf("sent = %d batches = %d", len(s.sent), s.batches)
	}
	req := s.sent[0]
	if req.Subject != "Examen final" || req.ReplyTo != "luis@sura.edu" || req.From != "Sura <notificaciones@sura.edu>" {
		t.Errorf("request = %+v", req)
	}
	if !strings.Contains(req.HTML, "<strong>lunes</strong>") {
		t.Errorf("body not rendered: %q", req.HTML)
	}
	if e := aud.last(); e.Action != audit.ActionEmail || e.Resource != "notificaciones" || e.RecordID != "12" {
		t.Errorf("audit = %+v", e)
	}
}

// TestExecuteNotify_Batch verifies several recipients get one message each.
func TestExecuteNotify_Batch(t *testing.T) {
	s := &mockSender{}
	n, err := ExecuteNotify(context.Background(), NotifyInput{Notification: notificationFixture("a@sura.edu; b@sura.edu")},
		NotifyDeps{Sender: s})
	if err != nil || n != 2 {
		t.Fatalf("ExecuteNotify = %d, %v", n, err)
	}
	if s.batches != 1 || len(s.sent) != 2 || len(s.sent[1].To) != 1 || s.sent[1].To[0] != "b@sura.edu" {
		t.Errorf("sent = %+v", s.sent)
	}
}

// TestExecuteNotify_Failures covers missing recipients and provider errors.
func TestExecuteNotify_Failures(t *testing.T) {
	if _, err := ExecuteNotify(context.Background(), NotifyInput{Notification: notificationFixture(" ")}, NotifyDeps{Sender: &mockSender{}}); !errors.Is(err, email.ErrNoRecipients) {
		t.Errorf("err = %v, want ErrNoRecipients", err)
	}
	aud := &mockAudit{}
	s := &mockSender{err: errors.New("quota")}
	if _, err := ExecuteNotify(context.Background(), NotifyInput{Notification: notificationFixture("ana@sura.edu")}, NotifyDeps{Sender: s, Audit: aud}); err == nil {
		t.Error("expected provider error")
	}
	if e := aud.last(); e.Severity != audit.SeverityWarning {
		t.Errorf("failed send audit = %+v", e)
	}
}
